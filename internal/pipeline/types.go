package pipeline

import (
	"context"

	"github.com/saathi-labs/saathi/models"
	searchmodels "github.com/saathi-labs/saathi/tools/web_search/models"
)

// Pipeline step names, used in error tagging, logs and telemetry.
const (
	StepInput      = "input"
	StepTranscribe = "transcribe"
	StepImage      = "normalize_image"
	StepAnalyze    = "analyze_screen"
	StepSearch     = "web_search"
	StepSynthesize = "synthesize"
)

// AudioPayload carries raw audio bytes plus the filename hint the speech API
// uses for format detection.
type AudioPayload struct {
	Data     []byte
	Filename string
}

// QueryInput is one request into the pipeline. All fields are optional but at
// least text or audio must be present.
type QueryInput struct {
	Text  string
	Audio *AudioPayload
	Image []byte
}

// FinalResponse is the synthesized answer plus flags describing which context
// sources contributed to it.
type FinalResponse struct {
	Query            string `json:"query"`
	Response         string `json:"response"`
	HasScreenContext bool   `json:"has_screen_context"`
	UsedWebSearch    bool   `json:"used_web_search"`
}

// Transcriber converts recorded audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// VisionAnalyzer analyzes a normalized screenshot.
type VisionAnalyzer interface {
	AnalyzeScreenWithQuery(ctx context.Context, jpeg []byte, query string) (models.ScreenContext, error)
	AnalyzeScreen(ctx context.Context, jpeg []byte) (string, error)
}

// Searcher performs a web search.
type Searcher interface {
	Search(ctx context.Context, q string, k int) ([]searchmodels.Result, error)
}

// Synthesizer produces the final natural-language answer.
type Synthesizer interface {
	GenerateResponse(ctx context.Context, query, screenContext, searchResults string) (string, error)
}

// Fetcher extracts a readable excerpt from a web page.
type Fetcher interface {
	Excerpt(url string) (string, error)
}
