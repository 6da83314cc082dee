package pipeline

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saathi-labs/saathi/config"
	"github.com/saathi-labs/saathi/internal/helpers"
	"github.com/saathi-labs/saathi/internal/media"
	"github.com/saathi-labs/saathi/internal/telemetry"
	"github.com/saathi-labs/saathi/models"
	"github.com/saathi-labs/saathi/tools/web_search"
	searchmodels "github.com/saathi-labs/saathi/tools/web_search/models"
)

// Orchestrator sequences the pipeline steps: transcription, screen analysis,
// the web research decision, search, and synthesis. It holds no per-request
// state; every request is independent.
type Orchestrator struct {
	cfg       *config.Config
	logger    *log.Logger
	telemetry *telemetry.Telemetry

	transcriber Transcriber
	vision      VisionAnalyzer
	searcher    Searcher // nil when search is not configured
	synthesizer Synthesizer
	fetcher     Fetcher // nil unless top-result enrichment is enabled

	policy SearchPolicy
}

// NewOrchestrator creates a new orchestrator instance.
func NewOrchestrator(cfg *config.Config, logger *log.Logger, tele *telemetry.Telemetry,
	transcriber Transcriber, vision VisionAnalyzer, searcher Searcher, synthesizer Synthesizer) *Orchestrator {
	if logger == nil {
		logger = log.New(log.Writer(), "[PIPELINE] ", log.LstdFlags)
	}
	return &Orchestrator{
		cfg:         cfg,
		logger:      logger,
		telemetry:   tele,
		transcriber: transcriber,
		vision:      vision,
		searcher:    searcher,
		synthesizer: synthesizer,
		policy:      DefaultSearchPolicy,
	}
}

// SetSearchPolicy replaces the default query heuristic.
func (o *Orchestrator) SetSearchPolicy(p SearchPolicy) {
	if p != nil {
		o.policy = p
	}
}

// SetFetcher enables top-result page enrichment.
func (o *Orchestrator) SetFetcher(f Fetcher) { o.fetcher = f }

// Process runs the full pipeline for one request.
func (o *Orchestrator) Process(ctx context.Context, input QueryInput) (FinalResponse, error) {
	requestID := uuid.New().String()
	startTime := time.Now()

	resp, err := o.process(ctx, requestID, input)

	ev := telemetry.RequestEvent{
		ID:             requestID,
		Query:          resp.Query,
		StartTime:      startTime,
		EndTime:        time.Now(),
		ProcessingTime: time.Since(startTime),
		Success:        err == nil,
		UsedScreen:     resp.HasScreenContext,
		UsedWebSearch:  resp.UsedWebSearch,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	if o.telemetry != nil {
		o.telemetry.RecordRequestEvent(ev)
	}
	return resp, err
}

func (o *Orchestrator) process(ctx context.Context, requestID string, input QueryInput) (FinalResponse, error) {
	// Step 1: obtain the query text, from audio or direct text.
	query := strings.TrimSpace(input.Text)
	if input.Audio != nil {
		transcript, err := o.Transcribe(ctx, input.Audio.Data, input.Audio.Filename)
		if err != nil {
			return FinalResponse{}, err
		}
		query = transcript
		o.logger.Printf("[%s] transcribed query: %q", requestID, helpers.Truncate(query, 120))
	}
	if query == "" {
		return FinalResponse{}, invalidf(StepInput, "either 'audio' or 'text' parameter is required")
	}

	result := FinalResponse{Query: query}

	// Step 2: screenshot analysis.
	var screenContext string
	var suggestedQuery string
	visionWantsSearch := false
	if len(input.Image) > 0 {
		jpeg, err := o.normalizeImage(requestID, input.Image)
		if err != nil {
			return result, err
		}

		sc, err := o.timedAnalyzeWithQuery(ctx, requestID, jpeg, query)
		if err != nil {
			return result, classify(StepAnalyze, err)
		}
		result.HasScreenContext = true
		visionWantsSearch = sc.NeedsWebResearch
		suggestedQuery = sc.SearchQuery

		screenContext = sc.Description
		if sc.BrandName != "" {
			screenContext += "\nBrand/Product Detected: " + sc.BrandName
		}
		if sc.PriceShown != "" {
			screenContext += "\nPrice Shown: " + sc.PriceShown
		}
		if sc.NeedsWebResearch && sc.WhyResearch != "" {
			o.logger.Printf("[%s] research recommended: %s", requestID, sc.WhyResearch)
		}
	}

	// Step 3: web research decision and search.
	var searchContext string
	if visionWantsSearch || o.policy(query) {
		searchQuery := suggestedQuery
		if searchQuery == "" {
			searchQuery = query
		}
		results, err := o.timedSearch(ctx, requestID, searchQuery)
		if err != nil {
			return result, classify(StepSearch, err)
		}
		if len(results) > 0 {
			result.UsedWebSearch = true
			searchContext = web_search.Summary(results)
			if o.fetcher != nil {
				if excerpt, err := o.fetcher.Excerpt(results[0].URL); err == nil {
					searchContext += "\n\nTop result excerpt:\n" + excerpt
				} else {
					o.logger.Printf("[%s] top result fetch skipped: %v", requestID, err)
				}
			}
		} else {
			o.logger.Printf("[%s] search returned no results", requestID)
		}
	}

	// Step 4: synthesis with whatever context is available.
	answer, err := o.timedSynthesize(ctx, requestID, query, screenContext, searchContext)
	if err != nil {
		return result, classify(StepSynthesize, err)
	}
	result.Response = answer
	return result, nil
}

// Transcribe validates the audio payload and converts it to text.
func (o *Orchestrator) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", invalidf(StepTranscribe, "audio payload is empty")
	}
	if int64(len(audio)) > o.cfg.Limits.MaxAudioBytes {
		return "", invalidf(StepTranscribe, "audio size %.2fMB exceeds maximum %.2fMB",
			float64(len(audio))/(1<<20), float64(o.cfg.Limits.MaxAudioBytes)/(1<<20))
	}

	start := time.Now()
	transcript, err := o.transcriber.Transcribe(ctx, audio, filename)
	o.recordStep(StepTranscribe, start, err)
	if err != nil {
		return "", classify(StepTranscribe, err)
	}
	if strings.TrimSpace(transcript) == "" {
		return "", invalidf(StepTranscribe, "no speech recognized in audio")
	}
	return strings.TrimSpace(transcript), nil
}

// AnalyzeScreen normalizes the image and returns a short description of it,
// without a guiding query.
func (o *Orchestrator) AnalyzeScreen(ctx context.Context, image []byte) (string, error) {
	jpeg, err := o.normalizeImage("", image)
	if err != nil {
		return "", err
	}
	start := time.Now()
	description, err := o.vision.AnalyzeScreen(ctx, jpeg)
	o.recordStep(StepAnalyze, start, err)
	if err != nil {
		return "", classify(StepAnalyze, err)
	}
	return description, nil
}

func (o *Orchestrator) normalizeImage(requestID string, raw []byte) ([]byte, error) {
	start := time.Now()
	jpeg, err := media.ProcessScreenshot(raw, o.cfg.Limits)
	o.recordStep(StepImage, start, err)
	if err != nil {
		o.logger.Printf("[%s] screenshot rejected: %v", requestID, err)
		return nil, &Error{Kind: KindInvalidInput, Step: StepImage, Err: err}
	}
	return jpeg, nil
}

func (o *Orchestrator) timedAnalyzeWithQuery(ctx context.Context, requestID string, jpeg []byte, query string) (models.ScreenContext, error) {
	start := time.Now()
	sc, err := o.vision.AnalyzeScreenWithQuery(ctx, jpeg, query)
	o.recordStep(StepAnalyze, start, err)
	return sc, err
}

func (o *Orchestrator) timedSearch(ctx context.Context, requestID, query string) ([]searchmodels.Result, error) {
	if o.searcher == nil {
		o.logger.Printf("[%s] search wanted but no provider configured", requestID)
		return nil, nil
	}
	k := o.cfg.Search.MaxResults
	if k <= 0 {
		k = 5
	}
	start := time.Now()
	results, err := o.searcher.Search(ctx, query, k)
	o.recordStep(StepSearch, start, err)
	if err != nil {
		return nil, err
	}
	o.logger.Printf("[%s] search %q returned %d results", requestID, helpers.Truncate(query, 80), len(results))
	return results, nil
}

func (o *Orchestrator) timedSynthesize(ctx context.Context, requestID, query, screenContext, searchContext string) (string, error) {
	start := time.Now()
	answer, err := o.synthesizer.GenerateResponse(ctx, query, screenContext, searchContext)
	o.recordStep(StepSynthesize, start, err)
	return answer, err
}

func (o *Orchestrator) recordStep(step string, start time.Time, err error) {
	if o.telemetry == nil {
		return
	}
	ev := telemetry.StepEvent{
		Step:     step,
		Duration: time.Since(start),
		Success:  err == nil,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	o.telemetry.RecordStepEvent(ev)
}
