package transcribe

import (
	"context"

	"github.com/saathi-labs/saathi/config"
	groq_provider "github.com/saathi-labs/saathi/provider/groq"
	"github.com/saathi-labs/saathi/tools/transcribe/deepgram"
)

// Transcriber converts recorded audio to text. The filename hints the
// container format to the backend.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

type Provider string

const (
	GroqProvider     Provider = "groq"
	DeepgramProvider Provider = "deepgram"
)

type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

var ErrUnsupportedProvider = &Error{"unsupported provider"}

// NewTranscriber selects the speech-to-text backend. The Groq client is shared
// with synthesis, so it is passed in rather than constructed here.
func NewTranscriber(provider Provider, groqClient *groq_provider.Client, cfg config.DeepgramConfig) (Transcriber, error) {
	switch provider {
	case GroqProvider:
		return groqClient, nil
	case DeepgramProvider:
		return deepgram.Transcriber{ApiKey: cfg.APIKey, Model: cfg.Model}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
