package web_search

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/saathi-labs/saathi/config"
	"github.com/saathi-labs/saathi/tools/web_search/brave"
	"github.com/saathi-labs/saathi/tools/web_search/google"
	"github.com/saathi-labs/saathi/tools/web_search/models"
	"github.com/saathi-labs/saathi/tools/web_search/serper"
)

// WebSearcher performs a web search and returns at most k results.
type WebSearcher interface {
	Search(ctx context.Context, q string, k int) ([]models.Result, error)
}

type Provider string

const (
	GoogleProvider Provider = "google"
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

var ErrUnsupportedProvider = &Error{"unsupported provider"}

// NewWebSearcher builds a searcher for the configured provider. It returns
// (nil, nil) when no provider is set or its credentials are absent so callers
// can treat search as an optional capability.
func NewWebSearcher(cfg config.SearchConfig) (WebSearcher, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	httpc := &http.Client{Timeout: timeout}

	switch Provider(cfg.Provider) {
	case "":
		return nil, nil
	case GoogleProvider:
		if cfg.GoogleAPIKey == "" || cfg.GoogleEngineID == "" {
			return nil, nil
		}
		return google.Search{ApiKey: cfg.GoogleAPIKey, EngineID: cfg.GoogleEngineID, Client: httpc}, nil
	case SerperProvider:
		if cfg.SerperAPIKey == "" {
			return nil, nil
		}
		return serper.Search{ApiKey: cfg.SerperAPIKey, Client: httpc}, nil
	case BraveProvider:
		if cfg.BraveAPIKey == "" {
			return nil, nil
		}
		return brave.Search{ApiKey: cfg.BraveAPIKey, Client: httpc}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}
