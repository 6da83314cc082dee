package web_fetch

import (
	"fmt"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/saathi-labs/saathi/internal/helpers"
)

const (
	DefaultTimeout  = 10 * time.Second
	MaxCharsDefault = 1500
)

// Fetcher pulls the readable text of a web page, used to enrich the top
// search result with an excerpt of the page itself.
type Fetcher struct {
	Timeout  time.Duration
	MaxChars int
}

// Excerpt fetches url and extracts a readable plain-text excerpt.
func (f Fetcher) Excerpt(url string) (string, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxChars := f.MaxChars
	if maxChars <= 0 {
		maxChars = MaxCharsDefault
	}

	article, err := readability.FromURL(url, timeout)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}

	text := helpers.SanitizeHTMLStrict(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no readable content at %s", url)
	}
	return helpers.Truncate(text, maxChars), nil
}
