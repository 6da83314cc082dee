package web_search

import (
	"context"
	"fmt"
	"strings"

	"github.com/saathi-labs/saathi/internal/helpers"
	"github.com/saathi-labs/saathi/tools/web_search/models"
)

// Summary formats results into the numbered block handed to synthesis.
// Snippets can carry markup from the provider, so each text field is run
// through the strict HTML policy first.
func Summary(results []models.Result) string {
	if len(results) == 0 {
		return "No search results found."
	}

	var b strings.Builder
	for i, r := range results {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, helpers.SanitizeHTMLStrict(r.Title))
		if r.Source != "" {
			fmt.Fprintf(&b, "   Source: %s\n", helpers.SanitizeHTMLStrict(r.Source))
		}
		fmt.Fprintf(&b, "   Info: %s\n\n", helpers.SanitizeHTMLStrict(r.Snippet))
	}
	return strings.TrimRight(b.String(), "\n")
}

// BrandResearch runs a few focused queries about a brand and merges the hits.
func BrandResearch(ctx context.Context, s WebSearcher, brand string) ([]models.Result, error) {
	queries := []string{
		brand + " reviews",
		brand + " authentic or fake",
		brand + " official price",
	}

	var all []models.Result
	for _, q := range queries {
		results, err := s.Search(ctx, q, 3)
		if err != nil {
			return nil, fmt.Errorf("brand research query %q: %w", q, err)
		}
		all = append(all, results...)
	}

	if len(all) > 8 {
		all = all[:8]
	}
	return all, nil
}
