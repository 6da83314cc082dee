package web_search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/saathi-labs/saathi/config"
	"github.com/saathi-labs/saathi/tools/web_search/brave"
	"github.com/saathi-labs/saathi/tools/web_search/google"
	"github.com/saathi-labs/saathi/tools/web_search/models"
	"github.com/saathi-labs/saathi/tools/web_search/serper"
)

func TestNewWebSearcher(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.SearchConfig
		want    any
		wantNil bool
		wantErr bool
	}{
		{name: "google", cfg: config.SearchConfig{Provider: "google", GoogleAPIKey: "k", GoogleEngineID: "cx"}, want: google.Search{}},
		{name: "google without creds", cfg: config.SearchConfig{Provider: "google"}, wantNil: true},
		{name: "serper", cfg: config.SearchConfig{Provider: "serper", SerperAPIKey: "k"}, want: serper.Search{}},
		{name: "serper without creds", cfg: config.SearchConfig{Provider: "serper"}, wantNil: true},
		{name: "brave", cfg: config.SearchConfig{Provider: "brave", BraveAPIKey: "k"}, want: brave.Search{}},
		{name: "brave without creds", cfg: config.SearchConfig{Provider: "brave"}, wantNil: true},
		{name: "no provider disables search", cfg: config.SearchConfig{}, wantNil: true},
		{name: "unsupported", cfg: config.SearchConfig{Provider: "bing"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewWebSearcher(tc.cfg)
			if tc.wantErr {
				if !errors.Is(err, ErrUnsupportedProvider) {
					t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewWebSearcher: %v", err)
			}
			if tc.wantNil {
				if s != nil {
					t.Fatalf("expected nil searcher, got %T", s)
				}
				return
			}
			switch tc.want.(type) {
			case google.Search:
				if _, ok := s.(google.Search); !ok {
					t.Fatalf("expected google.Search, got %T", s)
				}
			case serper.Search:
				if _, ok := s.(serper.Search); !ok {
					t.Fatalf("expected serper.Search, got %T", s)
				}
			case brave.Search:
				if _, ok := s.(brave.Search); !ok {
					t.Fatalf("expected brave.Search, got %T", s)
				}
			}
		})
	}
}

func TestSummary(t *testing.T) {
	results := []models.Result{
		{Title: "Air Jordan 1 <b>Review</b>", URL: "https://example.com/1", Snippet: "A detailed review.", Source: "example.com"},
		{Title: "Sneaker guide", URL: "https://example.com/2", Snippet: "How to spot fakes."},
	}
	out := Summary(results)

	if !strings.HasPrefix(out, "1. Air Jordan 1 Review") {
		t.Errorf("unexpected first line:\n%s", out)
	}
	if strings.Contains(out, "<b>") {
		t.Errorf("markup must be stripped:\n%s", out)
	}
	if !strings.Contains(out, "Source: example.com") {
		t.Errorf("missing source line:\n%s", out)
	}
	if !strings.Contains(out, "2. Sneaker guide") {
		t.Errorf("missing second result:\n%s", out)
	}
}

func TestSummaryEmpty(t *testing.T) {
	if got := Summary(nil); got != "No search results found." {
		t.Fatalf("unexpected empty summary %q", got)
	}
}

func TestSummaryCapsAtFive(t *testing.T) {
	var results []models.Result
	for i := 0; i < 8; i++ {
		results = append(results, models.Result{Title: "t", Snippet: "s"})
	}
	out := Summary(results)
	if strings.Contains(out, "6. ") {
		t.Fatalf("summary should cap at five results:\n%s", out)
	}
}

type recordingSearcher struct {
	queries []string
	results []models.Result
	err     error
}

func (r *recordingSearcher) Search(ctx context.Context, q string, k int) ([]models.Result, error) {
	r.queries = append(r.queries, q)
	return r.results, r.err
}

func TestBrandResearch(t *testing.T) {
	s := &recordingSearcher{results: []models.Result{{Title: "hit"}, {Title: "hit"}, {Title: "hit"}}}
	results, err := BrandResearch(context.Background(), s, "Air Jordan 1")
	if err != nil {
		t.Fatalf("BrandResearch: %v", err)
	}
	if len(s.queries) != 3 {
		t.Fatalf("expected 3 queries, got %v", s.queries)
	}
	for _, q := range s.queries {
		if !strings.HasPrefix(q, "Air Jordan 1 ") {
			t.Errorf("query %q does not start with brand", q)
		}
	}
	// 3 queries x 3 hits, capped at 8
	if len(results) != 8 {
		t.Fatalf("expected 8 merged results, got %d", len(results))
	}
}

func TestBrandResearchPropagatesError(t *testing.T) {
	s := &recordingSearcher{err: errors.New("quota exhausted")}
	if _, err := BrandResearch(context.Background(), s, "Acme"); err == nil {
		t.Fatal("expected error")
	}
}
