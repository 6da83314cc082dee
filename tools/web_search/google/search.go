package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	apimodels "github.com/saathi-labs/saathi/models"
	"github.com/saathi-labs/saathi/tools/web_search/models"
)

const endpoint = "https://www.googleapis.com/customsearch/v1"

type Search struct {
	ApiKey   string
	EngineID string
	Client   *http.Client
}

func (s Search) Search(ctx context.Context, q string, k int) ([]models.Result, error) {
	// https://developers.google.com/custom-search/v1/overview
	if k > 10 {
		k = 10
	}
	params := url.Values{}
	params.Set("key", s.ApiKey)
	params.Set("cx", s.EngineID)
	params.Set("q", q)
	params.Set("num", fmt.Sprintf("%d", k))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	httpc := s.Client
	if httpc == nil {
		httpc = http.DefaultClient
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &apimodels.APIError{Provider: "google", StatusCode: resp.StatusCode, Body: string(b)}
	}

	var raw struct {
		Items []struct {
			Title       string `json:"title"`
			Link        string `json:"link"`
			Snippet     string `json:"snippet"`
			DisplayLink string `json:"displayLink"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var out []models.Result
	for i, it := range raw.Items {
		if i >= k {
			break
		}
		out = append(out, models.Result{Title: it.Title, URL: it.Link, Snippet: it.Snippet, Source: it.DisplayLink})
	}
	return out, nil
}
