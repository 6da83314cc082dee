package groq_provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/saathi-labs/saathi/config"
	"github.com/saathi-labs/saathi/models"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.GroqConfig{
		APIKey:          "gsk-test",
		BaseURL:         baseURL,
		STTModel:        "whisper-large-v3",
		CompletionModel: "llama-3.3-70b-versatile",
		Temperature:     0.7,
		MaxTokens:       500,
	})
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer gsk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-large-v3" {
			t.Errorf("unexpected model %q", got)
		}
		if got := r.FormValue("response_format"); got != "json" {
			t.Errorf("unexpected response_format %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "  hello world  "})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	text, err := c.Transcribe(context.Background(), []byte("fake-audio"), "clip.wav")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("expected trimmed transcript, got %q", text)
	}
}

func TestTranscribeRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Transcribe(context.Background(), []byte("fake-audio"), "clip.wav")
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests || apiErr.Provider != "groq" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
}

func TestGenerateResponse(t *testing.T) {
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "The shoes look authentic."}},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	answer, err := c.GenerateResponse(context.Background(),
		"are these real jordans", "Screen shows a sneaker listing", "1. Jordan buying guide")
	if err != nil {
		t.Fatalf("GenerateResponse: %v", err)
	}
	if answer != "The shoes look authentic." {
		t.Fatalf("unexpected answer %q", answer)
	}

	if gotBody.Model != "llama-3.3-70b-versatile" {
		t.Errorf("unexpected model %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", gotBody.Messages)
	}
	user := gotBody.Messages[1].Content
	for _, want := range []string{"are these real jordans", "SCREEN CONTEXT", "WEB SEARCH RESULTS", "Jordan buying guide"} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestGenerateResponseOmitsEmptyContext(t *testing.T) {
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "hi"}},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.GenerateResponse(context.Background(), "hello", "", ""); err != nil {
		t.Fatalf("GenerateResponse: %v", err)
	}
	user := gotBody.Messages[1].Content
	if strings.Contains(user, "SCREEN CONTEXT") || strings.Contains(user, "WEB SEARCH RESULTS") {
		t.Fatalf("empty context sections should be omitted:\n%s", user)
	}
}

func TestGenerateResponseNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.GenerateResponse(context.Background(), "hello", "", ""); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
