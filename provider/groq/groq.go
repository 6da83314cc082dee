package groq_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/saathi-labs/saathi/config"
	"github.com/saathi-labs/saathi/models"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// Client wraps Groq's OpenAI-compatible API for speech-to-text and chat
// completion.
type Client struct {
	apiKey          string
	baseURL         string
	sttModel        string
	completionModel string
	temperature     float64
	maxTokens       int
	httpClient      *http.Client
}

// Message represents a message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient creates a new Groq client.
func NewClient(cfg config.GroqConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:          cfg.APIKey,
		baseURL:         baseURL,
		sttModel:        cfg.STTModel,
		completionModel: cfg.CompletionModel,
		temperature:     cfg.Temperature,
		maxTokens:       cfg.MaxTokens,
		httpClient:      &http.Client{Timeout: timeout},
	}
}

// Transcribe sends audio bytes to the whisper transcription endpoint and
// returns the recognized text. The filename hints the container format to the
// API.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if filename == "" {
		filename = "audio.wav"
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}
	_ = writer.WriteField("model", c.sttModel)
	_ = writer.WriteField("response_format", "json")
	_ = writer.WriteField("temperature", "0")
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &models.APIError{Provider: "groq", StatusCode: resp.StatusCode, Body: string(b)}
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return strings.TrimSpace(out.Text), nil
}

// GenerateResponse synthesizes the final answer from the query plus whatever
// subset of screen context and search results is available. Empty context
// arguments are omitted from the prompt.
func (c *Client) GenerateResponse(ctx context.Context, query, screenContext, searchResults string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "USER'S QUESTION: %s\n", query)
	if screenContext != "" {
		fmt.Fprintf(&b, "\nSCREEN CONTEXT: %s\n", screenContext)
	}
	if searchResults != "" {
		fmt.Fprintf(&b, "\nWEB SEARCH RESULTS (use this information to answer directly):\n%s\n", searchResults)
	}
	b.WriteString(`
IMPORTANT INSTRUCTIONS:
- If you have web search results, USE THEM to answer the user's question directly
- DON'T tell the user to "check the website" or "search online" - YOU do the research and tell them
- Provide specific information: prices, reviews, authenticity checks, official sources
- If asked about brand authenticity, say whether it is likely real or fake based on the search results
- Make concrete recommendations based on the information

Provide a helpful, conversational response. Be:
- Friendly and warm (you're a companion, not just an assistant)
- Concise but informative (2-4 sentences unless asked for detail)
- Direct and actionable - give clear recommendations

Keep the response short unless the user asks for detailed analysis.`)

	messages := []Message{
		{Role: "system", Content: "You are Saathi, a helpful AI companion who does research for users and answers directly."},
		{Role: "user", Content: b.String()},
	}

	return c.sendChatRequest(ctx, messages)
}

// sendChatRequest sends a request to the chat completions endpoint.
func (c *Client) sendChatRequest(ctx context.Context, messages []Message) (string, error) {
	requestBody := chatRequest{
		Model:       c.completionModel,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &models.APIError{Provider: "groq", StatusCode: resp.StatusCode, Body: string(b)}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return out.Choices[0].Message.Content, nil
}
