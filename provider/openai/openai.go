package openai_provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/saathi-labs/saathi/config"
	"github.com/saathi-labs/saathi/models"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client wraps OpenAI's chat completions API for vision analysis.
type Client struct {
	apiKey      string
	baseURL     string
	visionModel string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
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

// NewClient creates a new OpenAI vision client.
func NewClient(cfg config.OpenAIConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		visionModel: cfg.VisionModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

const analysisPromptFormat = `Analyze this screenshot carefully and answer the user's question.

USER'S QUESTION: %s

Provide your response in this JSON format:
{
    "description": "What you see on screen (2-3 sentences, conversational)",
    "has_brand_or_product": true/false,
    "brand_name": "Exact brand/product name if visible, or null",
    "has_price": true/false,
    "price_shown": "Price if visible, or null",
    "needs_web_research": true/false,
    "search_query": "Best search query for research (if needs_web_research is true), or null",
    "why_research": "Brief reason why research is needed, or null"
}

Set needs_web_research to true when:
- The user asks about authenticity, reviews, or recommendations
- The user asks "should I buy", "is it real", "is it good"
- The user asks about brand/product information, pricing or deals
- A brand/product is visible and the user has questions about it

For search_query, if research is needed, create the best possible search query like:
- "[Brand Name] official price authentic"
- "[Product Name] reviews authenticity check"
- "[Brand] vs alternatives comparison"

Respond ONLY with valid JSON, nothing else.`

// AnalyzeScreenWithQuery analyzes a screenshot in the context of the user's
// question and returns the structured screen context that guides the rest of
// the pipeline. If the model replies with something other than the JSON
// contract, the raw reply is kept as the description and the research flags
// stay false.
func (c *Client) AnalyzeScreenWithQuery(ctx context.Context, jpeg []byte, query string) (models.ScreenContext, error) {
	prompt := fmt.Sprintf(analysisPromptFormat, query)
	content, err := c.sendVisionRequest(ctx, jpeg, prompt, c.temperature)
	if err != nil {
		return models.ScreenContext{}, err
	}

	var sc models.ScreenContext
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &sc); err != nil {
		return models.ScreenContext{Description: content}, nil
	}
	return sc, nil
}

// AnalyzeScreen returns a short plain-text description of the screenshot.
func (c *Client) AnalyzeScreen(ctx context.Context, jpeg []byte) (string, error) {
	return c.sendVisionRequest(ctx, jpeg, "Briefly describe what's visible on this screen in 1-2 sentences.", 0.7)
}

// sendVisionRequest sends one text+image message to the chat completions API.
func (c *Client) sendVisionRequest(ctx context.Context, jpeg []byte, prompt string, temperature float64) (string, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)

	requestBody := chatRequest{
		Model: c.visionModel,
		Messages: []message{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL, Detail: "low"}},
			},
		}},
		Temperature: temperature,
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
		return "", &models.APIError{Provider: "openai", StatusCode: resp.StatusCode, Body: string(b)}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// stripCodeFences unwraps content the model wrapped in markdown code fences.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
