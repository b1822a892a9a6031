package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// OpenAIClient is a minimal client for OpenAI chat completion calls used for
// LLM analysis. The API key is not stored on the client: it is supplied by the
// caller on every request, one key per pipeline run.
type OpenAIClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAIClient creates an OpenAI client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewOpenAIClient(cfg *config.OpenAIConfig) *OpenAIClient {
	var base, model string
	if cfg != nil {
		base = cfg.BaseURL
		model = cfg.Model
	}
	if base == "" {
		base = os.Getenv("OPENAI_API_URL")
		if base == "" {
			base = "https://api.openai.com"
		}
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIClient{
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// ChatMessage is a single message in a chat completion request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []ChatMessage `json:"messages,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// APIError carries the HTTP status of a failed completion call so callers can
// tell transient failures (429, 5xx) from permanent ones.
type APIError struct {
	StatusCode int
}

// Error implements error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("openai returned status %d", e.StatusCode)
}

// Transient reports whether the call is worth retrying.
func (e *APIError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ChatCompletion sends the messages to the chat completions endpoint and
// returns the assistant content.
func (o *OpenAIClient) ChatCompletion(ctx context.Context, apiKey string, messages []ChatMessage) (string, error) {
	reqBody := ChatRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: 0.3,
		MaxTokens:   2000,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := o.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &APIError{StatusCode: resp.StatusCode}
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}
	return cr.Choices[0].Message.Content, nil
}
