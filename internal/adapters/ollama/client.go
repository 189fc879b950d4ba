// Package ollama provides a text generator backed by a local Ollama instance.
// It sends the journal prompt to the native chat endpoint and returns the
// assistant message verbatim for the journal parser.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
)

const (
	defaultBaseURL     = "http://localhost:11434"
	DefaultModel       = "deepseek-r1:8b"
	defaultTemperature = 0.9

	collaborator = "textgen"
)

type Client struct {
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

// compile-time interface assertion
var _ ports.TextGenerator = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

func NewClient(baseURL, model string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		baseURL:     baseURL,
		model:       model,
		temperature: defaultTemperature,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Generate makes a single, non-streaming chat request for prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if ctx.Err() != nil {
		return "", fmt.Errorf("ollama: %w", ports.ErrCanceled)
	}

	payload := chatRequest{
		Model:  c.model,
		Stream: false,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Options: chatOptions{Temperature: c.temperature},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("ollama: %w", ports.ErrCanceled)
		}
		return "", fmt.Errorf("ollama: request failed: %w: %v", ports.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama: %w", &ports.UpstreamError{Collaborator: collaborator, StatusCode: resp.StatusCode})
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("ollama: %w", ports.ErrCanceled)
		}
		return "", fmt.Errorf("ollama: decode response: %w: %v", ports.ErrTransport, err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("ollama: %w: %s", ports.ErrTransport, parsed.Error)
	}

	return parsed.Message.Content, nil
}
