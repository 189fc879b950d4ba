// Package groq generates journal text through Groq's OpenAI-compatible chat
// completions API.
package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
)

const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "deepseek-r1-distill-llama-70b"
	DefaultTemperature = 0.9

	collaborator = "textgen"
)

// Config holds the connection settings for Client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	HTTPClient  *http.Client
}

// Client sends single-attempt chat completion requests.
type Client struct {
	api         openai.Client
	model       string
	temperature float64
}

// compile-time interface assertion
var _ ports.TextGenerator = (*Client)(nil)

// NewClient builds a client, filling unset fields with the package defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Client{
		api:         openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

// Generate returns the first choice's content for prompt. An empty choice list
// yields an empty string, which the journal parser maps to its defaults.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if ctx.Err() != nil {
		return "", fmt.Errorf("groq: %w", ports.ErrCanceled)
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("groq: %w", ports.ErrCanceled)
		}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("groq: %w", &ports.UpstreamError{Collaborator: collaborator, StatusCode: apiErr.StatusCode})
		}
		return "", fmt.Errorf("groq: %w: %v", ports.ErrTransport, err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
