package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"redditdigest/internal/config"
	"redditdigest/internal/ports"
)

// Client implements ports.Analyzer backed by the Gemini API.
type Client struct {
	apiKey string
	model  string
}

var _ ports.Analyzer = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.GeminiConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = "gemini-pro"
	}
	return &Client{apiKey: cfg.APIKey, model: model}
}

// Analyze sends the prompt and returns the concatenated text parts of the
// response. Errors surface to the caller, which degrades them to a fixed
// fallback summary.
func (c *Client) Analyze(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.apiKey == "" {
		return "", fmt.Errorf("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", fmt.Errorf("new gemini client: %w", err)
	}
	defer client.Close()

	resp, err := client.GenerativeModel(c.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("gemini returned no text candidates")
	}

	return out, nil
}
