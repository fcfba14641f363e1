package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
)

// anthropicBackend uses the Anthropic messages api. A new sdk client is built
// per call because the api key may differ per blog client.
type anthropicBackend struct {
	baseURL    string
	model      anthropic.Model
	maxTokens  int64
	httpClient *http.Client
}

func newAnthropicBackend(cfg config.Generation, httpClient *http.Client) *anthropicBackend {
	return &anthropicBackend{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		model:      anthropic.Model(cfg.Model),
		maxTokens:  int64(cfg.MaxTokens),
		httpClient: httpClient,
	}
}

func (b *anthropicBackend) name() string {
	return config.ProviderAnthropic
}

func (b *anthropicBackend) complete(ctx context.Context, apiKey, prompt string, temperature float64) (string, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(b.httpClient),
		option.WithMaxRetries(0),
	}

	if b.baseURL != "" {
		opts = append(opts, option.WithBaseURL(b.baseURL))
	}

	client := anthropic.NewClient(opts...)

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     b.model,
		MaxTokens: b.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(temperature),
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &StatusError{
				Provider:   config.ProviderAnthropic,
				StatusCode: apiErr.StatusCode,
				Message:    err.Error(),
			}
		}

		return "", fmt.Errorf("%w: anthropic request: %w", ErrGenerationFailed, err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("%w: no text block in anthropic response", ErrGenerationFailed)
}
