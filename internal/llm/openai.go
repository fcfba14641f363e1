package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
)

// openAIBackend talks to any OpenAI compatible /chat/completions endpoint.
type openAIBackend struct {
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

func newOpenAIBackend(cfg config.Generation, httpClient *http.Client) *openAIBackend {
	return &openAIBackend{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		model:      strings.TrimSpace(cfg.Model),
		maxTokens:  cfg.MaxTokens,
		httpClient: httpClient,
	}
}

func (b *openAIBackend) name() string {
	return config.ProviderOpenAI
}

func (b *openAIBackend) complete(ctx context.Context, apiKey, prompt string, temperature float64) (string, error) {
	body, err := json.Marshal(oaiChatRequest{
		Model:       b.model,
		Messages:    []oaiMessage{{Role: "user", Content: prompt}},
		MaxTokens:   b.maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %w", ErrGenerationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: openai request: %w", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp oaiErrorResponse

		_ = json.NewDecoder(resp.Body).Decode(&errResp)

		return "", &StatusError{
			Provider:   config.ProviderOpenAI,
			StatusCode: resp.StatusCode,
			Message:    errResp.Error.Message,
		}
	}

	var chatResp oaiChatResponse
	if err = json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: openai decode: %w", ErrGenerationFailed, err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response from openai api", ErrGenerationFailed)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// OpenAI compatible request/response types.

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiChatRequest struct {
	Model       string       `json:"model"`
	Messages    []oaiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
}

type oaiChatResponse struct {
	Choices []struct {
		Message oaiMessage `json:"message"`
	} `json:"choices"`
}

type oaiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
