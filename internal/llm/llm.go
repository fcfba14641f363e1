// Package llm calls the text generation provider that writes blog posts.
package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
)

// Mode selects the sampling temperature and prompt suffix.
type Mode int

const (
	// ModeNew is a first generation for a client.
	ModeNew Mode = iota
	// ModeRegenerate asks for a fresh take on an existing post.
	ModeRegenerate
)

func (m Mode) String() string {
	if m == ModeRegenerate {
		return "regenerate"
	}

	return "new"
}

// Request is one generation call.
type Request struct {
	Prompt string
	// Credential is the client's own api key. Empty uses the configured key.
	Credential string
	Mode       Mode
}

// backend is one provider's wire protocol.
type backend interface {
	name() string
	complete(ctx context.Context, apiKey, prompt string, temperature float64) (string, error)
}

// Client generates text with the configured provider. It keeps no state between calls.
type Client struct {
	cfg     config.Generation
	backend backend
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient replaces the http client used for provider calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// New builds a client for cfg.Provider.
func New(cfg config.Generation, opts ...Option) (*Client, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	var b backend

	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		b = newOpenAIBackend(cfg, o.httpClient)
	case config.ProviderAnthropic:
		b = newAnthropicBackend(cfg, o.httpClient)
	default:
		return nil, config.ErrUnknownGenerationProvider
	}

	return &Client{cfg: cfg, backend: b}, nil
}

// Generate sends the prompt and returns the provider's text verbatim.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	apiKey := strings.TrimSpace(req.Credential)
	if apiKey == "" {
		apiKey = c.cfg.APIKey
	}

	if apiKey == "" {
		return "", ErrMissingCredential
	}

	prompt := req.Prompt
	temperature := c.cfg.TemperatureFor(req.Mode == ModeRegenerate)

	if req.Mode == ModeRegenerate {
		if c.cfg.RegenerateSuffix != "" {
			prompt += "\n\n" + c.cfg.RegenerateSuffix
		}
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	log.Debug().
		Str("provider", c.backend.name()).
		Str("model", c.cfg.Model).
		Str("mode", req.Mode.String()).
		Bool("clientCredential", req.Credential != "").
		Msg("calling generation provider")

	return c.backend.complete(ctx, apiKey, prompt, temperature)
}
