// Package notify delivers finished blog posts to the configured webhook (usually an n8n flow).
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
)

// HeaderDeliveryID carries a unique id per send so receivers can drop duplicates from retries.
const HeaderDeliveryID = "X-Delivery-ID"

const defaultInitialInterval = 500 * time.Millisecond

var (
	// ErrWebhookNotConfigured is returned when neither settings nor configuration name a url.
	ErrWebhookNotConfigured = errors.New("notification webhook url not configured")
	// ErrDeliveryFailed is returned when the webhook could not be reached or answered non 2xx.
	ErrDeliveryFailed = errors.New("notification delivery failed")
)

// Payload is the JSON body posted to the webhook.
type Payload struct {
	BlogID   uint64 `json:"blog_id"`
	ClientID uint64 `json:"client_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// Sender posts blogs to a webhook. Failures never touch the blog itself.
type Sender struct {
	fallbackURL     string
	maxRetries      int
	initialInterval time.Duration
	httpClient      *http.Client
}

// Option configures a Sender.
type Option func(*Sender)

// WithHTTPClient replaces the http client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) {
		s.httpClient = c
	}
}

// WithInitialInterval sets the first retry delay.
func WithInitialInterval(d time.Duration) Option {
	return func(s *Sender) {
		s.initialInterval = d
	}
}

// New creates a Sender. cfg.WebhookURL is used when the caller has no url.
func New(cfg config.Notification, opts ...Option) *Sender {
	s := &Sender{
		fallbackURL:     strings.TrimSpace(cfg.WebhookURL),
		maxRetries:      cfg.MaxRetries,
		initialInterval: defaultInitialInterval,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.maxRetries < 0 {
		s.maxRetries = 0
	}

	return s
}

// ResolveURL returns url when set, else the configured fallback.
func (s *Sender) ResolveURL(url string) string {
	if url = strings.TrimSpace(url); url != "" {
		return url
	}

	return s.fallbackURL
}

// Send posts the blog to url (or the fallback) and returns the delivery id.
// Network errors, 5xx and 429 answers are retried up to the configured count.
func (s *Sender) Send(ctx context.Context, url string, blog *models.Blog) (string, error) {
	target := s.ResolveURL(url)
	if target == "" {
		return "", ErrWebhookNotConfigured
	}

	body, err := json.Marshal(Payload{
		BlogID:   blog.ID,
		ClientID: blog.ClientID,
		Title:    blog.Title,
		Content:  blog.Content,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	deliveryID := uuid.NewString()
	attempt := 0

	op := func() error {
		attempt++

		return s.post(ctx, target, deliveryID, body)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.initialInterval

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(s.maxRetries)), ctx) //nolint:gosec // never negative

	if err = backoff.Retry(op, policy); err != nil {
		log.Warn().Err(err).
			Uint64("blogID", blog.ID).
			Str("deliveryID", deliveryID).
			Int("attempts", attempt).
			Msg("blog webhook delivery failed")

		if !errors.Is(err, ErrDeliveryFailed) {
			err = fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		}

		return deliveryID, err
	}

	log.Info().
		Uint64("blogID", blog.ID).
		Str("deliveryID", deliveryID).
		Int("attempts", attempt).
		Msg("blog sent to webhook")

	return deliveryID, nil
}

func (s *Sender) post(ctx context.Context, url, deliveryID string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("%w: %w", ErrDeliveryFailed, err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderDeliveryID, deliveryID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(fmt.Errorf("%w: %w", ErrDeliveryFailed, err))
		}

		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	err = fmt.Errorf("%w: webhook answered %s", ErrDeliveryFailed, resp.Status)

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return err
	}

	return backoff.Permanent(err)
}
