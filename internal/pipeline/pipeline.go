// Package pipeline generates and regenerates blog posts for clients.
//
// One run reads the client and the prompt template, asks the generation
// provider for a post, picks its title and writes the blog. The write is
// always the last step, so a failed or cancelled run leaves no trace.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/llm"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/prompt"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/title"
)

const tracerName = "github.com/LocalBlog-Admin/LocalBlog-Admin/internal/pipeline"

// ClientReader loads a client scoped to its owner. A miss must wrap ErrNotFound.
type ClientReader interface {
	FindClient(ctx context.Context, id, ownerID uint64) (*models.Client, error)
}

// SettingsReader returns the stored prompt template, empty when none is stored.
type SettingsReader interface {
	PromptTemplate(ctx context.Context) (string, error)
}

// BlogWriter reads and writes blogs. Misses must wrap ErrNotFound.
type BlogWriter interface {
	FindBlog(ctx context.Context, id, clientID uint64) (*models.Blog, error)
	InsertBlog(ctx context.Context, blog *models.Blog) error
	ReplaceBlogContent(ctx context.Context, id, clientID uint64, title, content string, at time.Time) error
}

// Generator produces the post text.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

// Pipeline holds no per run state and is safe for concurrent use.
type Pipeline struct {
	clients  ClientReader
	settings SettingsReader
	blogs    BlogWriter
	gen      Generator
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock replaces time.Now for created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New wires a pipeline.
func New(clients ClientReader, settings SettingsReader, blogs BlogWriter, gen Generator, opts ...Option) *Pipeline {
	p := &Pipeline{
		clients:  clients,
		settings: settings,
		blogs:    blogs,
		gen:      gen,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Generate writes a new pending blog for the owner's client.
func (p *Pipeline) Generate(ctx context.Context, ownerID, clientID uint64) (blog *models.Blog, err error) {
	ctx, finish := p.start(ctx, llm.ModeNew, ownerID, clientID, 0)
	defer func() { finish(err) }()

	client, err := p.loadClient(ctx, ownerID, clientID)
	if err != nil {
		return nil, err
	}

	heading, content, err := p.write(ctx, client, llm.ModeNew)
	if err != nil {
		return nil, err
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	blog = &models.Blog{
		ClientID:  client.ID,
		Title:     heading,
		Content:   content,
		Status:    models.BlogStatusPending,
		CreatedAt: p.now(),
	}

	if err = p.blogs.InsertBlog(ctx, blog); err != nil {
		return nil, persistenceErr("insert blog", err)
	}

	return blog, nil
}

// Regenerate replaces title and content of an existing blog and stamps it with a new created_at.
func (p *Pipeline) Regenerate(ctx context.Context, ownerID, clientID, blogID uint64) (blog *models.Blog, err error) {
	ctx, finish := p.start(ctx, llm.ModeRegenerate, ownerID, clientID, blogID)
	defer func() { finish(err) }()

	client, err := p.loadClient(ctx, ownerID, clientID)
	if err != nil {
		return nil, err
	}

	// fail before spending a provider call on a blog that can't be written
	blog, err = p.blogs.FindBlog(ctx, blogID, client.ID)
	if err != nil {
		return nil, persistenceErr("load blog", err)
	}

	heading, content, err := p.write(ctx, client, llm.ModeRegenerate)
	if err != nil {
		return nil, err
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	at := p.now()

	if err = p.blogs.ReplaceBlogContent(ctx, blog.ID, client.ID, heading, content, at); err != nil {
		return nil, persistenceErr("update blog", err)
	}

	blog.Title = heading
	blog.Content = content
	blog.CreatedAt = at

	return blog, nil
}

func (p *Pipeline) loadClient(ctx context.Context, ownerID, clientID uint64) (*models.Client, error) {
	client, err := p.clients.FindClient(ctx, clientID, ownerID)
	if err != nil {
		return nil, persistenceErr("load client", err)
	}

	return client, nil
}

// write resolves the prompt, calls the provider and extracts the title.
func (p *Pipeline) write(ctx context.Context, client *models.Client, mode llm.Mode) (string, string, error) {
	if !client.Complete() {
		return "", "", ErrIncompleteClient
	}

	template, err := p.settings.PromptTemplate(ctx)
	if err != nil {
		return "", "", persistenceErr("load settings", err)
	}

	content, err := p.gen.Generate(ctx, llm.Request{
		Prompt:     prompt.Resolve(template, client),
		Credential: client.APIKey,
		Mode:       mode,
	})
	if err != nil {
		return "", "", err
	}

	return title.Extract(content, title.Fallback(client.Service, client.City)), content, nil
}

// start opens the span and returns the func recording the outcome.
func (p *Pipeline) start(
	ctx context.Context,
	mode llm.Mode,
	ownerID, clientID, blogID uint64,
) (context.Context, func(error)) {
	began := time.Now()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "pipeline."+mode.String(),
		trace.WithAttributes(
			attribute.Int64("localblog.owner_id", int64(ownerID)),   //nolint:gosec
			attribute.Int64("localblog.client_id", int64(clientID)), //nolint:gosec
			attribute.Int64("localblog.blog_id", int64(blogID)),     //nolint:gosec
		))

	return ctx, func(err error) {
		result := resultLabel(err)

		generationsTotal.WithLabelValues(mode.String(), result).Inc()
		generationDuration.WithLabelValues(mode.String()).Observe(time.Since(began).Seconds())

		span.SetAttributes(attribute.String("localblog.result", result))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			log.Warn().Err(err).
				Str("mode", mode.String()).
				Uint64("clientID", clientID).
				Uint64("blogID", blogID).
				Msg("blog generation failed")
		} else {
			log.Info().
				Str("mode", mode.String()).
				Uint64("clientID", clientID).
				Dur("took", time.Since(began)).
				Msg("blog generated")
		}

		span.End()
	}
}

// persistenceErr keeps ErrNotFound and wraps anything else as ErrPersistenceFailed.
func persistenceErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}

	return fmt.Errorf("%w: %s: %w", ErrPersistenceFailed, op, err)
}
