// Package store adapts the gorm controllers to the narrow interfaces the blog pipeline consumes.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/controller/appsettings"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/controller/blog"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/controller/client"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/pipeline"
)

// Store implements pipeline.ClientReader, pipeline.SettingsReader and pipeline.BlogWriter.
type Store struct {
	db *gorm.DB
}

// New returns a Store on db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindClient implements pipeline.ClientReader.
func (s *Store) FindClient(ctx context.Context, id, ownerID uint64) (*models.Client, error) {
	c, err := client.Get(s.db.WithContext(ctx), id, ownerID)
	if errors.Is(err, client.ErrClientNotFound) {
		return nil, fmt.Errorf("%w: client %d", pipeline.ErrNotFound, id)
	}

	return c, err
}

// PromptTemplate implements pipeline.SettingsReader.
func (s *Store) PromptTemplate(ctx context.Context) (string, error) {
	var settings appsettings.Settings
	if err := settings.Load(s.db.WithContext(ctx)); err != nil {
		return "", err
	}

	return settings.PromptTemplate, nil
}

// WebhookURL returns the webhook url from the settings page, "" when unset.
func (s *Store) WebhookURL(ctx context.Context) (string, error) {
	var settings appsettings.Settings
	if err := settings.Load(s.db.WithContext(ctx)); err != nil {
		return "", err
	}

	return settings.WebhookURL, nil
}

// FindBlog implements pipeline.BlogWriter.
func (s *Store) FindBlog(ctx context.Context, id, clientID uint64) (*models.Blog, error) {
	b, err := blog.Get(s.db.WithContext(ctx), id, clientID)
	if errors.Is(err, blog.ErrBlogNotFound) {
		return nil, fmt.Errorf("%w: blog %d", pipeline.ErrNotFound, id)
	}

	return b, err
}

// InsertBlog implements pipeline.BlogWriter.
func (s *Store) InsertBlog(ctx context.Context, b *models.Blog) error {
	return blog.Create(s.db.WithContext(ctx), b)
}

// ReplaceBlogContent implements pipeline.BlogWriter.
func (s *Store) ReplaceBlogContent(
	ctx context.Context,
	id, clientID uint64,
	title, content string,
	at time.Time,
) error {
	err := blog.ReplaceContent(s.db.WithContext(ctx), id, clientID, title, content, at)
	if errors.Is(err, blog.ErrBlogNotFound) {
		return fmt.Errorf("%w: blog %d", pipeline.ErrNotFound, id)
	}

	return err
}
