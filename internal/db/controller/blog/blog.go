// Package blog provides CRUD operations for generated blog posts.
package blog

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
)

const clientQueryPattern = "id = ? AND client_id = ?"

var (
	// ErrBlogNotFound is returned when no blog with the id belongs to the client.
	ErrBlogNotFound = errors.New("blog not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get loads a blog belonging to clientID.
func Get(db *gorm.DB, id, clientID uint64) (*models.Blog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var b models.Blog

	result := db.Where(clientQueryPattern, id, clientID).First(&b)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}

		return nil, result.Error
	}

	return &b, nil
}

// ListByClient returns the client's blogs, newest first.
func ListByClient(db *gorm.DB, clientID uint64) ([]models.Blog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var blogs []models.Blog

	result := db.Where("client_id = ?", clientID).Order("created_at DESC").Order("id DESC").Find(&blogs)
	if result.Error != nil {
		return nil, result.Error
	}

	return blogs, nil
}

// Create inserts a blog. An empty status becomes pending.
func Create(db *gorm.DB, b *models.Blog) error {
	if db == nil {
		return ErrDBNil
	}

	if b.Status == "" {
		b.Status = models.BlogStatusPending
	}

	return db.Create(b).Error
}

// ReplaceContent overwrites title, content and created_at of one blog of the client.
// Status and keywords are left as they are.
func ReplaceContent(db *gorm.DB, id, clientID uint64, title, content string, at time.Time) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.Blog{}).
		Where(clientQueryPattern, id, clientID).
		Updates(map[string]any{
			"title":      title,
			"content":    content,
			"created_at": at,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrBlogNotFound
	}

	return nil
}
