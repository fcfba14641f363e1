// Package client provides owner scoped CRUD operations for clients.
package client

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
)

const ownerQueryPattern = "id = ? AND user_id = ?"

var (
	// ErrClientNotFound is returned when no client with the id belongs to the user.
	ErrClientNotFound = errors.New("client not found")
	// ErrClientInvalid is returned when business name, service or city is missing.
	ErrClientInvalid = errors.New("client needs a business name, service and city")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get loads a client owned by userID.
func Get(db *gorm.DB, id, userID uint64) (*models.Client, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var c models.Client

	result := db.Where(ownerQueryPattern, id, userID).First(&c)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}

		return nil, result.Error
	}

	return &c, nil
}

// ListByUser returns the user's clients, newest first.
func ListByUser(db *gorm.DB, userID uint64) ([]models.Client, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var clients []models.Client

	result := db.Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").Find(&clients)
	if result.Error != nil {
		return nil, result.Error
	}

	return clients, nil
}

// Create inserts a new client. UserID must be set by the caller.
func Create(db *gorm.DB, c *models.Client) error {
	if db == nil {
		return ErrDBNil
	}

	normalize(c)

	if !c.Complete() {
		return ErrClientInvalid
	}

	return db.Create(c).Error
}

// Update saves the editable fields of a client owned by c.UserID.
// When keepAPIKey is true the stored credential is left untouched.
func Update(db *gorm.DB, c *models.Client, keepAPIKey bool) error {
	if db == nil {
		return ErrDBNil
	}

	normalize(c)

	if !c.Complete() {
		return ErrClientInvalid
	}

	columns := []string{"business_name", "service", "city", "areas", "keywords", "tone"}
	if !keepAPIKey {
		columns = append(columns, "api_key")
	}

	result := db.Model(&models.Client{}).
		Where(ownerQueryPattern, c.ID, c.UserID).
		Select(columns).
		Updates(c)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrClientNotFound
	}

	return nil
}

// CleanList trims entries, drops empty ones and removes duplicates keeping the first occurrence.
func CleanList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// SplitList parses comma or newline separated form input into a clean list.
func SplitList(raw string) []string {
	return CleanList(strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	}))
}

func normalize(c *models.Client) {
	c.BusinessName = strings.TrimSpace(c.BusinessName)
	c.Service = strings.TrimSpace(c.Service)
	c.City = strings.TrimSpace(c.City)
	c.Tone = strings.TrimSpace(c.Tone)
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Areas = CleanList(c.Areas)
	c.Keywords = CleanList(c.Keywords)
}
