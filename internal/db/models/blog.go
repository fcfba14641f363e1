package models

import "time"

// BlogStatus tracks a post through review.
type BlogStatus string

const (
	// BlogStatusPending is the status of every freshly generated post.
	BlogStatusPending BlogStatus = "pending"
	// BlogStatusDraft marks a post that was reviewed but not published.
	BlogStatusDraft BlogStatus = "draft"
	// BlogStatusPosted marks a published post.
	BlogStatusPosted BlogStatus = "posted"
)

// Blog is one generated post. Regeneration overwrites it in place.
type Blog struct {
	ID       uint64 `gorm:"primaryKey"            json:"id"`
	ClientID uint64 `gorm:"index;not null"        json:"client_id"`
	Title    string `gorm:"size:500;not null"     json:"title"`
	Content  string `gorm:"type:text;not null"    json:"content"`
	// Keywords is never filled by the generation pipeline.
	Keywords  []string   `gorm:"serializer:json"                       json:"keywords,omitempty"`
	Status    BlogStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}
