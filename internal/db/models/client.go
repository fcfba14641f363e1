package models

import "time"

// Tone values offered by the client form. Any other text is accepted as is.
const (
	ToneProfessional   = "Professional"
	ToneFriendly       = "Friendly"
	ToneAuthoritative  = "Authoritative"
	ToneConversational = "Conversational"
)

// Tones lists the tone choices in form order.
var Tones = []string{ToneProfessional, ToneFriendly, ToneAuthoritative, ToneConversational} //nolint:gochecknoglobals

// Client is a local business blog posts are generated for.
type Client struct {
	ID           uint64   `gorm:"primaryKey"                     json:"id"`
	UserID       uint64   `gorm:"index;not null"                 json:"user_id"`
	BusinessName string   `gorm:"size:255;not null"              json:"business_name"`
	Service      string   `gorm:"size:255;not null"              json:"service"`
	City         string   `gorm:"size:255;not null"              json:"city"`
	Areas        []string `gorm:"serializer:json"                json:"areas"`
	Keywords     []string `gorm:"serializer:json"                json:"keywords"`
	Tone         string   `gorm:"size:50"                        json:"tone"`
	// APIKey overrides the process wide generation credential for this client.
	APIKey    string    `gorm:"size:255" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Complete reports whether the fields every prompt needs are present.
func (c *Client) Complete() bool {
	return c.BusinessName != "" && c.Service != "" && c.City != ""
}
