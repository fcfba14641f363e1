// Package appsettings loads and saves the dashboard wide settings singleton.
package appsettings

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/controller/setting"
)

const (
	// SettingKeyApp is the key the settings blob is stored under.
	SettingKeyApp = "app_settings"
)

type (
	// Settings are edited by admins on the settings page.
	Settings struct {
		// PromptTemplate may contain @Business, @Service, @City, @Areas and @Tone. Empty means the built in template.
		PromptTemplate string `form:"prompt_template" json:"prompt_template"`
		// WebhookURL receives blogs sent from the dashboard. Empty falls back to the configured url.
		WebhookURL string `form:"webhook_url" json:"webhook_url" validate:"omitempty,url"`
		// UnlockAPIKeys lets operators set the generation credential of their clients.
		UnlockAPIKeys bool `form:"unlock_api_keys" json:"unlock_api_keys"`
	}
)

// Load reads the settings. A missing row yields the zero value without error.
func (s *Settings) Load(db *gorm.DB) error {
	err := setting.LoadJSON(db, SettingKeyApp, s)
	if errors.Is(err, setting.ErrSettingNotFound) {
		*s = Settings{}

		return nil
	}

	return err
}

// Save writes the settings, creating the row on first use.
func (s *Settings) Save(db *gorm.DB) error {
	s.WebhookURL = strings.TrimSpace(s.WebhookURL)

	return setting.SaveJSON(db, SettingKeyApp, s)
}
