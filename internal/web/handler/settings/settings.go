// Package settings serves the admin page for the prompt template, webhook url and api key policy.
package settings

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/controller/appsettings"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/prompt"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/navigation"
)

const (
	// Path is the path to the settings page.
	Path = handler.RootPath + "settings"

	// TemplateName is the name of the settings template.
	TemplateName = "settings/settings"
)

// Form is the settings form.
type Form struct {
	PromptTemplate string `form:"prompt_template" label:"Prompt template"`
	WebhookURL     string `form:"webhook_url"     label:"Webhook URL"     validate:"omitempty,url,max=2048"`
	UnlockAPIKeys  bool   `form:"unlock_api_keys"`
}

// Service is the settings handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the settings handler.
var Handler = Service{}

// Init initializes the settings handler. requireAdmin guards both routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, requireAdmin fiber.Handler) {
	if app == nil || cfg == nil || db == nil || requireAdmin == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path, requireAdmin, s.Get)
	app.Post(Path, requireAdmin, s.Post)
}

// Get renders the settings form. Empty values are prefilled with the built in template
// and the configured fallback webhook url.
func (s *Service) Get(c *fiber.Ctx) error {
	var stored appsettings.Settings
	if err := stored.Load(s.db.WithContext(c.UserContext())); err != nil {
		log.Error().Err(err).Msg("failed to load settings")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load settings")
	}

	form := &Form{
		PromptTemplate: stored.PromptTemplate,
		WebhookURL:     stored.WebhookURL,
		UnlockAPIKeys:  stored.UnlockAPIKeys,
	}

	if strings.TrimSpace(form.PromptTemplate) == "" {
		form.PromptTemplate = prompt.DefaultTemplate
	}

	if form.WebhookURL == "" {
		form.WebhookURL = s.cfg.Notification.WebhookURL
	}

	return s.render(c, fiber.StatusOK, form, nil)
}

// Post validates and saves the settings form.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.render(c, fiber.StatusBadRequest, form, fiber.Map{"Error": []string{"Invalid form data"}})
	}

	form.WebhookURL = strings.TrimSpace(form.WebhookURL)

	if messages := handler.Validate(form); messages != nil {
		return s.render(c, fiber.StatusBadRequest, form, fiber.Map{"Error": messages})
	}

	settings := appsettings.Settings{
		PromptTemplate: form.PromptTemplate,
		WebhookURL:     form.WebhookURL,
		UnlockAPIKeys:  form.UnlockAPIKeys,
	}

	if err := settings.Save(s.db.WithContext(c.UserContext())); err != nil {
		log.Error().Err(err).Msg("failed to save settings")

		return s.render(c, fiber.StatusInternalServerError, form, fiber.Map{"Error": []string{"Failed to save settings"}})
	}

	log.Info().
		Str("username", handler.CurrentUser(c).Username).
		Bool("custom_template", strings.TrimSpace(form.PromptTemplate) != "").
		Bool("unlock_api_keys", form.UnlockAPIKeys).
		Msg("settings saved")

	return s.render(c, fiber.StatusOK, form, fiber.Map{"Success": "Settings saved successfully"})
}

func (s *Service) render(c *fiber.Ctx, status int, form *Form, extra fiber.Map) error {
	data := fiber.Map{
		"Navigation": navigation.NewContext("Settings", navigation.SectionSettings, "settings").
			AddBreadcrumb("Dashboard", "/dashboard", false).
			AddBreadcrumb("Settings", Path, true),
		"CurrentUser":     handler.CurrentUser(c),
		"Settings":        form,
		"DefaultTemplate": prompt.DefaultTemplate,
		"Placeholders":    []string{prompt.TokenBusiness, prompt.TokenService, prompt.TokenCity, prompt.TokenAreas, prompt.TokenTone},
	}

	for k, v := range extra {
		data[k] = v
	}

	return c.Status(status).Render(TemplateName, data, handler.BaseLayout)
}
