// Package dashboard lists the clients of the logged in user.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/controller/client"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path, s.Get)
}

// Get renders the user's clients, newest first.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Dashboard", navigation.SectionDashboard, "dashboard").
		AddBreadcrumb("Dashboard", Path, true)

	user := handler.CurrentUser(c)
	if user == nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	clients, err := client.ListByUser(s.db.WithContext(c.UserContext()), user.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to list clients")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load clients")
	}

	log.Debug().Uint64("user_id", user.ID).Int("clients", len(clients)).Msg("dashboard clients retrieved")

	return c.Render(TemplateName, fiber.Map{
		"Navigation":  nav,
		"CurrentUser": user,
		"Clients":     clients,
	}, handler.BaseLayout)
}
