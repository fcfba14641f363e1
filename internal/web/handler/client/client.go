// Package client serves the add, detail and edit pages of a client.
package client

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/controller/appsettings"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/controller/blog"
	controller "github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/controller/client"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/navigation"
)

const (
	// Path is the route group of the client pages.
	Path = handler.RootPath + "clients"

	// TemplateForm is the add and edit form.
	TemplateForm = "clients/form"

	// TemplateDetail is the client detail page with its blogs.
	TemplateDetail = "clients/detail"
)

// Service is the client pages handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the client pages handler.
var Handler = Service{}

// Init initializes the client handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db

	app.Route(Path, func(router fiber.Router) {
		// "new" before ":id"
		router.Get("/new", s.New)
		router.Post("/new", s.Create)
		router.Get("/:id", s.Detail)
		router.Get("/:id/edit", s.Edit)
		router.Post("/:id/edit", s.Update)
	})
}

// New renders the empty add form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderForm(c, fiber.StatusOK, nil, &Form{Tone: models.ToneProfessional}, nil)
}

// Create saves a new client for the current user.
func (s *Service) Create(c *fiber.Ctx) error {
	user := handler.CurrentUser(c)

	form, messages := parseForm(c)
	if messages != nil {
		return s.renderForm(c, fiber.StatusBadRequest, nil, form, messages)
	}

	canEditKey, err := s.canEditKey(user)
	if err != nil {
		return s.renderForm(c, fiber.StatusInternalServerError, nil, form, []string{"Failed to load settings"})
	}

	newClient := &models.Client{UserID: user.ID}
	form.apply(newClient, canEditKey)

	if err = controller.Create(s.db.WithContext(c.UserContext()), newClient); err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to create client")

		return s.renderForm(c, fiber.StatusInternalServerError, nil, form, []string{"Failed to save client"})
	}

	log.Info().Uint64("client_id", newClient.ID).Uint64("user_id", user.ID).Msg("client created")

	return c.Redirect(navigation.ClientURL(newClient.ID))
}

// Detail renders a client with its blogs, newest first.
func (s *Service) Detail(c *fiber.Ctx) error {
	current, err := s.load(c)
	if err != nil {
		return s.renderError(c, err)
	}

	blogs, err := blog.ListByClient(s.db.WithContext(c.UserContext()), current.ID)
	if err != nil {
		log.Error().Err(err).Uint64("client_id", current.ID).Msg("failed to list blogs")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load blogs")
	}

	return c.Render(TemplateDetail, fiber.Map{
		"Navigation":  navigation.ForClient(current.BusinessName, "detail", current.ID, current.BusinessName),
		"CurrentUser": handler.CurrentUser(c),
		"Client":      current,
		"HasAPIKey":   current.APIKey != "",
		"Blogs":       blogs,
	}, handler.BaseLayout)
}

// Edit renders the edit form of a client.
func (s *Service) Edit(c *fiber.Ctx) error {
	current, err := s.load(c)
	if err != nil {
		return s.renderError(c, err)
	}

	return s.renderForm(c, fiber.StatusOK, current, formFrom(current), nil)
}

// Update saves the edit form.
func (s *Service) Update(c *fiber.Ctx) error {
	user := handler.CurrentUser(c)

	current, err := s.load(c)
	if err != nil {
		return s.renderError(c, err)
	}

	form, messages := parseForm(c)
	if messages != nil {
		return s.renderForm(c, fiber.StatusBadRequest, current, form, messages)
	}

	canEditKey, err := s.canEditKey(user)
	if err != nil {
		return s.renderForm(c, fiber.StatusInternalServerError, current, form, []string{"Failed to load settings"})
	}

	keepAPIKey := form.apply(current, canEditKey)

	if err = controller.Update(s.db.WithContext(c.UserContext()), current, keepAPIKey); err != nil {
		if errors.Is(err, controller.ErrClientNotFound) {
			return s.renderError(c, err)
		}

		log.Error().Err(err).Uint64("client_id", current.ID).Msg("failed to update client")

		return s.renderForm(c, fiber.StatusInternalServerError, current, form, []string{"Failed to save client"})
	}

	log.Info().Uint64("client_id", current.ID).Bool("api_key_changed", !keepAPIKey).Msg("client updated")

	return c.Redirect(navigation.ClientURL(current.ID))
}

// load returns the client from the route if it belongs to the current user.
func (s *Service) load(c *fiber.Ctx) (*models.Client, error) {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return nil, err
	}

	return controller.Get(s.db.WithContext(c.UserContext()), id, handler.CurrentUser(c).ID)
}

// canEditKey reports whether user may set client api keys: admins always, operators when unlocked.
func (s *Service) canEditKey(user *models.User) (bool, error) {
	if user.IsAdmin() {
		return true, nil
	}

	var settings appsettings.Settings
	if err := settings.Load(s.db); err != nil {
		log.Error().Err(err).Msg("failed to load settings")

		return false, err
	}

	return settings.UnlockAPIKeys, nil
}

func (s *Service) renderForm(c *fiber.Ctx, status int, current *models.Client, form *Form, messages []string) error {
	var nav *navigation.Context

	if current == nil {
		nav = navigation.NewContext("Add client", navigation.SectionClients, "new").
			AddBreadcrumb("Dashboard", "/dashboard", false).
			AddBreadcrumb("Add client", Path+"/new", true)
	} else {
		nav = navigation.ForClient("Edit "+current.BusinessName, "edit", current.ID, current.BusinessName).
			AddBreadcrumb("Edit", navigation.ClientURL(current.ID)+"/edit", true)
	}

	canEditKey, err := s.canEditKey(handler.CurrentUser(c))
	if err != nil {
		canEditKey = false
	}

	data := fiber.Map{
		"Navigation":  nav,
		"CurrentUser": handler.CurrentUser(c),
		"Client":      current,
		"Form":        form,
		"Tones":       models.Tones,
		"CanEditKey":  canEditKey,
		"HasAPIKey":   current != nil && current.APIKey != "",
	}

	if messages != nil {
		data["Error"] = messages
	}

	return c.Status(status).Render(TemplateForm, data, handler.BaseLayout)
}

func (s *Service) renderError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Failed to load client"

	switch {
	case errors.Is(err, handler.ErrInvalidID):
		status, message = fiber.StatusBadRequest, "Invalid client id"
	case errors.Is(err, controller.ErrClientNotFound):
		status, message = fiber.StatusNotFound, "Client not found"
	default:
		log.Error().Err(err).Msg("failed to load client")
	}

	return c.Status(status).Render(handler.TemplateError, fiber.Map{
		"Navigation":  navigation.NewContext("Error", navigation.SectionClients, "error"),
		"CurrentUser": handler.CurrentUser(c),
		"Error":       message,
		"Back":        "/dashboard",
	}, handler.BaseLayout)
}

func parseForm(c *fiber.Ctx) (*Form, []string) {
	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return form, []string{"Invalid form data"}
	}

	form.trim()

	return form, handler.Validate(form)
}
