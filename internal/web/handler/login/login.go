// Package login serves the username and password login form.
package login

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/auth"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the name of the login template.
	TemplateName = "login"

	dashboardPath = "/dashboard"
)

// Authenticator checks a username and password.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	LDAPEnabled() bool
}

// Form is the submitted login form.
type Form struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Service is the login handler service.
type Service struct {
	cfg  *config.Config
	auth Authenticator
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authenticator Authenticator) {
	if app == nil || cfg == nil || authenticator == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.auth = authenticator

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, s.viewData(nil))
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return c.Render(TemplateName, s.viewData(ErrInvalidFormData))
	}

	user, err := s.auth.Login(c.UserContext(), form.Username, form.Password)
	if err != nil {
		log.Info().Err(err).Str("username", form.Username).Msg("login failed")

		return c.Status(fiber.StatusUnauthorized).Render(TemplateName, s.viewData(loginError(err)))
	}

	if err = session.Start(c, user, "", s.cfg.Webserver.Session.ExpiryTime, s.cfg.DevMode); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateName, s.viewData(ErrInternalServerError))
	}

	log.Info().Str("username", user.Username).Str("auth_source", string(user.AuthSource)).Msg("user logged in")

	return c.Redirect(dashboardPath)
}

func (s *Service) viewData(err error) fiber.Map {
	m := fiber.Map{
		"Title":            s.cfg.Title,
		"local_db_enabled": s.cfg.Auth.LocalDB.Enabled,
		"ldap_enabled":     s.auth.LDAPEnabled(),
		"oidc_enabled":     s.cfg.Auth.OIDC.Enabled,
	}

	if err != nil {
		m["error"] = err.Error()
	}

	return m
}

// loginError hides whether the username or the password was wrong.
func loginError(err error) error {
	switch {
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, auth.ErrInvalidPassword),
		errors.Is(err, auth.ErrMultipleUsersFound):
		return ErrInvalidCredentials
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return ErrAccountDisabled
	case errors.Is(err, auth.ErrNoLoginMethod):
		return ErrNoAuthMethod
	default:
		return ErrInternalServerError
	}
}
