// Package logout ends the session.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler/login"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/session"
)

// Path is the logout route.
const Path = handler.RootPath + "logout"

// ProviderLogout builds the identity provider logout url for an OIDC session, "" when there is none.
type ProviderLogout func(idToken, postLogoutRedirectURI string) string

// Service is the logout handler service.
type Service struct {
	cfg            *config.Config
	providerLogout ProviderLogout
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler. providerLogout may be nil.
func (s *Service) Init(app *fiber.App, cfg *config.Config, providerLogout ProviderLogout) {
	if app == nil || cfg == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.providerLogout = providerLogout

	// logout route (outside auth middleware protection)
	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)
}

// Logout handles user logout by clearing the session.
func (s *Service) Logout(c *fiber.Ctx) error {
	data := session.End(c)

	if data.User.ID > 0 {
		log.Info().Str("username", data.User.Username).Msg("user logged out")
	}

	if data.IDToken != "" && s.providerLogout != nil {
		if u := s.providerLogout(data.IDToken, s.cfg.Webserver.URL+login.Path); u != "" {
			return c.Redirect(u)
		}
	}

	return c.Redirect(login.Path)
}
