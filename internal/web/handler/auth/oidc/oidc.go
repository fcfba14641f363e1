package oidc

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/auth"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/session"
)

const (
	// LoginPath is the path to initiate OIDC login.
	LoginPath = handler.RootPath + "auth/oidc/login"

	// CallbackPath is the path for OIDC callback.
	CallbackPath = handler.RootPath + "auth/oidc/callback"

	stateTTL      = 5 * time.Minute
	dashboardPath = "/dashboard"
)

// Provider is the part of auth.OIDCProvider the handlers use.
type Provider interface {
	AuthURL(state string) string
	HandleCallback(ctx context.Context, code string) (*models.User, string, error)
}

// Service is the OIDC handler service.
type Service struct {
	cfg      *config.Config
	provider Provider
	now      func() time.Time

	mu     sync.Mutex
	states map[string]time.Time
}

// Handler is the OIDC handler.
var Handler = Service{}

// Init registers the routes. Nothing is registered without a provider.
func (s *Service) Init(app *fiber.App, cfg *config.Config, provider Provider) {
	if app == nil || cfg == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	if provider == nil {
		return
	}

	s.cfg = cfg
	s.provider = provider
	s.states = make(map[string]time.Time)

	if s.now == nil {
		s.now = time.Now
	}

	app.Get(LoginPath, s.Login)
	app.Get(CallbackPath, s.Callback)
}

// Login initiates the OIDC login flow.
func (s *Service) Login(c *fiber.Ctx) error {
	state, err := auth.GenerateStateToken()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate state token")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	s.mu.Lock()
	s.pruneLocked()
	s.states[state] = s.now().Add(stateTTL)
	s.mu.Unlock()

	return c.Redirect(s.provider.AuthURL(state))
}

// Callback handles the OIDC callback.
func (s *Service) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		log.Error().Msg("missing code or state in OIDC callback")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid callback parameters")
	}

	if !s.consumeState(state) {
		log.Error().Msg("invalid or expired OIDC state token")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid state token")
	}

	user, idToken, err := s.provider.HandleCallback(c.UserContext(), code)
	if err != nil {
		log.Error().Err(err).Msg("OIDC authentication failed")
		return c.Status(fiber.StatusUnauthorized).SendString("Authentication failed")
	}

	if err = session.Start(c, user, idToken, s.cfg.Webserver.Session.ExpiryTime, s.cfg.DevMode); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	log.Info().Str("username", user.Username).Msg("user logged in via OIDC")

	return c.Redirect(dashboardPath)
}

// consumeState reports whether state was issued and is unexpired, and forgets it either way.
func (s *Service) consumeState(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expires, ok := s.states[state]
	delete(s.states, state)

	return ok && !s.now().After(expires)
}

func (s *Service) pruneLocked() {
	now := s.now()

	for state, expires := range s.states {
		if now.After(expires) {
			delete(s.states, state)
		}
	}
}
