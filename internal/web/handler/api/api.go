// Package api exposes generation and regeneration as JSON endpoints.
// Success answers {"blog": {...}}, failures answer {"error": "..."} with a non 2xx status.
package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler"
)

const (
	// Path is the api route group.
	Path = handler.RootPath + "api/v1/blogs"

	// GeneratePath creates a blog.
	GeneratePath = Path + "/generate"

	// RegeneratePath overwrites a blog.
	RegeneratePath = Path + "/regenerate"
)

// GenerateRequest is the body of a generate call.
type GenerateRequest struct {
	ClientID uint64 `json:"client_id"`
}

// RegenerateRequest is the body of a regenerate call.
type RegenerateRequest struct {
	BlogID   uint64 `json:"blog_id"`
	ClientID uint64 `json:"client_id"`
}

// BlogResponse is the success body.
type BlogResponse struct {
	Blog *models.Blog `json:"blog"`
}

// ErrorResponse is the failure body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Service is the api handler service.
type Service struct {
	blogs handler.BlogService
}

// Handler is the api handler.
var Handler = Service{}

// Init registers the api routes behind limit.
func (s *Service) Init(app *fiber.App, blogs handler.BlogService, limit fiber.Handler) {
	if app == nil || blogs == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.blogs = blogs

	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}

	app.Post(GeneratePath, limit, s.Generate)
	app.Post(RegeneratePath, limit, s.Regenerate)
}

// Generate handles POST /api/v1/blogs/generate.
func (s *Service) Generate(c *fiber.Ctx) error {
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil || req.ClientID == 0 {
		return badRequest(c, "client_id is required")
	}

	blog, err := s.blogs.Generate(c.UserContext(), handler.CurrentUser(c).ID, req.ClientID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(BlogResponse{Blog: blog})
}

// Regenerate handles POST /api/v1/blogs/regenerate.
func (s *Service) Regenerate(c *fiber.Ctx) error {
	var req RegenerateRequest
	if err := c.BodyParser(&req); err != nil || req.ClientID == 0 || req.BlogID == 0 {
		return badRequest(c, "blog_id and client_id are required")
	}

	blog, err := s.blogs.Regenerate(c.UserContext(), handler.CurrentUser(c).ID, req.ClientID, req.BlogID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(BlogResponse{Blog: blog})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
}

func fail(c *fiber.Ctx, err error) error {
	status := handler.Status(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("api request failed")
	}

	return c.Status(status).JSON(ErrorResponse{Error: handler.Message(err)})
}
