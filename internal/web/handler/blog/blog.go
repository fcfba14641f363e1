// Package blog serves generation, preview, regeneration and webhook delivery of a client's blogs.
package blog

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/title"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/navigation"
)

const (
	// Path is the blogs route below a client.
	Path = handler.RootPath + "clients/:id/blogs"

	// TemplatePreview shows one blog.
	TemplatePreview = "blogs/preview"
)

// Records reads clients and blogs scoped to their owner.
type Records interface {
	FindClient(ctx context.Context, id, ownerID uint64) (*models.Client, error)
	FindBlog(ctx context.Context, id, clientID uint64) (*models.Blog, error)
	WebhookURL(ctx context.Context) (string, error)
}

// Notifier delivers a blog to the webhook.
type Notifier interface {
	Send(ctx context.Context, url string, blog *models.Blog) (string, error)
}

// Service is the blog handler service.
type Service struct {
	cfg      *config.Config
	records  Records
	blogs    handler.BlogService
	notifier Notifier
}

// Handler is the blog handler.
var Handler = Service{}

// Init registers the routes. limit guards the two routes calling the generation provider.
func (s *Service) Init(
	app *fiber.App,
	cfg *config.Config,
	records Records,
	blogs handler.BlogService,
	notifier Notifier,
	limit fiber.Handler,
) {
	if app == nil || cfg == nil || records == nil || blogs == nil || notifier == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.records = records
	s.blogs = blogs
	s.notifier = notifier

	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}

	app.Post(Path, limit, s.Generate)
	app.Get(Path+"/:blogID", s.Preview)
	app.Post(Path+"/:blogID/regenerate", limit, s.Regenerate)
	app.Post(Path+"/:blogID/send", s.Send)
}

// Generate writes a new blog for the client and shows it.
func (s *Service) Generate(c *fiber.Ctx) error {
	user := handler.CurrentUser(c)

	clientID, err := handler.ParamID(c, "id")
	if err != nil {
		return s.renderError(c, 0, err)
	}

	blog, err := s.blogs.Generate(c.UserContext(), user.ID, clientID)
	if err != nil {
		return s.renderError(c, clientID, err)
	}

	return c.Redirect(navigation.BlogURL(clientID, blog.ID))
}

// Regenerate overwrites the blog with fresh content and shows it.
func (s *Service) Regenerate(c *fiber.Ctx) error {
	user := handler.CurrentUser(c)

	clientID, blogID, err := ids(c)
	if err != nil {
		return s.renderError(c, clientID, err)
	}

	blog, err := s.blogs.Regenerate(c.UserContext(), user.ID, clientID, blogID)
	if err != nil {
		return s.renderError(c, clientID, err)
	}

	return c.Redirect(navigation.BlogURL(clientID, blog.ID))
}

// Preview renders one blog.
func (s *Service) Preview(c *fiber.Ctx) error {
	owner, blog, err := s.load(c)
	if err != nil {
		return s.renderError(c, 0, err)
	}

	return s.renderPreview(c, fiber.StatusOK, owner, blog, fiber.Map{})
}

// Send posts the blog to the webhook and reports the outcome on the preview page.
// The blog itself is never changed.
func (s *Service) Send(c *fiber.Ctx) error {
	owner, blog, err := s.load(c)
	if err != nil {
		return s.renderError(c, 0, err)
	}

	url, err := s.records.WebhookURL(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("failed to load webhook url")

		return s.renderPreview(c, fiber.StatusInternalServerError, owner, blog, fiber.Map{"Error": "Failed to load settings"})
	}

	deliveryID, err := s.notifier.Send(c.UserContext(), url, blog)
	if err != nil {
		return s.renderPreview(c, handler.Status(err), owner, blog, fiber.Map{"Error": handler.Message(err)})
	}

	return s.renderPreview(c, fiber.StatusOK, owner, blog, fiber.Map{
		"Success": "Blog sent to webhook (delivery " + deliveryID + ")",
	})
}

func (s *Service) load(c *fiber.Ctx) (*models.Client, *models.Blog, error) {
	clientID, blogID, err := ids(c)
	if err != nil {
		return nil, nil, err
	}

	owner, err := s.records.FindClient(c.UserContext(), clientID, handler.CurrentUser(c).ID)
	if err != nil {
		return nil, nil, err
	}

	blog, err := s.records.FindBlog(c.UserContext(), blogID, owner.ID)
	if err != nil {
		return nil, nil, err
	}

	return owner, blog, nil
}

func (s *Service) renderPreview(c *fiber.Ctx, status int, owner *models.Client, blog *models.Blog, data fiber.Map) error {
	data["Navigation"] = navigation.ForClient(title.Display(blog.Title), "blog", owner.ID, owner.BusinessName).
		AddBreadcrumb(title.Display(blog.Title), navigation.BlogURL(owner.ID, blog.ID), true)
	data["CurrentUser"] = handler.CurrentUser(c)
	data["Client"] = owner
	data["Blog"] = blog

	return c.Status(status).Render(TemplatePreview, data, handler.BaseLayout)
}

func (s *Service) renderError(c *fiber.Ctx, clientID uint64, err error) error {
	status := handler.Status(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("blog request failed")
	}

	back := "/dashboard"
	if clientID > 0 && status != fiber.StatusNotFound {
		back = navigation.ClientURL(clientID)
	}

	return c.Status(status).Render(handler.TemplateError, fiber.Map{
		"Navigation":  navigation.NewContext("Error", navigation.SectionClients, "error"),
		"CurrentUser": handler.CurrentUser(c),
		"Error":       handler.Message(err),
		"Back":        back,
	}, handler.BaseLayout)
}

func ids(c *fiber.Ctx) (clientID, blogID uint64, err error) {
	if clientID, err = handler.ParamID(c, "id"); err != nil {
		return 0, 0, err
	}

	if blogID, err = handler.ParamID(c, "blogID"); err != nil {
		return clientID, 0, err
	}

	return clientID, blogID, nil
}
