package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/auth"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	fiberlogger "github.com/LocalBlog-Admin/LocalBlog-Admin/internal/logger/adapter/fiber"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/title"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler/api"
	oidchandler "github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler/auth/oidc"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler/blog"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler/client"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler/dashboard"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler/login"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler/logout"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler/settings"
	authmw "github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/middleware/auth"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/middleware/ratelimit"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/render"
)

// CheckAlivePath answers load balancer health checks.
const CheckAlivePath = "/checkalive"

// MetricsPath exposes the prometheus metrics.
const MetricsPath = "/metrics"

// Deps are the services the handlers delegate to.
type Deps struct {
	Auth     login.Authenticator
	OIDC     *auth.OIDCProvider // nil when OIDC login is disabled
	Blogs    handler.BlogService
	Records  blog.Records
	Notifier blog.Notifier
	Limiter  ratelimit.Limiter // nil disables rate limiting
}

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and stops the http server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive returns 200 while serving and 503 once a shutdown started.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, deps Deps) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          newTemplateEngine(cfg),
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:            cfg.Log,
		CacheControlError: fiberlogger.ConfigDefault.CacheControlError,
		CheckAliveURI:     CheckAlivePath,
		User: func(c *fiber.Ctx) string {
			if u := handler.CurrentUser(c); u != nil {
				return u.Username
			}

			return ""
		},
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	app.Use(authmw.Middleware)

	service := &Service{
		cfg: cfg,
		App: app,
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, service.CheckAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// a nil *auth.OIDCProvider must not reach the handlers as a non nil interface
	var (
		oidcProvider   oidchandler.Provider
		providerLogout logout.ProviderLogout
	)

	if deps.OIDC != nil {
		oidcProvider = deps.OIDC
		providerLogout = deps.OIDC.LogoutURL
	}

	limit := ratelimit.New(deps.Limiter)

	login.Handler.Init(app, cfg, deps.Auth)
	logout.Handler.Init(app, cfg, providerLogout)
	oidchandler.Handler.Init(app, cfg, oidcProvider)
	dashboard.Handler.Init(app, cfg, db)
	client.Handler.Init(app, cfg, db)
	blog.Handler.Init(app, cfg, deps.Records, deps.Blogs, deps.Notifier, limit)
	api.Handler.Init(app, deps.Blogs, limit)
	settings.Handler.Init(app, cfg, db, authmw.RequireAdmin)

	// redirect root to dashboard
	app.Get(handler.RootPath, func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	return service
}

func newTemplateEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	renderer := render.New()

	templateEngine.AddFunc("blogHTML", renderer.HTML)
	templateEngine.AddFunc("headline", title.Display)
	templateEngine.AddFunc("join", strings.Join)
	templateEngine.AddFunc("date", func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	})
	templateEngine.AddFunc("appTitle", func() string {
		return cfg.Title
	})

	return templateEngine
}
