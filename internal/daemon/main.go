// Package daemon wires the configuration into the database, the generation services and the web service.
package daemon

import (
	"context"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/auth"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/dsn"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/store"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/llm"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/logger/adapter/gormlogger"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/notify"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/pipeline"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/ratelimit"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/session"
)

const sessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	closers    []io.Closer
}

// Start serves http until SIGINT or SIGTERM, then releases the session storage and the rate limiter.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))

	for _, c := range d.closers {
		if cErr := c.Close(); cErr != nil {
			log.Error().Err(cErr).Msg("failed to release resource")
		}
	}

	return err
}

// New opens the database, migrates and seeds it and builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = Seed(context.Background(), cfg, db); err != nil {
		return nil, err
	}

	d := &Daemon{cfg: cfg}

	sessionStorage := newSessionStorage(cfg)
	session.Init(sessionStorage)
	d.closers = append(d.closers, sessionStorage)

	deps, err := d.services(cfg, db)
	if err != nil {
		return nil, err
	}

	d.webService = web.New(cfg, db, deps)

	return d, nil
}

// Open connects gorm to the configured engine and migrates the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(dsn.Dialector(cfg), &gorm.Config{Logger: gormlogger.New()})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Blog{},
		&models.Setting{},
	); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return db, nil
}

// services builds what the handlers delegate to. Optional parts stay nil when disabled.
func (d *Daemon) services(cfg *config.Config, db *gorm.DB) (web.Deps, error) {
	generator, err := llm.New(cfg.Generation)
	if err != nil {
		return web.Deps{}, errors.Wrap(err, "failed to create generation client")
	}

	records := store.New(db)

	deps := web.Deps{
		Auth:     auth.NewService(cfg.Auth, db),
		Blogs:    pipeline.New(records, records, records, generator),
		Records:  records,
		Notifier: notify.New(cfg.Notification),
	}

	if cfg.Auth.OIDC.Enabled {
		provider, oErr := auth.NewOIDCProvider(context.Background(), cfg.Auth.OIDC, db)
		if oErr != nil {
			return web.Deps{}, errors.Wrap(oErr, "failed to create oidc provider")
		}

		deps.OIDC = provider
	}

	if cfg.RateLimit.Addr != "" {
		limiter, rErr := ratelimit.New(cfg.RateLimit)
		if rErr != nil {
			return web.Deps{}, errors.Wrap(rErr, "failed to create rate limiter")
		}

		deps.Limiter = limiter
		d.closers = append(d.closers, limiter)
	}

	log.Info().
		Str("provider", cfg.Generation.Provider).
		Str("model", cfg.Generation.Model).
		Bool("oidc", deps.OIDC != nil).
		Bool("ldap", cfg.Auth.LDAP.Enabled).
		Bool("rate_limit", cfg.RateLimit.Addr != "").
		Msg("services ready")

	return deps, nil
}

// newSessionStorage keeps sessions next to the data. SQLite deployments are single process,
// their sessions live in the gofiber memory storage, which drops expired entries.
func newSessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			Username: cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Name,
			Table:    sessionTable,
		})
	case config.EngineSQLite:
		return session.NewMemory()
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	}
}
