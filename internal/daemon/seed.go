package daemon

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/auth"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
)

const (
	seedAdminUsername = "admin"
	seedAdminEmail    = "admin@localhost"
	seedAdminPassword = "changeme"
)

// Seed creates the local admin account when the users table is empty.
func Seed(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to count users")
	}

	if count > 0 {
		return nil
	}

	email := cfg.Auth.LocalDB.AdminEmail
	if email == "" {
		email = seedAdminEmail
	}

	password := cfg.Auth.LocalDB.AdminPassword
	if password == "" {
		password = seedAdminPassword

		log.Warn().Str("username", seedAdminUsername).Msg("seeding admin with the default password, change it after the first login")
	}

	if _, err := auth.NewLocalProvider(db).CreateUser(ctx, auth.NewUser{
		Username: seedAdminUsername,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	}); err != nil {
		return errors.Wrap(err, "failed to seed admin user")
	}

	log.Info().Str("username", seedAdminUsername).Msg("admin user created")

	return nil
}
