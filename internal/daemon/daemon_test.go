package daemon

import (
	"context"
	"testing"

	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/auth"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
)

func sqliteConfig() *config.Config {
	return &config.Config{
		DB: config.DB{GormEngine: config.EngineSQLite, Name: ":memory:"},
	}
}

func TestOpen_MigratesAllTables(t *testing.T) {
	db, err := Open(sqliteConfig())
	require.NoError(t, err)

	for _, table := range []any{&models.User{}, &models.Client{}, &models.Blog{}, &models.Setting{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig()
	cfg.Auth.LocalDB.AdminPassword = "s3cret"

	db, err := Open(cfg)
	require.NoError(t, err)

	require.NoError(t, Seed(ctx, cfg, db))

	user, err := auth.NewLocalProvider(db).Authenticate(ctx, "admin", "s3cret")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
	assert.Equal(t, seedAdminEmail, user.Email)

	// a second run leaves the table alone
	require.NoError(t, Seed(ctx, cfg, db))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSeed_DefaultPassword(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig()
	cfg.Auth.LocalDB.AdminEmail = "owner@example.com"

	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, cfg, db))

	user, err := auth.NewLocalProvider(db).Authenticate(ctx, "admin", seedAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", user.Email)
}

func TestNewSessionStorage_SQLiteUsesMemory(t *testing.T) {
	storage := newSessionStorage(sqliteConfig())

	_, ok := storage.(*memory.Storage)
	assert.True(t, ok)
	assert.NoError(t, storage.Close())
}
