package login

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/auth"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
	websess "github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/session"
)

// noOpViews is a minimal Fiber Views engine used for tests.
// It writes the "error" field from the provided fiber.Map (if any)
// so tests can assert error messages rendered by handlers.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}
	}
	// write template name to have some content
	_, _ = io.WriteString(w, name)

	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")
	require.NoError(t, db.AutoMigrate(&models.User{}), "failed to migrate user model")

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
		Auth: config.Auth{
			LocalDB: config.LocalDBAuth{Enabled: true},
		},
	}
}

func setup(t *testing.T, cfg *config.Config) (*fiber.App, *gorm.DB) {
	t.Helper()

	websess.Init(websess.NewMemory())

	db := newTestDB(t)
	app := fiber.New(fiber.Config{Views: noOpViews{}})

	var s Service
	s.Init(app, cfg, auth.NewService(cfg.Auth, db))

	_, err := auth.NewLocalProvider(db).CreateUser(context.Background(), auth.NewUser{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "s3cr3t",
	})
	require.NoError(t, err)

	return app, db
}

func performPost(t *testing.T, app *fiber.App, form url.Values) (*http.Response, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path+"/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	return resp, string(body)
}

func TestGet_RendersLoginPage(t *testing.T) {
	app, _ := setup(t, newTestConfig())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, Path, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, TemplateName, string(body))
}

func TestPost_Success_SetsCookieAndRedirects(t *testing.T) {
	app, _ := setup(t, newTestConfig())

	resp, _ := performPost(t, app, url.Values{"username": {"bob"}, "password": {"s3cr3t"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, dashboardPath, resp.Header.Get("Location"))

	setCookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, setCookie, websess.CookieName+"=")
	assert.Contains(t, strings.ToLower(setCookie), "secure")
	assert.Contains(t, strings.ToLower(setCookie), "httponly")
}

func TestPost_DevModeDisablesSecure(t *testing.T) {
	cfg := newTestConfig()
	cfg.DevMode = true
	app, _ := setup(t, cfg)

	resp, _ := performPost(t, app, url.Values{"username": {"bob"}, "password": {"s3cr3t"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.NotContains(t, strings.ToLower(resp.Header.Get("Set-Cookie")), "secure")
}

func TestPost_Failures(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		disable bool
		want    error
	}{
		{name: "wrong password", form: url.Values{"username": {"bob"}, "password": {"nope"}}, want: ErrInvalidCredentials},
		{name: "unknown user", form: url.Values{"username": {"eve"}, "password": {"s3cr3t"}}, want: ErrInvalidCredentials},
		{name: "no login method", form: url.Values{"username": {"bob"}, "password": {"s3cr3t"}}, disable: true, want: ErrNoAuthMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			cfg.Auth.LocalDB.Enabled = !tt.disable
			app, _ := setup(t, cfg)

			resp, body := performPost(t, app, tt.form)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tt.want.Error(), body)
			assert.Empty(t, resp.Header.Get("Set-Cookie"))
		})
	}
}

func TestPost_DisabledAccount(t *testing.T) {
	app, db := setup(t, newTestConfig())
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "bob").Update("active", false).Error)

	resp, body := performPost(t, app, url.Values{"username": {"bob"}, "password": {"s3cr3t"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, ErrAccountDisabled.Error(), body)
}

func TestPost_InvalidForm_RendersError(t *testing.T) {
	app, _ := setup(t, newTestConfig())

	// Malformed JSON to force BodyParser error
	req := httptest.NewRequest(http.MethodPost, Path+"/", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ErrInvalidFormData.Error(), string(body))
}
