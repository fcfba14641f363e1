package client

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/controller/appsettings"
	controller "github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/controller/client"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler"
)

// recordingViews keeps the data of the last render so tests can inspect it.
type recordingViews struct {
	name string
	data fiber.Map
}

func (*recordingViews) Load() error { return nil }

func (v *recordingViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	v.name = name
	v.data, _ = data.(fiber.Map)
	_, _ = io.WriteString(w, name)

	return nil
}

type env struct {
	app   *fiber.App
	db    *gorm.DB
	views *recordingViews
	user  models.User
}

func setup(t *testing.T, role models.Role) *env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Client{}, &models.Blog{}, &models.Setting{}))

	e := &env{db: db, views: &recordingViews{}, user: models.User{ID: 1, Username: "olivia", Role: role}}
	e.app = fiber.New(fiber.Config{Views: e.views})
	e.app.Use(func(c *fiber.Ctx) error {
		c.Locals(handler.LocalsCurrentUser, e.user)
		return c.Next()
	})

	var s Service
	s.Init(e.app, &config.Config{}, db)

	return e
}

func (e *env) post(t *testing.T, target string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func (e *env) get(t *testing.T, target string) *http.Response {
	t.Helper()

	resp, err := e.app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)

	return resp
}

func acmeForm() url.Values {
	return url.Values{
		"business_name": {"  Acme Plumbing "},
		"service":       {"Drain Cleaning"},
		"city":          {"Austin"},
		"areas":         {"Round Rock, Cedar Park\nRound Rock"},
		"keywords":      {"drain, clog"},
		"tone":          {"Friendly"},
		"api_key":       {"sk-client"},
	}
}

func (e *env) only(t *testing.T) models.Client {
	t.Helper()

	clients, err := controller.ListByUser(e.db, e.user.ID)
	require.NoError(t, err)
	require.Len(t, clients, 1)

	return clients[0]
}

func TestCreate_Admin(t *testing.T) {
	e := setup(t, models.RoleAdmin)

	resp := e.post(t, "/clients/new", acmeForm())
	require.Equal(t, http.StatusFound, resp.StatusCode)

	c := e.only(t)
	assert.Equal(t, "/clients/1", resp.Header.Get("Location"))
	assert.Equal(t, "Acme Plumbing", c.BusinessName)
	assert.Equal(t, []string{"Round Rock", "Cedar Park"}, c.Areas)
	assert.Equal(t, []string{"drain", "clog"}, c.Keywords)
	assert.Equal(t, "sk-client", c.APIKey)
}

func TestCreate_OperatorKeyLocked(t *testing.T) {
	e := setup(t, models.RoleOperator)

	resp := e.post(t, "/clients/new", acmeForm())
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Empty(t, e.only(t).APIKey)
}

func TestCreate_OperatorKeyUnlocked(t *testing.T) {
	e := setup(t, models.RoleOperator)
	require.NoError(t, (&appsettings.Settings{UnlockAPIKeys: true}).Save(e.db))

	resp := e.post(t, "/clients/new", acmeForm())
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "sk-client", e.only(t).APIKey)
}

func TestCreate_Invalid(t *testing.T) {
	e := setup(t, models.RoleAdmin)

	form := acmeForm()
	form.Set("business_name", "   ")

	resp := e.post(t, "/clients/new", form)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, TemplateForm, e.views.name)
	assert.Equal(t, []string{"Business name is required"}, e.views.data["Error"])

	clients, err := controller.ListByUser(e.db, e.user.ID)
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestDetail(t *testing.T) {
	e := setup(t, models.RoleOperator)
	require.Equal(t, http.StatusFound, e.post(t, "/clients/new", acmeForm()).StatusCode)

	other := &models.Client{UserID: 2, BusinessName: "Other", Service: "Roofing", City: "Dallas"}
	require.NoError(t, controller.Create(e.db, other))

	resp := e.get(t, "/clients/1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateDetail, e.views.name)
	assert.Equal(t, false, e.views.data["HasAPIKey"])

	resp = e.get(t, "/clients/2")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, handler.TemplateError, e.views.name)

	resp = e.get(t, "/clients/abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEditAndUpdate(t *testing.T) {
	e := setup(t, models.RoleAdmin)
	require.Equal(t, http.StatusFound, e.post(t, "/clients/new", acmeForm()).StatusCode)

	resp := e.get(t, "/clients/1/edit")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	form, ok := e.views.data["Form"].(*Form)
	require.True(t, ok)
	assert.Equal(t, "Round Rock\nCedar Park", form.Areas)
	assert.Empty(t, form.APIKey, "stored key must not be echoed")
	assert.Equal(t, true, e.views.data["HasAPIKey"])

	// empty key keeps the stored one
	update := acmeForm()
	update.Set("city", "San Antonio")
	update.Set("api_key", "")
	require.Equal(t, http.StatusFound, e.post(t, "/clients/1/edit", update).StatusCode)

	c := e.only(t)
	assert.Equal(t, "San Antonio", c.City)
	assert.Equal(t, "sk-client", c.APIKey)

	update.Set("clear_api_key", "true")
	require.Equal(t, http.StatusFound, e.post(t, "/clients/1/edit", update).StatusCode)
	assert.Empty(t, e.only(t).APIKey)
}

func TestUpdate_OperatorCannotChangeLockedKey(t *testing.T) {
	e := setup(t, models.RoleOperator)

	seeded := &models.Client{UserID: 1, BusinessName: "Acme", Service: "Drains", City: "Austin", APIKey: "sk-admin"}
	require.NoError(t, controller.Create(e.db, seeded))

	update := acmeForm()
	update.Set("api_key", "sk-mine")
	update.Set("clear_api_key", "true")
	require.Equal(t, http.StatusFound, e.post(t, "/clients/1/edit", update).StatusCode)

	c := e.only(t)
	assert.Equal(t, "Acme Plumbing", c.BusinessName)
	assert.Equal(t, "sk-admin", c.APIKey)
}

func TestUpdate_OtherUsersClient(t *testing.T) {
	e := setup(t, models.RoleAdmin)

	other := &models.Client{UserID: 2, BusinessName: "Other", Service: "Roofing", City: "Dallas"}
	require.NoError(t, controller.Create(e.db, other))

	resp := e.post(t, "/clients/1/edit", acmeForm())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	got, err := controller.Get(e.db, other.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "Other", got.BusinessName)
}
