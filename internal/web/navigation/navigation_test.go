package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Dashboard", SectionDashboard, "dashboard")

	assert.Equal(t, "Dashboard", ctx.PageTitle)
	assert.Equal(t, SectionDashboard, ctx.ActiveSection)
	assert.Equal(t, "dashboard", ctx.ActivePage)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
}

func TestContext_AddBreadcrumb_Chaining(t *testing.T) {
	ctx := NewContext("Settings", SectionSettings, "settings").
		AddBreadcrumb("Dashboard", "/dashboard", false).
		AddBreadcrumb("Settings", "/settings", true)

	assert.Len(t, ctx.Breadcrumbs, 2)
	assert.Equal(t, "Dashboard", ctx.Breadcrumbs[0].Title)
	assert.False(t, ctx.Breadcrumbs[0].Active)
	assert.True(t, ctx.Breadcrumbs[1].Active)
}

func TestForClient(t *testing.T) {
	detail := ForClient("Acme Plumbing", "detail", 3, "Acme Plumbing")
	assert.Len(t, detail.Breadcrumbs, 2)
	assert.Equal(t, "/clients/3", detail.Breadcrumbs[1].URL)
	assert.True(t, detail.Breadcrumbs[1].Active)

	preview := ForClient("Blog", "blog", 3, "Acme Plumbing").
		AddBreadcrumb("Blog", BlogURL(3, 8), true)
	assert.False(t, preview.Breadcrumbs[1].Active)
	assert.Equal(t, "/clients/3/blogs/8", preview.Breadcrumbs[2].URL)
}

func TestContext_IsActive(t *testing.T) {
	ctx := NewContext("Edit client", SectionClients, "edit")

	assert.True(t, ctx.IsActive(SectionClients, "edit"))
	assert.False(t, ctx.IsActive(SectionDashboard, "edit"))
	assert.False(t, ctx.IsActive(SectionClients, "detail"))
	assert.True(t, ctx.IsSectionActive(SectionClients))
	assert.False(t, ctx.IsSectionActive(SectionSettings))
}
