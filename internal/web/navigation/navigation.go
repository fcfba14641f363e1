// Package navigation provides the sidebar state and breadcrumbs of a page.
package navigation

import "strconv"

// Sections of the sidebar.
const (
	SectionDashboard = "dashboard"
	SectionClients   = "clients"
	SectionSettings  = "settings"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// ForClient starts the breadcrumbs of a page below a client: Dashboard, then the client.
func ForClient(pageTitle, activePage string, clientID uint64, businessName string) *Context {
	return NewContext(pageTitle, SectionClients, activePage).
		AddBreadcrumb("Dashboard", "/dashboard", false).
		AddBreadcrumb(businessName, ClientURL(clientID), activePage == "detail")
}

// ClientURL is the detail page of a client.
func ClientURL(clientID uint64) string {
	return "/clients/" + strconv.FormatUint(clientID, 10)
}

// BlogURL is the preview page of a blog.
func BlogURL(clientID, blogID uint64) string {
	return ClientURL(clientID) + "/blogs/" + strconv.FormatUint(blogID, 10)
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
