package client

import (
	"strings"

	controller "github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/controller/client"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
)

// Form is the add and edit client form. Areas and keywords are comma or newline separated.
type Form struct {
	BusinessName string `form:"business_name" label:"Business name" validate:"required,max=255"`
	Service      string `form:"service"       label:"Service"       validate:"required,max=255"`
	City         string `form:"city"          label:"City"          validate:"required,max=255"`
	Areas        string `form:"areas"         label:"Service areas"`
	Keywords     string `form:"keywords"      label:"Keywords"`
	Tone         string `form:"tone"          label:"Tone"          validate:"max=50"`
	APIKey       string `form:"api_key"       label:"API key"       validate:"max=255"`
	// ClearAPIKey removes the stored key, an empty APIKey alone keeps it.
	ClearAPIKey bool `form:"clear_api_key"`
}

// trim strips surrounding whitespace so "required" rejects blank input.
func (f *Form) trim() {
	f.BusinessName = strings.TrimSpace(f.BusinessName)
	f.Service = strings.TrimSpace(f.Service)
	f.City = strings.TrimSpace(f.City)
	f.Tone = strings.TrimSpace(f.Tone)
	f.APIKey = strings.TrimSpace(f.APIKey)
}

// apply copies the form onto c. The api key is only touched when canEditKey is set.
// It returns whether the stored key must be kept.
func (f *Form) apply(c *models.Client, canEditKey bool) (keepAPIKey bool) {
	c.BusinessName = f.BusinessName
	c.Service = f.Service
	c.City = f.City
	c.Areas = controller.SplitList(f.Areas)
	c.Keywords = controller.SplitList(f.Keywords)
	c.Tone = f.Tone

	switch {
	case !canEditKey:
		return true
	case f.ClearAPIKey:
		c.APIKey = ""
	case f.APIKey != "":
		c.APIKey = f.APIKey
	default:
		return true
	}

	return false
}

// formFrom fills the edit form from a stored client. The key itself is never sent back.
func formFrom(c *models.Client) *Form {
	return &Form{
		BusinessName: c.BusinessName,
		Service:      c.Service,
		City:         c.City,
		Areas:        strings.Join(c.Areas, "\n"),
		Keywords:     strings.Join(c.Keywords, "\n"),
		Tone:         c.Tone,
	}
}
