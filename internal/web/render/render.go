// Package render turns stored blog content into html that is safe to embed in a page.
package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	mdhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown or html post bodies to sanitized html.
// Raw html inside the content is kept, scripts and event handlers are not.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New returns a renderer using the user generated content policy.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(mdhtml.WithUnsafe()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// HTML renders content. A conversion failure falls back to the escaped text.
func (r *Renderer) HTML(content string) template.HTML {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(content)) //nolint:gosec // escaped
	}

	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized
}
