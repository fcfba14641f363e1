// Package prompt turns the editable prompt template into the text sent to the generation provider.
package prompt

import (
	"strings"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
)

// Tokens recognised in a template. Matching is case sensitive.
const (
	TokenBusiness = "@Business"
	TokenService  = "@Service"
	TokenCity     = "@City"
	TokenAreas    = "@Areas"
	TokenTone     = "@Tone"
)

// DefaultTone is used when a client has no tone.
const DefaultTone = models.ToneProfessional

// DefaultTemplate is used whenever the stored template is empty.
const DefaultTemplate = `You are an expert SEO content writer. Write a fully optimized local blog for a business that must rank in Google search, the local Map Pack, and AI tools like Gemini, ChatGPT, and Grok. Make sure this is WordPress-ready with the appropriate heading tags and metadata.

The content must:
• Include @Service + @City in headings and copy
• Use natural language to answer real searcher questions
• Include an FAQ section with long-tail questions
• Use bullet points, lists, short paragraphs
• Mention nearby service areas like @Areas
• Include a strong CTA and local trust signals (reviews, experience, etc.)

Target service: @Service
City: @City
Areas: @Areas
Business: @Business
Tone: @Tone`

// Resolve substitutes the client's attributes into template.
// Every occurrence of a token is replaced in one pass, so values containing
// a token are not expanded again. Unknown @Words are left alone.
func Resolve(template string, c *models.Client) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultTemplate
	}

	if c == nil {
		c = &models.Client{}
	}

	tone := c.Tone
	if tone == "" {
		tone = DefaultTone
	}

	r := strings.NewReplacer(
		TokenBusiness, c.BusinessName,
		TokenService, c.Service,
		TokenCity, c.City,
		TokenAreas, strings.Join(c.Areas, ", "),
		TokenTone, tone,
	)

	return r.Replace(template)
}
