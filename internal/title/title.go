// Package title picks the headline of a generated post.
package title

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	h1Pattern  = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`) //nolint:gochecknoglobals
	tagPattern = regexp.MustCompile(`<[^>]*>`)                  //nolint:gochecknoglobals
)

// Extract returns the text of the first <h1> in content with nested tags stripped, trimmed.
// The text is stored as written, entities included. Content without a closed heading yields fallback.
func Extract(content, fallback string) string {
	m := h1Pattern.FindStringSubmatch(content)
	if m == nil {
		return fallback
	}

	return strings.TrimSpace(tagPattern.ReplaceAllString(m[1], ""))
}

// Fallback is the title used when the post has no heading.
func Fallback(service, city string) string {
	return fmt.Sprintf("%s in %s", service, city)
}

// Display turns a stored title into plain text for pages: entities decoded, whitespace collapsed.
func Display(stored string) string {
	return strings.Join(strings.Fields(html.UnescapeString(stored)), " ")
}
