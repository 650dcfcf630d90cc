package records

import (
	"html"
	"regexp"
	"strings"
)

var htmlTagRE = regexp.MustCompile(`<[^>]*>`)

// StripMarkup removes HTML tags and entities from free-text fields. Index
// responses highlight query terms with <b> tags and escape entities; record
// fields carry plain text only.
func StripMarkup(s string) string {
	s = htmlTagRE.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
