package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips every tag; records hold plain text only
var textPolicy = bluemonday.StrictPolicy()

// CleanText trims and strips markup from a free-text field. The policy escapes the
// text it keeps, so entities are decoded again before storing.
func CleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// CleanOptionalText cleans a nullable text field. Empty results become nil.
func CleanOptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := CleanText(*s)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
