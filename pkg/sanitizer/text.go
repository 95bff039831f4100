// Package sanitizer cleans display text before it is stored in a sluggable field.
package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// StrictPolicy strips all HTML and returns escaped plain text.
		strictPolicy = bluemonday.StrictPolicy()
	})
}

// Whitespace collapses every run of whitespace to a single space and trims both ends.
func Whitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// PlainText removes all markup from s, decodes HTML entities and then
// collapses whitespace. Script and style contents are dropped entirely.
func PlainText(s string) string {
	if s == "" {
		return ""
	}

	initPolicies()

	// bluemonday escapes the text it keeps ("&" -> "&amp;"); titles are stored unescaped.
	return Whitespace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
