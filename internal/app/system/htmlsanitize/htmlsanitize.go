// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize wraps bluemonday policies for the two kinds of
// user-supplied content the app handles: plain form fields (names,
// departments) where no markup is allowed at all, and short rich snippets
// (the optional personal message on an invite) where basic formatting is
// allowed.
package htmlsanitize

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// StripTags removes all HTML, returning plain text. Use for single-line
// form fields.
func StripTags(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// Sanitize keeps basic user-generated-content formatting (paragraphs,
// emphasis, links, lists) and strips everything dangerous.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// SanitizeToHTML sanitizes and marks the result safe for template output.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}
