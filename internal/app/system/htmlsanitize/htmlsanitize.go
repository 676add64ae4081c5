// Package htmlsanitize strips unsafe HTML from user-entered text before
// it is persisted or echoed back into a page.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Plain strips all HTML, leaving only text content. Donor names, messages,
// and profile fields are plain text and go through this before any write.
func Plain(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
