// Package normalize holds the canonical forms for user-entered identity
// fields. Stores normalize on the way in so queries can match exactly.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Username trims a page handle. Case is preserved for display; uniqueness
// is enforced on the folded copy (see text.Fold at the store layer).
func Username(s string) string {
	return strings.TrimSpace(s)
}

// Message trims a donor message.
func Message(s string) string {
	return strings.TrimSpace(s)
}

// URL trims a picture URL.
func URL(s string) string {
	return strings.TrimSpace(s)
}
