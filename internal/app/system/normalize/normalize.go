// Package normalize canonicalizes user-supplied strings before they reach
// validation or storage. Lowercasing rules match what the stores index on,
// so equality checks and unique indexes agree with each other.
package normalize

import "strings"

// Email trims whitespace and lowercases. Stored emails are always in this
// form; the accounts unique index depends on it.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and lowercases a role string prior to roles.Parse.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Department trims whitespace but preserves case.
func Department(s string) string {
	return strings.TrimSpace(s)
}

// AuthMethod trims and lowercases an auth method ("password", "google").
func AuthMethod(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a free-text query parameter, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
