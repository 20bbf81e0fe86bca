// Package normalize holds canonical forms for user-supplied identifiers.
package normalize

import "strings"

// Email returns the form emails are stored and compared in:
// surrounding whitespace trimmed, lower-cased.
func Email(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
