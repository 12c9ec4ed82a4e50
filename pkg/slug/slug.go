// Package slug handles URL slug normalization and derivation for operators.
package slug

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a caller-supplied slug: trimmed and lower-cased.
// Normalize is idempotent.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Derive builds a slug from a display name: lower-cased, trimmed, with runs
// of whitespace and punctuation collapsed into single hyphens.
func Derive(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))

	pendingSep := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			// Whitespace and punctuation collapse into one separator
			pendingSep = true
		}
	}

	return b.String()
}
