// Package skills extracts and compares skill terms.
//
// Every case-insensitive comparison in the module goes through Normalize.
package skills

import (
	"strings"

	"golang.org/x/text/cases"
)

// folder is stateless and safe for concurrent use.
var folder = cases.Fold() //nolint:gochecknoglobals // shared caser

// Normalize trims s and applies Unicode case folding. The result is the
// identity key of a skill.
func Normalize(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// Equal reports whether a and b name the same skill.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
