package match

import (
	"strings"
	"unicode"
)

// Normalize reduces a team label to its comparable form: lowercase with
// every non-alphanumeric rune removed. "Man. City " and "man city" collapse
// to the same key.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
