package entry

import (
	"strings"
	"unicode"
)

// textChanged reports whether two plain texts differ once every
// non-alphanumeric rune is stripped. Markup-only and whitespace-only
// edits therefore never count as a change.
func textChanged(oldText, newText string) bool {
	return stripNonAlnum(oldText) != stripNonAlnum(newText)
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
