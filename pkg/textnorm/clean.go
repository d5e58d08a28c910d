package textnorm

import (
	"strings"
	"unicode"
)

// Clean lower-cases and trims text, turns punctuation and symbols into spaces
// and separates letters from digits ("room3" -> "room 3").
func Clean(text string) string {
	lowered := strings.TrimSpace(strings.ToLower(text))

	var sb strings.Builder
	sb.Grow(len(lowered) + 8)

	var prev rune
	for i, r := range lowered {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			r = ' '
		}
		if i > 0 && isBoundary(prev, r) {
			sb.WriteRune(' ')
		}
		sb.WriteRune(r)
		prev = r
	}
	return sb.String()
}

func isBoundary(prev, cur rune) bool {
	return (unicode.IsLetter(prev) && unicode.IsNumber(cur)) ||
		(unicode.IsNumber(prev) && unicode.IsLetter(cur))
}
