package negation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SimpleTokenize lower-cases text and splits it on whitespace, sentence
// punctuation, quotes and brackets. Apostrophes are kept so "don't" survives as
// one word.
func SimpleTokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), isWordBreak)
}

func isWordBreak(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case ',', '.', ':', ';', '!', '?', '"', '(', ')', '[', ']':
		return true
	}
	return false
}

// firstWord returns the leading word of s, split the same way the raw message is.
func firstWord(s string) string {
	fields := strings.FieldsFunc(s, isWordBreak)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
