package helper

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText applies NFKC normalization and case folding, drops control
// characters and collapses whitespace runs to a single space. Safe for
// concurrent use; each call gets its own Caser.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = cases.Fold().String(normed)
	normed = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return strings.Join(strings.Fields(normed), " ")
}

// Tokenize normalizes text and splits it into letter/digit runs.
// Characters such as '+' and '#' are kept so that "c++" and "c#" survive.
func Tokenize(text string) []string {
	return strings.FieldsFunc(NormalizeText(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}
