package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds s into the form used for equality and similarity:
// NFKC compatibility composition (full-width digits and letters become ASCII),
// Unicode case folding, and whitespace trimmed and collapsed to single spaces.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// Compact returns Normalize(s) with all whitespace removed.
func Compact(s string) string {
	return strings.ReplaceAll(Normalize(s), " ", "")
}
