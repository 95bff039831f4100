package slug

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters with no canonical decomposition into base letter + marks.
var letters = strings.NewReplacer(
	"ß", "s", "ẞ", "s",
	"æ", "a", "Æ", "a",
	"œ", "o", "Œ", "o",
	"ø", "o", "Ø", "o",
	"đ", "d", "Đ", "d",
	"ð", "d", "Ð", "d",
	"ł", "l", "Ł", "l",
	"þ", "th", "Þ", "th",
	"ı", "i",
)

// transliterate folds Latin diacritics to plain ASCII letters.
// Characters it cannot fold are returned unchanged.
func transliterate(s string) string {
	if isASCII(s) {
		return s
	}

	s = letters.Replace(s)

	// transform.Chain is stateful, so a fresh one is needed per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
