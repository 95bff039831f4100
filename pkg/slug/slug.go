package slug

import (
	"strings"
	"unicode"
)

const (
	separator = '-'
	lowerHex  = "0123456789abcdef"
)

// Normalize maps text to its canonical slug.
// The empty string is returned when nothing sluggable remains.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	collapsed := collapse(transliterate(text))
	encoded := escape(collapsed)

	encoded = strings.TrimPrefix(encoded, string(separator))
	encoded = strings.TrimSuffix(encoded, string(separator))

	return encoded
}

// Join normalizes the hyphen-joined parts as a single slug.
// Empty parts collapse away, so Join("", "42") is "42".
func Join(parts ...string) string {
	return Normalize(strings.Join(parts, string(separator)))
}

// IsValid reports whether s is a non-empty slug in canonical form,
// i.e. Normalize(s) == s.
func IsValid(s string) bool {
	if s == "" || s[0] == separator || s[len(s)-1] == separator {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isAlnum(c):
		case c == separator:
			if s[i-1] == separator {
				return false
			}
		case c == '%':
			if !isEscape(s, i) {
				return false
			}
			i += 2
		default:
			return false
		}
	}

	return true
}

// collapse replaces each run of separator characters with a single hyphen
// and lowercases everything else.
func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inRun := false
	for _, r := range s {
		if isSeparator(r) {
			if !inRun {
				b.WriteByte(separator)
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// escape percent-encodes every byte outside [a-z0-9-].
func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isAlnum(c) || c == separator:
			b.WriteByte(c)
		case c == '%' && isEscape(s, i):
			b.WriteString(s[i : i+3])
			i += 2
		default:
			b.WriteByte('%')
			b.WriteByte(lowerHex[c>>4])
			b.WriteByte(lowerHex[c&0x0f])
		}
	}

	return b.String()
}

func isSeparator(r rune) bool {
	switch r {
	case '-', '\'', '"', '&', '*', '(', ')', '!', '@', '#', '$', '.', ',', '/', '_':
		return true
	}
	return unicode.IsSpace(r)
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// isEscape reports whether s[i:] starts with a lowercase %hh escape.
func isEscape(s string, i int) bool {
	return i+2 < len(s) && s[i] == '%' && isLowerHex(s[i+1]) && isLowerHex(s[i+2])
}

func isLowerHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}
