// Package slug turns arbitrary text into canonical URL-safe slugs.
//
// A slug contains only lowercase ASCII letters, digits and single hyphens,
// never starts or ends with a hyphen, and carries a lowercase percent-escape
// (%hh) for every byte that cannot be expressed with that alphabet.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/sluggable/pkg/slug"
//
//	s := slug.Normalize("Hello, World!")
//	// Output: "hello-world"
//
//	s = slug.Normalize("  Caffè   & Co.!!  ")
//	// Output: "caffe-co"
//
//	s = slug.Join("Hello World", "42")
//	// Output: "hello-world-42"
//
// # Algorithm
//
// [Normalize] applies, in order:
//
//  1. Latin diacritics are transliterated to ASCII ("München" -> "Munchen").
//  2. Every run of - ' " & * ( ) ! @ # $ . , / _ and whitespace becomes one hyphen.
//  3. The result is lowercased.
//  4. Any character outside [a-z0-9-] is percent-encoded as UTF-8 bytes;
//     a valid lowercase escape already present in the input is kept as is.
//  5. One leading and one trailing hyphen are removed.
//
// Normalize is idempotent and never fails: an input with nothing sluggable in
// it yields the empty string, which callers treat as "no slug".
//
// # Unicode Support
//
// Letters that decompose into a base letter plus combining marks lose the
// marks. A few letters without a decomposition are mapped explicitly:
//
//	slug.Normalize("Über Größe straße") // "uber-grose-strase"
//	slug.Normalize("Ærø")               // "aro"
//
// Everything else outside ASCII (Cyrillic, CJK, emoji, ...) is percent-encoded:
//
//	slug.Normalize("Москва") // "%d0%bc%d0%be%d1%81%d0%ba%d0%b2%d0%b0"
package slug
