package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sluggable/pkg/slug"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple text", input: "Hello World", expected: "hello-world"},
		{name: "with punctuation", input: "Hello, World!", expected: "hello-world"},
		{name: "with numbers", input: "Product 123", expected: "product-123"},
		{name: "multiple spaces", input: "Too    Many     Spaces", expected: "too-many-spaces"},
		{name: "consecutive separators", input: "Too---Many---Dashes", expected: "too-many-dashes"},
		{name: "mixed separator run", input: "a - & _ . b", expected: "a-b"},
		{name: "leading and trailing separators", input: "-leading and trailing-", expected: "leading-and-trailing"},
		{name: "underscores", input: "snake_case_name", expected: "snake-case-name"},
		{name: "apostrophe", input: "don't stop", expected: "don-t-stop"},
		{name: "tabs and newlines", input: "Line1\nLine2\tTabbed", expected: "line1-line2-tabbed"},
		{name: "non-breaking space", input: "a\u00a0b", expected: "a-b"},
		{name: "path like string", input: "path/to/file.txt", expected: "path-to-file-txt"},
		{name: "email address", input: "user@example.com", expected: "user-example-com"},
		{name: "empty string", input: "", expected: ""},
		{name: "whitespace only", input: "   \t ", expected: ""},
		{name: "only separator characters", input: `!@#$&*()'".,/_-`, expected: ""},
		{name: "only numbers", input: "123456789", expected: "123456789"},
		{name: "caffe and co", input: "  Caffè   & Co.!!  ", expected: "caffe-co"},
		{name: "german characters", input: "Über Größe straße", expected: "uber-grose-strase"},
		{name: "french characters", input: "Château façade élève", expected: "chateau-facade-eleve"},
		{name: "polish characters", input: "Zażółć gęślą jaźń", expected: "zazolc-gesla-jazn"},
		{name: "letters without decomposition", input: "Ærø", expected: "aro"},
		{name: "combining mark only", input: "\u0301", expected: ""},
		{name: "colon is escaped", input: "Price: $99.99", expected: "price%3a-99-99"},
		{name: "plus is escaped", input: "a+b", expected: "a%2bb"},
		{name: "tilde is escaped", input: "a~b", expected: "a%7eb"},
		{name: "percent and caret are escaped", input: "!@#$%^&*()", expected: "%25%5e"},
		{name: "trailing percent", input: "100%", expected: "100%25"},
		{name: "existing escape is kept", input: "%E2%82%AC", expected: "%e2%82%ac"},
		{name: "euro sign", input: "€5", expected: "%e2%82%ac5"},
		{name: "cyrillic", input: "Москва", expected: "%d0%bc%d0%be%d1%81%d0%ba%d0%b2%d0%b0"},
		{name: "emoji", input: "Hello 😀 World", expected: "hello-%f0%9f%98%80-world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, slug.Normalize(tt.input))
		})
	}
}

func TestNormalize_Properties(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		" ",
		"-",
		"--",
		"%",
		"%%",
		"%A",
		"%aG",
		"-%-",
		"\xff\xfe",
		"a\xffb",
		"ǅemal",
		"ﬁle",
		"İstanbul",
		"é",
		"a -\u0301- b",
		"  Caffè   & Co.!!  ",
		"日本語のタイトル",
		"!!!___...",
		"title-42",
		strings.Repeat("ab-", 100),
	}

	for _, in := range inputs {
		out := slug.Normalize(in)

		require.Equal(t, out, slug.Normalize(out), "not idempotent for %q", in)
		if out == "" {
			continue
		}

		assert.True(t, slug.IsValid(out), "invalid slug %q for %q", out, in)
		assert.False(t, strings.HasPrefix(out, "-"), "leading hyphen in %q", out)
		assert.False(t, strings.HasSuffix(out, "-"), "trailing hyphen in %q", out)
		assert.NotContains(t, out, "--")
	}
}

func FuzzNormalize(f *testing.F) {
	for _, seed := range []string{"", "Hello World", "  Caffè   & Co.!!  ", "%e2%82", "%ZZ", "a--b", "\xff"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, in string) {
		out := slug.Normalize(in)
		if again := slug.Normalize(out); again != out {
			t.Fatalf("Normalize(%q) = %q, Normalize of that = %q", in, out, again)
		}
		if out != "" && !slug.IsValid(out) {
			t.Fatalf("Normalize(%q) = %q is not a valid slug", in, out)
		}
	})
}

func TestJoin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello-world-42", slug.Join("Hello World", "42"))
	assert.Equal(t, "hello-world-7", slug.Join("hello-world", "7"))
	assert.Equal(t, "42", slug.Join("", "42"))
	assert.Equal(t, "title", slug.Join("title", ""))
	assert.Equal(t, "", slug.Join())
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		valid bool
	}{
		{"hello-world", true},
		{"42", true},
		{"caf%c3%a9", true},
		{"%e2", true},
		{"", false},
		{"-a", false},
		{"a-", false},
		{"a--b", false},
		{"Hello", false},
		{"a b", false},
		{"a%2", false},
		{"a%zz", false},
		{"a%2B", false},
		{"snake_case", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, slug.IsValid(tt.input))
		})
	}
}
