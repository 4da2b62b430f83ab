// Package slug derives URL-safe identifiers from titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TokenLength is the number of random characters appended to post slugs.
const TokenLength = 2

var (
	invalidChars = regexp.MustCompile(`[^\w\s-]`)
	separators   = regexp.MustCompile(`[-\s]+`)

	asciiFold = transform.Chain(
		norm.NFKD,
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
)

// Make lowercases title, folds it to ASCII and joins words with hyphens.
// "My Category" becomes "my-category".
func Make(title string) string {
	folded, _, err := transform.String(asciiFold, title)
	if err != nil {
		folded = title
	}
	s := invalidChars.ReplaceAllString(strings.ToLower(folded), "")
	s = separators.ReplaceAllString(strings.TrimSpace(s), "-")
	return strings.Trim(s, "-_")
}

// Token returns a short random token drawn from the shortuuid alphabet.
func Token() string {
	return shortuuid.New()[:TokenLength]
}

// WithToken is Make plus a hyphen and a fresh Token. Titles are not unique,
// the token keeps two posts with the same title apart.
func WithToken(title string) string {
	return Make(title) + "-" + Token()
}
