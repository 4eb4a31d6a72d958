package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizedTitle holds the two derived forms of a free-text title.
// Key is used for comparison; Slug is used to build lookup URLs.
type NormalizedTitle struct {
	Key  string
	Slug string
}

var (
	strippedPunctuation = strings.NewReplacer(":", "", "'", "", "’", "", ".", "")
	symbolWords         = strings.NewReplacer("&", " and ", "+", " plus ")
)

// FoldAccents decomposes accented characters, drops combining marks, and
// lowercases the result. Casing does not depend on the process locale.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Normalize canonicalizes a title into a comparison key and a URL slug.
//
//	Normalize("The Legend of Zelda: Breath of the Wild") // {"the legend of zelda breath of the wild", "the-legend-of-zelda-breath-of-the-wild"}
//	Normalize("Ratchet & Clank")                         // {"ratchet and clank", "ratchet-and-clank"}
//
// The slug is always the key with spaces replaced by dashes, so
// Normalize(Normalize(x).Key) == Normalize(x).
func Normalize(title string) NormalizedTitle {
	s := FoldAccents(title)
	s = strippedPunctuation.Replace(s)
	s = symbolWords.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == '-' || r == '/' || unicode.IsSpace(r):
			pendingSep = true
		}
	}
	key := b.String()
	return NormalizedTitle{Key: key, Slug: strings.ReplaceAll(key, " ", "-")}
}

// Key is shorthand for Normalize(title).Key.
func Key(title string) string {
	return Normalize(title).Key
}

// Slug is shorthand for Normalize(title).Slug.
func Slug(title string) string {
	return Normalize(title).Slug
}
