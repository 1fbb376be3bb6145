package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases s, strips accents and joins alphanumeric runs with '-'.
func Slugify(s string) string {
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// MenuSlug is the public slug of a restaurant's menu. The id suffix keeps
// slugs unique across restaurants with the same name.
func MenuSlug(restaurantName, restaurantID string) string {
	suffix := restaurantID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	base := Slugify(restaurantName)
	if base == "" {
		return Slugify(suffix)
	}
	return base + "-" + Slugify(suffix)
}
