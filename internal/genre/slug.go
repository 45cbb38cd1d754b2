// Package genre provides the genre vocabulary, slugs, and normalization
// of free-form tags.
package genre

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases s into a hyphenated ASCII slug. Accented letters are
// decomposed and their marks dropped, so "Féerie / Sci-Fi" becomes
// "feerie-sci-fi".
func Slugify(s string) string {
	s = norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsMark(r), r > unicode.MaxASCII:
			// Combining marks from NFKD and any other non-ASCII are dropped.
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}
