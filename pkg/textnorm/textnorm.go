// Package textnorm provides text normalization for matching French labels
// and spreadsheet headers: diacritic stripping, case folding, and separator
// collapsing.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold strips diacritics and lowercases without touching separators.
// Transform failures fall back to plain lowercasing.
func Fold(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// Normalize folds the input and collapses every run of non-alphanumeric
// characters to a single space. "Terre végétale / remblai" -> "terre vegetale remblai".
func Normalize(s string) string {
	return collapse(Fold(s), ' ')
}

// Key folds the input and collapses separator runs to a single underscore,
// producing stable lookup keys for heterogeneous header spellings.
// "Libellé Ressource" and "libelle_ressource" share the key "libelle_ressource".
func Key(s string) string {
	return collapse(Fold(s), '_')
}

func collapse(s string, sep rune) string {
	var b strings.Builder
	b.Grow(len(s))

	pending := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteRune(sep)
			}
			pending = false
			b.WriteRune(r)
		} else {
			pending = true
		}
	}

	return b.String()
}
