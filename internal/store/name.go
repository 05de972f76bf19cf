package store

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CollectionName normalizes a collection name to title case: accents are
// stripped, the name is split into words on separators and lower-to-upper
// case changes, each word that starts with a letter gets that letter
// upper-cased, and the words are joined with single spaces. The rest of each
// word is left untouched, so "2nd round" becomes "2nd Round" and the result
// is stable under repeated normalization.
func CollectionName(name string) string {
	words := splitWords(deburr(name))
	// A Caser is stateful; build one per call.
	caser := cases.Title(language.Und, cases.NoLower)
	for i, w := range words {
		if r, _ := utf8.DecodeRuneInString(w); unicode.IsLetter(r) {
			words[i] = caser.String(w)
		}
	}
	return strings.Join(words, " ")
}

// deburr removes combining marks, so "éclair" becomes "eclair".
func deburr(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func splitWords(s string) []string {
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			// "rawLeads" -> raw|Leads, "CRMLeads" -> CRM|Leads
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return words
}
