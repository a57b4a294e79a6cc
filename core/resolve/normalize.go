package resolve

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Separator is the canonical separator used in normalized keys.
const Separator = "-"

var (
	separatorRun = regexp.MustCompile(`[\s\-_]+`)
	disallowed   = regexp.MustCompile(`[^a-z0-9\-]+`)
	repeatedSep  = regexp.MustCompile(`-{2,}`)
)

// Normalize derives the key used to compare manifest entries and library names.
//
// The name is accent folded and lower-cased, every run of spaces, hyphens and
// underscores becomes a single hyphen, leading bullet residue is dropped, and
// anything outside [a-z0-9-] is removed. Two names are equal when their keys are.
func Normalize(name string) string {
	key := foldAccents(name)
	key = strings.ToLower(key)
	key = separatorRun.ReplaceAllString(key, Separator)
	key = strings.TrimLeft(key, Separator+"*")
	key = disallowed.ReplaceAllString(key, "")
	// Removing characters can leave two separators next to each other ("a - & - b").
	key = repeatedSep.ReplaceAllString(key, Separator)
	return strings.Trim(key, Separator)
}

// foldAccents strips combining marks so "Résumé" keeps its letters.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
