package generator

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"tbl/internal/ast"
)

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)
)

var vowels = map[rune]bool{
	'a': true, 'e': true, 'i': true, 'o': true, 'u': true,
	'A': true, 'E': true, 'I': true, 'O': true, 'U': true,
}

// applyModifier transforms s per spec.md §4.6's exact modifier semantics.
// Inputs are normalized to NFC first so a combining sequence at the front
// of s (e.g. produced by a nested table reference) doesn't split under
// case mapping.
func applyModifier(m ast.Modifier, s string) string {
	s = norm.NFC.String(s)
	switch m {
	case ast.ModUppercase:
		return upper.String(s)
	case ast.ModLowercase:
		return lower.String(s)
	case ast.ModCapitalize:
		return capitalizeFirst(s)
	case ast.ModDefinite:
		return "the " + s
	case ast.ModIndefinite:
		return indefiniteArticle(s) + s
	default:
		return s
	}
}

// capitalizeFirst upper-cases the first code point of s and leaves the
// rest unchanged, per spec.md §4.6.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// indefiniteArticle chooses "an " or "a " by scanning past any leading
// non-letters to find the first alphabetic character, per spec.md §9's
// resolved open question.
func indefiniteArticle(s string) string {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if vowels[r] {
			return "an "
		}
		return "a "
	}
	return "a "
}

// applyModifiers runs every modifier left-to-right over s.
func applyModifiers(mods []ast.Modifier, s string) string {
	out := s
	for _, m := range mods {
		out = applyModifier(m, out)
	}
	return out
}
