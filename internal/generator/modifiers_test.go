package generator

import (
	"testing"

	"tbl/internal/ast"
)

func TestApplyModifierUppercase(t *testing.T) {
	if got := applyModifier(ast.ModUppercase, "a red sword"); got != "A RED SWORD" {
		t.Fatalf("uppercase = %q", got)
	}
}

func TestApplyModifierLowercase(t *testing.T) {
	if got := applyModifier(ast.ModLowercase, "A RED SWORD"); got != "a red sword" {
		t.Fatalf("lowercase = %q", got)
	}
}

func TestCapitalizeFirst(t *testing.T) {
	cases := map[string]string{
		"sword":   "Sword",
		"":        "",
		"a":       "A",
		"élan":    "Élan",
		"ALREADY": "ALREADY",
	}
	for in, want := range cases {
		if got := capitalizeFirst(in); got != want {
			t.Errorf("capitalizeFirst(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestApplyModifierCapitalize(t *testing.T) {
	if got := applyModifier(ast.ModCapitalize, "sword"); got != "Sword" {
		t.Fatalf("capitalize = %q", got)
	}
}

func TestIndefiniteArticleVowels(t *testing.T) {
	cases := map[string]string{
		"apple":    "an ",
		"Orange":   "an ",
		"igloo":    "an ",
		"umbrella": "an ",
		"elephant": "an ",
		"sword":    "a ",
		"Dragon":   "a ",
		"'quoted'": "a ",  // leading non-letter, first letter 'q' is a consonant
		"'orange'": "an ", // leading non-letter, first letter 'o' is a vowel
		"123thing": "a ",
		"---":      "a ", // no letters at all
	}
	for in, want := range cases {
		if got := indefiniteArticle(in); got != want {
			t.Errorf("indefiniteArticle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestApplyModifierIndefiniteAndDefinite(t *testing.T) {
	if got := applyModifier(ast.ModIndefinite, "sword"); got != "a sword" {
		t.Fatalf("indefinite = %q", got)
	}
	if got := applyModifier(ast.ModIndefinite, "apple"); got != "an apple" {
		t.Fatalf("indefinite = %q", got)
	}
	if got := applyModifier(ast.ModDefinite, "sword"); got != "the sword" {
		t.Fatalf("definite = %q", got)
	}
}

func TestApplyModifiersChain(t *testing.T) {
	got := applyModifiers([]ast.Modifier{ast.ModIndefinite, ast.ModCapitalize}, "sword")
	if got != "A sword" {
		t.Fatalf("chained modifiers = %q", got)
	}
}
