package lexer_test

import (
	"strings"
	"testing"

	"tbl/internal/diag"
	"tbl/internal/lexer"
	"tbl/internal/source"
	"tbl/internal/token"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d *diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, *d)
}

func (r *testReporter) errorCount() int {
	n := 0
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevError {
			n++
		}
	}
	return n
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func lexAll(t *testing.T, src string) ([]token.Token, *testReporter) {
	t.Helper()
	rep := &testReporter{}
	lx := lexer.New(source.NewMap(src), lexer.Options{Reporter: rep})
	return lx.All(), rep
}

func assertKinds(t *testing.T, got []token.Token, want []token.Kind) {
	t.Helper()
	gk := kinds(got)
	if len(gk) != len(want) {
		t.Fatalf("kind count mismatch: got %v want %v", gk, want)
	}
	for i := range want {
		if gk[i] != want[i] {
			t.Fatalf("token %d: got %s want %s (full: %v)", i, gk[i], want[i], gk)
		}
	}
}

func TestTableDeclaration(t *testing.T) {
	toks, rep := lexAll(t, "#greeting\n")
	assertKinds(t, toks, []token.Kind{
		token.Hash, token.Identifier, token.Newline, token.Eof,
	})
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
	if toks[1].Text != "greeting" {
		t.Fatalf("identifier text = %q", toks[1].Text)
	}
}

func TestExportFlag(t *testing.T) {
	toks, rep := lexAll(t, "#greeting [export]\n")
	assertKinds(t, toks, []token.Kind{
		token.Hash, token.Identifier, token.LeftBracket, token.ExportKeyword,
		token.RightBracket, token.Newline, token.Eof,
	})
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
}

func TestUnknownFlag(t *testing.T) {
	toks, rep := lexAll(t, "#greeting [bogus]\n")
	assertKinds(t, toks, []token.Kind{
		token.Hash, token.Identifier, token.LeftBracket, token.Identifier,
		token.RightBracket, token.Newline, token.Eof,
	})
	if rep.errorCount() != 1 {
		t.Fatalf("expected 1 error, got %d: %v", rep.errorCount(), rep.diagnostics)
	}
	if rep.diagnostics[0].Code != diag.SynUnknownFlag {
		t.Fatalf("code = %v", rep.diagnostics[0].Code)
	}
}

func TestRuleLineWithExpression(t *testing.T) {
	toks, rep := lexAll(t, "1: hello {d6} world\n")
	assertKinds(t, toks, []token.Kind{
		token.Number, token.Colon, token.Text, token.LeftBrace,
		token.DiceLiteral, token.RightBrace, token.Text, token.Newline, token.Eof,
	})
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
	if toks[4].Text != "d6" {
		t.Fatalf("dice text = %q", toks[4].Text)
	}
}

func TestRuleLineWithTableReferenceAndModifier(t *testing.T) {
	toks, rep := lexAll(t, "1: a {#name|capitalize} visits\n")
	assertKinds(t, toks, []token.Kind{
		token.Number, token.Colon, token.Text, token.LeftBrace, token.Hash,
		token.Identifier, token.Pipe, token.Identifier, token.RightBrace,
		token.Text, token.Newline, token.Eof,
	})
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
}

func TestEscapedBraces(t *testing.T) {
	toks, rep := lexAll(t, `1: literal \{not an expr\}` + "\n")
	assertKinds(t, toks, []token.Kind{token.Number, token.Colon, token.Text, token.Newline, token.Eof})
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
	if toks[2].Text != "literal {not an expr}" {
		t.Fatalf("text = %q", toks[2].Text)
	}
}

func TestDiceWithImplicitCount(t *testing.T) {
	toks, rep := lexAll(t, "1: {d20}\n")
	assertKinds(t, toks, []token.Kind{
		token.Number, token.Colon, token.LeftBrace, token.DiceLiteral,
		token.RightBrace, token.Newline, token.Eof,
	})
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
	if toks[3].Text != "d20" {
		t.Fatalf("dice text = %q", toks[3].Text)
	}
}

func TestNegativeNumberIsInvalidNotNumber(t *testing.T) {
	toks, rep := lexAll(t, "-1: oops\n")
	if toks[0].Kind != token.Invalid {
		t.Fatalf("kind = %s, want Invalid", toks[0].Kind)
	}
	if toks[0].Text != "-1" {
		t.Fatalf("text = %q", toks[0].Text)
	}
	// The lexer defers classification of a negative weight to the parser.
	if rep.errorCount() != 0 {
		t.Fatalf("lexer should not itself report negative weight: %v", rep.diagnostics)
	}
}

func TestMalformedNumber(t *testing.T) {
	_, rep := lexAll(t, "1.2.3: oops\n")
	if rep.errorCount() != 1 {
		t.Fatalf("expected 1 error, got %d: %v", rep.errorCount(), rep.diagnostics)
	}
	if rep.diagnostics[0].Code != diag.LexBadNumber {
		t.Fatalf("code = %v", rep.diagnostics[0].Code)
	}
}

func TestMalformedDice(t *testing.T) {
	_, rep := lexAll(t, "1: {5}\n")
	if rep.errorCount() != 1 {
		t.Fatalf("expected 1 error, got %d: %v", rep.errorCount(), rep.diagnostics)
	}
	if rep.diagnostics[0].Code != diag.SynMalformedDice {
		t.Fatalf("code = %v", rep.diagnostics[0].Code)
	}
}

func TestUnterminatedExpression(t *testing.T) {
	_, rep := lexAll(t, "1: hello {d6\n")
	if rep.errorCount() != 1 {
		t.Fatalf("expected 1 error, got %d: %v", rep.errorCount(), rep.diagnostics)
	}
	if rep.diagnostics[0].Code != diag.LexUnterminatedExpression {
		t.Fatalf("code = %v", rep.diagnostics[0].Code)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, rep := lexAll(t, "/* never closed\n#table\n")
	if rep.errorCount() != 1 {
		t.Fatalf("expected 1 error, got %d: %v", rep.errorCount(), rep.diagnostics)
	}
	if rep.diagnostics[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("code = %v", rep.diagnostics[0].Code)
	}
}

func TestLineCommentSkipped(t *testing.T) {
	toks, rep := lexAll(t, "// a comment\n#greeting\n")
	assertKinds(t, toks, []token.Kind{
		token.Newline, token.Hash, token.Identifier, token.Newline, token.Eof,
	})
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
}

func TestCrossCollectionReferenceRejected(t *testing.T) {
	_, rep := lexAll(t, "1: {@other}\n")
	if rep.errorCount() == 0 {
		t.Fatalf("expected an error for '@'")
	}
	found := false
	for _, d := range rep.diagnostics {
		if d.Code == diag.LexUnsupportedReference {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected LexUnsupportedReference, got %v", rep.diagnostics)
	}
}

func TestMultipleFlagsCommaSeparated(t *testing.T) {
	toks, rep := lexAll(t, "#greeting [export, export]\n#other\n")
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
	if toks[0].Kind != token.Hash {
		t.Fatalf("first token kind = %s", toks[0].Kind)
	}
}

func TestPathologicallyLongTokenIsRejected(t *testing.T) {
	huge := "#a\n0: " + strings.Repeat("x", 70000) + "\n"
	toks, rep := lexAll(t, huge)

	found := false
	for _, d := range rep.diagnostics {
		if d.Code == diag.LexTokenTooLong {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected LexTokenTooLong, got %v", rep.diagnostics)
	}

	sawInvalid := false
	for _, tok := range toks {
		if tok.Kind == token.Invalid {
			sawInvalid = true
		}
	}
	if !sawInvalid {
		t.Fatalf("expected the oversized token to be marked Invalid")
	}
}
