package diagfmt_test

import (
	"bytes"
	"strings"
	"testing"

	"tbl/internal/diagfmt"
	"tbl/internal/parser"
	"tbl/internal/source"
)

func TestPrettyRendersMessageAndCaret(t *testing.T) {
	res := parser.Parse("#a\n0: x\n")
	if !res.Bag.HasErrors() {
		t.Fatalf("expected an error")
	}
	res.Bag.Sort()

	m := source.NewMap("#a\n0: x\n")
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, res.Bag, m, diagfmt.PrettyOpts{WithSuggestions: true, WithContextLine: true})

	out := buf.String()
	if !strings.Contains(out, "weight must be positive") {
		t.Fatalf("missing message in output: %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("missing caret in output: %q", out)
	}
	if !strings.Contains(out, "help:") {
		t.Fatalf("missing suggestion label in output: %q", out)
	}
}

func TestJSONMatchesSchema(t *testing.T) {
	res := parser.Parse("#a\n0: x\n")
	m := source.NewMap("#a\n0: x\n")
	items := diagfmt.ToDiagnosticsJSON(res.Bag, m, diagfmt.JSONOpts{})
	if len(items) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}
	d := items[0]
	if d.Severity != "error" {
		t.Fatalf("severity = %q", d.Severity)
	}
	if d.Line == 0 || d.Column == 0 {
		t.Fatalf("line/column not resolved: %+v", d)
	}
}
