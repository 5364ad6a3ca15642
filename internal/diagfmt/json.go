package diagfmt

import (
	"encoding/json"
	"io"

	"tbl/internal/diag"
	"tbl/internal/source"
)

// DiagnosticJSON matches spec.md §6.1's diagnostic JSON schema exactly.
type DiagnosticJSON struct {
	Message   string `json:"message"`
	Severity  string `json:"severity"`
	Line      uint32 `json:"line"`
	Column    uint32 `json:"column"`
	EndLine   uint32 `json:"end_line"`
	EndColumn uint32 `json:"end_column"`
	Source    string `json:"source,omitempty"`
}

// ToDiagnosticJSON converts a single Diagnostic using m to resolve its span.
func ToDiagnosticJSON(d *diag.Diagnostic, m *source.Map) DiagnosticJSON {
	start, end := m.PositionRange(d.Primary)
	return DiagnosticJSON{
		Message:   d.Message,
		Severity:  d.Severity.String(),
		Line:      start.Line,
		Column:    start.Col,
		EndLine:   end.Line,
		EndColumn: end.Col,
		Source:    d.Category,
	}
}

// ToDiagnosticsJSON converts every diagnostic in bag, honoring opts.Max as a
// rendering cap (0 means unbounded).
func ToDiagnosticsJSON(bag *diag.Bag, m *source.Map, opts JSONOpts) []DiagnosticJSON {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]DiagnosticJSON, n)
	for i := 0; i < n; i++ {
		out[i] = ToDiagnosticJSON(items[i], m)
	}
	return out
}

// JSON writes bag's diagnostics as a JSON array to w.
func JSON(w io.Writer, bag *diag.Bag, m *source.Map, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToDiagnosticsJSON(bag, m, opts))
}

// ParseResult is the `parse_with_diagnostics` facade response of spec.md §6.1.
type ParseResult struct {
	Success     bool             `json:"success"`
	ASTJSON     *string          `json:"ast_json,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

// ParseResultJSON marshals a ParseResult.
func ParseResultJSON(w io.Writer, r ParseResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
