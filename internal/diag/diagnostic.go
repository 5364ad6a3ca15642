package diag

import "tbl/internal/source"

// Note provides auxiliary context for a diagnostic, e.g. the span of the
// other declaration in a DuplicateTable report.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic captures a single lexical, syntactic, validation, or generation
// issue. Suggestion and Category are optional; Category is the JSON schema's
// "source" tag (spec.md §6.1).
type Diagnostic struct {
	Severity   Severity
	Code       Code
	Message    string
	Primary    source.Span
	Suggestion string
	Category   string
	Notes      []Note
}
