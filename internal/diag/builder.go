package diag

import "tbl/internal/source"

// New constructs a bare diagnostic without emitting it.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// NewError constructs a SevError diagnostic.
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote returns a copy of d with an additional note appended.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithSuggestion returns a copy of d carrying the given suggestion string.
func (d Diagnostic) WithSuggestion(s string) Diagnostic {
	d.Suggestion = s
	return d
}

// WithCategory returns a copy of d carrying the given category tag.
func (d Diagnostic) WithCategory(c string) Diagnostic {
	d.Category = c
	return d
}
