package lexer

import (
	"tbl/internal/diag"
	"tbl/internal/source"
)

// Options configures a Lexer.
type Options struct {
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	return diag.ReportError(lx.opts.Reporter, code, sp, msg)
}
