// Package parser implements TBL's recursive-descent grammar over the
// lexer's token stream, producing an *ast.Program with spans and emitting
// diagnostics with deterministic suggestions for every failure kind.
package parser

import (
	"tbl/internal/ast"
	"tbl/internal/diag"
	"tbl/internal/lexer"
	"tbl/internal/source"
	"tbl/internal/token"
)

// Options configures a single parse.
type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the parser has hit its error budget. A zero
// MaxErrors means unbounded.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser holds the state of a single parse over one token stream.
type Parser struct {
	lx       *lexer.Lexer
	opts     Options
	lastSpan source.Span
}

// Result is the outcome of a parse: the built program (possibly partial)
// and whatever diagnostics were accumulated along the way.
type Result struct {
	Program *ast.Program
	Bag     *diag.Bag
}

// Parse runs a full parse of src and returns the built Program and its
// diagnostics. It always returns a non-nil Program; callers check
// Bag.HasErrors() before trusting it for generation.
func Parse(src string) Result {
	bag := diag.NewBag(0)
	m := source.NewMap(src)
	lx := lexer.New(m, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	p := &Parser{lx: lx, opts: Options{Reporter: diag.BagReporter{Bag: bag}}}
	prog := p.parseProgram()
	return Result{Program: prog, Bag: bag}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) advance() token.Token {
	t := p.lx.Next()
	if t.Kind != token.Eof && t.Kind != token.Invalid {
		p.lastSpan = t.Span
	}
	return t
}

func (p *Parser) skipNewlines() {
	for p.at(token.Newline) {
		p.advance()
	}
}

// diagSpanAtCursor returns a sensible span to anchor a diagnostic about the
// current lookahead token: the token's own span, or a zero-width span
// right after the last consumed token when the lookahead is EOF.
func (p *Parser) diagSpanAtCursor() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.Eof {
		return p.lastSpan.ZeroToEnd()
	}
	return peek.Span
}

func (p *Parser) report(sev diag.Severity, code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	p.opts.CurrentErrors++
	return diag.NewReportBuilder(p.opts.Reporter, sev, code, sp, msg)
}

func (p *Parser) errAtCursor(code diag.Code, msg string) *diag.ReportBuilder {
	return p.report(diag.SevError, code, p.diagSpanAtCursor(), msg)
}

// ---- program ----------------------------------------------------------

func (p *Parser) parseProgram() *ast.Program {
	start := p.lx.Peek().Span
	prog := &ast.Program{}

	p.skipNewlines()
	for !p.at(token.Eof) {
		before := p.lx.Peek()
		tbl, ok := p.parseTable()
		if ok {
			prog.Tables = append(prog.Tables, tbl)
		} else {
			p.resyncToTopLevel(before)
		}
		p.skipNewlines()
	}

	end := p.lastSpan.End
	prog.Span = source.Span{Start: start.Start, End: end}
	return prog
}

// resyncToTopLevel advances at least one token (to guarantee progress) and
// continues until the next line that looks like it starts a table or a
// rule, per spec.md §4.4's recovery policy.
func (p *Parser) resyncToTopLevel(before token.Token) {
	if p.lx.Peek() == before {
		p.advance()
	}
	for !p.at(token.Eof) {
		if p.at(token.Newline) {
			p.advance()
			if p.at(token.Hash) || p.at(token.Number) || p.at(token.Invalid) || p.at(token.Eof) {
				return
			}
			continue
		}
		p.advance()
	}
}

// ---- table --------------------------------------------------------------

func (p *Parser) parseTable() (*ast.Table, bool) {
	if !p.at(token.Hash) {
		p.errAtCursor(diag.SynMissingHash, "expected '#' to start a table declaration").
			WithSuggestion("Expected '#' to start table declaration.").
			WithCategory("syntax").
			Emit()
		return nil, false
	}
	hash := p.advance()

	idTok, ok := p.expectIdentifierLike("expected a table identifier after '#'")
	if !ok {
		return nil, false
	}
	if !ast.IsValidIdentifier(idTok.Text) {
		p.report(diag.SevError, diag.SynBadIdentifier, idTok.Span, "invalid table identifier '"+idTok.Text+"'").
			WithSuggestion("Identifiers must match [A-Za-z_][A-Za-z0-9_-]*.").
			WithCategory("syntax").
			Emit()
	}

	tbl := &ast.Table{ID: idTok.Text, IDSpan: idTok.Span}

	if p.at(token.LeftBracket) {
		p.advance()
		for {
			if p.at(token.ExportKeyword) {
				p.advance()
				tbl.Exported = true
			} else if p.at(token.Identifier) {
				// The lexer already reported SynUnknownFlag; consume and
				// ignore for recovery.
				p.advance()
			} else {
				break
			}
			if !p.at(token.RightBracket) {
				continue
			}
			break
		}
		if p.at(token.RightBracket) {
			p.advance()
		} else {
			p.errAtCursor(diag.SynUnexpectedToken, "expected ']' to close the flag list").
				WithCategory("syntax").
				Emit()
		}
	}

	if !p.at(token.Newline) && !p.at(token.Eof) {
		p.errAtCursor(diag.SynUnexpectedToken, "expected end of line after table declaration").
			WithSuggestion("Only numbers, colons, and rule text are allowed in this language.").
			WithCategory("syntax").
			Emit()
	}
	p.skipNewlines()

	for p.at(token.Number) || p.at(token.Invalid) {
		r, ok := p.parseRule()
		if ok {
			tbl.Rules = append(tbl.Rules, r)
		} else {
			return nil, false
		}
		p.skipNewlines()
	}

	if len(tbl.Rules) == 0 {
		p.report(diag.SevError, diag.SynEmptyTable, hash.Span.Cover(idTok.Span), "table '"+tbl.ID+"' has no rules").
			WithSuggestion("Add at least one '<weight>: <body>' rule.").
			WithCategory("syntax").
			Emit()
	}

	tbl.Span = hash.Span.Cover(p.lastSpan)
	return tbl, true
}

// expectIdentifierLike consumes an Identifier token, reporting a diagnostic
// and returning false otherwise. ExportKeyword is not accepted; the lexer
// only produces it inside a flag list, never where an id is expected.
func (p *Parser) expectIdentifierLike(msg string) (token.Token, bool) {
	if p.at(token.Identifier) {
		return p.advance(), true
	}
	p.errAtCursor(diag.SynUnexpectedToken, msg).
		WithCategory("syntax").
		Emit()
	return token.Token{}, false
}
