// Package lexer turns TBL source text into a flat stream of tokens.
//
// The grammar is line-oriented and context-sensitive in a narrow way: a
// table declaration line starts with '#', a rule line starts with a weight
// followed by ':', and everything after that colon (past any spaces or tabs
// right after it) is literal rule-body text up to the next '{' or end of line. The Lexer tracks this with a
// small internal mode rather than requiring the parser to drive it, mirroring
// how the teacher keeps scanning state entirely inside the Cursor/Lexer pair.
package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"tbl/internal/diag"
	"tbl/internal/source"
	"tbl/internal/token"
)

// maxTokenLength bounds a single token's byte span to guard against
// pathological input (e.g. a single rule line with megabytes of escaped
// text and no newline) producing an unbounded in-memory token.
const maxTokenLength = 64 * 1024

type mode uint8

const (
	modeTopLevel mode = iota
	modeRuleBody
	modeExpr
)

// Lexer scans one source Map into a Token stream, one call to Next at a
// time. It never backtracks past the cursor it currently owns.
type Lexer struct {
	cursor Cursor
	opts   Options

	mode        mode
	inFlags     bool
	atLineStart bool

	peeked *token.Token
}

// New creates a Lexer over m. opts.Reporter may be nil, in which case
// diagnostics are silently dropped (useful for throwaway scans).
func New(m *source.Map, opts Options) *Lexer {
	return &Lexer{
		cursor:      NewCursor(m),
		opts:        opts,
		mode:        modeTopLevel,
		atLineStart: true,
	}
}

// Next scans and returns the next token, consuming any token previously
// buffered by Peek. Once it returns a token.Eof token it returns token.Eof
// forever after.
func (lx *Lexer) Next() token.Token {
	if lx.peeked != nil {
		t := *lx.peeked
		lx.peeked = nil
		return t
	}
	return lx.scan()
}

// Peek returns the next token without consuming it; the following Next
// call returns the same token.
func (lx *Lexer) Peek() token.Token {
	if lx.peeked == nil {
		t := lx.scan()
		lx.peeked = &t
	}
	return *lx.peeked
}

func (lx *Lexer) scan() token.Token {
	var t token.Token
	switch lx.mode {
	case modeRuleBody:
		t = lx.nextRuleBody()
	case modeExpr:
		t = lx.nextExpr()
	default:
		t = lx.nextTopLevel()
	}
	lx.enforceTokenLength(&t)
	return t
}

// enforceTokenLength reports any token whose span exceeds maxTokenLength and
// marks it Invalid (its text is kept as scanned), then fast-forwards the cursor to EOF so a single
// pathological token cannot cause cascading diagnostics on the rest of the
// (equally pathological) line.
func (lx *Lexer) enforceTokenLength(t *token.Token) {
	length := t.Span.End - t.Span.Start
	if length <= maxTokenLength {
		return
	}
	msg := fmt.Sprintf("token length %d exceeds limit %d", length, maxTokenLength)
	lx.errLex(diag.LexTokenTooLong, t.Span, msg).
		WithSuggestion("Break this up into shorter lines or rule bodies.").
		WithCategory("lex").
		Emit()
	t.Kind = token.Invalid
	if off, err := safecast.Conv[uint32](len(lx.cursor.content)); err == nil {
		lx.cursor.Off = off
	}
}

// All drains the lexer into a slice, including the trailing Eof token.
// Convenience for callers (parser tests, the `tbl` CLI's debug dump) that
// want the whole stream at once.
func (lx *Lexer) All() []token.Token {
	var toks []token.Token
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.IsEOF() {
			return toks
		}
	}
}

func (lx *Lexer) tok(k token.Kind, text string, sp source.Span) token.Token {
	return token.Token{Kind: k, Text: text, Span: sp}
}

// ---- top-level mode -------------------------------------------------

func (lx *Lexer) nextTopLevel() token.Token {
	for {
		if lx.cursor.EOF() {
			return lx.tok(token.Eof, "", lx.cursor.SpanFrom(lx.cursor.Mark()))
		}

		b := lx.cursor.Peek()

		switch {
		case b == '\n':
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.atLineStart = true
			lx.inFlags = false
			return lx.tok(token.Newline, "\n", lx.cursor.SpanFrom(m))

		case b == ' ' || b == '\t' || b == '\r':
			lx.cursor.Bump()
			continue

		case b == ',' && lx.inFlags:
			// Comma separates flags inside '[' ... ']'; TBL's closed token
			// kind set has no Comma, so it is consumed as insignificant
			// rather than emitted.
			lx.cursor.Bump()
			continue

		case b == '/' && lx.cursor.PeekAt(1) == '/' && !lx.inFlags:
			lx.skipLineComment()
			continue

		case b == '/' && lx.cursor.PeekAt(1) == '*' && !lx.inFlags:
			lx.skipBlockComment()
			continue

		case b == '#':
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.atLineStart = false
			return lx.tok(token.Hash, "#", lx.cursor.SpanFrom(m))

		case b == '[':
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.inFlags = true
			lx.atLineStart = false
			return lx.tok(token.LeftBracket, "[", lx.cursor.SpanFrom(m))

		case b == ']':
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.inFlags = false
			lx.atLineStart = false
			return lx.tok(token.RightBracket, "]", lx.cursor.SpanFrom(m))

		case b == ':' && !lx.inFlags:
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.atLineStart = false
			// A rule's weight/body separator is the only top-level colon
			// in the grammar; seeing one always opens rule-body mode.
			lx.mode = modeRuleBody
			sp := lx.cursor.SpanFrom(m)
			// Spaces and tabs between the colon and the body are not part
			// of the body's literal text.
			for lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' {
				lx.cursor.Bump()
			}
			return lx.tok(token.Colon, ":", sp)

		case b == '-' && lx.atLineStart:
			return lx.scanNegativeNumber()

		case isDigit(b):
			return lx.scanNumber()

		case isIdentStart(b):
			return lx.scanIdentifier()

		case b == '{' || b == '}':
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.atLineStart = false
			lx.errLex(diag.LexStrayBrace, lx.cursor.SpanFrom(m), "brace outside of an expression").
				WithSuggestion("Braces are only valid inside a rule's body, e.g. `1: a {d6} result`.").
				WithCategory("lex").
				Emit()
			continue

		default:
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.atLineStart = false
			lx.errLex(diag.LexUnknownChar, lx.cursor.SpanFrom(m), "unexpected character outside a declaration").
				WithSuggestion("Lines must start with '#' for a table or a weight like '1:' for a rule.").
				WithCategory("lex").
				Emit()
			continue
		}
	}
}

func (lx *Lexer) scanNegativeNumber() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // '-'
	for isDigit(lx.cursor.Peek()) || lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
	}
	lx.atLineStart = false
	sp := lx.cursor.SpanFrom(m)
	// The lexer does not diagnose this: a negative weight is a semantic
	// property of the parsed rule, not a lexical shape error, so the
	// parser classifies and reports it (spec.md §4.4).
	return lx.tok(token.Invalid, lx.cursor.Slice(sp), sp)
}

func (lx *Lexer) scanNumber() token.Token {
	m := lx.cursor.Mark()
	for isDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	malformed := false
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		digits := 0
		for isDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
			digits++
		}
		if digits == 0 {
			malformed = true
		}
	}
	// A second '.' or a letter glued onto the number (no exponents in this
	// grammar) is a shape error the lexer reports directly.
	if lx.cursor.Peek() == '.' || isIdentStart(lx.cursor.Peek()) {
		for lx.cursor.Peek() == '.' || isIdentStart(lx.cursor.Peek()) || isDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		malformed = true
	}
	lx.atLineStart = false
	sp := lx.cursor.SpanFrom(m)
	text := lx.cursor.Slice(sp)
	if malformed {
		lx.errLex(diag.LexBadNumber, sp, "malformed number literal").
			WithSuggestion("Expected a decimal number like 1.0, 2.5, or 10.").
			WithCategory("lex").
			Emit()
		return lx.tok(token.Invalid, text, sp)
	}
	return lx.tok(token.Number, text, sp)
}

func (lx *Lexer) scanIdentifier() token.Token {
	m := lx.cursor.Mark()
	for isIdentStart(lx.cursor.Peek()) || isDigit(lx.cursor.Peek()) || lx.cursor.Peek() == '-' {
		lx.cursor.Bump()
	}
	lx.atLineStart = false
	sp := lx.cursor.SpanFrom(m)
	text := lx.cursor.Slice(sp)

	if lx.inFlags {
		if text == "export" {
			return lx.tok(token.ExportKeyword, text, sp)
		}
		lx.errLex(diag.SynUnknownFlag, sp, "unknown table flag '"+text+"'").
			WithSuggestion("The only recognized flag is 'export'.").
			WithCategory("lex").
			Emit()
		return lx.tok(token.Identifier, text, sp)
	}
	return lx.tok(token.Identifier, text, sp)
}

func (lx *Lexer) skipLineComment() {
	lx.cursor.Bump()
	lx.cursor.Bump()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) skipBlockComment() {
	m := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	for {
		if lx.cursor.EOF() {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(m), "unterminated block comment").
				WithSuggestion("Add a closing `*/` before the end of the file.").
				WithCategory("lex").
				Emit()
			return
		}
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return
		}
		lx.cursor.Bump()
	}
}

// ---- rule-body mode ---------------------------------------------------

func (lx *Lexer) nextRuleBody() token.Token {
	if lx.cursor.EOF() {
		return lx.tok(token.Eof, "", lx.cursor.SpanFrom(lx.cursor.Mark()))
	}
	if lx.cursor.Peek() == '\n' {
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.mode = modeTopLevel
		lx.atLineStart = true
		return lx.tok(token.Newline, "\n", lx.cursor.SpanFrom(m))
	}
	if lx.cursor.Peek() == '{' {
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.mode = modeExpr
		return lx.tok(token.LeftBrace, "{", lx.cursor.SpanFrom(m))
	}
	return lx.scanRuleText()
}

// scanRuleText accumulates literal text up to the next '{' or newline,
// honoring '\{', '\}' and '\\' as escapes per the rule-body text mode.
func (lx *Lexer) scanRuleText() token.Token {
	m := lx.cursor.Mark()
	var text []byte
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' || lx.cursor.Peek() == '{' {
			break
		}
		if lx.cursor.Peek() == '\\' {
			next := lx.cursor.PeekAt(1)
			if next == '{' || next == '}' || next == '\\' {
				lx.cursor.Bump()
				text = append(text, lx.cursor.Bump())
				continue
			}
		}
		text = append(text, lx.cursor.Bump())
	}
	sp := lx.cursor.SpanFrom(m)
	return lx.tok(token.Text, string(text), sp)
}

// ---- expression mode ----------------------------------------------------

func (lx *Lexer) nextExpr() token.Token {
	for {
		if lx.cursor.EOF() {
			lx.errLex(diag.LexUnterminatedExpression, lx.cursor.SpanFrom(lx.cursor.Mark()), "unterminated expression").
				WithSuggestion("Add a closing '}' to end the expression.").
				WithCategory("lex").
				Emit()
			return lx.tok(token.Eof, "", lx.cursor.SpanFrom(lx.cursor.Mark()))
		}

		b := lx.cursor.Peek()
		switch {
		case b == ' ' || b == '\t' || b == '\r':
			lx.cursor.Bump()
			continue

		case b == '\n':
			m := lx.cursor.Mark()
			lx.errLex(diag.LexUnterminatedExpression, lx.cursor.SpanFrom(m), "expression not closed before end of line").
				WithSuggestion("Close the expression with '}' on the same line it was opened.").
				WithCategory("lex").
				Emit()
			lx.mode = modeRuleBody
			return lx.nextRuleBody()

		case b == '}':
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.mode = modeRuleBody
			return lx.tok(token.RightBrace, "}", lx.cursor.SpanFrom(m))

		case b == '#':
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			return lx.tok(token.Hash, "#", lx.cursor.SpanFrom(m))

		case b == '|':
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			return lx.tok(token.Pipe, "|", lx.cursor.SpanFrom(m))

		case isDigit(b):
			return lx.scanDiceFromCount()

		case b == 'd' && isDigit(lx.cursor.PeekAt(1)):
			return lx.scanDiceNoCount()

		case isIdentStart(b):
			return lx.scanIdentifier()

		default:
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			code := diag.LexUnknownChar
			msg := "unexpected character in expression"
			suggestion := "Expressions contain only dice like `2d6`, a table reference like `#name`, or `|modifier`."
			if b == '@' {
				code = diag.LexUnsupportedReference
				msg = "cross-collection references are not supported"
				suggestion = "Reference tables within the same collection only, e.g. `#name`."
			}
			lx.errLex(code, lx.cursor.SpanFrom(m), msg).
				WithSuggestion(suggestion).
				WithCategory("lex").
				Emit()
			continue
		}
	}
}

// scanDiceFromCount scans "<digits>d<digits>", reporting a malformed-dice
// diagnostic if the leading digit run is not followed by 'd'.
func (lx *Lexer) scanDiceFromCount() token.Token {
	m := lx.cursor.Mark()
	for isDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() != 'd' {
		for isIdentStart(lx.cursor.Peek()) || isDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(m)
		text := lx.cursor.Slice(sp)
		lx.errLex(diag.SynMalformedDice, sp, "malformed dice literal '"+text+"'").
			WithSuggestion("Expected a dice literal like `d6` or `2d10`.").
			WithCategory("lex").
			Emit()
		return lx.tok(token.Invalid, text, sp)
	}
	lx.cursor.Bump() // 'd'
	for isDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(m)
	return lx.tok(token.DiceLiteral, lx.cursor.Slice(sp), sp)
}

// scanDiceNoCount scans "d<digits>", an implicit single-die roll.
func (lx *Lexer) scanDiceNoCount() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // 'd'
	for isDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(m)
	return lx.tok(token.DiceLiteral, lx.cursor.Slice(sp), sp)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
