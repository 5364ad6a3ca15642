package parser

import (
	"strconv"
	"strings"

	"fortio.org/safecast"

	"tbl/internal/ast"
	"tbl/internal/diag"
	"tbl/internal/source"
	"tbl/internal/token"
)

// parseRule parses `number ":" rule_body newline`. It returns ok=false only
// when it could not make any progress at all (caller must resync at the
// top level); a bad weight or missing colon still yields a best-effort
// Rule so a single malformed line doesn't sink the whole table.
func (p *Parser) parseRule() (*ast.Rule, bool) {
	start := p.lx.Peek().Span

	weightTok := p.advance() // Number or Invalid, guaranteed by the caller's lookahead
	weight, weightKnown := weightValue(weightTok)

	if _, ok := p.expect(token.Colon, diag.SynMissingColon,
		"expected ':' after the weight",
		"Only numbers, colons, and rule text are allowed in this language."); !ok {
		p.skipToLineEnd()
		return &ast.Rule{
			Weight:     weight,
			WeightSpan: weightTok.Span,
			Span:       source.Span{Start: start.Start, End: p.lastSpan.End},
		}, true
	}

	if weightKnown {
		if weight < 0 {
			p.report(diag.SevError, diag.SynNegativeWeight, weightTok.Span, "negative weight").
				WithSuggestion("Negative numbers are not allowed. Use positive weights like 1.0, 2.5.").
				WithCategory("syntax").
				Emit()
		} else if weight == 0 {
			p.report(diag.SevError, diag.SynZeroWeight, weightTok.Span, "weight must be positive, but got 0").
				WithSuggestion("Try using a positive number like 1.0, 2.5, or 10.").
				WithCategory("syntax").
				Emit()
		}
	}

	content := p.parseRuleBody()

	if p.at(token.Newline) {
		p.advance()
	}

	end := p.lastSpan.End
	return &ast.Rule{
		Weight:     weight,
		WeightSpan: weightTok.Span,
		Content:    content,
		Span:       source.Span{Start: start.Start, End: end},
	}, true
}

// weightValue extracts a float64 from a Number or Invalid weight token.
// known is false when the token's text could not be parsed at all (the
// lexer already reported the shape error in that case, so the parser
// stays silent rather than double-diagnosing).
func weightValue(tok token.Token) (value float64, known bool) {
	v, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// expect consumes the next token if it has kind k; otherwise it reports a
// SynUnexpectedToken-family diagnostic with the given message/suggestion
// and returns (zero Token, false) without consuming anything.
func (p *Parser) expect(k token.Kind, code diag.Code, msg, suggestion string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.report(diag.SevError, code, p.diagSpanAtCursor(), msg).
		WithSuggestion(suggestion).
		WithCategory("syntax").
		Emit()
	return token.Token{}, false
}

// skipToLineEnd discards tokens through the next Newline/Eof, used for
// line-level recovery when a rule's colon is missing.
func (p *Parser) skipToLineEnd() {
	for !p.at(token.Newline) && !p.at(token.Eof) {
		p.advance()
	}
	if p.at(token.Newline) {
		p.advance()
	}
}

func (p *Parser) parseRuleBody() []ast.Segment {
	var segs []ast.Segment
	for {
		switch {
		case p.at(token.Text):
			tok := p.advance()
			segs = append(segs, ast.Segment{Kind: ast.SegmentLiteral, Text: tok.Text, Span: tok.Span})
		case p.at(token.LeftBrace):
			segs = append(segs, p.parseExpressionSegment())
		default:
			return segs
		}
	}
}

func (p *Parser) parseExpressionSegment() ast.Segment {
	open := p.advance() // '{'

	var expr *ast.Expression
	switch {
	case p.at(token.DiceLiteral):
		expr = p.parseDiceRoll()
	case p.at(token.Hash):
		expr = p.parseTableReference()
	default:
		p.errAtCursor(diag.SynUnexpectedToken, "expected a dice literal or a table reference inside '{...}'").
			WithSuggestion("Expressions contain either a dice literal like `2d6` or a table reference like `#name`.").
			WithCategory("syntax").
			Emit()
		if !p.at(token.RightBrace) && !p.at(token.Newline) && !p.at(token.Eof) {
			p.advance()
		}
	}

	closeSpan := open.Span
	if p.at(token.RightBrace) {
		closeSpan = p.advance().Span
	}

	if expr != nil {
		expr.Span = open.Span.Cover(closeSpan)
	}
	return ast.Segment{Kind: ast.SegmentExpression, Expr: expr, Span: open.Span.Cover(closeSpan)}
}

func (p *Parser) parseDiceRoll() *ast.Expression {
	tok := p.advance()
	countStr, sidesStr := splitDice(tok.Text)

	count := uint32(1)
	if countStr != "" {
		v, err := strconv.ParseUint(countStr, 10, 32)
		if err == nil {
			count, err = safecast.Conv[uint32](v)
		}
		if err != nil {
			count = 1
		}
	}
	var sides uint32
	if v, err := strconv.ParseUint(sidesStr, 10, 32); err == nil {
		if sv, err2 := safecast.Conv[uint32](v); err2 == nil {
			sides = sv
		}
	}

	if count == 0 || sides == 0 {
		p.report(diag.SevError, diag.SynMalformedDice, tok.Span, "dice count and sides must each be at least 1").
			WithSuggestion("Expected a dice literal like `d6` or `2d10`.").
			WithCategory("syntax").
			Emit()
		if count == 0 {
			count = 1
		}
		if sides == 0 {
			sides = 1
		}
	}

	return &ast.Expression{Kind: ast.ExprDiceRoll, DiceCount: count, DiceSides: sides, Span: tok.Span}
}

// splitDice splits a DiceLiteral's text ("2d10" or "d20") into its count
// and sides digit runs.
func splitDice(text string) (countStr, sidesStr string) {
	idx := strings.IndexByte(text, 'd')
	if idx < 0 {
		return "", text
	}
	return text[:idx], text[idx+1:]
}

func (p *Parser) parseTableReference() *ast.Expression {
	hash := p.advance() // '#'
	idTok, ok := p.expectIdentifierLike("expected a table identifier after '#'")
	expr := &ast.Expression{Kind: ast.ExprTableReference, Span: hash.Span}
	if ok {
		expr.TargetID = idTok.Text
		expr.TargetSpan = idTok.Span
	}

	for p.at(token.Pipe) {
		p.advance()
		modTok, ok := p.expectIdentifierLike("expected a modifier name after '|'")
		if !ok {
			break
		}
		m, found := ast.ParseModifier(modTok.Text)
		if !found {
			p.report(diag.SevError, diag.SynUnknownModifier, modTok.Span, "unknown modifier '"+modTok.Text+"'").
				WithSuggestion("Available modifiers: indefinite, definite, capitalize, uppercase, lowercase.").
				WithCategory("syntax").
				Emit()
			continue
		}
		expr.Modifiers = append(expr.Modifiers, m)
	}
	return expr
}
