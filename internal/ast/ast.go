// Package ast defines TBL's concrete syntax tree: Program, Table, Rule,
// Segment, Expression, and Modifier. Segment and Expression are tagged
// variants rather than interfaces or class hierarchies, following the
// teacher's preference for sum types over polymorphism in small, closed
// grammars.
package ast

import "tbl/internal/source"

// Program is the top-level node: an ordered sequence of tables. Order is
// preserved for diagnostics and for Collection.table_ids but carries no
// semantic weight.
type Program struct {
	Tables []*Table
	Span   source.Span
}

// Table declares a named, ordered collection of weighted rules.
type Table struct {
	ID       string
	IDSpan   source.Span
	Exported bool
	Rules    []*Rule
	Span     source.Span
}

// Rule is a weight paired with a body of interleaved literal text and
// expressions.
type Rule struct {
	Weight     float64
	WeightSpan source.Span
	Content    []Segment
	Span       source.Span
}

// SegmentKind tags the variant held by a Segment.
type SegmentKind uint8

const (
	SegmentLiteral SegmentKind = iota
	SegmentExpression
)

// Segment is one piece of a rule's body: either literal text or an
// expression. Exactly one of Text/Expr is meaningful, selected by Kind.
type Segment struct {
	Kind Kind
	Text string
	Expr *Expression
	Span source.Span
}

// Kind is an alias kept local to this package for SegmentKind, so call
// sites read ast.Segment{Kind: ast.SegmentLiteral, ...}.
type Kind = SegmentKind

// ExprKind tags the variant held by an Expression.
type ExprKind uint8

const (
	ExprDiceRoll ExprKind = iota
	ExprTableReference
)

// Expression is a `{...}`-delimited dice roll or table reference.
type Expression struct {
	Kind ExprKind

	// DiceRoll fields.
	DiceCount uint32
	DiceSides uint32

	// TableReference fields.
	TargetID   string
	TargetSpan source.Span
	Modifiers  []Modifier

	Span source.Span
}

// Modifier names a transformation applied to a table reference's output.
type Modifier uint8

const (
	ModIndefinite Modifier = iota
	ModDefinite
	ModCapitalize
	ModUppercase
	ModLowercase
)

var modifierNames = map[string]Modifier{
	"indefinite": ModIndefinite,
	"definite":   ModDefinite,
	"capitalize": ModCapitalize,
	"uppercase":  ModUppercase,
	"lowercase":  ModLowercase,
}

// ParseModifier resolves an identifier's text to a Modifier.
func ParseModifier(name string) (Modifier, bool) {
	m, ok := modifierNames[name]
	return m, ok
}

func (m Modifier) String() string {
	switch m {
	case ModIndefinite:
		return "indefinite"
	case ModDefinite:
		return "definite"
	case ModCapitalize:
		return "capitalize"
	case ModUppercase:
		return "uppercase"
	case ModLowercase:
		return "lowercase"
	default:
		return "unknown"
	}
}

// IsValidIdentifier reports whether s matches [A-Za-z_][A-Za-z0-9_-]*. The
// lexer only ever scans identifiers of this shape, so this is mainly a
// defensive check for table/table-reference ids assembled outside the
// lexer (e.g. in tests or tooling).
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	first := s[0]
	if !(first == '_' || (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		ok := c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !ok {
			return false
		}
	}
	return true
}
