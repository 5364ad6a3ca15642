// Package generator implements TBL's weighted sampling and expansion
// engine: rule selection via prefix sums, dice arithmetic, recursive
// table-reference expansion under a depth guard, and modifier
// application, per spec.md §4.6.
package generator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"tbl/internal/ast"
	"tbl/internal/collection"
	"tbl/internal/diag"
)

// MaxRecursionDepth is the hard ceiling on table-reference nesting. A
// project's tbl.toml may lower it but never raise it past this value.
const MaxRecursionDepth = 64

// Error is a generation-time failure. It carries the reference chain that
// was being expanded when the failure occurred, for diagnosis.
type Error struct {
	Code  diag.Code
	Msg   string
	Chain []string
}

func (e *Error) Error() string {
	if len(e.Chain) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s (via %s)", e.Msg, strings.Join(e.Chain, " -> "))
}

// Result is one Generate call's output.
type Result struct {
	RequestID string
	Samples   []string
}

// Joined returns the samples newline-joined, the facade's string form
// (spec.md §6: `generate` returns count samples joined by newline).
func (r Result) Joined() string {
	return strings.Join(r.Samples, "\n")
}

// Generator draws samples from a Collection using an injected RNG. It
// never mutates the Collection.
type Generator struct {
	col      *collection.Collection
	rng      RNG
	maxDepth int
}

// New creates a Generator. maxDepth <= 0 or > MaxRecursionDepth clamps to
// MaxRecursionDepth.
func New(col *collection.Collection, rng RNG, maxDepth int) *Generator {
	if maxDepth <= 0 || maxDepth > MaxRecursionDepth {
		maxDepth = MaxRecursionDepth
	}
	return &Generator{col: col, rng: rng, maxDepth: maxDepth}
}

// Generate draws count independent samples from tableID.
func (g *Generator) Generate(tableID string, count int) (Result, error) {
	if !g.col.HasTable(tableID) {
		return Result{}, &Error{Code: diag.GenUnknownTable, Msg: "unknown table '" + tableID + "'", Chain: []string{tableID}}
	}
	if count < 0 {
		count = 0
	}

	samples := make([]string, 0, count)
	for i := 0; i < count; i++ {
		s, err := g.expandTable(tableID, nil)
		if err != nil {
			return Result{}, err
		}
		samples = append(samples, s)
	}
	return Result{RequestID: uuid.NewString(), Samples: samples}, nil
}

// expandTable draws one rule from tableID and expands its content. chain
// is the sequence of table ids already being expanded, used both for the
// recursion-depth check and for error diagnosis.
func (g *Generator) expandTable(tableID string, chain []string) (string, error) {
	if len(chain) >= g.maxDepth {
		full := append(append([]string{}, chain...), tableID)
		return "", &Error{
			Code:  diag.GenRecursionLimitExceeded,
			Msg:   fmt.Sprintf("recursion limit (%d) exceeded", g.maxDepth),
			Chain: full,
		}
	}

	total, ok := g.col.TotalWeight(tableID)
	if !ok {
		full := append(append([]string{}, chain...), tableID)
		return "", &Error{Code: diag.GenUnknownTable, Msg: "unknown table '" + tableID + "'", Chain: full}
	}
	if total <= 0 {
		full := append(append([]string{}, chain...), tableID)
		return "", &Error{Code: diag.GenEmptyTableAtSampleTime, Msg: "table '" + tableID + "' has no rules to sample", Chain: full}
	}

	u := g.rng.Float64() * total
	rule, ok := g.col.SelectRuleAt(tableID, u)
	if !ok {
		full := append(append([]string{}, chain...), tableID)
		return "", &Error{Code: diag.GenEmptyTableAtSampleTime, Msg: "table '" + tableID + "' has no rules to sample", Chain: full}
	}

	nextChain := append(append([]string{}, chain...), tableID)

	var b strings.Builder
	for _, seg := range rule.Content {
		switch seg.Kind {
		case ast.SegmentLiteral:
			b.WriteString(seg.Text)
		case ast.SegmentExpression:
			v, err := g.expandExpression(seg.Expr, nextChain)
			if err != nil {
				return "", err
			}
			b.WriteString(v)
		}
	}
	return b.String(), nil
}

func (g *Generator) expandExpression(e *ast.Expression, chain []string) (string, error) {
	if e == nil {
		return "", nil
	}
	switch e.Kind {
	case ast.ExprDiceRoll:
		return strconv.Itoa(g.rollDice(e.DiceCount, e.DiceSides)), nil
	case ast.ExprTableReference:
		s, err := g.expandTable(e.TargetID, chain)
		if err != nil {
			return "", err
		}
		return applyModifiers(e.Modifiers, s), nil
	default:
		return "", errors.New("generator: unknown expression kind")
	}
}

// rollDice sums count independent uniform draws from {1..sides}.
func (g *Generator) rollDice(count, sides uint32) int {
	if sides == 0 {
		sides = 1
	}
	total := 0
	for i := uint32(0); i < count; i++ {
		total += g.rng.IntN(int(sides)) + 1
	}
	return total
}
