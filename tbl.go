// Package tbl is the embedding surface for the weighted random table
// language: parse a source string, build a validated Collection, and
// generate samples from it. It is a thin facade over internal/parser,
// internal/collection, and internal/generator — mirroring how the teacher's
// root package re-exports its compiler pipeline for host programs.
package tbl

import (
	"tbl/internal/ast"
	"tbl/internal/collection"
	"tbl/internal/diag"
	"tbl/internal/generator"
	"tbl/internal/parser"
)

// Diagnostic is the facade's view of a lex/parse/validation/generation
// diagnostic; it is the same type used throughout internal/diag.
type Diagnostic = diag.Diagnostic

// ParseResult is the outcome of Parse: either a usable Program or a
// diagnostic list explaining why not (partial ASTs still accompany
// diagnostics for editor use, per spec.md §4.4).
type ParseResult struct {
	Program     *ast.Program
	Diagnostics []*Diagnostic
}

// Parse lexes and parses src, returning its AST and any diagnostics.
func Parse(src string) ParseResult {
	res := parser.Parse(src)
	return ParseResult{Program: res.Program, Diagnostics: res.Bag.Items()}
}

// Validate parses src and runs Collection construction without keeping the
// Collection, for callers that only want the diagnostic list.
func Validate(src string) []*Diagnostic {
	_, diags := collection.BuildFromSource(src)
	return diags
}

// Collection is a validated, generation-ready table set.
type Collection = collection.Collection

// NewCollection parses src and validates it into a Collection. On any error
// diagnostic, construction fails and diags holds the full list (spec.md
// §4.5: all-or-nothing).
func NewCollection(src string) (*Collection, []*Diagnostic) {
	return collection.BuildFromSource(src)
}

// GenerateResult is one Generate call's output, tagged with a request id for
// embedding-host log correlation.
type GenerateResult struct {
	RequestID string
	Samples   []string
}

// Generate draws count independent samples of tableID from col using rng.
// Pass a seeded RNG (generator.NewSeededRNG) for determinism, or
// generator.NewRNG() for platform entropy.
func Generate(col *Collection, rng generator.RNG, maxDepth int, tableID string, count int) (GenerateResult, error) {
	g := generator.New(col, rng, maxDepth)
	res, err := g.Generate(tableID, count)
	if err != nil {
		return GenerateResult{}, err
	}
	return GenerateResult{RequestID: res.RequestID, Samples: res.Samples}, nil
}

// TableIDs returns every declared table id, in declaration order.
func TableIDs(col *Collection) []string {
	return col.TableIDs()
}

// ExportedTableIDs returns only the ids of tables declared with `[export]`.
func ExportedTableIDs(col *Collection) []string {
	return col.ExportedTableIDs()
}

// HasTable reports whether id names a declared table in col.
func HasTable(col *Collection, id string) bool {
	return col.HasTable(id)
}
