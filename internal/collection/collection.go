// Package collection validates a parsed Program and derives the indexes
// the generator needs: an id-to-table lookup and, per table, a prefix-sum
// array over rule weights for O(log n) weighted selection.
package collection

import (
	"sort"

	"tbl/internal/ast"
	"tbl/internal/diag"
	"tbl/internal/parser"
)

// tableEntry bundles a Table with its derived sampling structures.
type tableEntry struct {
	table      *ast.Table
	prefixSums []float64
	total      float64
}

// Collection is an immutable, validated Program plus the indexes needed
// to generate from it. Once built, generation never mutates it.
type Collection struct {
	program *ast.Program
	byID    map[string]int // table id -> index into entries/program.Tables
	order   []string       // declaration order, for table_ids()
	entries []tableEntry
}

// Build validates prog and constructs a Collection. On any validation
// error it returns (nil, diagnostics): per spec.md §4.5, construction is
// all-or-nothing.
func Build(prog *ast.Program) (*Collection, []*diag.Diagnostic) {
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}

	byID := make(map[string]int, len(prog.Tables))
	order := make([]string, 0, len(prog.Tables))
	entries := make([]tableEntry, 0, len(prog.Tables))

	for _, t := range prog.Tables {
		if existing, ok := byID[t.ID]; ok {
			diag.ReportError(rep, diag.ValDuplicateTable, t.IDSpan, "duplicate table id '"+t.ID+"'").
				WithNote(entries[existing].table.IDSpan, "first declared here").
				WithCategory("validation").
				Emit()
			continue
		}
		byID[t.ID] = len(entries)
		order = append(order, t.ID)
		entries = append(entries, tableEntry{table: t})
	}

	for i := range entries {
		sums, total := prefixSums(entries[i].table)
		entries[i].prefixSums = sums
		entries[i].total = total
	}

	for _, entry := range entries {
		for _, rule := range entry.table.Rules {
			for _, seg := range rule.Content {
				if seg.Kind != ast.SegmentExpression || seg.Expr == nil {
					continue
				}
				if seg.Expr.Kind != ast.ExprTableReference {
					continue
				}
				if _, ok := byID[seg.Expr.TargetID]; !ok {
					diag.ReportError(rep, diag.ValInvalidReference, seg.Expr.TargetSpan,
						"reference to unknown table '"+seg.Expr.TargetID+"'").
						WithSuggestion("Declare a table named '"+seg.Expr.TargetID+"' or fix the reference.").
						WithCategory("validation").
						Emit()
				}
			}
		}
	}

	if bag.HasErrors() {
		return nil, bag.Items()
	}

	return &Collection{program: prog, byID: byID, order: order, entries: entries}, nil
}

func prefixSums(t *ast.Table) ([]float64, float64) {
	sums := make([]float64, len(t.Rules))
	var running float64
	for i, r := range t.Rules {
		running += r.Weight
		sums[i] = running
	}
	return sums, running
}

// HasTable reports whether id names a declared table.
func (c *Collection) HasTable(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// TableIDs returns every table id in declaration order.
func (c *Collection) TableIDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// ExportedTableIDs returns only the ids of tables declared with
// `[export]`, preserving declaration order.
func (c *Collection) ExportedTableIDs() []string {
	var out []string
	for _, id := range c.order {
		if c.entries[c.byID[id]].table.Exported {
			out = append(out, id)
		}
	}
	return out
}

// table returns the entry for id, or nil if it doesn't exist.
func (c *Collection) table(id string) *tableEntry {
	idx, ok := c.byID[id]
	if !ok {
		return nil
	}
	return &c.entries[idx]
}

// TotalWeight returns the precomputed sum of rule weights for id.
func (c *Collection) TotalWeight(id string) (float64, bool) {
	e := c.table(id)
	if e == nil {
		return 0, false
	}
	return e.total, true
}

// SelectRuleAt draws the rule whose prefix-sum bucket contains u, where u
// is assumed to lie in [0, TotalWeight(id)). It implements spec.md §4.6's
// selection rule: the smallest index i such that prefix_sum[i] > u.
func (c *Collection) SelectRuleAt(id string, u float64) (*ast.Rule, bool) {
	e := c.table(id)
	if e == nil || len(e.prefixSums) == 0 {
		return nil, false
	}
	i := sort.Search(len(e.prefixSums), func(i int) bool {
		return e.prefixSums[i] > u
	})
	if i >= len(e.prefixSums) {
		i = len(e.prefixSums) - 1
	}
	return e.table.Rules[i], true
}

// RuleCount returns the number of rules declared for tableID, for callers
// that want to enumerate RuleWeightFraction over every rule in a table.
func (c *Collection) RuleCount(tableID string) (int, bool) {
	e := c.table(tableID)
	if e == nil {
		return 0, false
	}
	return len(e.table.Rules), true
}

// RuleWeightFraction returns the share of a table's total weight that
// ruleIndex accounts for (weight / total_weight), for tooling that wants to
// display relative odds without recomputing the prefix-sum cache. Wired
// into `tbl play`'s odds panel and `tbl parse --debug-ast`'s weight dump.
func (c *Collection) RuleWeightFraction(tableID string, ruleIndex int) (float64, bool) {
	e := c.table(tableID)
	if e == nil || ruleIndex < 0 || ruleIndex >= len(e.table.Rules) || e.total == 0 {
		return 0, false
	}
	return e.table.Rules[ruleIndex].Weight / e.total, true
}

// CollectionSummary bundles a Collection's table ids, exported table ids,
// and rule counts for tooling (the CLI and disk cache) that wants all three
// without re-walking the underlying Program.
type CollectionSummary struct {
	TableIDs         []string
	ExportedTableIDs []string
	TableCount       int
	ExportedCount    int
	TotalRuleCount   int
}

// HasTable reports whether id appears among the summary's table ids,
// letting a caller that only holds a CollectionSummary answer containment
// checks without going back to the full Collection.
func (s CollectionSummary) HasTable(id string) bool {
	for _, t := range s.TableIDs {
		if t == id {
			return true
		}
	}
	return false
}

// Summary computes a CollectionSummary over the collection's tables.
func (c *Collection) Summary() CollectionSummary {
	s := CollectionSummary{
		TableIDs:         c.TableIDs(),
		ExportedTableIDs: c.ExportedTableIDs(),
		TableCount:       len(c.entries),
	}
	for _, e := range c.entries {
		s.TotalRuleCount += len(e.table.Rules)
		if e.table.Exported {
			s.ExportedCount++
		}
	}
	return s
}

// BuildFromSource parses src and builds a Collection in one step,
// mirroring the `new_collection` facade operation of spec.md §6.
func BuildFromSource(src string) (*Collection, []*diag.Diagnostic) {
	res := parser.Parse(src)
	if res.Bag.HasErrors() {
		return nil, res.Bag.Items()
	}
	return Build(res.Program)
}
