package collection_test

import (
	"testing"

	"tbl/internal/collection"
)

func TestS1Parse(t *testing.T) {
	col, diags := collection.BuildFromSource("#color\n1.0: red\n2.0: blue\n")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !col.HasTable("color") {
		t.Fatalf("expected table 'color'")
	}
	ids := col.TableIDs()
	if len(ids) != 1 || ids[0] != "color" {
		t.Fatalf("table ids = %v", ids)
	}
}

func TestS4MissingReference(t *testing.T) {
	_, diags := collection.BuildFromSource("#a\n1.0: {#nope}\n")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
}

func TestS6ExportFilter(t *testing.T) {
	col, diags := collection.BuildFromSource("#a\n1.0:x\n#b[export]\n1.0:y\n")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	ids := col.TableIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("table_ids = %v", ids)
	}
	exported := col.ExportedTableIDs()
	if len(exported) != 1 || exported[0] != "b" {
		t.Fatalf("exported_table_ids = %v", exported)
	}
}

func TestDuplicateTableID(t *testing.T) {
	_, diags := collection.BuildFromSource("#a\n1.0: x\n#a\n1.0: y\n")
	if len(diags) == 0 {
		t.Fatalf("expected a duplicate-table diagnostic")
	}
}

func TestTableIDsNoDuplicates(t *testing.T) {
	col, diags := collection.BuildFromSource("#a\n1.0: x\n#b\n1.0: y\n#c\n1.0: z\n")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	seen := map[string]bool{}
	for _, id := range col.TableIDs() {
		if seen[id] {
			t.Fatalf("duplicate id in table_ids: %s", id)
		}
		seen[id] = true
	}
}

func TestRuleWeightFraction(t *testing.T) {
	col, diags := collection.BuildFromSource("#a\n1.0: x\n3.0: y\n")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	n, ok := col.RuleCount("a")
	if !ok || n != 2 {
		t.Fatalf("RuleCount = %d, %v", n, ok)
	}
	f0, ok := col.RuleWeightFraction("a", 0)
	if !ok || f0 != 0.25 {
		t.Fatalf("RuleWeightFraction(0) = %v, %v, want 0.25", f0, ok)
	}
	f1, ok := col.RuleWeightFraction("a", 1)
	if !ok || f1 != 0.75 {
		t.Fatalf("RuleWeightFraction(1) = %v, %v, want 0.75", f1, ok)
	}
	if _, ok := col.RuleWeightFraction("a", 2); ok {
		t.Fatalf("expected out-of-range index to fail")
	}
	if _, ok := col.RuleWeightFraction("nope", 0); ok {
		t.Fatalf("expected unknown table to fail")
	}
}

func TestSummary(t *testing.T) {
	col, diags := collection.BuildFromSource("#a\n1.0:x\n2.0:y\n#b[export]\n1.0:z\n")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	s := col.Summary()
	if s.TableCount != 2 || s.ExportedCount != 1 || s.TotalRuleCount != 3 {
		t.Fatalf("summary = %+v", s)
	}
	if len(s.TableIDs) != 2 || len(s.ExportedTableIDs) != 1 || s.ExportedTableIDs[0] != "b" {
		t.Fatalf("summary ids = %+v", s)
	}
	if !s.HasTable("a") || s.HasTable("nope") {
		t.Fatalf("HasTable behaved unexpectedly: %+v", s)
	}
}
