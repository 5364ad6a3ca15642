package main

import (
	"testing"

	"tbl/internal/diag"
)

func TestCapBagTruncates(t *testing.T) {
	bag := diag.NewBag(0)
	for i := 0; i < 5; i++ {
		bag.Add(&diag.Diagnostic{Severity: diag.SevError, Code: diag.SynMissingHash, Message: "x"})
	}
	capped := capBag(bag, 2)
	if capped.Len() != 2 {
		t.Fatalf("capBag len = %d, want 2", capped.Len())
	}
	if bag.Len() != 5 {
		t.Fatalf("original bag mutated: len = %d", bag.Len())
	}
}

func TestCapBagUnboundedWhenZero(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(&diag.Diagnostic{Severity: diag.SevError, Code: diag.SynMissingHash, Message: "x"})
	if capBag(bag, 0) != bag {
		t.Fatalf("capBag(0) should return bag unchanged")
	}
}
