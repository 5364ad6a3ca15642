package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag holds a capped collection of diagnostics accumulated during lexing,
// parsing, validation, or generation.
type Bag struct {
	items   []*Diagnostic
	maximum uint16
}

// NewBag creates a Bag with a capacity limit. A maximum of 0 means unbounded.
func NewBag(maximum int) *Bag {
	if maximum == 0 {
		return &Bag{items: make([]*Diagnostic, 0, 16), maximum: 0}
	}
	result, err := safecast.Conv[uint16](maximum)
	if err != nil {
		panic(fmt.Errorf("bag maximum overflow: %w", err))
	}
	return &Bag{
		items:   make([]*Diagnostic, 0, result),
		maximum: result,
	}
}

// Add appends a diagnostic, honoring the capacity limit. It reports false
// when the diagnostic was dropped because the bag is full.
func (b *Bag) Add(d *Diagnostic) bool {
	if d == nil {
		return false
	}
	if b.maximum != 0 && len(b.items) >= int(b.maximum) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Cap returns the maximum capacity of the bag (0 means unbounded).
func (b *Bag) Cap() uint16 {
	return b.maximum
}

// HasErrors reports whether any diagnostic has SevError severity.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic has at least SevWarning severity.
func (b *Bag) HasWarnings() bool {
	for _, d := range b.items {
		if d.Severity >= SevWarning {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics currently in the bag.
func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a read-only view of the accumulated diagnostics. Callers must
// not mutate the returned slice; it aliases the bag's backing array.
func (b *Bag) Items() []*Diagnostic {
	return b.items
}

// Merge appends the contents of other, growing the capacity if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	newMax, err := safecast.Conv[uint16](newTotal)
	if err != nil {
		panic(fmt.Errorf("bag merge overflow: %w", err))
	}
	if b.maximum != 0 && newMax > b.maximum {
		b.maximum = newMax
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by primary span start, then end, then severity
// (descending), then code, for a stable and deterministic report order.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup removes diagnostics that repeat an earlier one's code and primary span.
func (b *Bag) Dedup() {
	seen := make(map[string]bool, len(b.items))
	kept := make([]*Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%d:%s", d.Code, d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, d)
	}
	b.items = kept
}

// Filter keeps only diagnostics for which predicate returns true.
func (b *Bag) Filter(predicate func(*Diagnostic) bool) {
	kept := make([]*Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		if predicate(d) {
			kept = append(kept, d)
		}
	}
	b.items = kept
}
