package generator_test

import (
	"math"
	"testing"

	"tbl/internal/collection"
	"tbl/internal/generator"
)

// fakeRNG feeds a prescripted sequence of values so scenario tests don't
// depend on the concrete PCG algorithm's output for a given seed.
type fakeRNG struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (f *fakeRNG) Float64() float64 {
	if f.fi >= len(f.floats) {
		return 0
	}
	v := f.floats[f.fi]
	f.fi++
	return v
}

func (f *fakeRNG) IntN(n int) int {
	if f.ii >= len(f.ints) {
		return 0
	}
	v := f.ints[f.ii]
	f.ii++
	return v
}

func mustCollection(t *testing.T, src string) *collection.Collection {
	t.Helper()
	col, diags := collection.BuildFromSource(src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	return col
}

func TestS2Dice(t *testing.T) {
	col := mustCollection(t, "#x\n1.0: {2d6}\n")
	rng := &fakeRNG{floats: []float64{0}, ints: []int{2, 4}} // +1 each => 3, 5
	g := generator.New(col, rng, 0)
	res, err := g.Generate("x", 1)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if res.Joined() != "8" {
		t.Fatalf("got %q, want %q", res.Joined(), "8")
	}
}

func TestS3ReferenceAndModifiers(t *testing.T) {
	col := mustCollection(t, "#a\n1.0: apple\n#b\n1.0: {#a|indefinite|capitalize}\n")
	rng := &fakeRNG{floats: []float64{0, 0}}
	g := generator.New(col, rng, 0)
	res, err := g.Generate("b", 1)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if res.Joined() != "An apple" {
		t.Fatalf("got %q, want %q", res.Joined(), "An apple")
	}
}

func TestUnknownTableError(t *testing.T) {
	col := mustCollection(t, "#a\n1.0: x\n")
	g := generator.New(col, &fakeRNG{}, 0)
	_, err := g.Generate("nope", 1)
	if err == nil {
		t.Fatalf("expected an error")
	}
	var genErr *generator.Error
	if ge, ok := err.(*generator.Error); ok {
		genErr = ge
	}
	if genErr == nil {
		t.Fatalf("expected *generator.Error, got %T", err)
	}
}

func TestDeterministicForFixedSeed(t *testing.T) {
	col := mustCollection(t, "#x\n1.0: {2d6}\n2.0: {d20}\n")
	rng1 := generator.NewSeededRNG(42)
	rng2 := generator.NewSeededRNG(42)
	g1 := generator.New(col, rng1, 0)
	g2 := generator.New(col, rng2, 0)
	r1, err := g1.Generate("x", 20)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	r2, err := g2.Generate("x", 20)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if r1.Joined() != r2.Joined() {
		t.Fatalf("same seed produced different output:\n%q\n%q", r1.Joined(), r2.Joined())
	}
}

func TestWeightedSelectionConvergesToWeights(t *testing.T) {
	col := mustCollection(t, "#x\n1.0: a\n3.0: b\n")
	rng := generator.NewSeededRNG(7)
	g := generator.New(col, rng, 0)
	const n = 100000
	res, err := g.Generate("x", n)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	countA, countB := 0, 0
	for _, s := range res.Samples {
		switch s {
		case "a":
			countA++
		case "b":
			countB++
		default:
			t.Fatalf("unexpected sample %q", s)
		}
	}
	freqA := float64(countA) / n
	// expected frequency 0.25; tolerance 6/sqrt(n) ~ 0.019, about 14
	// standard errors of a binomial proportion at n=1e5 (stderr ~ 0.0014).
	tolerance := 6 / math.Sqrt(n)
	if math.Abs(freqA-0.25) > tolerance {
		t.Fatalf("freq(a) = %f, want close to 0.25 (tolerance %f)", freqA, tolerance)
	}
}

func TestRecursionLimitExceeded(t *testing.T) {
	col := mustCollection(t, "#a\n1.0: {#a}\n")
	g := generator.New(col, generator.NewSeededRNG(1), 4)
	_, err := g.Generate("a", 1)
	if err == nil {
		t.Fatalf("expected recursion limit error")
	}
}
