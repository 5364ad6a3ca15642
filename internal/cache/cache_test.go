package cache_test

import (
	"testing"

	"tbl/internal/cache"
	"tbl/internal/parser"
)

func TestPutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.Open(dir, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	src := "#color\n1.0: red\n2.0: blue\n"
	res := parser.Parse(src)
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", res.Bag.Items())
	}

	key := cache.KeyOf(src)
	if err := c.Put(key, res.Program); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatalf("expected a cache hit")
	}
	if len(got.Tables) != 1 || got.Tables[0].ID != "color" {
		t.Fatalf("round-tripped program = %+v", got)
	}
}

func TestGetMiss(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.Open(dir, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, ok, err := c.Get(cache.KeyOf("nonexistent"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected a miss")
	}
}
