package cache

import (
	"strings"
	"testing"
)

func byLength(key, value string) int64 {
	return int64(len(key) + len(value))
}

func TestPutUpdatesExistingEntryWithoutGrowingSize(t *testing.T) {
	c := New[string, string](100, byLength)

	c.Put("alpha", strings.Repeat("x", 16))
	c.Put("beta", "value")
	before := c.Size()

	c.Put("alpha", strings.Repeat("y", 24))

	want := before - 21 + 29
	if c.Size() != want {
		t.Fatalf("unexpected cache size: got %d, want %d", c.Size(), want)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if value, hit := c.Get("beta"); !hit || value != "value" {
		t.Fatalf("expected beta to remain in cache, hit=%v value=%v", hit, value)
	}
}

func TestPutEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, string](30, byLength)

	c.Put("a", strings.Repeat("1", 9))
	c.Put("b", strings.Repeat("2", 9))
	c.Put("c", strings.Repeat("3", 9))

	// Touch a so b becomes the eviction candidate.
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to be cached")
	}

	if evicted := c.Put("d", strings.Repeat("4", 9)); evicted != 1 {
		t.Fatalf("expected one eviction, got %d", evicted)
	}
	if c.Contains("b") {
		t.Fatalf("expected b to be evicted")
	}

	keys := c.Keys()
	want := []string{"d", "a", "c"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected recency order %v, got %v", want, keys)
		}
	}
	if c.Size() > 30 {
		t.Fatalf("cache exceeded its budget: %d", c.Size())
	}
}

func TestPutSkipsOversizedEntries(t *testing.T) {
	c := New[string, string](10, byLength)
	c.Put("k", "small")
	c.Put("k", strings.Repeat("z", 50))

	if c.Contains("k") || c.Size() != 0 {
		t.Fatalf("expected oversized update to drop the entry, size=%d", c.Size())
	}
}

func TestNilSizerCountsEntries(t *testing.T) {
	c := New[int, bool](2, nil)
	c.Put(1, true)
	c.Put(2, false)
	c.Put(3, true)

	if c.Len() != 2 || c.Contains(1) {
		t.Fatalf("expected the oldest key to be evicted, keys=%v", c.Keys())
	}
	if v, ok := c.Get(2); !ok || v {
		t.Fatalf("expected cached false for key 2, got %v ok=%v", v, ok)
	}
}

func TestRemoveAndPurge(t *testing.T) {
	c := New[string, string](100, byLength)
	c.Put("a", "1")
	c.Put("b", "2")

	if !c.Remove("a") || c.Remove("a") {
		t.Fatalf("expected Remove to report presence once")
	}
	c.Purge()
	if c.Len() != 0 || c.Size() != 0 {
		t.Fatalf("expected empty cache after purge")
	}
}

func TestReadableSize(t *testing.T) {
	tests := map[int64]string{
		512:             "512 B",
		2048:            "2.0 KiB",
		5 * 1024 * 1024: "5.0 MiB",
	}
	for input, want := range tests {
		if got := ReadableSize(input); got != want {
			t.Fatalf("ReadableSize(%d) = %q, want %q", input, got, want)
		}
	}
}
