package cache

import (
	"testing"
	"time"
)

func TestLRUGetPutHitMiss(t *testing.T) {
	c := NewLRU(2)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected miss on empty cache")
	}

	c.Put("a", 1, 0)
	v, ok := c.Get("a")
	if !ok || v.(int) != 1 {
		t.Fatalf("expected hit with value 1, got %v %v", v, ok)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestLRUEvictsOldest(t *testing.T) {
	c := NewLRU(2)
	c.Put("a", 1, 0)
	c.Put("b", 2, 0)
	c.Put("c", 3, 0) // evicts "a", the least recently used

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatalf("expected b to survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatalf("expected c to survive")
	}
	if c.Stats().Evictions != 1 {
		t.Fatalf("expected one eviction, got %d", c.Stats().Evictions)
	}
}

func TestLRUTouchOnGetPreventsEviction(t *testing.T) {
	c := NewLRU(2)
	c.Put("a", 1, 0)
	c.Put("b", 2, 0)
	c.Get("a") // a is now most recently used
	c.Put("c", 3, 0) // evicts "b" instead of "a"

	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to survive due to recent access")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be evicted")
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU(4)
	c.Put("a", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if c.Size() != 0 {
		t.Fatalf("expected expired entry to be swept on access, size=%d", c.Size())
	}
}

func TestLRUClear(t *testing.T) {
	c := NewLRU(4)
	c.Put("a", 1, 0)
	c.Put("b", 2, 0)

	n := c.Clear()
	if n != 2 {
		t.Fatalf("expected 2 entries cleared, got %d", n)
	}
	if c.Size() != 0 {
		t.Fatalf("expected empty cache after clear")
	}
}

func TestLRUZeroCapacityTreatedAsOne(t *testing.T) {
	c := NewLRU(0)
	c.Put("a", 1, 0)
	c.Put("b", 2, 0)

	if c.Size() != 1 {
		t.Fatalf("expected capacity-1 behavior, got size=%d", c.Size())
	}
}
