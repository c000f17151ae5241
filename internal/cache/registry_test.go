package cache

import (
	"testing"

	"go.uber.org/zap"
)

func TestRegistryClearAllOrderAndCounts(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	a := NewLRU(4)
	a.Put("x", 1, 0)
	a.Put("y", 2, 0)
	b := NewLRU(4)
	b.Put("z", 3, 0)

	r.Register("a", a)
	r.Register("b", b)

	result := r.ClearAll()
	if result["a"] != 2 || result["b"] != 1 {
		t.Fatalf("unexpected clear counts: %+v", result)
	}
	if a.Size() != 0 || b.Size() != 0 {
		t.Fatalf("expected both caches emptied")
	}
}

func TestRegistryPressureClearStopsWhenAbated(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	first := NewLRU(4)
	first.Put("x", 1, 0)
	second := NewLRU(4)
	second.Put("y", 2, 0)

	r.Register("first", first)
	r.Register("second", second)

	calls := 0
	result := r.PressureClear(func() bool {
		calls++
		return calls > 1 // abate after the first cache has been cleared
	})

	if _, cleared := result["first"]; !cleared {
		t.Fatalf("expected first cache to be cleared")
	}
	if _, cleared := result["second"]; cleared {
		t.Fatalf("expected second cache to be skipped once abated")
	}
	if second.Size() != 1 {
		t.Fatalf("expected second cache untouched")
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	a := NewLRU(4)
	r.Register("a", a)

	if _, ok := r.Get("missing"); ok {
		t.Fatalf("expected miss for unregistered name")
	}
	if got, ok := r.Get("a"); !ok || got != Named(a) {
		t.Fatalf("expected registered cache to be returned")
	}
}
