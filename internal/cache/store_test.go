package cache

import "testing"

type sampleStruct struct {
	Name string
	N    int
}

func TestGetAsDirectAssertion(t *testing.T) {
	c := NewLRU(4)
	c.Put("k", sampleStruct{Name: "a", N: 1}, 0)

	v, ok := GetAs[sampleStruct](c, "k")
	if !ok || v.Name != "a" || v.N != 1 {
		t.Fatalf("expected direct assertion hit, got %+v %v", v, ok)
	}
}

func TestGetAsJSONRemarshalFallback(t *testing.T) {
	c := NewLRU(4)
	// Simulate what a Redis round trip produces: decoding into `any` gives
	// map[string]any, not the original struct type.
	c.Put("k", map[string]any{"Name": "a", "N": float64(1)}, 0)

	v, ok := GetAs[sampleStruct](c, "k")
	if !ok || v.Name != "a" || v.N != 1 {
		t.Fatalf("expected remarshal fallback hit, got %+v %v", v, ok)
	}
}

func TestGetAsMiss(t *testing.T) {
	c := NewLRU(4)
	if _, ok := GetAs[sampleStruct](c, "missing"); ok {
		t.Fatalf("expected miss")
	}
}

func TestGetAsIncompatibleValueMisses(t *testing.T) {
	c := NewLRU(4)
	c.Put("k", 42, 0)
	if _, ok := GetAs[sampleStruct](c, "k"); ok {
		t.Fatalf("expected incompatible value to fail remarshal and report a miss")
	}
}
