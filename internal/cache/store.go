package cache

import (
	"encoding/json"
	"time"
)

// Store is the common shape both *LRU and *RedisMirror satisfy, letting
// callers depend on "a cache" without caring whether it is purely
// in-process or mirrored to Redis.
type Store interface {
	Get(key string) (any, bool)
	Put(key string, value any, ttl time.Duration)
	Clear() int
	Size() int
	Stats() Stats
}

// GetAs fetches key from s and type-asserts it to T. A value served
// straight from an in-process LRU already has its original concrete type
// and asserts directly; a value served from a RedisMirror's remote tier
// comes back as a JSON-decoded any (typically map[string]any) and is
// re-marshaled into T instead.
func GetAs[T any](s Store, key string) (T, bool) {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	if t, ok := v.(T); ok {
		return t, true
	}

	data, err := json.Marshal(v)
	if err != nil {
		return zero, false
	}
	var t T
	if err := json.Unmarshal(data, &t); err != nil {
		return zero, false
	}
	return t, true
}
