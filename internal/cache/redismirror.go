package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisMirror layers a cross-process read-through/write-through mirror on
// top of an in-process LRU, grounded on the teacher's
// internal/service/cache.CacheService (same Get/Set JSON-marshal shape,
// same redis.Nil-is-not-an-error convention). It exists so several ingest
// processes behind a load balancer can share the expensive, quota-metered
// lookups (channel resolution, channel/playlist metadata) instead of each
// burning quota cold on first request. When cfg.Addr is empty NewRedisMirror
// returns nil and callers fall back to the bare *LRU — the mirror is a
// strictly optional tier, never a correctness requirement (spec §4.2 never
// mandates cross-process sharing).
type RedisMirror struct {
	local  *LRU
	client *redis.Client
	prefix string
	logger *zap.Logger
}

type RedisMirrorConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisMirror returns nil (not an error) when addr is unset, so callers
// can do `if mirror != nil { ... }` without special-casing configuration.
func NewRedisMirror(cfg RedisMirrorConfig, local *LRU, keyPrefix string, logger *zap.Logger) *RedisMirror {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
	})
	return &RedisMirror{local: local, client: client, prefix: keyPrefix, logger: logger}
}

// Get satisfies the same (key) (value, bool) shape as *LRU so callers can
// treat the two interchangeably; it checks the local tier first, then the
// Redis mirror, populating the local LRU on a remote hit so subsequent
// lookups stay in-process. The Redis round trip gets its own short-lived
// context since the cache interface carries none.
func (m *RedisMirror) Get(key string) (any, bool) {
	if v, ok := m.local.Get(key); ok {
		return v, true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := m.client.Get(ctx, m.prefix+key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		m.logger.Warn("redis mirror get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		m.logger.Warn("redis mirror unmarshal failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	m.local.Put(key, value, 0)
	return value, true
}

// Put writes through to both the local LRU and the Redis mirror.
func (m *RedisMirror) Put(key string, value any, ttl time.Duration) {
	m.local.Put(key, value, ttl)

	data, err := json.Marshal(value)
	if err != nil {
		m.logger.Warn("redis mirror marshal failed", zap.String("key", key), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.client.Set(ctx, m.prefix+key, data, ttl).Err(); err != nil {
		m.logger.Warn("redis mirror set failed", zap.String("key", key), zap.Error(err))
	}
}

// Clear drops the local tier and every mirrored key under this prefix; it
// never fails the caller even if Redis is unreachable (registry sweeps must
// not abort, spec §4.1).
func (m *RedisMirror) Clear() int {
	n := m.local.Clear()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	keys, err := m.client.Keys(ctx, m.prefix+"*").Result()
	if err != nil {
		return n
	}
	if len(keys) > 0 {
		m.client.Del(ctx, keys...)
	}
	return n
}

func (m *RedisMirror) Size() int    { return m.local.Size() }
func (m *RedisMirror) Stats() Stats { return m.local.Stats() }
func (m *RedisMirror) Close() error { return m.client.Close() }
