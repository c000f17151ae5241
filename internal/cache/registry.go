package cache

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Named is the opaque handle the Cache Registry holds for each registered
// cache — any cache (an *LRU, a *RedisMirror, ...) that can report its own
// clear/size/stats satisfies it (spec §4.1).
type Named interface {
	Clear() int
	Size() int
	Stats() Stats
}

// Registry is the process-wide mapping from cache name to handle. Access is
// synchronized; registration order also fixes the pressure_clear priority
// (there is no separate way to supply an order).
type Registry struct {
	mu     sync.Mutex
	order  []string
	caches map[string]Named
	logger *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		caches: make(map[string]Named),
		logger: logger,
	}
}

// Register adds (or replaces) a named cache.
func (r *Registry) Register(name string, c Named) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.caches[name]; !exists {
		r.order = append(r.order, name)
	}
	r.caches[name] = c
}

// Get looks up a registered cache by name.
func (r *Registry) Get(name string) (Named, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caches[name]
	return c, ok
}

// ClearAll clears every registered cache and returns the per-cache eviction
// count. A single cache panicking or erroring does not abort the sweep
// (spec §4.1) — Clear() on the built-in caches never errors, but this stays
// defensive against a Named implementation that does.
func (r *Registry) ClearAll() map[string]int {
	r.mu.Lock()
	names := append([]string(nil), r.order...)
	caches := make(map[string]Named, len(r.caches))
	for k, v := range r.caches {
		caches[k] = v
	}
	r.mu.Unlock()

	result := make(map[string]int, len(names))
	for _, name := range names {
		result[name] = r.safeClear(name, caches[name])
	}
	return result
}

func (r *Registry) safeClear(name string, c Named) (n int) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("cache clear panicked", zap.String("cache", name), zap.Any("panic", rec))
			n = 0
		}
	}()
	n = c.Clear()
	return n
}

// PressureClear is invoked by the Memory Monitor (§4.8). It clears caches in
// registration priority order (transcripts first, search pages next,
// metadata last, token cache last per §9) until either all caches are
// drained or abated() reports memory pressure has passed.
func (r *Registry) PressureClear(abated func() bool) map[string]int {
	r.mu.Lock()
	names := append([]string(nil), r.order...)
	caches := make(map[string]Named, len(r.caches))
	for k, v := range r.caches {
		caches[k] = v
	}
	r.mu.Unlock()

	result := make(map[string]int, len(names))
	for _, name := range names {
		if abated != nil && abated() {
			break
		}
		n := r.safeClear(name, caches[name])
		result[name] = n
		r.logger.Info("pressure_clear evicted cache", zap.String("cache", name), zap.Int("evicted", n))
	}
	return result
}

// AllStats returns every registered cache's current stats, combining any
// per-cache lookup errors (there are none today, but the shape matches
// ClearAll's panic-safety contract) via multierr instead of bailing out on
// the first failure.
func (r *Registry) AllStats() (map[string]Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	out := make(map[string]Stats, len(r.caches))
	for name, c := range r.caches {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					err = multierr.Append(err, &statsError{name: name, panic: rec})
				}
			}()
			out[name] = c.Stats()
		}()
	}
	return out, err
}

type statsError struct {
	name  string
	panic any
}

func (e *statsError) Error() string {
	return "cache stats panicked: " + e.name
}
