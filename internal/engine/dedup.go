package engine

import (
	"sync"

	"github.com/youtubingest/ingest/internal/domain"
)

// inFlight is a shared future for one request fingerprint: every caller
// with the same fingerprint blocks on the same done channel and observes
// the same result or error (spec §4.5 "Deduplication").
type inFlight struct {
	done   chan struct{}
	result domain.IngestResult
	err    error
}

// dedupeMap is the engine's in-flight request map (spec §5 "Deduplication
// discipline"): insertion and subscription happen atomically under one
// mutex, before any suspension point.
type dedupeMap struct {
	mu      sync.Mutex
	pending map[string]*inFlight
}

func newDedupeMap() *dedupeMap {
	return &dedupeMap{pending: make(map[string]*inFlight)}
}

// join either registers the caller as the owner of a new computation for
// fingerprint (owner=true, the caller must run the work and call finish)
// or subscribes to an already in-flight one (owner=false, the caller
// should wait on the returned *inFlight instead).
func (d *dedupeMap) join(fingerprint string) (f *inFlight, owner bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.pending[fingerprint]; ok {
		return existing, false
	}

	f = &inFlight{done: make(chan struct{})}
	d.pending[fingerprint] = f
	return f, true
}

// finish publishes the result to every subscriber and removes the entry
// so a later, distinct request with the same fingerprint starts fresh.
func (d *dedupeMap) finish(fingerprint string, f *inFlight, result domain.IngestResult, err error) {
	f.result = result
	f.err = err
	close(f.done)

	d.mu.Lock()
	delete(d.pending, fingerprint)
	d.mu.Unlock()
}

func (f *inFlight) wait() (domain.IngestResult, error) {
	<-f.done
	return f.result, f.err
}
