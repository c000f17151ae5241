package youtubeapi

import (
	"sync"

	"github.com/youtubingest/ingest/internal/constants"
)

// QuotaTracker accumulates the per-call count and quota cost for a single
// ingest request (spec §4.3 "Quota accounting"). One tracker is created
// per request by the engine and handed to the client; it is never shared
// across requests.
type QuotaTracker struct {
	mu        sync.Mutex
	callCount int
	quotaUsed int
}

func NewQuotaTracker() *QuotaTracker {
	return &QuotaTracker{}
}

// record increments the call/quota counters. Cancelled calls that never
// reached the network must not be recorded (spec §5).
func (q *QuotaTracker) record(cost int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.callCount++
	q.quotaUsed += cost
}

func (q *QuotaTracker) Snapshot() (callCount, quotaUsed int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.callCount, q.quotaUsed
}

// Cost mirrors the published per-endpoint quota table (spec §4.3).
var Cost = struct {
	Search   int
	List     int
	Captions int
}{
	Search:   constants.Quota.SearchCost,
	List:     constants.Quota.ListCost,
	Captions: constants.Quota.CaptionsCost,
}
