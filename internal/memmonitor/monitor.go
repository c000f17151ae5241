// Package memmonitor implements the Memory Monitor component (spec §4.8):
// a background sampler that triggers cache pressure relief before the
// process grows unboundedly from cached API responses and transcripts.
// Grounded on the teacher's internal/bot health-check goroutine pattern
// (a ticker loop selecting against a shutdown context).
package memmonitor

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/youtubingest/ingest/internal/cache"
)

// Monitor samples the Go heap's allocated bytes (runtime.MemStats.HeapAlloc,
// not process RSS) on an interval and asks the Cache Registry to evict
// entries once usage crosses highWaterFraction of softCapBytes.
type Monitor struct {
	registry          *cache.Registry
	logger            *zap.Logger
	sampleInterval    time.Duration
	highWaterFraction float64
	softCapBytes      int64
}

func New(registry *cache.Registry, sampleInterval time.Duration, highWaterFraction float64, softCapMB int64, logger *zap.Logger) *Monitor {
	return &Monitor{
		registry:          registry,
		logger:            logger,
		sampleInterval:    sampleInterval,
		highWaterFraction: highWaterFraction,
		softCapBytes:      softCapMB * 1024 * 1024,
	}
}

// Run blocks, sampling until ctx is canceled. Intended to be launched in
// its own goroutine by the app container.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.sampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sampleOnce()
		}
	}
}

func (m *Monitor) sampleOnce() {
	usage := currentHeapBytes()
	threshold := int64(float64(m.softCapBytes) * m.highWaterFraction)
	if usage < threshold {
		return
	}

	m.logger.Warn("memory pressure detected, clearing caches",
		zap.Int64("heap_bytes", usage),
		zap.Int64("threshold_bytes", threshold),
	)

	abated := func() bool {
		return currentHeapBytes() < threshold
	}
	evicted := m.registry.PressureClear(abated)
	m.logger.Info("pressure_clear completed", zap.Any("evicted_per_cache", evicted))
}

func currentHeapBytes() int64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return int64(stats.HeapAlloc)
}
