package util

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute, time.Minute, nil, zap.NewNop())

	if !cb.CanExecute() {
		t.Fatalf("expected breaker to start CLOSED")
	}

	cb.RecordFailure(0)
	if !cb.CanExecute() {
		t.Fatalf("expected breaker to stay closed below threshold")
	}

	cb.RecordFailure(0)
	if cb.CanExecute() {
		t.Fatalf("expected breaker to open at threshold")
	}
	if cb.GetState() != CircuitStateOpen {
		t.Fatalf("expected state OPEN, got %s", cb.GetState())
	}
}

func TestCircuitBreakerRecordSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute, time.Minute, nil, zap.NewNop())
	cb.RecordFailure(0)
	cb.RecordSuccess()

	status := cb.GetStatus()
	if status.FailureCount != 0 {
		t.Fatalf("expected failure count reset to 0, got %d", status.FailureCount)
	}
}

func TestCircuitBreakerTransitionsToHalfOpenAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond, time.Minute, nil, zap.NewNop())
	cb.RecordFailure(0)
	if cb.CanExecute() {
		t.Fatalf("expected breaker open immediately after threshold failure")
	}

	time.Sleep(20 * time.Millisecond)
	if !cb.CanExecute() {
		t.Fatalf("expected breaker to allow a trial request after reset timeout (HALF_OPEN)")
	}
}

func TestCircuitBreakerManualReset(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute, time.Minute, nil, zap.NewNop())
	cb.RecordFailure(0)
	if cb.CanExecute() {
		t.Fatalf("expected breaker open")
	}

	cb.Reset()
	if !cb.CanExecute() {
		t.Fatalf("expected breaker closed after manual reset")
	}
}
