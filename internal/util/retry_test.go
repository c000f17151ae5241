package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsWithoutRetryOnFirstSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, 10*time.Millisecond, 0, nil, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 5, time.Millisecond, 5*time.Millisecond, 0, func(error) bool { return true }, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryStopsImmediatelyOnNonRetryableError(t *testing.T) {
	calls := 0
	sentinel := errors.New("authoritative failure")
	err := Retry(context.Background(), 5, time.Millisecond, 5*time.Millisecond, 0, func(error) bool { return false }, func() error {
		calls++
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("expected sentinel error returned unchanged, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 call, no retries, got %d", calls)
	}
}

func TestRetryExhaustsMaxAttempts(t *testing.T) {
	calls := 0
	sentinel := errors.New("always fails")
	err := Retry(context.Background(), 3, time.Millisecond, 5*time.Millisecond, 0, func(error) bool { return true }, func() error {
		calls++
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("expected last error returned, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestRetryStopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, 5, time.Millisecond, 5*time.Millisecond, 0, func(error) bool { return true }, func() error {
		calls++
		return errors.New("transient")
	})
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no calls once context already canceled, got %d", calls)
	}
}
