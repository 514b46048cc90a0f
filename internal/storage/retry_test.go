package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

// flaky fails its first n calls, then delegates to an inner memory store.
type flaky struct {
	*Memory
	failures int
	calls    int
}

var errTransient = errors.New("connection reset")

func (f *flaky) Get(ctx context.Context, key string) ([]byte, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errTransient
	}
	return f.Memory.Get(ctx, key)
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	ctx := context.Background()
	inner := &flaky{Memory: NewMemory(), failures: 2}
	if err := inner.SetJSON(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	store := WithRetry(inner, 3, time.Millisecond)

	if _, err := store.Get(ctx, "k"); err != nil {
		t.Fatalf("expected success on third attempt: %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", inner.calls)
	}
}

func TestRetryExhaustionWrapsStorageError(t *testing.T) {
	ctx := context.Background()
	inner := &flaky{Memory: NewMemory(), failures: 10}
	store := WithRetry(inner, 3, time.Millisecond)

	_, err := store.Get(ctx, "k")
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StorageError, got %T", err)
	}
	if se.Op != "get" || se.Key != "k" {
		t.Fatalf("unexpected error shape: %+v", se)
	}
	if !errors.Is(err, errTransient) {
		t.Fatal("the last cause should be reachable through Unwrap")
	}
	if inner.calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", inner.calls)
	}
}

// A miss is a definitive answer, not a transient failure.
func TestRetryDoesNotRetryNotFound(t *testing.T) {
	ctx := context.Background()
	inner := &flaky{Memory: NewMemory()}
	store := WithRetry(inner, 3, time.Millisecond)

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound to pass through, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("ErrNotFound must not be retried, got %d attempts", inner.calls)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	inner := &flaky{Memory: NewMemory(), failures: 10}
	store := WithRetry(inner, 5, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.Get(ctx, "k")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cancellation should surface through the wrapper, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("cancelled context should stop after the in-flight attempt, got %d", inner.calls)
	}
}

func TestRetryDefaults(t *testing.T) {
	inner := &flaky{Memory: NewMemory(), failures: 10}
	store := WithRetry(inner, 0, 0)
	if store.attempts != 3 {
		t.Fatalf("attempts should default to 3, got %d", store.attempts)
	}
	if store.base != 100*time.Millisecond {
		t.Fatalf("base should default to 100ms, got %s", store.base)
	}
}

func TestRetryPreservesDriver(t *testing.T) {
	store := WithRetry(NewMemory(), 3, time.Millisecond)
	if store.Driver() != DriverMemory {
		t.Fatalf("wrapper should report the inner driver, got %s", store.Driver())
	}
}
