package storage

import (
	"context"
	"errors"
	"time"
)

// Retrying wraps a Store so every call is attempted a bounded number of times
// with linearly growing backoff (base, 2*base, 3*base, ...). Retries are not
// error-kind aware; the only exception is ErrNotFound, which is a definitive
// answer rather than a transient failure. When attempts are exhausted the
// last cause is wrapped in *StorageError.
type Retrying struct {
	inner    Store
	attempts int
	base     time.Duration
}

// WithRetry wraps store. attempts < 1 defaults to 3; base <= 0 defaults to 100ms.
func WithRetry(store Store, attempts int, base time.Duration) *Retrying {
	if attempts < 1 {
		attempts = 3
	}
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	return &Retrying{inner: store, attempts: attempts, base: base}
}

func (r *Retrying) Driver() Driver { return r.inner.Driver() }

func (r *Retrying) do(ctx context.Context, op, key string, fn func() error) error {
	var last error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		err := fn()
		if err == nil || errors.Is(err, ErrNotFound) {
			return err
		}
		last = err
		if attempt == r.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return &StorageError{Op: op, Key: key, Cause: ctx.Err()}
		case <-time.After(time.Duration(attempt) * r.base):
		}
	}
	return &StorageError{Op: op, Key: key, Cause: last}
}

func (r *Retrying) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := r.do(ctx, "get", key, func() error {
		var err error
		out, err = r.inner.Get(ctx, key)
		return err
	})
	return out, err
}

func (r *Retrying) SetJSON(ctx context.Context, key string, value any) error {
	return r.do(ctx, "set", key, func() error {
		return r.inner.SetJSON(ctx, key, value)
	})
}

func (r *Retrying) Delete(ctx context.Context, key string) error {
	return r.do(ctx, "delete", key, func() error {
		return r.inner.Delete(ctx, key)
	})
}

func (r *Retrying) List(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	err := r.do(ctx, "list", prefix, func() error {
		var err error
		out, err = r.inner.List(ctx, prefix)
		return err
	})
	return out, err
}
