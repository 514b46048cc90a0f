// Package storage provides the key-value persistence collaborator. Values are
// JSON documents addressed by string keys; drivers cover local development
// (fs), production (s3) and tests (memory).
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Driver identifies a concrete storage backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"     // local filesystem (default, dev)
	DriverS3         Driver = "s3"     // S3 / MinIO compatible
	DriverMemory     Driver = "memory" // in-memory (tests)
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("storage: key not found")

// Store is the minimal key-value surface the application depends on.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the raw JSON value at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// SetJSON marshals value and writes it at key, overwriting any prior value.
	SetJSON(ctx context.Context, key string, value any) error
	// Delete removes the value at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns all keys with the given prefix, ascending.
	List(ctx context.Context, prefix string) ([]string, error)
	// Driver reports the configured backend.
	Driver() Driver
}

// StorageError wraps a cause after retries are exhausted.
type StorageError struct {
	Op    string
	Key   string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %q: %v", e.Op, e.Key, e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }
