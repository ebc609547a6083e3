// Package store is the durable document store rooms are cached in for crash
// recovery. Documents are opaque bytes keyed by room id; there are no
// transactions and no invalidation between processes.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: document not found")

type Store interface {
	// Get returns ErrNotFound when key has no document.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, doc []byte) error
	// Delete is a no-op for a missing key.
	Delete(ctx context.Context, key string) error
	Close() error
}
