package storage

import (
	"context"
	"encoding/json"
)

// Provider is the key-value persistence primitive every collection is built on.
// Values are opaque JSON documents; keys are flat strings under constants.KeyPrefix.
type Provider interface {
	// Lifecycle
	Open(ctx context.Context) error
	Close() error

	// Get returns the stored document. A missing key is reported as ok=false with a nil error.
	Get(ctx context.Context, key string) (value json.RawMessage, ok bool, err error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)

	// Location is a human-readable, non-sensitive description of where data lives
	Location() string
}
