// Package cache stores assembled figures and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for several renderers
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys are produced by a [Keyer] so that every option that changes the
// output also changes the key.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Expiry for each kind of entry.
const (
	TTLFigure   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
