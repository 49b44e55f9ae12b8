// Package store defines the byte-store abstraction behind a Tiered cache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the []byte previously passed to Set for a key (no prepended metadata, no
// re-encoding, no mutation). Internal transforms such as compression MUST be
// fully reversed before bytes are returned.
//
// The keyspace "entry:<namespace>:" is owned by the cache. Foreign writes under
// it fail strict frame validation and are deleted on read.
package store

import (
	"context"
	"time"
)

// Store is a minimal byte store with TTLs. Must be safe for concurrent use.
//
// TTLs are advisory: a store may keep entries longer (or evict earlier)
// than asked. The cache carries the authoritative deadline inside the value
// frame and checks it on read, so a late-expiring store never serves stale
// data.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. May ignore cost if unsupported.
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
