package snapcache

import (
	"context"
	"time"

	"github.com/unkn0wn-root/snapcache/codec"
	"github.com/unkn0wn-root/snapcache/store"
)

// SetCostFunc prices a framed entry for stores with a cost budget
// (e.g. ristretto). raw is the exact byte slice handed to the store.
type SetCostFunc func(storageKey string, raw []byte) int64

// Options tune a core Cache. The zero value works: never-evicting strategy,
// no logging, no hooks, no background sweep.
type Options[K comparable, V any] struct {
	Strategy Strategy[K] // nil => Null (never evict)
	Logger   Logger      // nil => NopLogger
	Hooks    Hooks[K]    // nil => NopHooks

	// CleanupInterval > 0 starts a background sweep that clears stale
	// pairs between reads, so write-once keys do not pin their values.
	// 0 disables the sweep; staleness is then handled on read only.
	CleanupInterval time.Duration
}

// New builds the in-process cache. Call Close when CleanupInterval is set.
func New[K comparable, V any](opts Options[K, V]) *Cache[K, V] {
	return newCache(opts)
}

// Tiered fronts a byte store with a Cache: reads try the in-process level
// first, fall through to the store, and promote hits back up. Values cross
// the store boundary through a pluggable Codec; tags never do - a promoted
// entry gets a fresh tag from the first level's strategy.
type Tiered[K comparable, V any] interface {
	Enabled() bool
	Close(ctx context.Context) error

	// Get returns (value, true, nil) on a hit at either level.
	// Store errors surface as (zero, false, err); corrupt or expired
	// store entries are deleted and reported as misses.
	Get(ctx context.Context, key K) (v V, ok bool, err error)

	// Set publishes at the first level and writes through to the store.
	// ttl == 0 applies DefaultTTL; ttl < 0 stores without expiry. A store
	// rejection under pressure is not an error.
	Set(ctx context.Context, key K, value V, ttl time.Duration) error

	// GetOrLoad is Get falling through to load, publishing the loaded
	// value at both levels (the store write is best-effort). Concurrent
	// loads for the same key share one execution. load errors propagate
	// unchanged and leave both levels untouched.
	GetOrLoad(ctx context.Context, key K, load func(context.Context) (V, error)) (V, error)

	// Invalidate removes key from both levels.
	Invalidate(ctx context.Context, key K) error

	// Warm bulk-seeds both levels. Partial failures are collected into a
	// *WarmError; seeded entries stay.
	Warm(ctx context.Context, items map[K]V, ttl time.Duration) error
}

// TieredOptions tune a Tiered cache.
// Only Namespace, Store and Codec are required.
type TieredOptions[K comparable, V any] struct {
	// Required
	Namespace string // isolates this cache's keyspace in the store. e.g. "user", "session"
	Store     store.Store
	Codec     codec.Codec[V]

	// Optional
	L1             *Cache[K, V]   // nil => a Cache with TTL(DefaultTTL)
	KeyFunc        func(K) string // storage key text for K; nil => fmt.Sprint
	DefaultTTL     time.Duration  // store TTL when Set gets ttl=0; 0 => 10m
	Disabled       bool           // default false (enabled)
	ComputeSetCost SetCostFunc    // nil => cost 1
	Logger         Logger         // nil => NopLogger
	Hooks          Hooks[K]       // nil => NopHooks
}

func NewTiered[K comparable, V any](opts TieredOptions[K, V]) (Tiered[K, V], error) {
	return newTiered(opts)
}
