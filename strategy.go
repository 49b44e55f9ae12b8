package snapcache

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// Tag is opaque eviction metadata attached to a cached value at publish
// time. The strategy that minted a tag is the only party that can interpret
// it; the cache itself just carries it around.
type Tag = any

// Strategy decides when cached pairs are stale. Implementations mint a tag
// when a value is published and later judge that tag on reads.
//
// Both methods run on the lock-free read/publish paths and MUST NOT block:
// no IO, no locks shared with callers.
type Strategy[K comparable] interface {
	// CreateTag mints the metadata paired with a value published for key.
	CreateTag(key K) Tag

	// ShouldEvict reports whether a pair carrying tag is stale. Stale pairs
	// are treated as absent by readers and cleared lazily.
	ShouldEvict(tag Tag) bool
}

// Null returns the strategy that never evicts. Entries live until removed
// or overwritten.
func Null[K comparable]() Strategy[K] {
	return nullStrategy[K]{}
}

type nullStrategy[K comparable] struct{}

func (nullStrategy[K]) CreateTag(K) Tag      { return nil }
func (nullStrategy[K]) ShouldEvict(Tag) bool { return false }

// TTL returns a strategy that evicts pairs once ttl has elapsed since
// publish. ttl <= 0 means no expiry. A tag minted by a different strategy is
// treated as stale.
func TTL[K comparable](ttl time.Duration) Strategy[K] {
	return &ttlStrategy[K]{ttl: ttl, now: time.Now}
}

type ttlStrategy[K comparable] struct {
	ttl time.Duration
	now func() time.Time // swapped in tests
}

func (s *ttlStrategy[K]) CreateTag(K) Tag {
	return s.now()
}

func (s *ttlStrategy[K]) ShouldEvict(tag Tag) bool {
	if s.ttl <= 0 {
		return false
	}
	at, ok := tag.(time.Time)
	if !ok {
		return true
	}
	return s.now().Sub(at) >= s.ttl
}

// Generations returns a strategy with one logical version counter per key,
// for explicit external invalidation: Bump(key) makes every pair published
// under the key's previous versions stale at once. Counters live in a
// lock-free map, so the read path stays non-blocking.
//
// Typical use: cache entries derived from an external system of record, with
// its change feed calling Bump.
func Generations[K comparable]() *GenStrategy[K] {
	return &GenStrategy[K]{gens: xsync.NewMapOf[K, uint64]()}
}

type GenStrategy[K comparable] struct {
	gens *xsync.MapOf[K, uint64]
}

type genTag[K comparable] struct {
	key K
	gen uint64
}

func (g *GenStrategy[K]) CreateTag(key K) Tag {
	cur, _ := g.gens.Load(key)
	return genTag[K]{key: key, gen: cur}
}

func (g *GenStrategy[K]) ShouldEvict(tag Tag) bool {
	t, ok := tag.(genTag[K])
	if !ok {
		return true
	}
	cur, _ := g.gens.Load(t.key)
	return t.gen != cur
}

// Bump advances key's version. Pairs tagged with earlier versions become
// stale immediately; the next publish observes the new version.
func (g *GenStrategy[K]) Bump(key K) {
	g.gens.Compute(key, func(old uint64, _ bool) (uint64, bool) {
		return old + 1, false
	})
}

// Current returns key's version (zero for never-bumped keys).
func (g *GenStrategy[K]) Current(key K) uint64 {
	cur, _ := g.gens.Load(key)
	return cur
}

// Forget drops key's counter, resetting it to zero. Pairs tagged with a
// bumped version are evicted on the next read; pairs tagged zero stay fresh.
// Use it to keep the counter map from growing with retired keys.
func (g *GenStrategy[K]) Forget(key K) {
	g.gens.Delete(key)
}
