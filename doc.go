// Package snapcache implements a concurrent copy-on-write cache built from
// atomically swappable snapshot slots. Readers never block: every published
// (tag, value) pair is immutable, lookups are a couple of atomic loads, and
// eviction is lazy - an eviction strategy stamps each write with a tag and
// judges that tag on read, so expiry costs nothing until someone asks.
//
// Components:
//   - Slot[V]: one atomic snapshot cell; Update retries a pure rewrite until
//     it lands.
//   - Strategy[K]: tags writes and classifies reads (Null, TTL, Generations).
//   - Cache[K, V]: a copy-on-write key directory over slots, with optional
//     background sweeping and coalesced production (GetOrInsertShared).
//   - Tiered[K, V]: the cache fronting a byte store (Ristretto, BigCache,
//     Redis, LRU) through a Codec, with write-through, promotion, and
//     self-healing reads.
//
// Keys:
//
//	entry:<ns>:<key>  - tiered entries (long keys hashed; see internal/util)
//
// Production pattern:
//
//	v, err := cache.GetOrInsertShared(ctx, k, func(ctx context.Context) (V, error) {
//	    return readFromDB(ctx, k) // one flight per key; errors cache nothing
//	})
package snapcache
