package snapcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks[K comparable] interface {
	// A stale pair was cleared, either lazily on read or by the
	// background sweep.
	StaleEvicted(key K)

	// A producer passed to GetOrInsertWith/GetOrLoad returned an error.
	// The cache was left untouched.
	ProducerError(key K, err error)

	// Two producers raced on the same missing key; the later publish wins
	// and the earlier result is discarded. Frequent races are the signal
	// to switch callers to GetOrInsertShared.
	ProducerRace(key K)

	// A caller was served from a producer call started by another caller.
	FlightShared(key K)

	// Store returned ok=false on Set (backpressure/eviction).
	StoreSetRejected(storageKey string)

	// A second-level entry was deleted by the cache on read.
	// reason is one of "corrupt", "expired", "decode".
	SelfHeal(storageKey, reason string)
}

// NopHooks is the default no-op
type NopHooks[K comparable] struct{}

func (NopHooks[K]) StaleEvicted(K)          {}
func (NopHooks[K]) ProducerError(K, error)  {}
func (NopHooks[K]) ProducerRace(K)          {}
func (NopHooks[K]) FlightShared(K)          {}
func (NopHooks[K]) StoreSetRejected(string) {}
func (NopHooks[K]) SelfHeal(string, string) {}
