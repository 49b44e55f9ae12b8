// Package asynchook decouples hook delivery from cache hot paths.
//
// Events are handed to a bounded queue and replayed on worker goroutines;
// when the queue is full the event is dropped rather than blocking a read
// or a producer. Use it to front hooks that do real work (logging with
// slow sinks, pushing to external systems):
//
//	raw := sloghook.New[string](slog.Default(), sloghook.Options{
//	    StaleEvictedEvery: 10, // sample: ~every 10th sweep eviction
//	})
//
//	hooks := asynchook.New[string](raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache := snapcache.New[string, User](snapcache.Options[string, User]{
//	    Strategy: snapcache.TTL[string](time.Minute),
//	    Hooks:    hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/snapcache"
)

type Hooks[K comparable] struct {
	inner snapcache.Hooks[K]
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ snapcache.Hooks[string] = (*Hooks[string])(nil)

func New[K comparable](inner snapcache.Hooks[K], workers, qlen int) *Hooks[K] {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks[K]{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains the queue and stops the workers. Events enqueued after
// Close panic; stop the caches feeding these hooks first.
func (h *Hooks[K]) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks[K]) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks[K]) StaleEvicted(key K) { h.try(func() { h.inner.StaleEvicted(key) }) }
func (h *Hooks[K]) ProducerRace(key K) { h.try(func() { h.inner.ProducerRace(key) }) }
func (h *Hooks[K]) FlightShared(key K) { h.try(func() { h.inner.FlightShared(key) }) }
func (h *Hooks[K]) ProducerError(key K, err error) {
	h.try(func() { h.inner.ProducerError(key, err) })
}
func (h *Hooks[K]) StoreSetRejected(storageKey string) {
	h.try(func() { h.inner.StoreSetRejected(storageKey) })
}
func (h *Hooks[K]) SelfHeal(storageKey, reason string) {
	h.try(func() { h.inner.SelfHeal(storageKey, reason) })
}
