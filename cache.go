package snapcache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// directory is one immutable published key-to-slot map. Writers copy the map,
// apply their delta and CAS the pointer; readers load whatever snapshot is
// current and never take a lock.
type directory[K comparable, V any] struct {
	slots map[K]*Slot[V]
}

// Cache is an in-process concurrent map of keys to snapshot slots, with
// staleness decided by a pluggable Strategy. Reads are lock-free and never
// wait for writers or producers; writers race on pointer swaps and retry.
type Cache[K comparable, V any] struct {
	dir   atomic.Pointer[directory[K, V]]
	strat Strategy[K]
	log   Logger
	hooks Hooks[K]

	flight singleflight.Group

	// background sweep
	sweepInterval time.Duration
	stopCh        chan struct{}
	closeWg       sync.WaitGroup
	closeOnce     sync.Once
}

func newCache[K comparable, V any](opts Options[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		strat: opts.Strategy,
	}

	// defaults
	if c.strat == nil {
		c.strat = Null[K]()
	}
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	if opts.Hooks != nil {
		c.hooks = opts.Hooks
	} else {
		c.hooks = NopHooks[K]{}
	}
	c.sweepInterval = opts.CleanupInterval

	c.dir.Store(&directory[K, V]{slots: map[K]*Slot[V]{}})

	if c.sweepInterval > 0 {
		c.stopCh = make(chan struct{})
		c.closeWg.Add(1)
		go c.cleanupLoop()
	}
	return c
}

// Close stops the background sweep, if one was configured. The cache remains
// usable afterwards; entries simply stop being reclaimed proactively.
func (c *Cache[K, V]) Close() error {
	c.closeOnce.Do(func() {
		if c.stopCh != nil {
			close(c.stopCh)
			c.closeWg.Wait()
		}
	})
	return nil
}

// EnsureEntry installs an empty slot for key if none exists and returns the
// slot. The handle stays valid for the life of the cache; callers on a hot
// key can hold it and skip further directory lookups. Idempotent under
// races: all concurrent callers get the same slot.
func (c *Cache[K, V]) EnsureEntry(key K) *Slot[V] {
	for {
		cur := c.dir.Load()
		if s, ok := cur.slots[key]; ok {
			return s
		}
		next := make(map[K]*Slot[V], len(cur.slots)+1)
		for k, s := range cur.slots {
			next[k] = s
		}
		s := &Slot[V]{}
		next[key] = s
		if c.dir.CompareAndSwap(cur, &directory[K, V]{slots: next}) {
			return s
		}
		// lost the publish race; retry against the winner's snapshot
	}
}

// Get returns the fresh value cached under key. A pair its strategy calls
// stale is cleared in passing and reported as a miss; the clear is
// identity-guarded so a racing fresh publish is never thrown away.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V
	s, ok := c.dir.Load().slots[key]
	if !ok {
		return zero, false
	}
	e := s.Load()
	if e == nil {
		return zero, false
	}
	if c.strat.ShouldEvict(e.Tag) {
		c.clearStale(key, s, e)
		return zero, false
	}
	return e.Value, true
}

// Contains reports whether key holds a fresh value. Unlike Get it does not
// clear stale pairs.
func (c *Cache[K, V]) Contains(key K) bool {
	s, ok := c.dir.Load().slots[key]
	if !ok {
		return false
	}
	e := s.Load()
	return e != nil && !c.strat.ShouldEvict(e.Tag)
}

// Insert publishes value under key with a fresh tag, replacing any current
// pair.
func (c *Cache[K, V]) Insert(key K, value V) {
	s := c.EnsureEntry(key)
	s.Store(&Cached[V]{Tag: c.strat.CreateTag(key), Value: value})
}

// Change describes the outcome of an Update: the fresh value before the
// call, if any, and the value left in place, if any.
type Change[V any] struct {
	Before    V
	After     V
	HadBefore bool
	HasAfter  bool
}

// Update rewrites key's entry through fn. fn receives the current fresh
// value (stale pairs count as absent) and returns the replacement; keep=false
// clears the slot. The replacement is published with a fresh tag. fn may run
// more than once when writers collide, so it MUST be side-effect free.
func (c *Cache[K, V]) Update(key K, fn func(prev V, ok bool) (next V, keep bool)) Change[V] {
	s := c.EnsureEntry(key)
	var ch Change[V]
	s.Update(func(cur *Cached[V]) *Cached[V] {
		ch = Change[V]{}
		var prev V
		var ok bool
		if cur != nil && !c.strat.ShouldEvict(cur.Tag) {
			prev, ok = cur.Value, true
			ch.Before, ch.HadBefore = cur.Value, true
		}
		next, keep := fn(prev, ok)
		if !keep {
			return nil
		}
		ch.After, ch.HasAfter = next, true
		return &Cached[V]{Tag: c.strat.CreateTag(key), Value: next}
	})
	return ch
}

// Remove drops key from the directory and returns the fresh value it held.
// Stale pairs are reported as absent, same as Get.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	var zero V
	for {
		cur := c.dir.Load()
		s, ok := cur.slots[key]
		if !ok {
			return zero, false
		}
		next := make(map[K]*Slot[V], len(cur.slots)-1)
		for k, sl := range cur.slots {
			if k != key {
				next[k] = sl
			}
		}
		if !c.dir.CompareAndSwap(cur, &directory[K, V]{slots: next}) {
			continue
		}
		e := s.Load()
		if e == nil || c.strat.ShouldEvict(e.Tag) {
			return zero, false
		}
		return e.Value, true
	}
}

// GetOrInsertWith returns the fresh value under key, or runs produce on the
// caller's goroutine and publishes its result with a fresh tag.
//
// Concurrent misses on the same key are NOT deduplicated: each caller runs
// its own produce and the last publish wins. That keeps the fast path free
// of coordination; use GetOrInsertShared when produce is expensive enough
// that duplicate runs hurt.
//
// A produce error propagates unchanged and the cache is untouched, so a
// cancelled producer (returning ctx.Err()) never leaves a partial entry.
func (c *Cache[K, V]) GetOrInsertWith(ctx context.Context, key K, produce func(context.Context) (V, error)) (V, error) {
	var zero V
	s := c.EnsureEntry(key)
	if e := s.Load(); e != nil && !c.strat.ShouldEvict(e.Tag) {
		return e.Value, nil
	}
	v, err := produce(ctx)
	if err != nil {
		c.hooks.ProducerError(key, err)
		c.log.Debug("producer failed; cache untouched", Fields{"key": key, "err": err})
		return zero, err
	}
	if e := s.Load(); e != nil && !c.strat.ShouldEvict(e.Tag) {
		// another producer published while ours ran; ours wins below
		c.hooks.ProducerRace(key)
	}
	s.Store(&Cached[V]{Tag: c.strat.CreateTag(key), Value: v})
	return v, nil
}

// GetOrInsertShared is GetOrInsertWith with per-key in-flight deduplication:
// concurrent misses on the same key share one produce call and all receive
// its result. produce runs under the context of the caller that started it;
// later waiters that cancel stop waiting without cancelling the shared call.
func (c *Cache[K, V]) GetOrInsertShared(ctx context.Context, key K, produce func(context.Context) (V, error)) (V, error) {
	var zero V
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	ch := c.flight.DoChan(c.flightKey(key), func() (any, error) {
		s := c.EnsureEntry(key)
		if e := s.Load(); e != nil && !c.strat.ShouldEvict(e.Tag) {
			return e.Value, nil
		}
		v, err := produce(ctx)
		if err != nil {
			c.hooks.ProducerError(key, err)
			return nil, err
		}
		s.Store(&Cached[V]{Tag: c.strat.CreateTag(key), Value: v})
		return v, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		if res.Shared {
			c.hooks.FlightShared(key)
		}
		return res.Val.(V), nil
	}
}

// Len counts keys holding a fresh value.
func (c *Cache[K, V]) Len() int {
	n := 0
	for _, s := range c.dir.Load().slots {
		if e := s.Load(); e != nil && !c.strat.ShouldEvict(e.Tag) {
			n++
		}
	}
	return n
}

// Keys lists keys holding a fresh value, in no particular order.
func (c *Cache[K, V]) Keys() []K {
	cur := c.dir.Load()
	keys := make([]K, 0, len(cur.slots))
	for k, s := range cur.slots {
		if e := s.Load(); e != nil && !c.strat.ShouldEvict(e.Tag) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Clear publishes an empty directory. Held slot handles keep working but
// are no longer reachable through the cache.
func (c *Cache[K, V]) Clear() {
	c.dir.Store(&directory[K, V]{slots: map[K]*Slot[V]{}})
}

// clearStale clears s only while it still holds the pair the caller judged
// stale. A pair published after the judgement stays.
func (c *Cache[K, V]) clearStale(key K, s *Slot[V], stale *Cached[V]) {
	var hit bool
	s.Update(func(cur *Cached[V]) *Cached[V] {
		hit = cur == stale
		if hit {
			return nil
		}
		return cur
	})
	if hit {
		c.hooks.StaleEvicted(key)
		c.log.Debug("stale pair cleared on read", Fields{"key": key})
	}
}

func (c *Cache[K, V]) flightKey(key K) string {
	// singleflight groups by string; distinct keys printing alike will
	// share a flight, which is safe but wasteful
	return fmt.Sprint(key)
}

func (c *Cache[K, V]) cleanupLoop() {
	defer c.closeWg.Done()
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopCh:
			return
		}
	}
}

// sweep clears stale pairs in place so write-once keys do not pin their
// values until the next read. Directory entries themselves stay until Remove
// or Clear.
func (c *Cache[K, V]) sweep() {
	cur := c.dir.Load()
	cleared := 0
	for k, s := range cur.slots {
		e := s.Load()
		if e == nil || !c.strat.ShouldEvict(e.Tag) {
			continue
		}
		var hit bool
		s.Update(func(at *Cached[V]) *Cached[V] {
			hit = at == e
			if hit {
				return nil
			}
			return at
		})
		if hit {
			cleared++
			c.hooks.StaleEvicted(k)
		}
	}
	if cleared > 0 {
		c.log.Debug("sweep cleared stale pairs", Fields{"count": cleared})
	}
}
