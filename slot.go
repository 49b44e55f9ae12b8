package snapcache

import (
	"sync/atomic"
)

// Cached is one published (tag, value) pair. Pairs are immutable once
// published: readers holding a *Cached keep a consistent pair even after the
// slot moves on, and MUST NOT modify it. Tag is opaque; only the strategy
// that minted it can interpret it.
type Cached[V any] struct {
	Tag   Tag
	Value V
}

// Slot is an atomically swappable, optionally empty holder of one Cached
// pair. Loads are lock-free and O(1). Writers replace the whole pair; a torn
// (tag, value) mix is impossible because the pair travels behind a single
// pointer.
type Slot[V any] struct {
	p atomic.Pointer[Cached[V]]
}

// Load returns the current pair, or nil when the slot is empty.
func (s *Slot[V]) Load() *Cached[V] {
	return s.p.Load()
}

// Store unconditionally replaces the current pair. nil clears the slot.
func (s *Slot[V]) Store(c *Cached[V]) {
	s.p.Store(c)
}

// Update applies fn to the current pair and installs the result. If another
// writer raced ahead, fn is re-invoked against the fresh pair until the swap
// lands, so fn MUST be side-effect free. Returns the pair actually installed
// (nil when fn cleared the slot).
func (s *Slot[V]) Update(fn func(cur *Cached[V]) *Cached[V]) *Cached[V] {
	for {
		cur := s.p.Load()
		next := fn(cur)
		if next == cur {
			return cur
		}
		if s.p.CompareAndSwap(cur, next) {
			return next
		}
	}
}
