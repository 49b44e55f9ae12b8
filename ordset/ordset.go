// Package ordset provides a bounded, sorted, persistent sequence for many
// concurrent readers and occasional writers. Reads are lock-free against an
// immutable snapshot; writes build the next snapshot off-lock (sharing
// structure with the old one) and publish it with a compare-and-swap,
// retrying if another writer lands first. No reader ever blocks and no
// reader ever sees a half-applied mutation.
//
// When a bound is set, overflow evicts the smallest elements first: the set
// keeps the largest N, a rolling window of high-ordered values.
package ordset

import (
	"cmp"
	"fmt"
	"sync/atomic"
)

// Set is the mutable handle: one atomic pointer to the current snapshot.
// Methods are safe for concurrent use. The comparator must be a strict weak
// order; elements comparing equal under it are "comparator-equal" and may
// coexist.
type Set[T any] struct {
	root  atomic.Pointer[node[T]]
	less  func(a, b T) bool
	bound int
}

// Options configure a Set.
// Only Less is required.
type Options[T any] struct {
	// Required
	Less func(a, b T) bool

	// Optional
	Bound int // max elements kept; overflow evicts the smallest. 0 => unbounded
	Seed  []T // initial contents, inserted in order (bound applies)
}

func New[T any](opts Options[T]) (*Set[T], error) {
	if opts.Less == nil {
		return nil, fmt.Errorf("ordset: comparator is required")
	}
	if opts.Bound < 0 {
		return nil, fmt.Errorf("ordset: bound must be >= 0, got %d", opts.Bound)
	}
	s := &Set[T]{less: opts.Less, bound: opts.Bound}
	if len(opts.Seed) > 0 {
		var root *node[T]
		for _, v := range opts.Seed {
			root = insert(root, v, s.less)
		}
		s.root.Store(s.trim(root))
	}
	return s, nil
}

// NewOrdered is New for naturally ordered element types; a nil Less means
// the type's own ordering.
func NewOrdered[T cmp.Ordered](opts Options[T]) (*Set[T], error) {
	if opts.Less == nil {
		opts.Less = cmp.Less[T]
	}
	return New(opts)
}

// MustNew is New panicking on error; handy for package-level variables.
func MustNew[T any](opts Options[T]) *Set[T] {
	s, err := New(opts)
	if err != nil {
		panic(err)
	}
	return s
}

// MustOrdered is NewOrdered panicking on error.
func MustOrdered[T cmp.Ordered](opts Options[T]) *Set[T] {
	s, err := NewOrdered(opts)
	if err != nil {
		panic(err)
	}
	return s
}

// swap publishes fn's rewrite of the current snapshot, retrying while other
// writers interleave. fn must be pure: it may run several times, and only
// the attempt that lands defines the operation's outcome.
func (s *Set[T]) swap(fn func(root *node[T]) *node[T]) {
	for {
		cur := s.root.Load()
		next := fn(cur)
		if checkEnabled {
			if err := s.check(next); err != nil {
				panic(err)
			}
		}
		if next == cur || s.root.CompareAndSwap(cur, next) {
			return
		}
	}
}

// trim enforces the bound by evicting the smallest elements.
func (s *Set[T]) trim(root *node[T]) *node[T] {
	if s.bound > 0 && size(root) > s.bound {
		root = dropMin(root, size(root)-s.bound)
	}
	return root
}

func (s *Set[T]) check(root *node[T]) error {
	if err := checkTree(root, s.less); err != nil {
		return err
	}
	if s.bound > 0 && size(root) > s.bound {
		return fmt.Errorf("ordset: size %d exceeds bound %d", size(root), s.bound)
	}
	return nil
}

// Insert adds v and reports whether a comparator-equal element was already
// present. Equal elements are all kept, new ones ordered stably after
// existing ones. Exceeding the bound evicts the smallest elements.
func (s *Set[T]) Insert(v T) bool {
	var present bool
	s.swap(func(root *node[T]) *node[T] {
		present = contains(root, v, s.less)
		return s.trim(insert(root, v, s.less))
	})
	return present
}

// InsertAll adds vs under one snapshot replacement, amortizing the retry
// cost across the batch. Returns how many elements were not yet present at
// their point of insertion; the count is taken before bound eviction.
func (s *Set[T]) InsertAll(vs []T) int {
	if len(vs) == 0 {
		return 0
	}
	var fresh int
	s.swap(func(root *node[T]) *node[T] {
		fresh = 0
		for _, v := range vs {
			if !contains(root, v, s.less) {
				fresh++
			}
			root = insert(root, v, s.less)
		}
		return s.trim(root)
	})
	return fresh
}

// Remove drops one comparator-equal occurrence of v, reporting whether one
// was found.
func (s *Set[T]) Remove(v T) bool {
	var removed bool
	s.swap(func(root *node[T]) *node[T] {
		next, ok := remove(root, v, s.less)
		removed = ok
		return next
	})
	return removed
}

// RemoveAll drops one occurrence per element of vs, returning how many were
// found, under one snapshot replacement.
func (s *Set[T]) RemoveAll(vs []T) int {
	if len(vs) == 0 {
		return 0
	}
	var n int
	s.swap(func(root *node[T]) *node[T] {
		n = 0
		for _, v := range vs {
			next, ok := remove(root, v, s.less)
			if ok {
				n++
				root = next
			}
		}
		return root
	})
	return n
}

// RemoveLessEq drops every element ordered at or before v, returning the
// count removed. O(log n): one range split, no per-element work.
func (s *Set[T]) RemoveLessEq(v T) int {
	var n int
	s.swap(func(root *node[T]) *node[T] {
		le, gt := splitLE(root, v, s.less)
		n = size(le)
		return gt
	})
	return n
}

// RemoveGreater drops every element ordered strictly after v, returning the
// count removed. O(log n).
func (s *Set[T]) RemoveGreater(v T) int {
	var n int
	s.swap(func(root *node[T]) *node[T] {
		le, gt := splitLE(root, v, s.less)
		n = size(gt)
		return le
	})
	return n
}

// Partition splits at the first position ordered at or after pivot: the
// left set holds everything strictly before pivot, the right set the rest.
// Both are independent of this set - which is left unchanged - and of each
// other, share structure with the snapshot they came from, and inherit the
// comparator and bound. O(log n).
func (s *Set[T]) Partition(pivot T) (*Set[T], *Set[T]) {
	lt, ge := splitLT(s.root.Load(), pivot, s.less)
	left := &Set[T]{less: s.less, bound: s.bound}
	left.root.Store(lt)
	right := &Set[T]{less: s.less, bound: s.bound}
	right.root.Store(ge)
	return left, right
}

// Contains reports whether a comparator-equal element is present. O(log n).
func (s *Set[T]) Contains(v T) bool {
	return contains(s.root.Load(), v, s.less)
}

// Len returns the element count.
func (s *Set[T]) Len() int {
	return size(s.root.Load())
}

// Bound returns the configured bound, 0 when unbounded.
func (s *Set[T]) Bound() int { return s.bound }

// Min returns the smallest element.
func (s *Set[T]) Min() (T, bool) {
	var zero T
	n := s.root.Load()
	if n == nil {
		return zero, false
	}
	return minOf(n).elem, true
}

// Max returns the largest element.
func (s *Set[T]) Max() (T, bool) {
	var zero T
	n := s.root.Load()
	if n == nil {
		return zero, false
	}
	return maxOf(n).elem, true
}

// Each walks elements in ascending order until fn returns false. The walk
// sees one consistent snapshot; concurrent writers do not disturb it.
func (s *Set[T]) Each(fn func(T) bool) {
	each(s.root.Load(), fn)
}

// Items copies the elements out in ascending order.
func (s *Set[T]) Items() []T {
	root := s.root.Load()
	out := make([]T, 0, size(root))
	each(root, func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

// Snapshot freezes the current contents as a View. Later mutations of the
// set do not show through, so multi-step reads stay coherent.
func (s *Set[T]) Snapshot() View[T] {
	return View[T]{root: s.root.Load(), less: s.less}
}

// View is one frozen snapshot of a Set. The zero View is empty.
type View[T any] struct {
	root *node[T]
	less func(a, b T) bool
}

func (v View[T]) Contains(x T) bool {
	if v.less == nil {
		return false
	}
	return contains(v.root, x, v.less)
}

func (v View[T]) Len() int { return size(v.root) }

func (v View[T]) Each(fn func(T) bool) {
	each(v.root, fn)
}

func (v View[T]) Items() []T {
	out := make([]T, 0, size(v.root))
	each(v.root, func(x T) bool {
		out = append(out, x)
		return true
	})
	return out
}
