package ordset

import "fmt"

// node is one immutable vertex of a weight-balanced tree. Mutating
// operations allocate fresh vertices along the touched path and share every
// untouched subtree with the previous version.
type node[T any] struct {
	elem  T
	size  int
	left  *node[T]
	right *node[T]
}

// Balance constants per Adams' bounded-balance trees: a subtree may carry at
// most delta times the weight of its sibling; ratio picks single vs double
// rotation. (3, 2) is a proven-valid integer pair.
const (
	delta = 3
	ratio = 2
)

func size[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.size
}

func mk[T any](elem T, l, r *node[T]) *node[T] {
	return &node[T]{elem: elem, size: size(l) + size(r) + 1, left: l, right: r}
}

// rebalance rebuilds (l, elem, r) with at most two rotations. Precondition:
// l and r are each balanced and differ from a balanced pair by at most one
// insertion or removal.
func rebalance[T any](elem T, l, r *node[T]) *node[T] {
	sl, sr := size(l), size(r)
	if sl+sr <= 1 {
		return mk(elem, l, r)
	}
	if sr > delta*sl { // right too heavy
		if size(r.left) < ratio*size(r.right) {
			return singleLeft(elem, l, r)
		}
		return doubleLeft(elem, l, r)
	}
	if sl > delta*sr { // left too heavy
		if size(l.right) < ratio*size(l.left) {
			return singleRight(elem, l, r)
		}
		return doubleRight(elem, l, r)
	}
	return mk(elem, l, r)
}

func singleLeft[T any](elem T, l, r *node[T]) *node[T] {
	return mk(r.elem, mk(elem, l, r.left), r.right)
}

func singleRight[T any](elem T, l, r *node[T]) *node[T] {
	return mk(l.elem, l.left, mk(elem, l.right, r))
}

func doubleLeft[T any](elem T, l, r *node[T]) *node[T] {
	rl := r.left
	return mk(rl.elem, mk(elem, l, rl.left), mk(r.elem, rl.right, r.right))
}

func doubleRight[T any](elem T, l, r *node[T]) *node[T] {
	lr := l.right
	return mk(lr.elem, mk(l.elem, l.left, lr.left), mk(elem, lr.right, r))
}

// insert always places v, even next to comparator-equal elements; new equals
// land after existing ones (equal-or-greater descends right).
func insert[T any](n *node[T], v T, less func(a, b T) bool) *node[T] {
	if n == nil {
		return mk(v, nil, nil)
	}
	if less(v, n.elem) {
		return rebalance(n.elem, insert(n.left, v, less), n.right)
	}
	return rebalance(n.elem, n.left, insert(n.right, v, less))
}

func contains[T any](n *node[T], v T, less func(a, b T) bool) bool {
	for n != nil {
		switch {
		case less(v, n.elem):
			n = n.left
		case less(n.elem, v):
			n = n.right
		default:
			return true
		}
	}
	return false
}

// remove drops one comparator-equal occurrence of v, reporting whether one
// was found. The untouched tree comes back as-is on a miss.
func remove[T any](n *node[T], v T, less func(a, b T) bool) (*node[T], bool) {
	if n == nil {
		return nil, false
	}
	switch {
	case less(v, n.elem):
		l, ok := remove(n.left, v, less)
		if !ok {
			return n, false
		}
		return rebalance(n.elem, l, n.right), true
	case less(n.elem, v):
		r, ok := remove(n.right, v, less)
		if !ok {
			return n, false
		}
		return rebalance(n.elem, n.left, r), true
	default:
		return glue(n.left, n.right), true
	}
}

// glue joins the two children of a vanished parent. Siblings are balanced
// with respect to each other, so pulling the border element across and
// rebalancing once suffices.
func glue[T any](l, r *node[T]) *node[T] {
	switch {
	case l == nil:
		return r
	case r == nil:
		return l
	case size(l) > size(r):
		m, rest := popMax(l)
		return rebalance(m, rest, r)
	default:
		m, rest := popMin(r)
		return rebalance(m, l, rest)
	}
}

func popMin[T any](n *node[T]) (T, *node[T]) {
	if n.left == nil {
		return n.elem, n.right
	}
	m, rest := popMin(n.left)
	return m, rebalance(n.elem, rest, n.right)
}

func popMax[T any](n *node[T]) (T, *node[T]) {
	if n.right == nil {
		return n.elem, n.left
	}
	m, rest := popMax(n.right)
	return m, rebalance(n.elem, n.left, rest)
}

// join concatenates l, mid, r where l and r may differ in weight
// arbitrarily. It descends the heavier side until the partner is within
// balance reach, so the cost is O(|log w(l) - log w(r)|).
func join[T any](mid T, l, r *node[T]) *node[T] {
	switch {
	case l == nil:
		return insertMin(r, mid)
	case r == nil:
		return insertMax(l, mid)
	case delta*size(l) < size(r):
		return rebalance(r.elem, join(mid, l, r.left), r.right)
	case delta*size(r) < size(l):
		return rebalance(l.elem, l.left, join(mid, l.right, r))
	default:
		return mk(mid, l, r)
	}
}

func insertMin[T any](n *node[T], v T) *node[T] {
	if n == nil {
		return mk(v, nil, nil)
	}
	return rebalance(n.elem, insertMin(n.left, v), n.right)
}

func insertMax[T any](n *node[T], v T) *node[T] {
	if n == nil {
		return mk(v, nil, nil)
	}
	return rebalance(n.elem, n.left, insertMax(n.right, v))
}

// splitLT cuts at the first position ordered at or after pivot: the left
// result holds everything strictly before pivot, the right result holds
// pivot-equal elements onward. Both results share structure with the input.
func splitLT[T any](n *node[T], pivot T, less func(a, b T) bool) (*node[T], *node[T]) {
	if n == nil {
		return nil, nil
	}
	if less(n.elem, pivot) {
		rl, rr := splitLT(n.right, pivot, less)
		return join(n.elem, n.left, rl), rr
	}
	ll, lr := splitLT(n.left, pivot, less)
	return ll, join(n.elem, lr, n.right)
}

// splitLE cuts after the last pivot-equal element: left keeps everything up
// to and including equals, right keeps the strictly-greater rest.
func splitLE[T any](n *node[T], pivot T, less func(a, b T) bool) (*node[T], *node[T]) {
	if n == nil {
		return nil, nil
	}
	if less(pivot, n.elem) {
		ll, lr := splitLE(n.left, pivot, less)
		return ll, join(n.elem, lr, n.right)
	}
	rl, rr := splitLE(n.right, pivot, less)
	return join(n.elem, n.left, rl), rr
}

// dropMin removes the k smallest elements by rank-splitting, O(log n)
// regardless of k.
func dropMin[T any](n *node[T], k int) *node[T] {
	if k <= 0 || n == nil {
		return n
	}
	if k >= n.size {
		return nil
	}
	ls := size(n.left)
	if k <= ls {
		return join(n.elem, dropMin(n.left, k), n.right)
	}
	return dropMin(n.right, k-ls-1)
}

// each walks in order until fn says stop; reports whether it ran to the end.
func each[T any](n *node[T], fn func(T) bool) bool {
	if n == nil {
		return true
	}
	if !each(n.left, fn) {
		return false
	}
	if !fn(n.elem) {
		return false
	}
	return each(n.right, fn)
}

func minOf[T any](n *node[T]) *node[T] {
	for n.left != nil {
		n = n.left
	}
	return n
}

func maxOf[T any](n *node[T]) *node[T] {
	for n.right != nil {
		n = n.right
	}
	return n
}

// checkTree verifies ordering, size bookkeeping and weight balance on every
// vertex. It is the oracle behind the build-tag assertions and the property
// tests; hot paths never call it.
func checkTree[T any](n *node[T], less func(a, b T) bool) error {
	if n == nil {
		return nil
	}
	if got := size(n.left) + size(n.right) + 1; n.size != got {
		return fmt.Errorf("ordset: node size %d, subtrees say %d", n.size, got)
	}
	sl, sr := size(n.left), size(n.right)
	if sl+sr > 1 && (sl > delta*sr || sr > delta*sl) {
		return fmt.Errorf("ordset: unbalanced node: left=%d right=%d", sl, sr)
	}
	if n.left != nil && less(n.elem, maxOf(n.left).elem) {
		return fmt.Errorf("ordset: left subtree exceeds its parent")
	}
	if n.right != nil && less(minOf(n.right).elem, n.elem) {
		return fmt.Errorf("ordset: right subtree precedes its parent")
	}
	if err := checkTree(n.left, less); err != nil {
		return err
	}
	return checkTree(n.right, less)
}
