package avl

import (
	"iter"

	"github.com/matzehuels/gdcross/pkg/geom"
)

// Order is the ordering strategy of a [Tree].
//
// Less must be a strict order for any fixed param. Equal decides identity
// and is used by removal and lookup; it does not need to agree with Less when
// numeric drift makes two distinct elements compare as neither less nor greater.
// Key maps an element to a scalar at param and must be monotone in Less; it is
// used by the neighbor and range queries.
type Order[T any] interface {
	Less(a, b T, param float64) bool
	Equal(a, b T) bool
	Key(a T, param float64) float64
}

type node[T any] struct {
	item        T
	left, right *node[T]
	height      int
}

// Tree is an AVL tree ordered by an [Order] strategy.
//
// The zero value is not usable; create trees with [New].
// A Tree is not safe for concurrent use.
type Tree[T any] struct {
	root  *node[T]
	size  int
	order Order[T]
	tol   geom.Tolerance
}

// New creates an empty tree. The tolerance is used by the key-based queries
// ([Tree.Left], [Tree.Right], [Tree.Range]).
func New[T any](order Order[T], tol geom.Tolerance) *Tree[T] {
	return &Tree[T]{order: order, tol: tol}
}

// Len returns the number of stored items.
func (t *Tree[T]) Len() int { return t.size }

// Height returns the height of the tree (0 when empty).
func (t *Tree[T]) Height() int { return height(t.root) }

// Insert adds item using the order at param. Equal items are kept; an item
// that is not less than a node goes to that node's left subtree.
func (t *Tree[T]) Insert(item T, param float64) {
	path := make([]*node[T], 0, height(t.root)+1)
	n := t.root
	for n != nil {
		path = append(path, n)
		if t.order.Less(n.item, item, param) {
			n = n.right
		} else {
			n = n.left
		}
	}
	leaf := &node[T]{item: item, height: 1}
	if len(path) == 0 {
		t.root = leaf
	} else if p := path[len(path)-1]; t.order.Less(p.item, item, param) {
		p.right = leaf
	} else {
		p.left = leaf
	}
	t.size++
	t.rebalancePath(path)
}

// Remove deletes one item equal to item, searching by the order at param.
// It reports whether an item was found. Callers that cannot rule out numeric
// drift between insertion and removal should fall back to [Tree.ForceRemove].
func (t *Tree[T]) Remove(item T, param float64) bool {
	var path []*node[T]
	n := t.root
	for n != nil {
		path = append(path, n)
		if t.order.Equal(item, n.item) {
			t.deleteAt(path)
			return true
		}
		if !t.order.Less(n.item, item, param) {
			n = n.left
		} else {
			n = n.right
		}
	}
	return false
}

// RemoveIn deletes one item equal to item among those whose key at param
// lies in [lo, hi]. Only subtrees whose key interval overlaps the query are
// searched, so the order between equal keys does not matter.
func (t *Tree[T]) RemoveIn(item T, lo, hi, param float64) bool {
	var path []*node[T]
	var walk func(n *node[T], from, to float64) bool
	walk = func(n *node[T], from, to float64) bool {
		if n == nil || !t.overlaps(from, to, lo, hi) {
			return false
		}
		path = append(path, n)
		if t.order.Equal(item, n.item) {
			return true
		}
		key := t.order.Key(n.item, param)
		if walk(n.left, from, min(to, key)) || walk(n.right, max(from, key), to) {
			return true
		}
		path = path[:len(path)-1]
		return false
	}
	if !walk(t.root, lo, hi) {
		return false
	}
	t.deleteAt(path)
	return true
}

// ForceRemove deletes every item equal to item by scanning the whole tree.
// It returns the number of removed items.
func (t *Tree[T]) ForceRemove(item T) int {
	removed := 0
	for {
		path := t.findPath(func(v T) bool { return t.order.Equal(item, v) })
		if path == nil {
			return removed
		}
		t.deleteAt(path)
		removed++
	}
}

// Find returns the stored item equal to item, walking the order at param.
func (t *Tree[T]) Find(item T, param float64) (T, bool) {
	n := t.root
	for n != nil {
		if t.order.Equal(n.item, item) {
			return n.item, true
		}
		if t.order.Less(n.item, item, param) {
			n = n.right
		} else {
			n = n.left
		}
	}
	var zero T
	return zero, false
}

// Min returns the smallest item.
func (t *Tree[T]) Min() (T, bool) {
	if t.root == nil {
		var zero T
		return zero, false
	}
	n := t.root
	for n.left != nil {
		n = n.left
	}
	return n.item, true
}

// Pop removes and returns the smallest item.
func (t *Tree[T]) Pop() (T, bool) {
	if t.root == nil {
		var zero T
		return zero, false
	}
	path := []*node[T]{t.root}
	for n := t.root; n.left != nil; n = n.left {
		path = append(path, n.left)
	}
	item := path[len(path)-1].item
	t.deleteAt(path)
	return item, true
}

// Left returns the greatest item whose key at param is strictly less than key.
func (t *Tree[T]) Left(key, param float64) (T, bool) {
	var best *node[T]
	var path []*node[T]
	for n := t.root; n != nil; {
		path = append(path, n)
		if t.tol.Greater(key, t.order.Key(n.item, param)) {
			n = n.right
		} else {
			n = n.left
		}
	}
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		if !t.tol.Greater(key, t.order.Key(n.item, param)) {
			continue
		}
		if best == nil || t.order.Less(best.item, n.item, param) {
			best = n
		}
	}
	if best == nil {
		var zero T
		return zero, false
	}
	return best.item, true
}

// Right returns the smallest item whose key at param is strictly greater than key.
func (t *Tree[T]) Right(key, param float64) (T, bool) {
	var best *node[T]
	var path []*node[T]
	for n := t.root; n != nil; {
		path = append(path, n)
		if !t.tol.Greater(t.order.Key(n.item, param), key) {
			n = n.right
		} else {
			n = n.left
		}
	}
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		if !t.tol.Greater(t.order.Key(n.item, param), key) {
			continue
		}
		if best == nil || t.order.Less(n.item, best.item, param) {
			best = n
		}
	}
	if best == nil {
		var zero T
		return zero, false
	}
	return best.item, true
}

// Range returns, in order, all items whose key at param lies in [lo, hi]
// (bounds included within tolerance). Subtrees whose key interval cannot
// overlap the query are skipped.
func (t *Tree[T]) Range(lo, hi, param float64) []T {
	type frame struct {
		n        *node[T]
		from, to float64
		visit    bool
	}
	var out []T
	if t.root == nil {
		return out
	}
	stack := []frame{{n: t.root, from: lo, to: hi}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.visit {
			out = append(out, f.n.item)
			continue
		}
		key := t.order.Key(f.n.item, param)
		if f.n.right != nil {
			if from := max(f.from, key); t.overlaps(from, f.to, lo, hi) {
				stack = append(stack, frame{n: f.n.right, from: from, to: f.to})
			}
		}
		if !t.tol.Greater(lo, key) && !t.tol.Greater(key, hi) {
			stack = append(stack, frame{n: f.n, visit: true})
		}
		if f.n.left != nil {
			if to := min(f.to, key); t.overlaps(f.from, to, lo, hi) {
				stack = append(stack, frame{n: f.n.left, from: f.from, to: to})
			}
		}
	}
	return out
}

// overlaps reports whether the key interval [from, to] of a subtree can
// hold keys in [lo, hi].
func (t *Tree[T]) overlaps(from, to, lo, hi float64) bool {
	if t.tol.Greater(from, to) {
		return false
	}
	return !t.tol.Greater(lo, to) && !t.tol.Greater(from, hi)
}

// All yields the items in order.
func (t *Tree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		var stack []*node[T]
		n := t.root
		for n != nil || len(stack) > 0 {
			for n != nil {
				stack = append(stack, n)
				n = n.left
			}
			n = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n.item) {
				return
			}
			n = n.right
		}
	}
}

// Items returns the items in order.
func (t *Tree[T]) Items() []T {
	out := make([]T, 0, t.size)
	for v := range t.All() {
		out = append(out, v)
	}
	return out
}
