package omap

import "iter"

type node[K, V any] struct {
	level int
	left  *node[K, V]
	right *node[K, V]
	key   K
	value V
}

// CompareFunc is a function type that compares two elements of type X.
// It should return:
//   - a negative integer if a < b
//   - zero if a == b
//   - a positive integer if a > b
type CompareFunc[X any] func(a, b X) int

// Tree is a persistent ordered map backed by an AA tree.
// Mutating operations return a new Tree and leave the receiver untouched,
// sharing structure along the unmodified paths.
// A Tree value may therefore be read from any number of goroutines.
type Tree[K, V any] struct {
	root    *node[K, V]
	count   int
	compare CompareFunc[K]
}

// New creates a new, empty tree with the given key comparison function.
func New[K, V any](compare CompareFunc[K]) *Tree[K, V] {
	return &Tree[K, V]{
		compare: compare,
	}
}

// Len returns the number of entries in this tree.
func (t *Tree[K, V]) Len() int {
	return t.count
}

// Compare returns the key comparison function this tree was built with.
func (t *Tree[K, V]) Compare() CompareFunc[K] {
	return t.compare
}

// Get looks up the value stored under the given key.
func (t *Tree[K, V]) Get(key K) (v V, has bool) {
	n := t.root

	for n != nil {
		c := t.compare(key, n.key)
		if c < 0 {
			n = n.left
		} else if c > 0 {
			n = n.right
		} else {
			return n.value, true
		}
	}
	return
}

// Has checks if this tree contains the given key.
func (t *Tree[K, V]) Has(key K) bool {
	_, has := t.Get(key)
	return has
}

// With returns a tree that additionally maps the given key to the given value.
// An existing entry under the same key is replaced.
func (t *Tree[K, V]) With(key K, value V) *Tree[K, V] {
	added := false
	root := t.insert(t.root, key, value, &added)

	count := t.count
	if added {
		count++
	}
	return &Tree[K, V]{root: root, count: count, compare: t.compare}
}

// Without returns a tree with the entry under the given key removed.
// It returns the receiver itself if the key is absent.
func (t *Tree[K, V]) Without(key K) *Tree[K, V] {
	removed := false
	root := t.remove(t.root, key, &removed)

	if !removed {
		return t
	}
	return &Tree[K, V]{root: root, count: t.count - 1, compare: t.compare}
}

// Min returns the entry with the smallest key, if any.
func (t *Tree[K, V]) Min() (k K, v V, ok bool) {
	if t.root == nil {
		return
	}
	n := minNode(t.root)
	return n.key, n.value, true
}

// All yields every entry in ascending key order.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		var stack []*node[K, V]
		n := t.root

		for n != nil || len(stack) > 0 {
			for n != nil {
				stack = append(stack, n)
				n = n.left
			}
			n = stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(n.key, n.value) {
				return
			}
			n = n.right
		}
	}
}

// FromAscending builds a balanced tree from parallel key/value slices in a
// single O(n) pass. The keys must be strictly ascending under compare; this
// is the caller's contract and the build panics if it does not hold.
func FromAscending[K, V any](compare CompareFunc[K], keys []K, values []V) *Tree[K, V] {
	if len(keys) != len(values) {
		panic("omap: keys/values length mismatch")
	}
	for i := 1; i < len(keys); i++ {
		if compare(keys[i-1], keys[i]) >= 0 {
			panic("omap: keys not strictly ascending")
		}
	}
	return &Tree[K, V]{
		root:    buildAscending(keys, values),
		count:   len(keys),
		compare: compare,
	}
}

// buildAscending picks the midpoint so the right half is never smaller than
// the left. Levels then follow the left spine, which keeps every horizontal
// link a legal AA right link.
func buildAscending[K, V any](keys []K, values []V) *node[K, V] {
	if len(keys) == 0 {
		return nil
	}

	mid := (len(keys) - 1) / 2
	n := &node[K, V]{
		level: 1,
		left:  buildAscending(keys[:mid], values[:mid]),
		right: buildAscending(keys[mid+1:], values[mid+1:]),
		key:   keys[mid],
		value: values[mid],
	}
	if n.left != nil {
		n.level = n.left.level + 1
	}
	return n
}

// skew rotates right over a horizontal left link.
// It never mutates existing nodes; restructured nodes are copied.
func skew[K, V any](n *node[K, V]) *node[K, V] {
	if n.left == nil || n.left.level != n.level {
		return n
	}
	l := *n.left
	cp := *n
	cp.left = l.right
	l.right = &cp
	return &l
}

// split rotates left over a double horizontal right link, promoting the
// middle node. Copy-on-write, as skew.
func split[K, V any](n *node[K, V]) *node[K, V] {
	if n.right == nil || n.right.right == nil || n.right.right.level != n.level {
		return n
	}
	r := *n.right
	cp := *n
	cp.right = r.left
	r.left = &cp
	r.level++
	return &r
}

func (t *Tree[K, V]) insert(n *node[K, V], key K, value V, added *bool) *node[K, V] {
	if n == nil {
		*added = true
		return &node[K, V]{
			level: 1,
			key:   key,
			value: value,
		}
	}

	cp := *n
	n = &cp

	c := t.compare(key, n.key)
	if c < 0 {
		n.left = t.insert(n.left, key, value, added)
	} else if c > 0 {
		n.right = t.insert(n.right, key, value, added)
	} else {
		n.value = value
		return n // found ourselves
	}

	n = skew(n)
	n = split(n)
	return n
}

func (t *Tree[K, V]) remove(n *node[K, V], key K, removed *bool) *node[K, V] {
	if n == nil {
		return nil
	}

	cp := *n
	n = &cp

	c := t.compare(key, n.key)
	if c < 0 {
		n.left = t.remove(n.left, key, removed)
	} else if c > 0 {
		n.right = t.remove(n.right, key, removed)
	} else {
		*removed = true

		if n.left == nil && n.right == nil {
			return nil
		} else if n.left == nil {
			return n.right
		} else if n.right == nil {
			return n.left
		}

		successor := minNode(n.right)
		n.key = successor.key
		n.value = successor.value

		var inner bool
		n.right = t.remove(n.right, successor.key, &inner)
	}

	// Rebalance
	var leftLevel, rightLevel int
	if n.left != nil {
		leftLevel = n.left.level
	}
	if n.right != nil {
		rightLevel = n.right.level
	}

	newLevel := min(leftLevel, rightLevel) + 1
	if newLevel < n.level {
		n.level = newLevel
		if n.right != nil && newLevel < n.right.level {
			r := *n.right
			r.level = newLevel
			n.right = &r
		}
	}

	// n is a fresh copy throughout, so rewiring its right child is fine;
	// the children themselves may still be shared and go through the
	// copy-on-write skew/split.
	n = skew(n)
	if n.right != nil {
		r := skew(n.right)
		if r.right != nil {
			rr := skew(r.right)
			if rr != r.right {
				if r == n.right {
					cp := *r
					r = &cp
				}
				r.right = rr
			}
		}
		n.right = r
	}
	n = split(n)
	if n.right != nil {
		n.right = split(n.right)
	}

	return n
}

// minNode finds the node with the minimum key in the subtree rooted at `n`.
// Assumes `n` is not nil.
func minNode[K, V any](n *node[K, V]) *node[K, V] {
	for n.left != nil {
		n = n.left
	}
	return n
}
