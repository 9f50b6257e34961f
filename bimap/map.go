// Package bimap provides a persistent key→value map that additionally keeps
// an inverse index from an optional per-value tag back to the key owning it.
//
// Both directions are stored as persistent ordered trees and recomputed
// together on every mutation, so no caller ever observes them disagreeing.
// Three cross-mapping invariants hold after each successful operation:
//
//   - every stored value with a defined tag is reachable through the
//     inverse index under exactly that tag;
//   - the inverse index holds nothing else;
//   - no two distinct keys own the same defined tag.
//
// Mutations return a new Map and never touch the receiver; an old Map stays
// valid and may keep being read, including from other goroutines. Each
// mutating operation carries a precondition that keeps tags injective
// across keys. The container cannot repair a breach of that precondition,
// so a breach is a caller bug and panics rather than producing a Map whose
// queries could no longer be trusted.
package bimap

import (
	"iter"

	"github.com/proofkit/proofkit/omap"
)

// Map couples a primary key→value tree with the derived tag→key index.
// The zero value is not usable; construct instances with New, Singleton,
// FromList or FromDistinctAscLists.
type Map[K, V, T any] struct {
	primary   *omap.Tree[K, V]
	secondary *omap.Tree[T, K]
	tag       TagFunc[V, T]
	eq        EqFunc[V]
}

// New creates an empty Map over the given key and tag orderings, tag
// extraction capability, and value equality. The capabilities are fixed for
// the lifetime of the instance and every Map derived from it.
func New[K, V, T any](compareKey CompareFunc[K], compareTag CompareFunc[T], tag TagFunc[V, T], eq EqFunc[V]) *Map[K, V, T] {
	return &Map[K, V, T]{
		primary:   omap.New[K, V](compareKey),
		secondary: omap.New[T, K](compareTag),
		tag:       tag,
		eq:        eq,
	}
}

// Singleton creates a Map holding exactly one entry.
func Singleton[K, V, T any](compareKey CompareFunc[K], compareTag CompareFunc[T], tag TagFunc[V, T], eq EqFunc[V], key K, value V) *Map[K, V, T] {
	return New(compareKey, compareTag, tag, eq).insertUnchecked(key, value)
}

// Len returns the number of entries.
func (m *Map[K, V, T]) Len() int {
	return m.primary.Len()
}

// IsEmpty reports whether the Map has no entries.
func (m *Map[K, V, T]) IsEmpty() bool {
	return m.primary.Len() == 0
}

// Lookup returns the value stored under the given key.
func (m *Map[K, V, T]) Lookup(key K) (v V, has bool) {
	return m.primary.Get(key)
}

// InvLookup returns the key whose value owns the given tag.
func (m *Map[K, V, T]) InvLookup(tag T) (k K, has bool) {
	return m.secondary.Get(tag)
}

// Keys returns all keys in ascending order.
func (m *Map[K, V, T]) Keys() []K {
	out := make([]K, 0, m.Len())
	for k := range m.primary.All() {
		out = append(out, k)
	}
	return out
}

// Elems returns all values, ordered by ascending key.
func (m *Map[K, V, T]) Elems() []V {
	out := make([]V, 0, m.Len())
	for _, v := range m.primary.All() {
		out = append(out, v)
	}
	return out
}

// ToList returns all entries in ascending key order.
func (m *Map[K, V, T]) ToList() []Entry[K, V] {
	out := make([]Entry[K, V], 0, m.Len())
	for k, v := range m.primary.All() {
		out = append(out, Entry[K, V]{Key: k, Value: v})
	}
	return out
}

// ToDistinctAscLists returns the canonical external representation: the
// entry list in strictly ascending key order. It is the inverse of
// FromDistinctAscLists.
func (m *Map[K, V, T]) ToDistinctAscLists() []Entry[K, V] {
	return m.ToList()
}

// All yields every entry in ascending key order.
func (m *Map[K, V, T]) All() iter.Seq2[K, V] {
	return m.primary.All()
}

// Invariant reports whether the inverse index is exactly the inverse of the
// tagged sub-relation of the primary map. It holds for every Map produced
// by this package's operations; it is exported for testing and auditing.
func (m *Map[K, V, T]) Invariant() bool {
	tagged := 0
	for k, v := range m.primary.All() {
		t, ok := m.tag(v)
		if !ok {
			continue
		}
		tagged++
		owner, bound := m.secondary.Get(t)
		if !bound || m.primary.Compare()(owner, k) != 0 {
			return false
		}
	}
	// no stale inverse entries
	return m.secondary.Len() == tagged
}

// derive builds a Map around new trees, carrying the capabilities over.
func (m *Map[K, V, T]) derive(primary *omap.Tree[K, V], secondary *omap.Tree[T, K]) *Map[K, V, T] {
	n := *m
	n.primary = primary
	n.secondary = secondary
	return &n
}
