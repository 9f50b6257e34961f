package bimap

import (
	"slices"

	"github.com/proofkit/proofkit/omap"
)

// MapWithKey replaces every value with f of its key and itself, rebuilding
// the inverse index from scratch. Because f may move or collapse tags, the
// whole result is scanned for tag collisions; prefer MapWithKeyFixedTags
// when f cannot change tags.
//
// Panics if two transformed values end up with the same tag.
func (m *Map[K, V, T]) MapWithKey(f func(key K, value V) V) *Map[K, V, T] {
	keys := make([]K, 0, m.Len())
	values := make([]V, 0, m.Len())
	for k, v := range m.primary.All() {
		keys = append(keys, k)
		values = append(values, f(k, v))
	}

	primary := omap.FromAscending(m.primary.Compare(), keys, values)

	secondary := omap.New[T, K](m.secondary.Compare())
	for i, v := range values {
		t, ok := m.tag(v)
		if !ok {
			continue
		}
		if _, bound := secondary.Get(t); bound {
			panic("bimap: mapWithKey produced the same tag under two keys")
		}
		secondary = secondary.With(t, keys[i])
	}
	return m.derive(primary, secondary)
}

// MapWithKeyFixedTags replaces every value with f of its key and itself,
// where f contractually leaves each value's tag unchanged. Only that tag
// preservation is verified, the inverse index is reused as-is and the
// global collision scan of MapWithKey is skipped.
//
// Panics if f changes a tag after all.
func (m *Map[K, V, T]) MapWithKeyFixedTags(f func(key K, value V) V) *Map[K, V, T] {
	keys := make([]K, 0, m.Len())
	values := make([]V, 0, m.Len())
	for k, v := range m.primary.All() {
		next := f(k, v)
		if !m.sameTag(v, next) {
			panic("bimap: mapWithKeyFixedTags changed a tag")
		}
		keys = append(keys, k)
		values = append(values, next)
	}

	primary := omap.FromAscending(m.primary.Compare(), keys, values)
	return m.derive(primary, m.secondary)
}

// sameTag reports whether two values carry the same optional tag.
func (m *Map[K, V, T]) sameTag(a, b V) bool {
	ta, oka := m.tag(a)
	tb, okb := m.tag(b)
	if oka != okb {
		return false
	}
	return !oka || m.secondary.Compare()(ta, tb) == 0
}

// UnionPrecondition reports whether Union(o) may be called: every key held
// by both sides maps to equal values, and no tag of an entry only in o is
// already owned by a different key of m.
func (m *Map[K, V, T]) UnionPrecondition(o *Map[K, V, T]) bool {
	for k, v := range o.primary.All() {
		if have, ok := m.primary.Get(k); ok {
			if !m.eq(have, v) {
				return false
			}
			continue
		}
		if t, ok := m.tag(v); ok {
			// k is absent from m, so any owner is a different key
			if _, bound := m.secondary.Get(t); bound {
				return false
			}
		}
	}
	return true
}

// Union merges two Maps built over the same capabilities. Identical entries
// collapse; entries of o under keys absent from m are added.
//
// Panics unless UnionPrecondition holds. Two distinct keys independently
// claiming one tag for unequal values is invalid input, not something to
// tie-break.
func (m *Map[K, V, T]) Union(o *Map[K, V, T]) *Map[K, V, T] {
	if !m.UnionPrecondition(o) {
		panic("bimap: union of maps with conflicting entries")
	}

	out := m
	for k, v := range o.primary.All() {
		if !m.primary.Has(k) {
			out = out.insertUnchecked(k, v)
		}
	}
	return out
}

// FromList builds a Map from an arbitrary entry list. Repeated keys resolve
// last-write-wins, as for plain list-to-map construction.
//
// Panics if two entries under distinct keys carry the same defined tag.
func FromList[K, V, T any](compareKey CompareFunc[K], compareTag CompareFunc[T], tag TagFunc[V, T], eq EqFunc[V], entries []Entry[K, V]) *Map[K, V, T] {
	m := New(compareKey, compareTag, tag, eq)
	for _, e := range entries {
		m = m.Insert(e.Key, e.Value)
	}
	return m
}

// FromDistinctAscLists rebuilds a Map from its canonical external
// representation, as produced by ToDistinctAscLists: entries in strictly
// ascending key order with no repeated keys. The caller asserts the
// representation came from a valid Map; tag relationships are taken on
// trust rather than re-validated, which makes this the cheap inverse used
// for reconstruction.
//
// Panics if the keys are not strictly ascending.
func FromDistinctAscLists[K, V, T any](compareKey CompareFunc[K], compareTag CompareFunc[T], tag TagFunc[V, T], eq EqFunc[V], entries []Entry[K, V]) *Map[K, V, T] {
	keys := make([]K, len(entries))
	values := make([]V, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
		values[i] = e.Value
	}
	primary := omap.FromAscending(compareKey, keys, values)

	// inverse entries, tag→owning key
	pairs := make([]Entry[T, K], 0, len(entries))
	for i, v := range values {
		if t, ok := tag(v); ok {
			pairs = append(pairs, Entry[T, K]{Key: t, Value: keys[i]})
		}
	}
	slices.SortFunc(pairs, func(a, b Entry[T, K]) int { return compareTag(a.Key, b.Key) })

	tags := make([]T, len(pairs))
	owners := make([]K, len(pairs))
	for i, p := range pairs {
		tags[i] = p.Key
		owners[i] = p.Value
	}
	secondary := omap.FromAscending(compareTag, tags, owners)

	return &Map[K, V, T]{
		primary:   primary,
		secondary: secondary,
		tag:       tag,
		eq:        eq,
	}
}
