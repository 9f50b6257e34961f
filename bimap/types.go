package bimap

import (
	"github.com/proofkit/proofkit/omap"
)

// CompareFunc is a function type that compares two elements of type X.
// It should return:
//   - a negative integer if a < b
//   - zero if a == b
//   - a positive integer if a > b
type CompareFunc[X any] = omap.CompareFunc[X]

// TagFunc extracts the optional tag of a value.
// It must be pure and deterministic: the same value always yields the same
// tag, or no tag at all. A value without a tag never appears in the
// inverse index.
type TagFunc[V, T any] func(v V) (tag T, ok bool)

// EqFunc reports whether two values are equal.
// Union relies on it to decide whether entries under a shared key collapse.
type EqFunc[V any] func(a, b V) bool

// Entry is a single key/value pair of a Map.
type Entry[K, V any] struct {
	Key   K `json:"key" msgpack:"key"`
	Value V `json:"value" msgpack:"value"`
}
