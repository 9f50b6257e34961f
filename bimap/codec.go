package bimap

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

var _ json.Marshaler = (*Map[int, int, int])(nil)

// MarshalJSON encodes the canonical ascending entry list.
func (m *Map[K, V, T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToDistinctAscLists())
}

// DecodeJSON rebuilds a Map from the output of MarshalJSON. The entry list
// must still be in strictly ascending key order; beyond that the
// representation is trusted, as for FromDistinctAscLists.
func DecodeJSON[K, V, T any](compareKey CompareFunc[K], compareTag CompareFunc[T], tag TagFunc[V, T], eq EqFunc[V], data []byte) (*Map[K, V, T], error) {
	var entries []Entry[K, V]
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("bimap: decode json: %w", err)
	}
	for i := 1; i < len(entries); i++ {
		if compareKey(entries[i-1].Key, entries[i].Key) >= 0 {
			return nil, fmt.Errorf("bimap: decode json: keys not strictly ascending")
		}
	}
	return FromDistinctAscLists(compareKey, compareTag, tag, eq, entries), nil
}

// EncodeMsgpack streams the canonical entry list to w as a length-prefixed
// sequence of key/value pairs.
func (m *Map[K, V, T]) EncodeMsgpack(w io.Writer) error {
	enc := msgpack.NewEncoder(w)

	if err := enc.EncodeInt(int64(m.Len())); err != nil {
		return fmt.Errorf("bimap: encode length: %w", err)
	}
	for k, v := range m.All() {
		if err := enc.Encode(k); err != nil {
			return fmt.Errorf("bimap: encode key: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("bimap: encode value: %w", err)
		}
	}
	return nil
}

// DecodeMsgpack rebuilds a Map from a stream written by EncodeMsgpack.
// As with DecodeJSON, key order is checked and the rest is trusted.
func DecodeMsgpack[K, V, T any](compareKey CompareFunc[K], compareTag CompareFunc[T], tag TagFunc[V, T], eq EqFunc[V], r io.Reader) (*Map[K, V, T], error) {
	dec := msgpack.NewDecoder(r)

	n, err := dec.DecodeInt()
	if err != nil {
		return nil, fmt.Errorf("bimap: decode length: %w", err)
	}
	if n < 0 {
		return nil, fmt.Errorf("bimap: decode length: negative count %d", n)
	}

	entries := make([]Entry[K, V], 0, n)
	for i := 0; i < n; i++ {
		var e Entry[K, V]
		if err := dec.Decode(&e.Key); err != nil {
			return nil, fmt.Errorf("bimap: decode key: %w", err)
		}
		if err := dec.Decode(&e.Value); err != nil {
			return nil, fmt.Errorf("bimap: decode value: %w", err)
		}
		if i > 0 && compareKey(entries[i-1].Key, e.Key) >= 0 {
			return nil, fmt.Errorf("bimap: decode: keys not strictly ascending")
		}
		entries = append(entries, e)
	}
	return FromDistinctAscLists(compareKey, compareTag, tag, eq, entries), nil
}
