package bimap

import (
	"slices"
	"testing"
)

func TestMapWithKey(t *testing.T) {
	m := newTestMap(
		Entry[int, defn]{Key: 1, Value: defn{Tag: 10, Payload: 1}},
		Entry[int, defn]{Key: 2, Value: defn{Tag: 20, Payload: 2}},
		Entry[int, defn]{Key: 3, Value: defn{Tag: -1, Payload: 3}},
	)

	// shift every defined tag; keys stay distinct
	m2 := m.MapWithKey(func(k int, v defn) defn {
		if v.Tag >= 0 {
			v.Tag += 100
		}
		v.Payload += k
		return v
	})
	if !m2.Invariant() {
		t.Fatal("invariant broken")
	}
	if k, has := m2.InvLookup(110); !has || k != 1 {
		t.Errorf("shifted tag not indexed: %d/%v", k, has)
	}
	if _, has := m2.InvLookup(10); has {
		t.Errorf("old tag still indexed")
	}
	if v, _ := m2.Lookup(3); v.Payload != 6 {
		t.Errorf("payload not transformed: %v", v)
	}

	// dropping all tags is fine
	m3 := m.MapWithKey(func(_ int, v defn) defn {
		v.Tag = -1
		return v
	})
	if !m3.Invariant() {
		t.Fatal("invariant broken")
	}
	if _, has := m3.InvLookup(10); has {
		t.Errorf("dropped tag still indexed")
	}

	// collapsing two tags into one must be rejected
	mustPanic(t, "MapWithKey collapsing tags", func() {
		m.MapWithKey(func(_ int, v defn) defn {
			if v.Tag >= 0 {
				v.Tag = 7
			}
			return v
		})
	})
}

func TestMapWithKeyFixedTags(t *testing.T) {
	m := newTestMap(
		Entry[int, defn]{Key: 1, Value: defn{Tag: 10, Payload: 1}},
		Entry[int, defn]{Key: 2, Value: defn{Tag: -1, Payload: 2}},
	)

	m2 := m.MapWithKeyFixedTags(func(k int, v defn) defn {
		v.Payload = k * 1000
		return v
	})
	if !m2.Invariant() {
		t.Fatal("invariant broken")
	}
	if v, _ := m2.Lookup(2); v.Payload != 2000 {
		t.Errorf("payload not transformed: %v", v)
	}
	if k, has := m2.InvLookup(10); !has || k != 1 {
		t.Errorf("index disturbed: %d/%v", k, has)
	}

	mustPanic(t, "MapWithKeyFixedTags changing a tag", func() {
		m.MapWithKeyFixedTags(func(_ int, v defn) defn {
			v.Tag++
			return v
		})
	})
	mustPanic(t, "MapWithKeyFixedTags dropping a tag", func() {
		m.MapWithKeyFixedTags(func(_ int, v defn) defn {
			v.Tag = -1
			return v
		})
	})
}

func TestUnion(t *testing.T) {
	m1 := newTestMap(
		Entry[int, defn]{Key: 1, Value: defn{Tag: 10, Payload: 1}},
		Entry[int, defn]{Key: 2, Value: defn{Tag: -1, Payload: 2}},
	)
	m2 := newTestMap(
		Entry[int, defn]{Key: 2, Value: defn{Tag: -1, Payload: 2}}, // identical pair
		Entry[int, defn]{Key: 3, Value: defn{Tag: 30, Payload: 3}},
	)

	if !m1.UnionPrecondition(m2) {
		t.Fatal("valid union rejected")
	}

	u := m1.Union(m2)
	if !u.Invariant() {
		t.Fatal("invariant broken")
	}
	if keys := u.Keys(); !slices.Equal(keys, []int{1, 2, 3}) {
		t.Errorf("Union keys: got %v", keys)
	}
	if k, has := u.InvLookup(30); !has || k != 3 {
		t.Errorf("Union index: got %d/%v", k, has)
	}

	// empty is the identity on both sides
	empty := newTestMap()
	if got := empty.Union(m1).ToList(); !slices.Equal(got, m1.ToList()) {
		t.Errorf("union(empty, m): got %v", got)
	}
	if got := m1.Union(empty).ToList(); !slices.Equal(got, m1.ToList()) {
		t.Errorf("union(m, empty): got %v", got)
	}

	// shared key with unequal values
	conflicting := newTestMap(Entry[int, defn]{Key: 2, Value: defn{Tag: -1, Payload: 99}})
	if m1.UnionPrecondition(conflicting) {
		t.Errorf("conflicting union accepted")
	}
	mustPanic(t, "Union with unequal values", func() {
		m1.Union(conflicting)
	})

	// two distinct keys claiming one tag for unequal values
	stolen := newTestMap(Entry[int, defn]{Key: 9, Value: defn{Tag: 10, Payload: 9}})
	if m1.UnionPrecondition(stolen) {
		t.Errorf("tag-stealing union accepted")
	}
	mustPanic(t, "Union breaking tag injectivity", func() {
		m1.Union(stolen)
	})
}

func TestFromList(t *testing.T) {
	// repeated keys resolve last-write-wins
	m := newTestMap(
		Entry[int, defn]{Key: 1, Value: defn{Tag: 10, Payload: 1}},
		Entry[int, defn]{Key: 1, Value: defn{Tag: 11, Payload: 2}},
	)
	if m.Len() != 1 {
		t.Fatalf("Len: got %d", m.Len())
	}
	if v, _ := m.Lookup(1); v.Tag != 11 {
		t.Errorf("last write did not win: %v", v)
	}
	if _, has := m.InvLookup(10); has {
		t.Errorf("overwritten tag still indexed")
	}
	if !m.Invariant() {
		t.Fatal("invariant broken")
	}

	mustPanic(t, "FromList with duplicated tag", func() {
		newTestMap(
			Entry[int, defn]{Key: 1, Value: defn{Tag: 10}},
			Entry[int, defn]{Key: 2, Value: defn{Tag: 10}},
		)
	})
}

func TestDistinctAscListsRoundTrip(t *testing.T) {
	m := newTestMap(
		Entry[int, defn]{Key: 4, Value: defn{Tag: 40, Payload: 4}},
		Entry[int, defn]{Key: 1, Value: defn{Tag: -5, Payload: 1}},
		Entry[int, defn]{Key: 3, Value: defn{Tag: 30, Payload: 3}},
		Entry[int, defn]{Key: 2, Value: defn{Tag: -1, Payload: 2}},
	)

	list := m.ToDistinctAscLists()
	back := FromDistinctAscLists(CompareInt, CompareInt, defnTag, defnEq, list)

	if !slices.Equal(back.ToList(), m.ToList()) {
		t.Errorf("round trip changed contents")
	}
	if !back.Invariant() {
		t.Fatal("invariant broken after round trip")
	}
	for tag, want := range map[int]int{40: 4, 30: 3} {
		if k, has := back.InvLookup(tag); !has || k != want {
			t.Errorf("InvLookup(%d): got %d/%v", tag, k, has)
		}
	}

	// empty round trip
	empty := newTestMap()
	if !FromDistinctAscLists(CompareInt, CompareInt, defnTag, defnEq, empty.ToDistinctAscLists()).IsEmpty() {
		t.Errorf("empty round trip not empty")
	}

	mustPanic(t, "FromDistinctAscLists with unsorted keys", func() {
		FromDistinctAscLists(CompareInt, CompareInt, defnTag, defnEq, []Entry[int, defn]{
			{Key: 2, Value: defn{Tag: -1}},
			{Key: 1, Value: defn{Tag: -1}},
		})
	})
	mustPanic(t, "FromDistinctAscLists with duplicate keys", func() {
		FromDistinctAscLists(CompareInt, CompareInt, defnTag, defnEq, []Entry[int, defn]{
			{Key: 1, Value: defn{Tag: -1}},
			{Key: 1, Value: defn{Tag: -1}},
		})
	})
}
