package bimap

// InsertPrecondition reports whether Insert(key, value) may be called: the
// value carries no tag, or its tag is unbound, or its tag is already bound
// to this same key.
func (m *Map[K, V, T]) InsertPrecondition(key K, value V) bool {
	t, ok := m.tag(value)
	if !ok {
		return true
	}
	owner, bound := m.secondary.Get(t)
	return !bound || m.primary.Compare()(owner, key) == 0
}

// Insert stores value under key, replacing any previous entry for key.
// The previous value's tag is released from the inverse index if the new
// value no longer carries it.
//
// Panics if the value's tag is already owned by a different key.
func (m *Map[K, V, T]) Insert(key K, value V) *Map[K, V, T] {
	if !m.InsertPrecondition(key, value) {
		panic("bimap: insert would bind a tag owned by a different key")
	}
	return m.insertUnchecked(key, value)
}

// insertUnchecked installs the entry assuming the insert precondition.
func (m *Map[K, V, T]) insertUnchecked(key K, value V) *Map[K, V, T] {
	primary := m.primary.With(key, value)
	secondary := m.secondary

	newTag, hasNewTag := m.tag(value)

	// release the replaced value's tag unless the new value keeps it
	if old, had := m.primary.Get(key); had {
		if oldTag, ok := m.tag(old); ok {
			if !hasNewTag || m.secondary.Compare()(oldTag, newTag) != 0 {
				secondary = secondary.Without(oldTag)
			}
		}
	}
	if hasNewTag {
		secondary = secondary.With(newTag, key)
	}
	return m.derive(primary, secondary)
}

// Delete removes the entry under key along with its inverse index entry.
// It returns the receiver itself if the key is absent.
func (m *Map[K, V, T]) Delete(key K) *Map[K, V, T] {
	value, had := m.primary.Get(key)
	if !had {
		return m
	}

	primary := m.primary.Without(key)
	secondary := m.secondary
	if t, ok := m.tag(value); ok {
		secondary = secondary.Without(t)
	}
	return m.derive(primary, secondary)
}

// Alter applies f to the entry under key, whether present or not. f receives
// the current value and whether one exists; returning ok=false removes the
// entry, returning ok=true stores the produced value.
//
// Panics if the produced value's tag is owned by a different key.
func (m *Map[K, V, T]) Alter(f func(v V, has bool) (V, bool), key K) *Map[K, V, T] {
	value, has := m.primary.Get(key)

	next, keep := f(value, has)
	if !keep {
		return m.Delete(key)
	}
	if !m.InsertPrecondition(key, next) {
		panic("bimap: alter would bind a tag owned by a different key")
	}
	return m.insertUnchecked(key, next)
}

// Update applies f to the value under key, if any. Returning ok=false
// removes the entry; otherwise the produced value replaces the old one.
// Absent keys leave the Map unchanged.
//
// Panics if the produced value's tag is owned by a different key.
func (m *Map[K, V, T]) Update(f func(v V) (V, bool), key K) *Map[K, V, T] {
	value, has := m.primary.Get(key)
	if !has {
		return m
	}

	next, keep := f(value)
	if !keep {
		return m.Delete(key)
	}
	if !m.InsertPrecondition(key, next) {
		panic("bimap: update would bind a tag owned by a different key")
	}
	return m.insertUnchecked(key, next)
}

// Adjust replaces the value under key with f of itself. Absent keys leave
// the Map unchanged.
//
// Panics if the produced value's tag is owned by a different key.
func (m *Map[K, V, T]) Adjust(f func(v V) V, key K) *Map[K, V, T] {
	value, has := m.primary.Get(key)
	if !has {
		return m
	}

	next := f(value)
	if !m.InsertPrecondition(key, next) {
		panic("bimap: adjust would bind a tag owned by a different key")
	}
	return m.insertUnchecked(key, next)
}

// InsertLookupWithKey stores value under key, or combine(key, value, old)
// when an entry already exists, and additionally returns that previous
// value.
//
// Panics if the stored value's tag is owned by a different key.
func (m *Map[K, V, T]) InsertLookupWithKey(combine func(key K, value, old V) V, key K, value V) (prev V, had bool, out *Map[K, V, T]) {
	prev, had = m.primary.Get(key)

	stored := value
	if had {
		stored = combine(key, value, prev)
	}
	if !m.InsertPrecondition(key, stored) {
		panic("bimap: insert would bind a tag owned by a different key")
	}
	return prev, had, m.insertUnchecked(key, stored)
}
