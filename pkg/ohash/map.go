package ohash

// Map layers the map-style convenience contract of spec.md 4.10 on top of a
// Table. The engine never overwrites an existing key on PRESENT; Map is
// where that policy decision is made.
type Map[K any, V any] struct {
	t *Table[K, V]
}

// NewMap constructs an empty Map using hash and eq for every key lookup.
func NewMap[K any, V any](cfg Config, hash func(K) uint64, eq func(K, K) bool) (*Map[K, V], error) {
	t, err := NewTable[K, V](cfg, hash, eq)
	if err != nil {
		return nil, err
	}

	return &Map[K, V]{t: t}, nil
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int { return m.t.Len() }

// Get returns the value stored for key, or def if key is absent.
func (m *Map[K, V]) Get(key K, def V) V {
	idx := m.t.Lookup(key)
	if idx == Missing {
		return def
	}

	return m.t.ValAt(idx)
}

// Set inserts or overwrites key's value. On PRESENT, prev holds the value
// that was just overwritten; on INSERTED, prev is the zero value of V.
func (m *Map[K, V]) Set(key K, value V) (prev V, status Status, err error) {
	idx, status, err := m.t.Put(key)
	if err != nil {
		return prev, status, err
	}

	if status == StatusPresent {
		prev = m.t.ValAt(idx)
	}

	m.t.SetValAt(idx, value)

	return prev, status, nil
}

// Add inserts key with value only if it is absent. On PRESENT, existing
// holds the value already stored (left untouched); on INSERTED, the new
// value is written and existing is the zero value of V.
func (m *Map[K, V]) Add(key K, value V) (existing V, status Status, err error) {
	idx, status, err := m.t.Put(key)
	if err != nil {
		return existing, status, err
	}

	if status == StatusInserted {
		m.t.SetValAt(idx, value)
	} else {
		existing = m.t.ValAt(idx)
	}

	return existing, status, nil
}

// Replace overwrites key's value only if it is already present, returning
// the prior value and true. It returns false (and leaves the map
// unmodified) if key is absent.
func (m *Map[K, V]) Replace(key K, value V) (prev V, ok bool) {
	idx := m.t.Lookup(key)
	if idx == Missing {
		return prev, false
	}

	prev = m.t.ValAt(idx)
	m.t.SetValAt(idx, value)

	return prev, true
}

// Remove deletes key if present, returning the removed key/value and true.
// It returns false (and leaves the map unmodified) if key is absent.
func (m *Map[K, V]) Remove(key K) (outKey K, outVal V, ok bool) {
	idx := m.t.Lookup(key)
	if idx == Missing {
		return outKey, outVal, false
	}

	outKey = m.t.KeyAt(idx)
	outVal = m.t.ValAt(idx)
	m.t.Delete(idx)

	return outKey, outVal, true
}

// Clear removes every entry without releasing bucket storage.
func (m *Map[K, V]) Clear() { m.t.Clear() }

// Resize grows or shrinks the backing table; see Table.Resize.
func (m *Map[K, V]) Resize(requested uint64) error { return m.t.Resize(requested) }

// All returns a range-over-func iterator over (key, value) pairs. See
// Table.All for the iteration-stability contract.
func (m *Map[K, V]) All() func(yield func(key K, val V) bool) {
	return func(yield func(K, V) bool) {
		m.t.All()(func(_ uint64, k K, v V) bool {
			return yield(k, v)
		})
	}
}
