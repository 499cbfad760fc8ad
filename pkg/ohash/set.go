package ohash

import "math"

// Set layers the set-style convenience contract of spec.md 4.10 on top of a
// Table[K, struct{}]. struct{} costs no per-element storage, so Set pays no
// value-slot overhead despite sharing the map engine (spec.md 9, Open
// Question (c)).
type Set[K any] struct {
	t *Table[K, struct{}]
}

// NewSet constructs an empty Set using hash and eq for every key lookup.
func NewSet[K any](cfg Config, hash func(K) uint64, eq func(K, K) bool) (*Set[K], error) {
	t, err := NewTable[K, struct{}](cfg, hash, eq)
	if err != nil {
		return nil, err
	}

	return &Set[K]{t: t}, nil
}

// Len returns the number of elements in the set.
func (s *Set[K]) Len() int { return s.t.Len() }

// Contains reports whether key is a member of the set.
func (s *Set[K]) Contains(key K) bool { return s.t.Lookup(key) != Missing }

// Insert adds key to the set. On PRESENT, existing holds the stored key
// (which may differ from the argument under a non-identity eq); on
// INSERTED, existing is the zero value of K.
func (s *Set[K]) Insert(key K) (existing K, status Status, err error) {
	idx, status, err := s.t.Put(key)
	if err != nil {
		return existing, status, err
	}

	if status == StatusPresent {
		existing = s.t.KeyAt(idx)
	}

	return existing, status, nil
}

// Remove deletes key if present, reporting whether it was a member.
func (s *Set[K]) Remove(key K) bool { return s.t.DeleteKey(key) }

// Clear removes every element without releasing bucket storage.
func (s *Set[K]) Clear() { s.t.Clear() }

// InsertAll pre-resizes to hold the current elements plus keys, then
// inserts each. It returns StatusInserted iff at least one element was
// newly inserted, else StatusPresent; it returns StatusError (and leaves
// the set unmodified past whatever was already inserted) on allocation
// failure partway through.
func (s *Set[K]) InsertAll(keys []K) (Status, error) {
	needed := uint64(s.Len() + len(keys))
	target := uint64(math.Ceil(float64(needed) / s.t.loadFactor))

	if err := s.t.Resize(target); err != nil {
		return StatusError, err
	}

	anyInserted := false

	for _, key := range keys {
		_, status, err := s.Insert(key)
		if err != nil {
			return StatusError, err
		}

		if status == StatusInserted {
			anyInserted = true
		}
	}

	if anyInserted {
		return StatusInserted, nil
	}

	return StatusPresent, nil
}

// IsSuperset reports whether every element of other is also a member of s.
func (s *Set[K]) IsSuperset(other *Set[K]) bool {
	superset := true

	other.t.All()(func(_ uint64, key K, _ struct{}) bool {
		if s.t.Lookup(key) == Missing {
			superset = false
		}

		return superset
	})

	return superset
}

// Equals reports whether s and other hold the same multiset of keys.
func (s *Set[K]) Equals(other *Set[K]) bool {
	return s.Len() == other.Len() && s.IsSuperset(other)
}

// Hash returns an order-independent hash of the set's contents: the XOR of
// the hash function applied to every member.
func (s *Set[K]) Hash() uint64 {
	var h uint64

	s.t.All()(func(_ uint64, key K, _ struct{}) bool {
		h ^= s.t.hash(key)
		return true
	})

	return h
}

// GetAny returns the key at the lowest occupied bucket index, or def if the
// set is empty. Iteration order is unspecified (spec.md 4.8), so "lowest
// occupied index" is a deterministic-but-arbitrary choice, not a priority.
func (s *Set[K]) GetAny(def K) K {
	for i := uint64(0); i < uint64(s.t.Cap()); i++ {
		if s.t.IsOccupied(i) {
			return s.t.KeyAt(i)
		}
	}

	return def
}

// All returns a range-over-func iterator over the set's elements.
func (s *Set[K]) All() func(yield func(key K) bool) {
	return func(yield func(K) bool) {
		s.t.All()(func(_ uint64, key K, _ struct{}) bool {
			return yield(key)
		})
	}
}
