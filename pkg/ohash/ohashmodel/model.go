// Package ohashmodel provides a deliberately simple, in-memory reference
// model of ohash's publicly observable behavior.
//
// The model is intentionally easy to audit: it favors clarity over
// performance and backs every operation with a plain Go map, trading away
// the load-factor/tombstone/resize mechanics the real engine has to get
// right. Property tests drive both the model and the real ohash.Map with
// the same operation sequence and diff the observable state after each
// step.
package ohashmodel

// State is a naive reference model of a Table[K, V]'s externally observable
// contents: which keys are present and what value each maps to. It does
// not model capacity, tombstones, or bucket indices - those are exactly
// the engine internals the property tests are trying to catch bugs in by
// comparison against this independent implementation.
type State[K comparable, V any] struct {
	entries map[K]V
}

// NewState returns an empty model.
func NewState[K comparable, V any]() *State[K, V] {
	return &State[K, V]{entries: make(map[K]V)}
}

// Len returns the number of entries in the model.
func (s *State[K, V]) Len() int { return len(s.entries) }

// Get mirrors Map.Get.
func (s *State[K, V]) Get(key K, def V) V {
	if v, ok := s.entries[key]; ok {
		return v
	}

	return def
}

// Set mirrors Map.Set: returns the previous value (zero value if the key
// was absent) and whether the key was already present.
func (s *State[K, V]) Set(key K, value V) (prev V, wasPresent bool) {
	prev, wasPresent = s.entries[key]
	s.entries[key] = value

	return prev, wasPresent
}

// Add mirrors Map.Add: only writes value if key is absent.
func (s *State[K, V]) Add(key K, value V) (existing V, wasPresent bool) {
	existing, wasPresent = s.entries[key]
	if !wasPresent {
		s.entries[key] = value
	}

	return existing, wasPresent
}

// Replace mirrors Map.Replace.
func (s *State[K, V]) Replace(key K, value V) (prev V, ok bool) {
	prev, ok = s.entries[key]
	if !ok {
		return prev, false
	}

	s.entries[key] = value

	return prev, true
}

// Remove mirrors Map.Remove.
func (s *State[K, V]) Remove(key K) (value V, ok bool) {
	value, ok = s.entries[key]
	if !ok {
		return value, false
	}

	delete(s.entries, key)

	return value, true
}

// Clear mirrors Map.Clear/Set.Clear.
func (s *State[K, V]) Clear() { s.entries = make(map[K]V) }

// Snapshot returns a copy of the model's contents for diffing with
// go-cmp, independent of Go map iteration order.
func (s *State[K, V]) Snapshot() map[K]V {
	out := make(map[K]V, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}

	return out
}

// Keys mirrors a Set's membership as a sorted-free key list, for
// Insert/Remove/Contains-style comparisons.
func (s *State[K, V]) Keys() []K {
	out := make([]K, 0, len(s.entries))
	for k := range s.entries {
		out = append(out, k)
	}

	return out
}
