package ohash

import (
	"math"
	"math/bits"
)

// Table is a single open-addressing hash table instantiated for one
// (K, V, hash, eq) quadruple. It is the engine described in spec.md
// sections 2-5: callers normally reach it through Map or Set rather than
// constructing one directly, but it is exported for callers that want the
// bare put/lookup/delete primitives without the Map/Set convenience
// contracts.
//
// The zero value is not usable; construct with NewTable.
type Table[K any, V any] struct {
	capacity uint64
	size     uint64 // OCCUPIED buckets
	used     uint64 // OCCUPIED + DELETED buckets

	flags bucketFlags
	keys  []K
	vals  []V

	hash func(K) uint64
	eq   func(K, K) bool

	loadFactor  float64
	maxCapacity uint64
}

// NewTable constructs an empty table (capacity 0, no arrays allocated - see
// spec.md 3 "Lifecycle"). hash and eq are stored on the table instance
// rather than monomorphized per call site: Go's generics already
// specialize Table[K,V] per concrete type pair, so this is the faithful
// single-mode collapse of the two instantiation modes described in
// spec.md 6.
func NewTable[K any, V any](cfg Config, hash func(K) uint64, eq func(K, K) bool) (*Table[K, V], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Table[K, V]{
		hash:        hash,
		eq:          eq,
		loadFactor:  cfg.loadFactor(),
		maxCapacity: cfg.maxCapacity(),
	}, nil
}

// Len returns the number of OCCUPIED buckets (the user-visible element
// count).
func (t *Table[K, V]) Len() int { return int(t.size) }

// Cap returns the current bucket array capacity (0 or a power of two >= 4).
func (t *Table[K, V]) Cap() int { return int(t.capacity) }

func (t *Table[K, V]) upperBound() uint64 { return upperBound(t.capacity, t.loadFactor) }

// upperBound computes floor(capacity*L + 0.5), saturating instead of
// overflowing (spec.md 9, Open Question (a)).
func upperBound(capacity uint64, loadFactor float64) uint64 {
	if capacity == 0 {
		return 0
	}

	v := float64(capacity)*loadFactor + 0.5
	if v >= float64(math.MaxUint64) {
		return math.MaxUint64
	}

	return uint64(v)
}

// nextPow2 rounds n up to a power of two, clamped to a minimum of 4.
func nextPow2(n uint64) uint64 {
	if n <= 4 {
		return 4
	}

	if n&(n-1) == 0 {
		return n
	}

	return uint64(1) << bits.Len64(n)
}

// probeOffset returns the step-th triangular-number offset from the start
// bucket (spec.md 4.2): offsets are 0, 1, 3, 6, 10, ... At step == capacity
// the sequence has visited every bucket exactly once (capacity is always a
// power of two) and would repeat i0.
func probeOffset(step uint64) uint64 {
	return step * (step + 1) / 2
}

// Lookup walks the probe sequence for key and returns the OCCUPIED bucket
// index holding it, or Missing if key is absent. Lookup never mutates the
// table.
func (t *Table[K, V]) Lookup(key K) uint64 {
	if t.capacity == 0 {
		return Missing
	}

	mask := t.capacity - 1
	i0 := t.hash(key) & mask

	for step := uint64(0); step < t.capacity; step++ {
		idx := (i0 + probeOffset(step)) & mask

		switch t.flags.state(idx) {
		case stateEmpty:
			return Missing
		case stateOccupied:
			if t.eq(t.keys[idx], key) {
				return idx
			}
		case stateDeleted:
			// tombstone: keep walking.
		}
	}

	return Missing
}

// Put finds or reserves a bucket for key (spec.md 4.4). It never writes a
// value slot and never overwrites an existing key: callers that want
// overwrite semantics (Map.Set, Map.Add, ...) check Status and write
// t.vals[idx] themselves.
func (t *Table[K, V]) Put(key K) (uint64, Status, error) {
	if t.used >= t.upperBound() {
		if err := t.growOrCompact(); err != nil {
			return 0, StatusError, err
		}
	}

	mask := t.capacity - 1
	i0 := t.hash(key) & mask

	var (
		site     uint64
		haveSite bool
	)

	for step := uint64(0); step < t.capacity; step++ {
		idx := (i0 + probeOffset(step)) & mask

		switch t.flags.state(idx) {
		case stateEmpty:
			if haveSite {
				return t.insertAt(site, key), StatusInserted, nil
			}

			t.flags.setState(idx, stateOccupied)
			t.keys[idx] = key
			t.size++
			t.used++

			return idx, StatusInserted, nil
		case stateDeleted:
			if !haveSite {
				site = idx
				haveSite = true
			}
		case stateOccupied:
			if t.eq(t.keys[idx], key) {
				return idx, StatusPresent, nil
			}
		}
	}

	// Full lap without an EMPTY or equal key: a DELETED site is guaranteed
	// to exist, because Put only reaches here when used < capacity (the
	// load-factor check above ensures at least one non-OCCUPIED bucket).
	return t.insertAt(site, key), StatusInserted, nil
}

// insertAt reclaims a DELETED bucket for key: size increments, used does
// not (it was already counted when the bucket was first occupied).
func (t *Table[K, V]) insertAt(idx uint64, key K) uint64 {
	t.flags.setState(idx, stateOccupied)
	t.keys[idx] = key
	t.size++

	return idx
}

// Delete marks an OCCUPIED bucket as DELETED (a tombstone). Deleting an
// index that is out of range, EMPTY, or already DELETED is a silent no-op
// (spec.md 4.5/7).
func (t *Table[K, V]) Delete(idx uint64) {
	if idx >= t.capacity || !t.flags.isOccupied(idx) {
		return
	}

	t.flags.setState(idx, stateDeleted)
	t.size--

	var (
		zeroK K
		zeroV V
	)

	t.keys[idx] = zeroK
	t.vals[idx] = zeroV
}

// DeleteKey is Lookup followed by Delete, reporting whether key was present.
func (t *Table[K, V]) DeleteKey(key K) bool {
	idx := t.Lookup(key)
	if idx == Missing {
		return false
	}

	t.Delete(idx)

	return true
}

// Clear resets occupancy to empty without releasing bucket storage
// (spec.md 4.7).
func (t *Table[K, V]) Clear() {
	if t.capacity == 0 {
		return
	}

	t.flags = newBucketFlags(t.capacity)
	t.size = 0
	t.used = 0
}

// Resize grows or shrinks the table to at least the requested capacity,
// rounded up to a power of two (spec.md 4.6). Requesting a capacity too
// small to hold the current size at the load factor ceiling is a
// no-op-success, not an error.
func (t *Table[K, V]) Resize(requested uint64) error {
	target := nextPow2(requested)
	if target > t.maxCapacity {
		return ErrTooLarge
	}

	if t.size >= upperBound(target, t.loadFactor) {
		return nil
	}

	t.rehashTo(target)

	return nil
}

// growOrCompact picks the resize target for an insertion-triggered resize:
// a tombstone-dominated table compacts in place, otherwise it doubles.
func (t *Table[K, V]) growOrCompact() error {
	var target uint64

	if t.capacity > 2*t.size {
		target = nextPow2(uint64(math.Ceil(float64(t.size) / t.loadFactor)))
	} else if t.capacity == 0 {
		target = 4
	} else {
		target = t.capacity * 2
	}

	if target > t.maxCapacity {
		return ErrTooLarge
	}

	t.rehashTo(target)

	return nil
}

// rehashTo performs the in-place kick-out rehash pass of spec.md 4.6: every
// OCCUPIED key is relocated to the bucket the probe engine finds for it
// under newCapacity, carrying forward (and swapping into place) any entry
// it displaces that hasn't yet been scanned. At the end used == size:
// tombstones are purged.
func (t *Table[K, V]) rehashTo(newCapacity uint64) {
	oldCapacity := t.capacity
	oldFlags := t.flags
	oldKeys := t.keys
	oldVals := t.vals

	newFlags := newBucketFlags(newCapacity)

	var newKeys []K

	var newVals []V

	if newCapacity > oldCapacity {
		newKeys = make([]K, newCapacity)
		copy(newKeys, oldKeys)

		newVals = make([]V, newCapacity)
		copy(newVals, oldVals)
	} else {
		newKeys = oldKeys
		newVals = oldVals
	}

	mask := newCapacity - 1

	for j := uint64(0); j < oldCapacity; j++ {
		if !oldFlags.isOccupied(j) {
			continue
		}

		key := oldKeys[j]
		val := oldVals[j]
		oldFlags.setState(j, stateDeleted)

		for {
			i0 := t.hash(key) & mask

			var landing uint64

			for step := uint64(0); ; step++ {
				idx := (i0 + probeOffset(step)) & mask
				if newFlags.isEmpty(idx) {
					landing = idx
					break
				}
			}

			newFlags.setState(landing, stateOccupied)

			if landing < oldCapacity && oldFlags.isOccupied(landing) {
				key, newKeys[landing] = newKeys[landing], key
				val, newVals[landing] = newVals[landing], val
				oldFlags.setState(landing, stateDeleted)

				continue
			}

			newKeys[landing] = key
			newVals[landing] = val

			break
		}
	}

	if newCapacity < oldCapacity {
		newKeys = newKeys[:newCapacity]
		newVals = newVals[:newCapacity]
	}

	t.keys = newKeys
	t.vals = newVals
	t.flags = newFlags
	t.capacity = newCapacity
	t.used = t.size
}

// All returns an iterator function that calls yield with every OCCUPIED
// bucket's index, key and value until yield returns false. Its yield takes
// three values, so it is called directly rather than used with range (Map.All
// and Set.All wrap it as range-over-func iterators). Iteration order is unspecified and unstable across
// mutations (spec.md 4.8): any insertion that triggers a resize, or any
// deletion, invalidates an iterator in progress.
func (t *Table[K, V]) All() func(yield func(idx uint64, key K, val V) bool) {
	return func(yield func(uint64, K, V) bool) {
		for i := uint64(0); i < t.capacity; i++ {
			if !t.flags.isOccupied(i) {
				continue
			}

			if !yield(i, t.keys[i], t.vals[i]) {
				return
			}
		}
	}
}

// IsOccupied reports whether bucket i currently holds a live key.
func (t *Table[K, V]) IsOccupied(i uint64) bool {
	if i >= t.capacity {
		return false
	}

	return t.flags.isOccupied(i)
}

// KeyAt and ValAt give direct access to a bucket known (e.g. from Lookup or
// All) to be OCCUPIED. Reading a non-OCCUPIED bucket is undefined per
// spec.md 7 "Misuse".
func (t *Table[K, V]) KeyAt(i uint64) K { return t.keys[i] }
func (t *Table[K, V]) ValAt(i uint64) V { return t.vals[i] }

// SetValAt writes the value slot of a bucket known to be OCCUPIED. It is
// the primitive the Map convenience layer uses to implement overwrite
// semantics without the engine itself ever silently overwriting a key.
func (t *Table[K, V]) SetValAt(i uint64, v V) { t.vals[i] = v }
