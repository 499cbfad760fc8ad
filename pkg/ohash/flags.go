package ohash

// bucketState is the two-bit per-bucket occupancy state (spec.md 4.1).
type bucketState uint32

const (
	stateOccupied bucketState = 0b00
	stateDeleted  bucketState = 0b01
	stateEmpty    bucketState = 0b10
)

const bucketsPerWord = 16 // 32 bits / 2 bits per bucket

// bucketFlags is the packed two-bits-per-bucket state vector. Word i>>4
// holds the state of bucket i at bit offset (i&15)*2.
type bucketFlags []uint32

// newBucketFlags allocates a flags vector for capacity buckets, all EMPTY.
// Filling every byte with 0xAA marks four EMPTY buckets per byte, matching
// the "memset to a single byte pattern" requirement in spec.md 3/4.1.
func newBucketFlags(capacity uint64) bucketFlags {
	n := (capacity + bucketsPerWord - 1) / bucketsPerWord

	f := make(bucketFlags, n)
	for i := range f {
		f[i] = 0xAAAAAAAA
	}

	return f
}

func (f bucketFlags) state(i uint64) bucketState {
	word := f[i/bucketsPerWord]
	shift := (i % bucketsPerWord) * 2

	return bucketState((word >> shift) & 0b11)
}

func (f bucketFlags) setState(i uint64, s bucketState) {
	word := i / bucketsPerWord
	shift := (i % bucketsPerWord) * 2
	f[word] = (f[word] &^ (0b11 << shift)) | (uint32(s) << shift)
}

func (f bucketFlags) isEmpty(i uint64) bool    { return f.state(i) == stateEmpty }
func (f bucketFlags) isDeleted(i uint64) bool  { return f.state(i) == stateDeleted }
func (f bucketFlags) isOccupied(i uint64) bool { return f.state(i) == stateOccupied }

// isEitherEmptyOrDeleted is the bitwise-OR-of-both-bits predicate from
// spec.md 4.1: true whenever the bucket does not hold a live key.
func (f bucketFlags) isEitherEmptyOrDeleted(i uint64) bool {
	return f.state(i) != stateOccupied
}
