// Package ohashhash provides the hash and equality helpers spec.md section 6
// asks the engine to support: identity hashes for integers, a Bernstein/X31
// string hash, an FNV-1a byte-slice hash, and a pointer hash - kept in their
// own package so callers can import them without pulling in ohash's generic
// table machinery.
package ohashhash

import "unsafe"

// Uint8, Uint16, Uint32 and Uint64 are identity hashes: the integer
// reinterpreted as a uint64. They are exact (no collisions) and require no
// folding when the table's index width can represent them directly.
func Uint8(x uint8) uint64   { return uint64(x) }
func Uint16(x uint16) uint64 { return uint64(x) }
func Uint32(x uint32) uint64 { return uint64(x) }
func Uint64(x uint64) uint64 { return x }

// Uint32Narrow and Uint64Narrow fold high bits down before returning,
// matching spec.md 6's requirement that "the 16-bit mode additionally
// folds high bits into the 32-bit integer hash" - use these instead of the
// plain identity hashes when the table is configured with ohash.WidthTiny,
// so entropy above the 16-bit index range still affects bucket placement.
func Uint32Narrow(x uint32) uint64 {
	h := uint64(x)
	return h ^ (h >> 16)
}

func Uint64Narrow(x uint64) uint64 {
	h := x ^ (x >> 32)
	return h ^ (h >> 16)
}

// String implements the Bernstein/X31 hash from spec.md 6: h = (h<<5) - h + c
// (equivalently h*31 + c), seeded with the first byte.
func String(s string) uint64 {
	if len(s) == 0 {
		return 0
	}

	h := uint64(s[0])
	for i := 1; i < len(s); i++ {
		h = (h << 5) - h + uint64(s[i])
	}

	return h
}

// fnv1aOffsetBasis and fnv1aPrime are the standard FNV-1a 64-bit constants.
const (
	fnv1aOffsetBasis = 14695981039346656037
	fnv1aPrime       = 1099511628211
)

// FNV1a64 hashes a byte slice with FNV-1a. It is offered as a faster
// alternative to String for byte-slice/string keys where Bernstein's
// mandated-by-spec formula isn't load-bearing.
func FNV1a64(b []byte) uint64 {
	h := uint64(fnv1aOffsetBasis)
	for _, c := range b {
		h ^= uint64(c)
		h *= fnv1aPrime
	}

	return h
}

// Pointer hashes a pointer's identity (its address), deriving from the
// platform-width integer hash as spec.md 6 describes.
func Pointer[T any](p *T) uint64 {
	return Uint64(uint64(uintptr(unsafe.Pointer(p))))
}

// IdentityEqual is the `a == b` equality predicate for comparable types.
func IdentityEqual[T comparable](a, b T) bool { return a == b }

// BytesEqual is a byte-wise equality predicate for []byte keys, the Go
// analogue of the C-string byte-wise-compare-until-terminator helper from
// spec.md 6 (Go byte slices carry their own length, so no terminator scan
// is needed).
func BytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
