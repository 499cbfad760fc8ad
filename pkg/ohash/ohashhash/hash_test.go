package ohashhash_test

import (
	"testing"

	"github.com/calvinalkan/ohash/pkg/ohash/ohashhash"
)

func Test_String_Matches_Bernstein_X31_Formula(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want uint64
	}{
		{"", 0},
		{"a", uint64('a')},
		{"ab", uint64('a')*31 + uint64('b')},
		{"abc", (uint64('a')*31+uint64('b'))*31 + uint64('c')},
	}

	for _, tt := range tests {
		if got := ohashhash.String(tt.in); got != tt.want {
			t.Errorf("String(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func Test_FNV1a64_Is_Deterministic_And_Sensitive_To_Input(t *testing.T) {
	t.Parallel()

	a := ohashhash.FNV1a64([]byte("hello"))
	b := ohashhash.FNV1a64([]byte("hello"))

	if a != b {
		t.Fatalf("FNV1a64 not deterministic: %d != %d", a, b)
	}

	if a == ohashhash.FNV1a64([]byte("hellp")) {
		t.Fatalf("FNV1a64 collided on single-byte change")
	}

	if ohashhash.FNV1a64(nil) != 14695981039346656037 {
		t.Fatalf("FNV1a64(nil) = %d, want the offset basis", ohashhash.FNV1a64(nil))
	}
}

func Test_Identity_Hashes_Are_Exact(t *testing.T) {
	t.Parallel()

	if ohashhash.Uint8(200) != 200 {
		t.Fatalf("Uint8(200) != 200")
	}

	if ohashhash.Uint32(1<<31) != 1<<31 {
		t.Fatalf("Uint32 lost bits")
	}

	if ohashhash.Uint64(1<<63) != 1<<63 {
		t.Fatalf("Uint64 lost bits")
	}
}

func Test_Narrow_Folds_High_Bits(t *testing.T) {
	t.Parallel()

	// Two values that are equal modulo 1<<16 but differ above it should
	// fold to different hashes in the low 16 bits (the WidthTiny index
	// range), unlike the plain identity hash.
	low := ohashhash.Uint32Narrow(0x0000_1234) & 0xFFFF
	high := ohashhash.Uint32Narrow(0xFFFF_1234) & 0xFFFF

	if low == high {
		t.Fatalf("Uint32Narrow did not distinguish high bits: %d == %d", low, high)
	}
}

func Test_BytesEqual(t *testing.T) {
	t.Parallel()

	if !ohashhash.BytesEqual([]byte("abc"), []byte("abc")) {
		t.Fatalf("BytesEqual(abc, abc) = false")
	}

	if ohashhash.BytesEqual([]byte("abc"), []byte("abd")) {
		t.Fatalf("BytesEqual(abc, abd) = true")
	}

	if ohashhash.BytesEqual([]byte("ab"), []byte("abc")) {
		t.Fatalf("BytesEqual(ab, abc) = true")
	}
}

func Test_IdentityEqual(t *testing.T) {
	t.Parallel()

	if !ohashhash.IdentityEqual(1, 1) {
		t.Fatalf("IdentityEqual(1,1) = false")
	}

	if ohashhash.IdentityEqual(1, 2) {
		t.Fatalf("IdentityEqual(1,2) = true")
	}
}

func Test_Pointer_Is_Stable_For_Same_Address(t *testing.T) {
	t.Parallel()

	v := 42
	if ohashhash.Pointer(&v) != ohashhash.Pointer(&v) {
		t.Fatalf("Pointer hash not stable for the same address")
	}
}
