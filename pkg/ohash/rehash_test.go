package ohash_test

import (
	"testing"

	"github.com/calvinalkan/ohash/pkg/ohash"
)

// clusteringHash sends every key into a narrow band of low-order bits so
// growOrCompact's kick-out rehash pass (table.go rehashTo) has to displace
// and swap chains of entries instead of relocating each key to an already-
// empty new bucket on the first probe.
func clusteringHash(x uint32) uint64 {
	return uint64(x%8) | (uint64(x) << 16)
}

func newClusteredTable(t *testing.T) *ohash.Table[uint32, uint32] {
	t.Helper()

	tbl, err := ohash.NewTable[uint32, uint32](ohash.DefaultConfig(), clusteringHash, func(a, b uint32) bool { return a == b })
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	return tbl
}

// Test_Rehash_Grow_Preserves_Heavily_Clustered_Keys exercises the kick-out
// loop's swap path (table.go rehashTo): with many keys colliding on the
// same low-order bits, growing the table forces repeated displacement of
// entries that haven't been scanned yet.
func Test_Rehash_Grow_Preserves_Heavily_Clustered_Keys(t *testing.T) {
	t.Parallel()

	tbl := newClusteredTable(t)

	const n = 300

	for i := uint32(0); i < n; i++ {
		idx, status, err := tbl.Put(i)
		if err != nil {
			t.Fatalf("Put(%d): %v", i, err)
		}

		if status != ohash.StatusInserted {
			t.Fatalf("Put(%d) = %v, want StatusInserted", i, status)
		}

		tbl.SetValAt(idx, i*10)
	}

	if tbl.Len() != n {
		t.Fatalf("Len() = %d, want %d", tbl.Len(), n)
	}

	for i := uint32(0); i < n; i++ {
		idx := tbl.Lookup(i)
		if idx == ohash.Missing {
			t.Fatalf("Lookup(%d) = Missing after clustered grow", i)
		}

		if got := tbl.ValAt(idx); got != i*10 {
			t.Fatalf("ValAt(Lookup(%d)) = %d, want %d", i, got, i*10)
		}
	}
}

// Test_Rehash_Tombstone_Dominated_Table_Compacts_In_Place covers spec.md
// 4.4/4.6: deleting most entries so capacity > 2*size makes the next Put
// compact in place (purge tombstones) rather than grow. 197 puts leave
// capacity 256 with used == floor(256*0.77+0.5) == 197, so the next Put is
// the one that has to resize.
func Test_Rehash_Tombstone_Dominated_Table_Compacts_In_Place(t *testing.T) {
	t.Parallel()

	tbl := newClusteredTable(t)

	const n = 197

	for i := uint32(0); i < n; i++ {
		if _, _, err := tbl.Put(i); err != nil {
			t.Fatalf("Put(%d): %v", i, err)
		}
	}

	capAfterFill := tbl.Cap()

	// Delete all but a handful: capacity now dominated by tombstones.
	for i := uint32(0); i < n-5; i++ {
		idx := tbl.Lookup(i)
		if idx == ohash.Missing {
			t.Fatalf("Lookup(%d) = Missing before delete", i)
		}

		tbl.Delete(idx)
	}

	// The next Put must trigger growOrCompact's tombstone-purge path: the
	// capacity should not grow past what it already was (it may shrink).
	if _, _, err := tbl.Put(n + 1000); err != nil {
		t.Fatalf("Put(%d): %v", n+1000, err)
	}

	if tbl.Cap() > capAfterFill {
		t.Fatalf("Cap() grew to %d during tombstone-dominated insert, want <= %d", tbl.Cap(), capAfterFill)
	}

	for i := uint32(n - 5); i < n; i++ {
		if tbl.Lookup(i) == ohash.Missing {
			t.Fatalf("Lookup(%d) missing after compaction", i)
		}
	}

	for i := uint32(0); i < n-5; i++ {
		if tbl.Lookup(i) != ohash.Missing {
			t.Fatalf("Lookup(%d) present after compaction, want deleted", i)
		}
	}
}

// Test_Resize_Too_Large_Returns_Error covers the allocation-failure path
// (spec.md 5/7): Resize never partially mutates the table.
func Test_Resize_Too_Large_Returns_Error(t *testing.T) {
	t.Parallel()

	tbl, err := ohash.NewTable[uint32, uint32](
		ohash.Config{Width: ohash.WidthDefault, MaxCapacity: 16},
		clusteringHash,
		func(a, b uint32) bool { return a == b },
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	for i := uint32(0); i < 10; i++ {
		if _, _, err := tbl.Put(i); err != nil {
			t.Fatalf("Put(%d): %v", i, err)
		}
	}

	capBefore := tbl.Cap()
	sizeBefore := tbl.Len()

	if err := tbl.Resize(1 << 20); err == nil {
		t.Fatalf("Resize(huge) = nil error, want ErrTooLarge")
	}

	if tbl.Cap() != capBefore || tbl.Len() != sizeBefore {
		t.Fatalf("Resize failure mutated table: cap %d->%d, len %d->%d", capBefore, tbl.Cap(), sizeBefore, tbl.Len())
	}
}

// Test_Put_Too_Large_Returns_Error_Status mirrors the above for the
// insertion-triggered growth path.
func Test_Put_Too_Large_Returns_Error_Status(t *testing.T) {
	t.Parallel()

	tbl, err := ohash.NewTable[uint32, uint32](
		ohash.Config{Width: ohash.WidthDefault, MaxCapacity: 4},
		clusteringHash,
		func(a, b uint32) bool { return a == b },
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	// Upper bound of capacity 4 at load factor 0.77 is floor(4*0.77+0.5)=3.
	for i := uint32(0); i < 3; i++ {
		if _, status, err := tbl.Put(i); err != nil || status != ohash.StatusInserted {
			t.Fatalf("Put(%d) = (%v, %v), want (StatusInserted, nil)", i, status, err)
		}
	}

	_, status, err := tbl.Put(99)
	if err == nil {
		t.Fatalf("Put past MaxCapacity succeeded, want ErrTooLarge")
	}

	if status != ohash.StatusError {
		t.Fatalf("Put past MaxCapacity status = %v, want StatusError", status)
	}

	if tbl.Len() != 3 {
		t.Fatalf("Len() after failed Put = %d, want unchanged 3", tbl.Len())
	}
}
