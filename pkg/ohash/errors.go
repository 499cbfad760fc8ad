package ohash

import "errors"

var (
	// ErrBadLoadFactor is returned by NewTable/NewMap/NewSet when
	// Config.LoadFactor is set to a value outside (0, 1).
	ErrBadLoadFactor = errors.New("ohash: load factor must be in (0, 1)")

	// ErrTooLarge is returned by Put/Resize/InsertAll when the capacity
	// needed to satisfy the operation exceeds Config.MaxCapacity. The table
	// is left unmodified.
	ErrTooLarge = errors.New("ohash: requested capacity exceeds configured maximum")
)
