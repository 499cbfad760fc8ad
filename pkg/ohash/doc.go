// Package ohash provides a generic, type-parameterized open-addressing
// hash table and the Map/Set convenience types built on top of it.
//
// ohash is a throwaway in-memory lookup structure: it has no persistence,
// no concurrency guarantees, and no stable iteration order. It is not a
// drop-in for Go's builtin map - use it when you need a custom hash/equality
// function, cheap set algebra, or tight control over load factor and
// capacity.
//
// # Basic Usage
//
//	m, err := ohash.NewMap[string, int](ohash.DefaultConfig(), ohashhash.String, func(a, b string) bool { return a == b })
//	if err != nil {
//	    // handle ErrBadLoadFactor
//	}
//	prev, status, err := m.Set("a", 1)
//
// # Concurrency
//
// A Table (and the Map/Set wrapping it) is not safe for concurrent use.
// Callers needing shared access must wrap it in external synchronization.
//
// # Error Handling
//
// Mutating operations that would require growing past Config.MaxCapacity
// return ErrTooLarge without modifying the table. Absent keys are never an
// error: they surface as the Missing sentinel, a false boolean, or a
// caller-supplied default.
package ohash
