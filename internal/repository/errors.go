package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrStale is returned when a conditional update matched no row: the
	// entity either does not exist or is no longer in the expected state.
	// Concurrent attempts on the same transition produce one winner and
	// one ErrStale.
	ErrStale = errors.New("entity not in expected state")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint.
	ErrDuplicate = errors.New("duplicate entity")
)
