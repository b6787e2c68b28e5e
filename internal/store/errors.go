package store

import "errors"

var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAllocationExhausted is returned when all 999 queue numbers of a
	// store are held by live tickets.
	ErrAllocationExhausted = errors.New("queue numbers exhausted")

	// ErrTransientConflict is returned when an allocation keeps losing the
	// insert race against concurrent allocations. Retryable by the caller.
	ErrTransientConflict = errors.New("transient allocation conflict")

	// ErrInvalidTransition is returned when a lifecycle transition is
	// requested from the wrong state.
	ErrInvalidTransition = errors.New("invalid status transition")
)
