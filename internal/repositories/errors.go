package repositories

import "errors"

var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a guarded update matched no row because
	// the stored state changed underneath the caller.
	ErrConflict = errors.New("state conflict")
	// ErrInsufficientStock is returned when an atomic reservation could not
	// be satisfied by the listing's remaining quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
)
