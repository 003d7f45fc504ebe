package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("entity already exists")

	// ErrConflict is returned when a conditional update finds the entity
	// in a different state than expected.
	ErrConflict = errors.New("entity state conflict")
)
