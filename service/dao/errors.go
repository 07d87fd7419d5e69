package dao

import "errors"

// Common, reusable DAO errors. Callers detect them with errors.Is.

var (
	// ErrNotFound is returned when the requested entity does not exist in the
	// underlying storage.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID indicates that the supplied handle is out of range or
	// otherwise invalid.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity is returned when the caller attempts to persist a nil
	// pointer.
	ErrNilEntity = errors.New("dao: nil entity")

	// ErrCapacity is returned when a bounded store is full.
	ErrCapacity = errors.New("dao: capacity exhausted")

	// ErrImmutable is returned by stores that never remove entities.
	ErrImmutable = errors.New("dao: entities cannot be deleted")
)
