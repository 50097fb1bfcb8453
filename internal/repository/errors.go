package repository

import "errors"

// Error kinds every backend reports. Backends wrap them with context, so match with errors.Is.
var (
	// ErrDuplicateKey is returned by Add when an entity with the same key is already stored.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound is returned by Get, Remove and Update for an absent key.
	ErrNotFound = errors.New("entity not found")
	// ErrMalformedSource is returned at construction when a durable source exists but cannot be parsed.
	ErrMalformedSource = errors.New("malformed source")
	// ErrIO is returned when reading or writing the durable source fails.
	ErrIO = errors.New("storage i/o failure")
)
