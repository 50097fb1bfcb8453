package storage

import (
	"context"
	"errors"
	"io"
)

// Package storage contains durable blob abstractions used by the file-backed repositories.
// A key names one object; Put always replaces the whole object.

// ErrObjectNotFound is returned by Get when no object exists under the key.
var ErrObjectNotFound = errors.New("object not found")

// Storage is a whole-object store.
type Storage interface {
	// Put replaces the object under key with the content of r. Readers never observe a partial object.
	Put(ctx context.Context, key string, r io.Reader) error
	// Get returns a streaming reader over the object under key, or ErrObjectNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
