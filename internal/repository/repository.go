package repository

import (
	"context"

	"clinic/internal/model"
)

// Repository is the storage-agnostic CRUD contract shared by every backend.
// Durable backends do I/O on every mutating call, so any call may fail with ErrIO in
// addition to the logical errors documented per method.
type Repository[ID comparable, T model.Entity[ID]] interface {
	// Add stores entity. It fails with ErrDuplicateKey if its key is taken, leaving state unchanged.
	Add(ctx context.Context, entity T) error

	// Get returns the entity stored under id, or ErrNotFound.
	Get(ctx context.Context, id ID) (T, error)

	// Remove deletes the entity stored under id, or fails with ErrNotFound.
	Remove(ctx context.Context, id ID) error

	// Update replaces the stored entity sharing entity's key, or fails with ErrNotFound.
	Update(ctx context.Context, entity T) error

	// ListAll returns every stored entity. An empty repository yields an empty slice.
	ListAll(ctx context.Context) ([]T, error)
}

// PatientRepository stores patients keyed by id.
type PatientRepository = Repository[int, model.Patient]

// AppointmentRepository stores appointments keyed by id.
type AppointmentRepository = Repository[int, model.Appointment]
