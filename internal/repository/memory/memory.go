package memory

import (
	"context"

	"clinic/internal/model"
	"clinic/internal/repository"
)

// Repository is the in-memory backend. Nothing is persisted.
type Repository[ID comparable, T model.Entity[ID]] struct {
	set *repository.WorkingSet[ID, T]
}

// New returns an empty in-memory repository.
func New[ID comparable, T model.Entity[ID]]() *Repository[ID, T] {
	return &Repository[ID, T]{set: repository.NewWorkingSet[ID, T]()}
}

var (
	_ repository.PatientRepository     = (*Repository[int, model.Patient])(nil)
	_ repository.AppointmentRepository = (*Repository[int, model.Appointment])(nil)
)

// Add stores entity, or fails with ErrDuplicateKey.
func (r *Repository[ID, T]) Add(_ context.Context, entity T) error {
	return r.set.Insert(entity)
}

// Get returns the entity under id, or ErrNotFound.
func (r *Repository[ID, T]) Get(_ context.Context, id ID) (T, error) {
	return r.set.Get(id)
}

// Remove deletes the entity under id, or fails with ErrNotFound.
func (r *Repository[ID, T]) Remove(_ context.Context, id ID) error {
	return r.set.Delete(id)
}

// Update replaces the entity sharing entity's key, or fails with ErrNotFound.
func (r *Repository[ID, T]) Update(_ context.Context, entity T) error {
	return r.set.Replace(entity)
}

// ListAll returns every entity in insertion order.
func (r *Repository[ID, T]) ListAll(_ context.Context) ([]T, error) {
	return r.set.Values(), nil
}
