package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"clinic/internal/model"
	"clinic/internal/repository"
	"clinic/internal/storage"
)

// Codec converts a complete working set to and from one serialized document.
type Codec[T any] interface {
	Encode(items []T) ([]byte, error)
	// Decode must return an empty result for empty input.
	Decode(data []byte) ([]T, error)
}

// validator is implemented by entities whose decoded form can lack required fields.
type validator interface {
	Validate() error
}

// validateAll rejects the first incomplete record. Codecs whose format cannot express a
// missing field do not need it.
func validateAll[T any](items []T) error {
	for i, item := range items {
		if v, ok := any(item).(validator); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// Repository keeps its entities in memory and rewrites the whole source object after every
// successful mutation. If the rewrite fails the mutation is undone and ErrIO is returned.
type Repository[ID comparable, T model.Entity[ID]] struct {
	store storage.Storage
	key   string
	codec Codec[T]
	set   *repository.WorkingSet[ID, T]
}

// New loads the object under key. A missing or empty object starts an empty repository;
// content the codec rejects, or that repeats a key, fails with ErrMalformedSource.
func New[ID comparable, T model.Entity[ID]](ctx context.Context, store storage.Storage, key string, codec Codec[T]) (*Repository[ID, T], error) {
	r := &Repository[ID, T]{
		store: store,
		key:   key,
		codec: codec,
		set:   repository.NewWorkingSet[ID, T](),
	}
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

var (
	_ repository.PatientRepository     = (*Repository[int, model.Patient])(nil)
	_ repository.AppointmentRepository = (*Repository[int, model.Appointment])(nil)
)

func (r *Repository[ID, T]) load(ctx context.Context) error {
	rc, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil
		}
		return fmt.Errorf("%w: load %s: %w", repository.ErrIO, r.key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", repository.ErrIO, r.key, err)
	}
	items, err := r.codec.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", repository.ErrMalformedSource, r.key, err)
	}
	if err := r.set.Reset(items); err != nil {
		return fmt.Errorf("%w: %s: %w", repository.ErrMalformedSource, r.key, err)
	}
	return nil
}

func (r *Repository[ID, T]) flush(ctx context.Context) error {
	data, err := r.codec.Encode(r.set.Values())
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", repository.ErrIO, r.key, err)
	}
	if err := r.store.Put(ctx, r.key, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: write %s: %w", repository.ErrIO, r.key, err)
	}
	return nil
}

// mutate applies change to the working set and flushes, restoring the previous contents
// when the flush fails.
func (r *Repository[ID, T]) mutate(ctx context.Context, change func() error) error {
	before := r.set.Values()
	if err := change(); err != nil {
		return err
	}
	if err := r.flush(ctx); err != nil {
		// before held unique keys, so Reset cannot fail.
		_ = r.set.Reset(before)
		return err
	}
	return nil
}

// Add inserts entity and rewrites the source.
func (r *Repository[ID, T]) Add(ctx context.Context, entity T) error {
	return r.mutate(ctx, func() error { return r.set.Insert(entity) })
}

// Get reads from the working set without touching the source.
func (r *Repository[ID, T]) Get(_ context.Context, id ID) (T, error) {
	return r.set.Get(id)
}

// Remove deletes the entity under id and rewrites the source.
func (r *Repository[ID, T]) Remove(ctx context.Context, id ID) error {
	return r.mutate(ctx, func() error { return r.set.Delete(id) })
}

// Update replaces the stored entity in place and rewrites the source.
func (r *Repository[ID, T]) Update(ctx context.Context, entity T) error {
	return r.mutate(ctx, func() error { return r.set.Replace(entity) })
}

// ListAll returns the working set in insertion order.
func (r *Repository[ID, T]) ListAll(_ context.Context) ([]T, error) {
	return r.set.Values(), nil
}
