package repository

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"clinic/internal/model"
)

// WorkingSet is a keyed collection that remembers insertion order for listing.
// Lookup, insert, replace and delete are O(1); Values is O(n).
// It is not safe for concurrent use.
type WorkingSet[ID comparable, T model.Entity[ID]] struct {
	items *orderedmap.OrderedMap[ID, T]
}

// NewWorkingSet returns an empty set.
func NewWorkingSet[ID comparable, T model.Entity[ID]]() *WorkingSet[ID, T] {
	return &WorkingSet[ID, T]{items: orderedmap.New[ID, T]()}
}

// Insert appends e, or returns ErrDuplicateKey if its key is present.
func (s *WorkingSet[ID, T]) Insert(e T) error {
	key := e.Key()
	if _, ok := s.items.Get(key); ok {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
	}
	s.items.Set(key, e)
	return nil
}

// Get returns the entity stored under id, or ErrNotFound.
func (s *WorkingSet[ID, T]) Get(id ID) (T, error) {
	e, ok := s.items.Get(id)
	if !ok {
		return e, fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	return e, nil
}

// Delete removes the entity under id, or returns ErrNotFound.
func (s *WorkingSet[ID, T]) Delete(id ID) error {
	if _, ok := s.items.Delete(id); !ok {
		return fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	return nil
}

// Replace swaps in e at the position of the entity with the same key, or returns ErrNotFound.
func (s *WorkingSet[ID, T]) Replace(e T) error {
	key := e.Key()
	if _, ok := s.items.Get(key); !ok {
		return fmt.Errorf("%w: %v", ErrNotFound, key)
	}
	// Set on a present key keeps its position.
	s.items.Set(key, e)
	return nil
}

// Values returns the entities in insertion order. The slice is never nil.
func (s *WorkingSet[ID, T]) Values() []T {
	out := make([]T, 0, s.items.Len())
	for pair := s.items.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Len reports the number of stored entities.
func (s *WorkingSet[ID, T]) Len() int { return s.items.Len() }

// Reset replaces the contents with items. It fails with ErrDuplicateKey, leaving the set
// empty, if two items share a key.
func (s *WorkingSet[ID, T]) Reset(items []T) error {
	s.items = orderedmap.New[ID, T]()
	for _, e := range items {
		if err := s.Insert(e); err != nil {
			s.items = orderedmap.New[ID, T]()
			return err
		}
	}
	return nil
}
