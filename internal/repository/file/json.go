package file

import (
	"bytes"
	"encoding/json"
)

// JSON stores the working set as an indented JSON array of entity objects.
// Appointment objects carry a nested patient object.
type JSON[T any] struct{}

// Encode writes items as an indented array; nil becomes [].
func (JSON[T]) Encode(items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Decode reads an array of entity objects. Empty input yields no entities.
func (JSON[T]) Decode(data []byte) ([]T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	if err := validateAll(items); err != nil {
		return nil, err
	}
	return items, nil
}
