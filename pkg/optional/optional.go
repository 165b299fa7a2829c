// Package optional provides a JSON field wrapper that distinguishes
// "absent from the payload" from "explicitly set to null". PATCH payloads
// need this distinction: absent means leave unchanged, null means clear.
package optional

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state JSON value: unset, null, or a concrete value.
// The zero Field is unset.
type Field[T any] struct {
	value   T
	set     bool
	present bool // false when the payload carried an explicit null
}

// Of returns a Field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{value: v, set: true, present: true}
}

// Null returns a Field that was explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{set: true}
}

// IsSet reports whether the field appeared in the payload at all.
func (f Field[T]) IsSet() bool { return f.set }

// IsNull reports whether the field was present but explicitly null.
func (f Field[T]) IsNull() bool { return f.set && !f.present }

// Get returns the value and whether a non-null value is held.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set && f.present
}

// Value returns the held value, or the zero value when unset or null.
func (f Field[T]) Value() T { return f.value }

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if bytes.Equal(data, []byte("null")) {
		f.present = false
		var zero T
		f.value = zero
		return nil
	}
	if err := json.Unmarshal(data, &f.value); err != nil {
		return err
	}
	f.present = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set || !f.present {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
