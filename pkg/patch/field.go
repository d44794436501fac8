// Package patch models partial updates decoded from JSON, where a missing key
// and an explicit null mean different things.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is one optionally-present value of a patch document.
//
//	key absent  -> Set=false
//	key: null   -> Set=true, Null=true
//	key: value  -> Set=true, Value=value
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a Field carrying v.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field that clears its column.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Null = true
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns nil for an absent or null field, otherwise a pointer to Value.
func (f Field[T]) Ptr() *T {
	if !f.Set || f.Null {
		return nil
	}
	v := f.Value
	return &v
}

// Put records f under column in changes when the field was present.
func Put[T any](changes map[string]interface{}, column string, f Field[T]) {
	if !f.Set {
		return
	}
	if f.Null {
		changes[column] = nil
		return
	}
	changes[column] = f.Value
}
