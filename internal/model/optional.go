package model

import (
	"bytes"
	"encoding/json"
)

// Optional is a tri-state field: absent (Set=false), null (Set=true, Valid=false)
// or a value (Set=true, Valid=true).
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// Ptr returns nil for null or absent, otherwise a pointer to a copy of the value.
func (o Optional[T]) Ptr() *T {
	if !o.Set || !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
