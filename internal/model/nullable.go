package model

import (
	"bytes"
	"encoding/json"
)

// Nullable is a field of a partial update: unset, explicit null, or a value.
// The zero value is unset and is skipped by encoding/json with omitzero.
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Valid: true, Value: v}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n Nullable[T]) IsZero() bool { return !n.Set }

// Apply returns the updated value of a nullable column given its current value.
func (n Nullable[T]) Apply(current *T) *T {
	if !n.Set {
		return current
	}
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}
