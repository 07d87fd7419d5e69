// Package dao defines the storage contract for scheduler records.
package dao

import "context"

// Service stores entities of type T addressed by handles of type K.
type Service[K comparable, T any] interface {
	// Save replaces the entity stored under its own handle.
	Save(ctx context.Context, t *T) error
	// Load returns the entity for id or ErrNotFound.
	Load(ctx context.Context, id K) (*T, error)
	// Delete removes id; stores that never forget return ErrImmutable.
	Delete(ctx context.Context, id K) error
	// List returns entities matching every parameter, in handle order.
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}

// Parameter narrows List results; an entity matches when its field equals
// any of Values.
type Parameter struct {
	Name   string
	Values []string
}

// NewParameter creates a List parameter, e.g. NewParameter("State", "RUNNING").
func NewParameter(name string, values ...string) *Parameter {
	return &Parameter{Name: name, Values: values}
}
