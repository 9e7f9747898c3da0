// Package asset provides typed handles and references over entities in
// the storage: Handle names an entity, Ref caches a lazily-resolved
// Handle behind a path, and SmartRef ref-counts a Handle for automatic
// despawn.
package asset

import (
	"github.com/brain2-labs/assetengine/pkg/ecs"
)

// Handle wraps an entity. It carries no storage reference itself so it
// stays trivially copyable and serializable; every operation takes the
// storage explicitly.
type Handle struct {
	Entity ecs.Entity
}

// Access reads the T component from h's entity.
func Access[T any](s *ecs.Storage, h Handle) (T, error) {
	return ecs.Component[T](s, h.Entity)
}

// AccessMut loads the T component, applies fn, and writes the result
// back (see ecs.Mutate for why this is read-modify-write, not a borrow).
func AccessMut[T any](s *ecs.Storage, h Handle, fn func(*T)) error {
	return ecs.Mutate(s, h.Entity, fn)
}

// Ensure inserts a default T component on h's entity if one is not
// already present, and returns the (possibly newly installed) value.
func Ensure[T any](s *ecs.Storage, h Handle, def func() T) (T, error) {
	if v, err := ecs.Component[T](s, h.Entity); err == nil {
		return v, nil
	}
	v := def()
	if err := ecs.Insert(s, h.Entity, v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Dependencies returns the handles of h's entity's dependency children
// (the AssetDependency relation).
func (h Handle) Dependencies(s *ecs.Storage) []Handle {
	children := s.RelationsOutgoing(ecs.DependencyRelation, h.Entity)
	out := make([]Handle, len(children))
	for i, c := range children {
		out[i] = Handle{Entity: c}
	}
	return out
}

// Dependents returns the handles of entities that depend on h's entity.
func (h Handle) Dependents(s *ecs.Storage) []Handle {
	parents := s.RelationsIncoming(ecs.DependencyRelation, h.Entity)
	out := make([]Handle, len(parents))
	for i, p := range parents {
		out[i] = Handle{Entity: p}
	}
	return out
}
