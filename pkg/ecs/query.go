package ecs

import "reflect"

// TypeOf exposes the reflect.Type used as T's column key, for callers
// building without-filters across package boundaries (e.g. marker
// components defined in the lifecycle package).
func TypeOf[T any]() reflect.Type {
	return typeOf[T]()
}

// QueryEntities returns every live entity carrying all of with and none of
// without. Iteration order is unspecified (: "Ordering within a pass is
// unspecified"). This walks the smallest candidate column rather than every
// live entity; a column/archetype layout (Design Notes ) would improve
// this further, but a plain table scan over the narrowest type is enough
// for the entity counts this engine expects to manage.
func (s *Storage) QueryEntities(with []reflect.Type, without []reflect.Type) []Entity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(with) == 0 {
		return s.allAliveLocked()
	}

	smallest := with[0]
	for _, t := range with[1:] {
		if len(s.components[t]) < len(s.components[smallest]) {
			smallest = t
		}
	}

	var out []Entity
	for e := range s.components[smallest] {
		if !s.isAliveLocked(e) {
			continue
		}
		if s.matchesLocked(e, with, without) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Storage) matchesLocked(e Entity, with, without []reflect.Type) bool {
	for _, t := range with {
		if _, ok := s.components[t][e]; !ok {
			return false
		}
	}
	for _, t := range without {
		if _, ok := s.components[t][e]; ok {
			return false
		}
	}
	return true
}

func (s *Storage) allAliveLocked() []Entity {
	out := make([]Entity, 0, len(s.alive))
	for i, alive := range s.alive {
		if alive {
			out = append(out, Entity{index: uint32(i), gen: s.generations[i]})
		}
	}
	return out
}

// With1 queries for all entities carrying a T component.
func With1[T any](s *Storage) []Entity {
	return s.QueryEntities([]reflect.Type{typeOf[T]()}, nil)
}

// Pair bundles an entity with one of its components, returned by the
// Query2 family so callers don't need a second lookup.
type Pair[A any] struct {
	Entity Entity
	A      A
}

// Query1 returns every (entity, A) pair, optionally excluding entities
// that carry any of the without marker types.
func Query1[A any](s *Storage, without ...reflect.Type) []Pair[A] {
	entities := s.QueryEntities([]reflect.Type{typeOf[A]()}, without)
	out := make([]Pair[A], 0, len(entities))
	for _, e := range entities {
		a, err := Component[A](s, e)
		if err != nil {
			continue
		}
		out = append(out, Pair[A]{Entity: e, A: a})
	}
	return out
}

// Pair2 bundles an entity with two of its components.
type Pair2[A, B any] struct {
	Entity Entity
	A      A
	B      B
}

// Query2 returns every (entity, A, B) triple.
func Query2[A, B any](s *Storage, without ...reflect.Type) []Pair2[A, B] {
	entities := s.QueryEntities([]reflect.Type{typeOf[A](), typeOf[B]()}, without)
	out := make([]Pair2[A, B], 0, len(entities))
	for _, e := range entities {
		a, err1 := Component[A](s, e)
		b, err2 := Component[B](s, e)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, Pair2[A, B]{Entity: e, A: a, B: b})
	}
	return out
}
