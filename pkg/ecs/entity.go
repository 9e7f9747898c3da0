// Package ecs implements the entity-component store underlying the asset
// database: a schemaless, type-erased per-entity column store with
// queries, relations, and change detection.
package ecs

import "fmt"

// Entity is an opaque generational index. Two Entity values are the same
// row iff both fields match; a despawned slot's generation is bumped so a
// stale Entity never aliases the row that replaces it.
type Entity struct {
	index uint32
	gen   uint32
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity(%d:%d)", e.index, e.gen)
}

// IsZero reports whether e is the zero Entity (never a valid spawn result).
func (e Entity) IsZero() bool {
	return e.index == 0 && e.gen == 0
}
