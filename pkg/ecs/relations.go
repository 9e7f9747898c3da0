package ecs

import "github.com/brain2-labs/assetengine/pkg/apperrors"

// DependencyRelation is the relation kind under which the asset database
// stores parent -> child dependency edges.
const DependencyRelation RelationKind = "asset_dependency"

// Relate creates a directed edge parent -> child under kind (e.g. the
// dependency relation, "Dependency relation"). Both entities must
// already exist.
func (s *Storage) Relate(kind RelationKind, parent, child Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isAliveLocked(parent) {
		return apperrors.NewEntityMissing(parent.String())
	}
	if !s.isAliveLocked(child) {
		return apperrors.NewEntityMissing(child.String())
	}

	if s.relOut[kind] == nil {
		s.relOut[kind] = make(map[Entity]map[Entity]struct{})
	}
	if s.relOut[kind][parent] == nil {
		s.relOut[kind][parent] = make(map[Entity]struct{})
	}
	s.relOut[kind][parent][child] = struct{}{}

	if s.relIn[kind] == nil {
		s.relIn[kind] = make(map[Entity]map[Entity]struct{})
	}
	if s.relIn[kind][child] == nil {
		s.relIn[kind][child] = make(map[Entity]struct{})
	}
	s.relIn[kind][child][parent] = struct{}{}
	return nil
}

// Unrelate removes a single parent -> child edge under kind, if present.
func (s *Storage) Unrelate(kind RelationKind, parent, child Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.relOut[kind][parent], child)
	delete(s.relIn[kind][child], parent)
}

// RelationsOutgoing returns the children related to parent under kind.
func (s *Storage) RelationsOutgoing(kind RelationKind, parent Entity) []Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	children := s.relOut[kind][parent]
	out := make([]Entity, 0, len(children))
	for c := range children {
		out = append(out, c)
	}
	return out
}

// RelationsIncoming returns the parents related to child under kind.
func (s *Storage) RelationsIncoming(kind RelationKind, child Entity) []Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	parents := s.relIn[kind][child]
	out := make([]Entity, 0, len(parents))
	for p := range parents {
		out = append(out, p)
	}
	return out
}
