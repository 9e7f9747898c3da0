// Package protocol implements the scheme-dispatched decoder contract: a
// protocol turns raw bytes into decoded components on an entity and may
// spawn dependency entities. The registry follows the same shape as a
// command-dispatch table, generalized from a command-type key to a
// scheme key.
package protocol

import "github.com/brain2-labs/assetengine/pkg/ecs"

// Context is handed to a protocol during the processing pass. It exposes
// just enough of the database to satisfy the dependency-scheduling
// obligation without the protocol package importing the database
// package (which imports protocol).
type Context struct {
	Storage *ecs.Storage
	// Ensure resolves a child path to an entity, spawning it with
	// AwaitsResolution if it doesn't already exist (ensure).
	Ensure func(path string) (ecs.Entity, error)
}

// Depend records a dependency edge from parent to child.
func (c *Context) Depend(parent, child ecs.Entity) error {
	return c.Storage.Relate(ecs.DependencyRelation, parent, child)
}

// EnsureDependency is the common case: resolve childPath and relate it
// to parent in one call.
func (c *Context) EnsureDependency(parent ecs.Entity, childPath string) (ecs.Entity, error) {
	child, err := c.Ensure(childPath)
	if err != nil {
		return ecs.Entity{}, err
	}
	if err := c.Depend(parent, child); err != nil {
		return ecs.Entity{}, err
	}
	return child, nil
}

// Protocol identifies the scheme it handles. Implement either
// ByteProcessor or AssetProcessor (or both) to supply the actual decode
// step.
type Protocol interface {
	Name() string
}

// ByteProcessor decodes raw bytes directly (the common case).
type ByteProcessor interface {
	Protocol
	ProcessBytes(ctx *Context, e ecs.Entity, bytes []byte) error
}

// AssetProcessor is free to inspect any component already on e (e.g. a
// Group protocol inspecting prior decode state on reprocessing).
type AssetProcessor interface {
	Protocol
	ProcessAsset(ctx *Context, e ecs.Entity) error
}

// Registry maps scheme -> Protocol. Registering twice under the same
// scheme replaces the previous handler (last-wins).
type Registry struct {
	byScheme map[string]Protocol
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byScheme: make(map[string]Protocol)}
}

// Register installs p under p.Name, replacing any previous handler for
// that scheme.
func (r *Registry) Register(p Protocol) {
	r.byScheme[p.Name()] = p
}

// Lookup returns the protocol registered for scheme, if any.
func (r *Registry) Lookup(scheme string) (Protocol, bool) {
	p, ok := r.byScheme[scheme]
	return p, ok
}
