// Package fetch implements the fetch contract and its composable
// wrappers: Deferred, Future, HotReload, Router, Rewrite, and Fallback
// delegate to inner Engines; Container adapts a ContainerPartialFetch
// backing store, and Collection serves an in-memory map directly.
package fetch

import (
	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/ecs"
)

// Bundle is what a successful LoadBytes call returns: a set of components
// to install on the resolving entity. It must include exactly one of
// lifecycle.BytesReadyToProcess or lifecycle.AwaitsDeferredJob, plus any
// number of source-metadata components (contract).
type Bundle struct {
	Components []any
}

// Engine is the fetch contract: produce a component bundle for a path, or
// fail.
type Engine interface {
	LoadBytes(path assetpath.Path) (Bundle, error)
}

// Maintainer is implemented by engines with outstanding asynchronous work
// to finalize each tick (Deferred, Future, HotReload). The core invokes
// Maintain during step 2 of every maintain tick.
type Maintainer interface {
	Maintain(s *ecs.Storage) error
}

// EngineFunc adapts a plain function to Engine.
type EngineFunc func(path assetpath.Path) (Bundle, error)

func (f EngineFunc) LoadBytes(path assetpath.Path) (Bundle, error) { return f(path) }
