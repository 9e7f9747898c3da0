package fetch

import (
	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/lifecycle"
)

// ContainerPartialFetch is the narrow contract a backing store
// implements to be adapted into a fetch Engine by Container: given a
// path, return the raw bytes for it. Concrete
// backings — zip archive, embedded KV database, object store — live
// outside this package; see pkg/fetch/backing for two examples.
type ContainerPartialFetch interface {
	LoadBytes(path assetpath.Path) ([]byte, error)
}

// Container adapts a single ContainerPartialFetch backing store into a
// full Engine.
type Container struct {
	backing ContainerPartialFetch
}

// NewContainer wraps backing as an Engine.
func NewContainer(backing ContainerPartialFetch) *Container {
	return &Container{backing: backing}
}

func (c *Container) LoadBytes(path assetpath.Path) (Bundle, error) {
	bytes, err := c.backing.LoadBytes(path)
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{Components: []any{lifecycle.BytesReadyToProcess{Bytes: bytes}}}, nil
}
