package fetch

import (
	"fmt"

	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/lifecycle"
)

// Collection is a plain path→bytes mapping that satisfies Engine
// directly — useful for embedded data baked into the binary.
type Collection map[string][]byte

// LoadBytes looks up path.Body (the protocol is not consulted; a
// Collection is typically pushed behind a Router keyed on scheme).
func (c Collection) LoadBytes(path assetpath.Path) (Bundle, error) {
	bytes, ok := c[path.Body()]
	if !ok {
		return Bundle{}, fmt.Errorf("collection: no entry for %q", path.Body())
	}
	return Bundle{Components: []any{lifecycle.BytesReadyToProcess{Bytes: bytes}}}, nil
}
