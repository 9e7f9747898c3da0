// Package local implements a filesystem-backed fetch.Engine: the asset
// path body is joined onto a root directory and read with os.ReadFile,
// the base case builds every other wrapper on top of (scenarios 1
// and 6 in the worked examples both start from a file root).
package local

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/fetch"
	"github.com/brain2-labs/assetengine/pkg/lifecycle"
)

// Engine reads asset bytes from files under Root.
type Engine struct {
	Root string
}

// New returns an Engine rooted at root.
func New(root string) *Engine {
	return &Engine{Root: root}
}

// LoadBytes joins path.Body onto Root and reads the file, refusing any
// body that would escape Root via ".." traversal.
func (e *Engine) LoadBytes(path assetpath.Path) (fetch.Bundle, error) {
	full, err := e.resolve(path.Body())
	if err != nil {
		return fetch.Bundle{}, err
	}

	bytes, err := os.ReadFile(full)
	if err != nil {
		return fetch.Bundle{}, fmt.Errorf("local fetch: read %s: %w", full, err)
	}

	return fetch.Bundle{Components: []any{
		lifecycle.BytesReadyToProcess{Bytes: bytes},
		SourceFile{AbsolutePath: full},
	}}, nil
}

func (e *Engine) resolve(body string) (string, error) {
	full := filepath.Join(e.Root, filepath.FromSlash(body))
	rel, err := filepath.Rel(e.Root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("local fetch: %q escapes root %q", body, e.Root)
	}
	return full, nil
}

// SourceFile is the standard source-metadata component local installs
// alongside BytesReadyToProcess.
type SourceFile struct {
	AbsolutePath string
}
