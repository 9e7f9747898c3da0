package local_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/fetch/local"
	"github.com/brain2-labs/assetengine/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBytesReadsFileUnderRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hero.txt"), []byte("v1"), 0o644))

	e := local.New(dir)
	bundle, err := e.LoadBytes(assetpath.MustParse("text://hero.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), bundle.Components[0].(lifecycle.BytesReadyToProcess).Bytes)
}

func TestLoadBytesRejectsPathEscapingRoot(t *testing.T) {
	dir := t.TempDir()
	e := local.New(dir)
	_, err := e.LoadBytes(assetpath.MustParse("text://../../etc/passwd"))
	assert.Error(t, err)
}

func TestLoadBytesErrorsOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	e := local.New(dir)
	_, err := e.LoadBytes(assetpath.MustParse("text://missing.txt"))
	assert.Error(t, err)
}
