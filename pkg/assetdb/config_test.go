package assetdb_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brain2-labs/assetengine/pkg/assetdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, assetdb.DefaultConfig().Validate())
}

func TestValidateRejectsZeroDeferredWorkers(t *testing.T) {
	cfg := assetdb.DefaultConfig()
	cfg.DeferredWorkers = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigReadsYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assetengine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll_interval: 500ms\ndeferred_workers: 8\n"), 0o644))

	cfg, err := assetdb.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 8, cfg.DeferredWorkers)
}

func TestLoadConfigErrorsOnMissingFile(t *testing.T) {
	_, err := assetdb.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assetengine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll_interval: 100ms\ndeferred_workers: 2\n"), 0o644))

	w, err := assetdb.NewConfigWatcher(path, nil)
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	changed := make(chan assetdb.Config, 1)
	w.OnChange(func(cfg assetdb.Config) { changed <- cfg })

	require.NoError(t, os.WriteFile(path, []byte("poll_interval: 250ms\ndeferred_workers: 4\n"), 0o644))

	select {
	case cfg := <-changed:
		assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
		assert.Equal(t, 4, cfg.DeferredWorkers)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
	assert.Equal(t, 250*time.Millisecond, w.Current().PollInterval)
}
