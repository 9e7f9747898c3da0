package assetdb

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ConfigWatcher watches a YAML config file and hot-swaps its own live
// Config (read through Current) on change, notifying OnChange callbacks.
// It uses an fsnotify watcher on both the
// file and its directory (to catch atomic rename-based saves), a
// debounce timer, and a list of change callbacks.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	mu       sync.RWMutex
	current  Config
	onChange []func(Config)

	stopCh chan struct{}
}

// NewConfigWatcher loads path and starts watching it for changes.
func NewConfigWatcher(path string, logger *zap.Logger) (*ConfigWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("failed to watch config directory", zap.Error(err))
	}

	w := &ConfigWatcher{
		path:    path,
		watcher: watcher,
		logger:  logger,
		current: cfg,
		stopCh:  make(chan struct{}),
	}
	return w, nil
}

// Start begins the watch loop in a background goroutine.
func (w *ConfigWatcher) Start() {
	go w.watchLoop()
}

// Stop ends the watch loop and closes the underlying watcher.
func (w *ConfigWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *ConfigWatcher) watchLoop() {
	var debounce *time.Timer
	const debounceWindow = 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", zap.Error(err))
		}
	}
}

func (w *ConfigWatcher) reload() {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		w.logger.Error("failed to reload config, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()

	w.logger.Info("config reloaded", zap.String("path", w.path))

	w.mu.RLock()
	handlers := append([]func(Config){}, w.onChange...)
	w.mu.RUnlock()
	for _, h := range handlers {
		go h(cfg)
	}
}

// Current returns the live config.
func (w *ConfigWatcher) Current() Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked (in its own goroutine) whenever
// the config is successfully reloaded.
func (w *ConfigWatcher) OnChange(fn func(Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}
