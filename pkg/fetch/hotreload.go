package fetch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/ecs"
	"github.com/brain2-labs/assetengine/pkg/lifecycle"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// HotReload wraps a filesystem-backed inner Engine and polls it for
// changes via fsnotify 
// ConfigWatcher : a watcher goroutine draining
// fsnotify events into a debounced, deduplicated "dirty" set that
// Maintain then drains on the database's own tick cadence, instead of
// reacting to every individual filesystem event inline.
type HotReload struct {
	inner   Engine
	root    string
	watcher *fsnotify.Watcher
	log     *zap.Logger

	pollEvery time.Duration

	mu    sync.Mutex
	dirty map[string]struct{}

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewHotReload watches root (a directory) and re-fetches any asset whose
// source file under root changes, polling the fsnotify event channel
// every pollEvery to coalesce bursts of writes into one reload.
func NewHotReload(inner Engine, root string, pollEvery time.Duration, log *zap.Logger) (*HotReload, error) {
	if log == nil {
		log = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(root); err != nil {
		watcher.Close()
		return nil, err
	}

	h := &HotReload{
		inner:     inner,
		root:      root,
		watcher:   watcher,
		log:       log,
		pollEvery: pollEvery,
		dirty:     make(map[string]struct{}),
		stopCh:    make(chan struct{}),
	}
	h.wg.Add(1)
	go h.watchLoop()
	return h, nil
}

func (h *HotReload) watchLoop() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.pollEvery)
	defer ticker.Stop()

	pending := make(map[string]struct{})
	for {
		select {
		case <-h.stopCh:
			return
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending[event.Name] = struct{}{}
			}
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.log.Warn("hot reload watcher error", zap.Error(err))
		case <-ticker.C:
			if len(pending) == 0 {
				continue
			}
			h.mu.Lock()
			for name := range pending {
				body := name
				if rel, err := filepath.Rel(h.root, name); err == nil {
					body = filepath.ToSlash(rel)
				}
				h.dirty[body] = struct{}{}
			}
			h.mu.Unlock()
			pending = make(map[string]struct{})
		}
	}
}

// LoadBytes delegates straight through to the inner engine.
func (h *HotReload) LoadBytes(path assetpath.Path) (Bundle, error) {
	return h.inner.LoadBytes(path)
}

// Maintain re-enters AwaitsResolution on every entity whose AssetPath
// names a file that changed since the last tick, clearing every other
// component but preserving AssetPathComponent itself.
func (h *HotReload) Maintain(s *ecs.Storage) error {
	h.mu.Lock()
	names := h.dirty
	h.dirty = make(map[string]struct{})
	h.mu.Unlock()

	if len(names) == 0 {
		return nil
	}

	assetPathType := ecs.TypeOf[lifecycle.AssetPathComponent]()
	for _, pair := range ecs.Query1[lifecycle.AssetPathComponent](s) {
		if _, changed := names[pair.A.Path.Body()]; !changed {
			continue
		}
		for _, t := range s.ComponentTypesOf(pair.Entity) {
			if t == assetPathType {
				continue
			}
			if err := s.RemoveDynamic(pair.Entity, t); err != nil {
				return err
			}
		}
		if err := ecs.Insert(s, pair.Entity, lifecycle.AwaitsResolution{}); err != nil {
			return err
		}
	}
	return nil
}

// Close stops the watcher goroutine and closes the underlying fsnotify
// watcher.
func (h *HotReload) Close() error {
	close(h.stopCh)
	h.wg.Wait()
	return h.watcher.Close()
}
