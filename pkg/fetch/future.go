package fetch

import (
	"fmt"
	"sync"

	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/ecs"
	"github.com/brain2-labs/assetengine/pkg/lifecycle"
	"github.com/google/uuid"
)

// Future wraps an inner Engine so every fetch runs on its own goroutine
// instead of a bounded pool : unlike Deferred, there is no
// queue depth limit and no shared worker count — suited to engines whose
// own client already bounds concurrency (an HTTP client, an SDK), where
// adding a second layer of queueing would only add latency.
type Future struct {
	inner Engine

	mu      sync.Mutex
	results map[string]deferredResult
}

// NewFuture wraps inner.
func NewFuture(inner Engine) *Future {
	return &Future{inner: inner, results: make(map[string]deferredResult)}
}

// LoadBytes spawns a goroutine for the fetch and returns immediately.
func (f *Future) LoadBytes(path assetpath.Path) (Bundle, error) {
	token := uuid.NewString()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.store(token, deferredResult{err: fmt.Errorf("future fetch panic: %v", r)})
			}
		}()
		bundle, err := f.inner.LoadBytes(path)
		f.store(token, deferredResult{bundle: bundle, err: err})
	}()
	return Bundle{Components: []any{lifecycle.AwaitsDeferredJob{Token: token}}}, nil
}

func (f *Future) store(token string, res deferredResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[token] = res
}

func (f *Future) take(token string) (deferredResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.results[token]
	if ok {
		delete(f.results, token)
	}
	return res, ok
}

// Maintain installs results from completed futures, same contract as
// Deferred.Maintain.
func (f *Future) Maintain(s *ecs.Storage) error {
	for _, pair := range ecs.Query1[lifecycle.AwaitsDeferredJob](s) {
		res, ready := f.take(pair.A.Token)
		if !ready {
			continue
		}
		if err := ecs.Remove[lifecycle.AwaitsDeferredJob](s, pair.Entity); err != nil {
			return err
		}
		if res.err != nil {
			if ierr := ecs.Insert(s, pair.Entity, lifecycle.ErrorTag{Err: res.err}); ierr != nil {
				return ierr
			}
			continue
		}
		for _, comp := range res.bundle.Components {
			if err := s.InsertDynamic(pair.Entity, comp); err != nil {
				return err
			}
		}
	}
	return nil
}
