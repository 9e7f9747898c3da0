package fetch

import (
	"context"
	"fmt"
	"sync"

	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/ecs"
	"github.com/brain2-labs/assetengine/pkg/lifecycle"
	"github.com/google/uuid"
)

// deferredTask is one unit of work handed to the worker pool: run the
// inner engine's LoadBytes off the maintain thread and stash the result
// under token for the next Maintain call to pick up.
type deferredTask struct {
	token string
	path  assetpath.Path
}

// Deferred wraps an inner Engine so LoadBytes returns immediately with an
// AwaitsDeferredJob marker, while the real fetch runs on a bounded worker
// pool AdaptiveWorkerPool
// (pool_manager.go / adaptive_pool.go): a fixed goroutine pool draining a
// task channel, each worker recovering from panics so one bad fetch never
// takes the pool down.
type Deferred struct {
	inner Engine

	tasks  chan deferredTask
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	results map[string]deferredResult
}

type deferredResult struct {
	bundle Bundle
	err    error
}

// NewDeferred starts workers workers draining jobs against inner.
func NewDeferred(inner Engine, workers int) *Deferred {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Deferred{
		inner:   inner,
		tasks:   make(chan deferredTask, workers*4),
		ctx:     ctx,
		cancel:  cancel,
		results: make(map[string]deferredResult),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Deferred) worker() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case job, ok := <-d.tasks:
			if !ok {
				return
			}
			d.run(job)
		}
	}
}

func (d *Deferred) run(job deferredTask) {
	defer func() {
		if r := recover(); r != nil {
			d.store(job.token, deferredResult{err: fmt.Errorf("deferred fetch worker panic: %v", r)})
		}
	}()
	bundle, err := d.inner.LoadBytes(job.path)
	d.store(job.token, deferredResult{bundle: bundle, err: err})
}

func (d *Deferred) store(token string, res deferredResult) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results[token] = res
}

func (d *Deferred) take(token string) (deferredResult, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	res, ok := d.results[token]
	if ok {
		delete(d.results, token)
	}
	return res, ok
}

// LoadBytes enqueues the fetch and returns an AwaitsDeferredJob marker
// immediately; the caller is responsible for driving Maintain each tick.
func (d *Deferred) LoadBytes(path assetpath.Path) (Bundle, error) {
	token := uuid.NewString()
	select {
	case d.tasks <- deferredTask{token: token, path: path}:
	case <-d.ctx.Done():
		return Bundle{}, context.Canceled
	}
	return Bundle{Components: []any{lifecycle.AwaitsDeferredJob{Token: token}}}, nil
}

// Maintain installs the bundle (or an ErrorTag) on every entity whose
// deferred job has completed since the last tick.
func (d *Deferred) Maintain(s *ecs.Storage) error {
	for _, pair := range ecs.Query1[lifecycle.AwaitsDeferredJob](s) {
		res, ready := d.take(pair.A.Token)
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

// Close stops the worker pool; in-flight jobs are abandoned.
func (d *Deferred) Close() {
	d.cancel()
	close(d.tasks)
	d.wg.Wait()
}

