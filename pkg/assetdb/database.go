// Package assetdb is the asset engine façade: it owns the storage, the
// ordered fetch stack, the protocol registry, and the global event bus,
// and drives the life-cycle state machine one tick at a time via
// Maintain. The builder-style With* wiring and the background
// maintain-loop shape in cmd/assetenginectl follow a dependency-injection
// container and service entrypoint respectively.
package assetdb

import (
	"context"
	"sync"
	"time"

	"github.com/brain2-labs/assetengine/pkg/apperrors"
	"github.com/brain2-labs/assetengine/pkg/asset"
	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/ecs"
	"github.com/brain2-labs/assetengine/pkg/events"
	"github.com/brain2-labs/assetengine/pkg/fetch"
	"github.com/brain2-labs/assetengine/pkg/lifecycle"
	"github.com/brain2-labs/assetengine/pkg/protocol"
	"go.uber.org/zap"
)

// anchorMarker marks an entity as explicitly requested by a caller of
// Ensure (as opposed to spawned only as someone else's dependency): the
// GC pass never collects an anchored entity on refcount alone.
type anchorMarker struct{}

// Database is the asset engine façade.
type Database struct {
	mu sync.Mutex

	storage   *ecs.Storage
	stack     *fetch.Stack
	protocols *protocol.Registry
	bus       *events.Bus
	metrics   *Metrics
	log       *zap.Logger

	refcounts map[ecs.Entity]uint32
}

// New builds an empty Database. Use WithProtocol/WithFetch to configure
// it before the first Ensure/Maintain call.
func New(logger *zap.Logger, metrics *Metrics) *Database {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Database{
		storage:   ecs.New(),
		stack:     fetch.NewStack(),
		protocols: protocol.NewRegistry(),
		bus:       events.NewBus(logger),
		metrics:   metrics,
		log:       logger,
		refcounts: make(map[ecs.Entity]uint32),
	}
}

// WithProtocol registers p and returns the database for chaining.
func (db *Database) WithProtocol(p protocol.Protocol) *Database {
	db.protocols.Register(p)
	return db
}

// WithFetch pushes f onto the fetch stack and returns the database for
// chaining.
func (db *Database) WithFetch(f fetch.Engine) *Database {
	db.stack.Push(f)
	return db
}

// Storage exposes the underlying storage for asset.Access/AccessMut and
// direct queries.
func (db *Database) Storage() *ecs.Storage { return db.storage }

// Events exposes the global event bus for Subscribe/SubscribeEntity.
func (db *Database) Events() *events.Bus { return db.bus }

// Ensure implements asset.Resolver: if path already names a live entity,
// its handle is returned; otherwise a new entity is spawned with
// {AssetPath(path), AwaitsResolution, anchor} and returned. Never
// blocks.
func (db *Database) Ensure(path assetpath.Path) (asset.Handle, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	e, err := db.ensureLocked(path, true)
	if err != nil {
		return asset.Handle{}, err
	}
	return asset.Handle{Entity: e}, nil
}

// ensureLocked implements the shared Ensure path; anchored distinguishes
// a caller-initiated Ensure from a dependency spawned by a protocol (see
// anchorMarker).
func (db *Database) ensureLocked(path assetpath.Path, anchored bool) (ecs.Entity, error) {
	if e, ok := db.storage.LookupPath(path.Key()); ok {
		if anchored && !ecs.Has[anchorMarker](db.storage, e) {
			if err := ecs.Insert(db.storage, e, anchorMarker{}); err != nil {
				return ecs.Entity{}, err
			}
		}
		return e, nil
	}

	bundle := []any{lifecycle.AssetPathComponent{Path: path}, lifecycle.AwaitsResolution{}}
	if anchored {
		bundle = append(bundle, anchorMarker{})
	}
	e := db.storage.Spawn(bundle...)
	db.storage.SetPathIndex(path.Key(), e)
	return e, nil
}

// Find looks up path without spawning.
func (db *Database) Find(path assetpath.Path) (asset.Handle, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	e, ok := db.storage.LookupPath(path.Key())
	if !ok {
		return asset.Handle{}, false
	}
	return asset.Handle{Entity: e}, true
}

// Retain implements asset.RefCounter: increments h's refcount.
func (db *Database) Retain(h asset.Handle) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.refcounts[h.Entity]++
}

// Release implements asset.RefCounter: decrements h's refcount. Reaching
// zero does not despawn immediately; GC runs during the next Maintain
// tick and despawns the entity then.
func (db *Database) Release(h asset.Handle) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.refcounts[h.Entity] > 0 {
		db.refcounts[h.Entity]--
	}
}

// Unload despawns handle's entity immediately, removing its outgoing
// dependency edges. A direct child left with no other parent, zero
// refcount, and no anchor is despawned too, but only one level deep;
// full transitive collection is left to the next ref-count GC pass.
func (db *Database) Unload(h asset.Handle) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	children := db.storage.RelationsOutgoing(ecs.DependencyRelation, h.Entity)
	if err := db.storage.Despawn(h.Entity); err != nil {
		return err
	}
	delete(db.refcounts, h.Entity)
	db.bus.ClearEntity(h.Entity)
	db.bus.Emit(events.AssetUnloaded{Ent: h.Entity})
	db.metrics.entitiesDespawned.Inc()

	for _, child := range children {
		if len(db.storage.RelationsIncoming(ecs.DependencyRelation, child)) > 0 {
			continue
		}
		if db.refcounts[child] > 0 {
			continue
		}
		if ecs.Has[anchorMarker](db.storage, child) {
			continue
		}
		if err := db.storage.Despawn(child); err != nil {
			continue
		}
		delete(db.refcounts, child)
		db.bus.ClearEntity(child)
		db.bus.Emit(events.AssetUnloaded{Ent: child})
		db.metrics.entitiesDespawned.Inc()
	}
	return nil
}

// IsBusy reports whether any entity still carries a life-cycle marker.
func (db *Database) IsBusy() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.isBusyLocked()
}

func (db *Database) isBusyLocked() bool {
	return len(ecs.With1[lifecycle.AwaitsResolution](db.storage)) > 0 ||
		len(ecs.With1[lifecycle.AwaitsDeferredJob](db.storage)) > 0 ||
		len(ecs.With1[lifecycle.BytesReadyToProcess](db.storage)) > 0
}

// DoesAwaitDeferredJob reports whether any entity has an outstanding
// asynchronous fetch.
func (db *Database) DoesAwaitDeferredJob() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(ecs.With1[lifecycle.AwaitsDeferredJob](db.storage)) > 0
}

// Snapshot reports entity counts across life-cycle states, for
// observability.
type Snapshot struct {
	Total            int
	AwaitsResolution int
	AwaitsDeferred   int
	BytesReady       int
	Errored          int
}

// Snapshot returns a point-in-time count of entities in each state.
func (db *Database) Snapshot() Snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	return Snapshot{
		Total:            len(ecs.With1[lifecycle.AssetPathComponent](db.storage)),
		AwaitsResolution: len(ecs.With1[lifecycle.AwaitsResolution](db.storage)),
		AwaitsDeferred:   len(ecs.With1[lifecycle.AwaitsDeferredJob](db.storage)),
		BytesReady:       len(ecs.With1[lifecycle.BytesReadyToProcess](db.storage)),
		Errored:          len(ecs.With1[lifecycle.ErrorTag](db.storage)),
	}
}

// WaitUntilQuiescent repeatedly calls Maintain until IsBusy is false,
// sleeping pollEvery between ticks, bounded by ctx.
func WaitUntilQuiescent(ctx context.Context, db *Database, pollEvery time.Duration) error {
	ticker := time.NewTicker(pollEvery)
	defer ticker.Stop()

	for {
		if err := db.Maintain(); err != nil {
			return err
		}
		if !db.IsBusy() {
			return nil
		}
		select {
		case <-ctx.Done():
			return apperrors.NewQuiescenceTimeout()
		case <-ticker.C:
		}
	}
}

// Maintain runs one life-cycle tick: change-log reset, deferred drain
// (which also covers HotReload watchers, since both are Maintainer
// engines on the same stack and ordering within a pass is unspecified),
// resolution pass, processing pass, events (dispatched inline as each
// transition is observed), and GC.
func (db *Database) Maintain() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	timer := newTickTimer(db.metrics)
	defer timer.observe()

	db.storage.BeginTick()

	awaitingDeferred := ecs.With1[lifecycle.AwaitsDeferredJob](db.storage)
	anchored := ecs.With1[anchorMarker](db.storage)
	if err := db.stack.Maintain(db.storage); err != nil {
		return err
	}
	// A HotReload drain clears every component but the AssetPath; restore
	// the anchor so a reloaded top-level asset is not collected by GC.
	for _, e := range anchored {
		if db.storage.IsAlive(e) && !ecs.Has[anchorMarker](db.storage, e) {
			if err := ecs.Insert(db.storage, e, anchorMarker{}); err != nil {
				return err
			}
		}
	}
	db.reportDeferredCompletions(awaitingDeferred)

	if err := db.resolutionPass(); err != nil {
		return err
	}
	if err := db.processingPass(); err != nil {
		return err
	}
	db.gc()

	db.metrics.busyEntities.Set(float64(len(ecs.With1[lifecycle.AwaitsResolution](db.storage)) +
		len(ecs.With1[lifecycle.AwaitsDeferredJob](db.storage)) +
		len(ecs.With1[lifecycle.BytesReadyToProcess](db.storage))))
	db.metrics.deferredQueue.Set(float64(len(ecs.With1[lifecycle.AwaitsDeferredJob](db.storage))))
	return nil
}

func (db *Database) reportDeferredCompletions(before []ecs.Entity) {
	for _, e := range before {
		if !db.storage.IsAlive(e) {
			continue
		}
		if ecs.Has[lifecycle.BytesReadyToProcess](db.storage, e) {
			db.bus.Emit(events.BytesLoaded{Ent: e})
		} else if tag, err := ecs.Component[lifecycle.ErrorTag](db.storage, e); err == nil {
			db.bus.Emit(events.AssetError{Ent: e, Err: tag.Err})
			db.metrics.fetchErrors.Inc()
		}
	}
}

func (db *Database) resolutionPass() error {
	pending := ecs.With1[lifecycle.AwaitsResolution](db.storage)
	for _, e := range pending {
		pathComp, err := ecs.Component[lifecycle.AssetPathComponent](db.storage, e)
		if err != nil {
			continue
		}

		bundle, fetchErr := db.stack.LoadBytes(pathComp.Path)
		if err := ecs.Remove[lifecycle.AwaitsResolution](db.storage, e); err != nil {
			return err
		}

		if fetchErr != nil {
			if err := ecs.Insert(db.storage, e, lifecycle.ErrorTag{Err: fetchErr}); err != nil {
				return err
			}
			db.bus.Emit(events.AssetError{Ent: e, Err: fetchErr})
			db.metrics.fetchErrors.Inc()
			continue
		}

		deferred := false
		for _, comp := range bundle.Components {
			if err := db.storage.InsertDynamic(e, comp); err != nil {
				return err
			}
			if _, ok := comp.(lifecycle.AwaitsDeferredJob); ok {
				deferred = true
			}
		}
		if !deferred {
			db.bus.Emit(events.BytesLoaded{Ent: e})
		}
	}
	return nil
}

func (db *Database) processingPass() error {
	ready := ecs.With1[lifecycle.BytesReadyToProcess](db.storage)
	for _, e := range ready {
		pathComp, err := ecs.Component[lifecycle.AssetPathComponent](db.storage, e)
		if err != nil {
			continue
		}

		p, ok := db.protocols.Lookup(pathComp.Path.Protocol())
		if !ok {
			procErr := apperrors.NewNoProtocol(pathComp.Path.String(), pathComp.Path.Protocol())
			if err := ecs.Insert(db.storage, e, lifecycle.ErrorTag{Err: procErr}); err != nil {
				return err
			}
			db.bus.Emit(events.AssetError{Ent: e, Err: procErr})
			db.metrics.protocolErrors.Inc()
			continue
		}

		ctx := &protocol.Context{
			Storage: db.storage,
			Ensure: func(raw string) (ecs.Entity, error) {
				parsed, err := assetpath.Parse(raw)
				if err != nil {
					return ecs.Entity{}, err
				}
				return db.ensureLocked(parsed, false)
			},
		}

		var procErr error
		switch impl := p.(type) {
		case protocol.ByteProcessor:
			bytes, bErr := ecs.Component[lifecycle.BytesReadyToProcess](db.storage, e)
			if bErr != nil {
				continue
			}
			procErr = impl.ProcessBytes(ctx, e, bytes.Bytes)
		case protocol.AssetProcessor:
			procErr = impl.ProcessAsset(ctx, e)
		}

		if procErr != nil {
			wrapped := apperrors.NewProtocolFailed(pathComp.Path.String(), procErr)
			if err := ecs.Insert(db.storage, e, lifecycle.ErrorTag{Err: wrapped}); err != nil {
				return err
			}
			db.bus.Emit(events.AssetError{Ent: e, Err: wrapped})
			db.metrics.protocolErrors.Inc()
			continue
		}

		if err := ecs.Remove[lifecycle.BytesReadyToProcess](db.storage, e); err != nil {
			return err
		}
		db.bus.Emit(events.AssetReady{Ent: e})
	}
	return nil
}

func (db *Database) gc() {
	for {
		despawnedAny := false
		for _, e := range ecs.With1[lifecycle.AssetPathComponent](db.storage) {
			if db.refcounts[e] > 0 {
				continue
			}
			if len(db.storage.RelationsIncoming(ecs.DependencyRelation, e)) > 0 {
				continue
			}
			if ecs.Has[anchorMarker](db.storage, e) {
				continue
			}
			if err := db.storage.Despawn(e); err != nil {
				db.log.Warn("gc: despawn failed", zap.String("entity", e.String()), zap.Error(err))
				continue
			}
			delete(db.refcounts, e)
			db.bus.ClearEntity(e)
			db.bus.Emit(events.AssetUnloaded{Ent: e})
			db.metrics.entitiesDespawned.Inc()
			despawnedAny = true
		}
		if !despawnedAny {
			return
		}
	}
}
