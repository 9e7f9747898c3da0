// Package events implements the per-entity and global listener bus:
// bytes-loaded, asset-ready, asset-error, and asset-unloaded transitions
// are dispatched to every matching listener in priority order. The
// priority-sorted handler lists and zap structured logging of dispatch
// follow the shape of a typical handler registry.
package events

import (
	"sort"
	"sync"

	"github.com/brain2-labs/assetengine/pkg/ecs"
	"go.uber.org/zap"
)

// Event is implemented by every asset life-cycle transition.
type Event interface {
	Entity() ecs.Entity
}

// BytesLoaded fires once a fetch engine has produced bytes for an entity
// (end of resolution pass, success case).
type BytesLoaded struct{ Ent ecs.Entity }

func (e BytesLoaded) Entity() ecs.Entity { return e.Ent }

// AssetReady fires once a protocol has successfully decoded an entity's
// bytes (end of processing pass, success case).
type AssetReady struct{ Ent ecs.Entity }

func (e AssetReady) Entity() ecs.Entity { return e.Ent }

// AssetError fires when resolution or processing fails for an entity.
type AssetError struct {
	Ent ecs.Entity
	Err error
}

func (e AssetError) Entity() ecs.Entity { return e.Ent }

// AssetUnloaded fires when Unload or refcount GC despawns an entity.
type AssetUnloaded struct{ Ent ecs.Entity }

func (e AssetUnloaded) Entity() ecs.Entity { return e.Ent }

// Listener handles one event.
type Listener func(Event)

type registered struct {
	id       uint64
	priority int
	fn       Listener
}

// Bus is the global + per-entity listener registry.
type Bus struct {
	mu        sync.RWMutex
	nextID    uint64
	global    []registered
	perEntity map[ecs.Entity][]registered
	logger    *zap.Logger
}

// NewBus creates an empty bus. logger may be nil, in which case
// zap.NewNop is used.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		perEntity: make(map[ecs.Entity][]registered),
		logger:    logger,
	}
}

// Subscribe registers fn for every event regardless of entity. Lower
// priority values run first, ties broken by registration order. The
// returned func removes the listener.
func (b *Bus) Subscribe(priority int, fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.global = append(b.global, registered{id: id, priority: priority, fn: fn})
	sortByPriority(b.global)

	return func() { b.removeGlobal(id) }
}

// SubscribeEntity registers fn for events concerning only e.
func (b *Bus) SubscribeEntity(e ecs.Entity, priority int, fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.perEntity[e] = append(b.perEntity[e], registered{id: id, priority: priority, fn: fn})
	sortByPriority(b.perEntity[e])

	return func() { b.removeEntity(e, id) }
}

// Emit dispatches ev to every global listener, then every listener
// subscribed to ev.Entity, in priority order.
func (b *Bus) Emit(ev Event) {
	b.mu.RLock()
	global := append([]registered(nil), b.global...)
	local := append([]registered(nil), b.perEntity[ev.Entity()]...)
	b.mu.RUnlock()

	for _, r := range global {
		r.fn(ev)
	}
	for _, r := range local {
		r.fn(ev)
	}

	b.logger.Debug("dispatched asset event",
		zap.String("type", eventTypeName(ev)),
		zap.String("entity", ev.Entity().String()),
		zap.Int("globalListeners", len(global)),
		zap.Int("entityListeners", len(local)),
	)
}

// ClearEntity drops every per-entity listener registered for e. The
// database calls this on despawn so the listener map doesn't grow
// unbounded across the life of a long-running process.
func (b *Bus) ClearEntity(e ecs.Entity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.perEntity, e)
}

func (b *Bus) removeGlobal(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.global = removeID(b.global, id)
}

func (b *Bus) removeEntity(e ecs.Entity, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.perEntity[e] = removeID(b.perEntity[e], id)
	if len(b.perEntity[e]) == 0 {
		delete(b.perEntity, e)
	}
}

func removeID(list []registered, id uint64) []registered {
	out := list[:0]
	for _, r := range list {
		if r.id != id {
			out = append(out, r)
		}
	}
	return out
}

func sortByPriority(list []registered) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].priority < list[j].priority
	})
}

func eventTypeName(ev Event) string {
	switch ev.(type) {
	case BytesLoaded:
		return "BytesLoaded"
	case AssetReady:
		return "AssetReady"
	case AssetError:
		return "AssetError"
	case AssetUnloaded:
		return "AssetUnloaded"
	default:
		return "Unknown"
	}
}
