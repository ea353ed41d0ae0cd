package ecs

import (
	"iter"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World bundles the entity registry, the component store and the engine
// context. It carries no behaviour of its own beyond forwarding.
type World struct {
	registry *Registry
	store    *Store
	ctx      *EngineContext
}

// NewWorld creates an empty world. A nil ctx gets a fresh EngineContext.
func NewWorld(ctx *EngineContext) *World {
	if ctx == nil {
		ctx = NewEngineContext()
	}
	registry := NewRegistry()
	return &World{
		registry: registry,
		store:    NewStore(registry),
		ctx:      ctx,
	}
}

func (w *World) Registry() *Registry      { return w.registry }
func (w *World) Store() *Store            { return w.store }
func (w *World) Context() *EngineContext  { return w.ctx }
func (w *World) Logger() zerolog.Logger   { return w.ctx.Logger() }
func (w *World) Create() EntityId         { return w.registry.Create() }
func (w *World) CreateWith(id EntityId)   { w.registry.CreateWith(id) }
func (w *World) Destroy(id EntityId) bool { return w.registry.Destroy(id, w.store) }

// Spawn creates an entity and attaches each of components to it. On error the
// entity is destroyed again.
func (w *World) Spawn(components ...any) (EntityId, error) {
	id := w.registry.Create()
	for _, c := range components {
		if c == nil {
			w.registry.Destroy(id, w.store)
			return 0, eris.Wrap(ErrKindMismatch, "spawn with nil component")
		}
		if err := w.store.Attach(id, kindOfValue(c), c); err != nil {
			w.registry.Destroy(id, w.store)
			return 0, err
		}
	}
	return id, nil
}

func (w *World) Attach(id EntityId, kind Kind, value any) error {
	return w.store.Attach(id, kind, value)
}

func (w *World) Detach(id EntityId, kind Kind) (any, bool) {
	return w.store.Detach(id, kind)
}

func (w *World) Has(id EntityId, kind Kind) bool {
	return w.store.Has(id, kind)
}

func (w *World) Get(id EntityId, kind Kind) (*Handle, bool) {
	return w.store.Get(id, kind)
}

func (w *World) GetMut(id EntityId, kind Kind) (*Handle, bool) {
	return w.store.GetMut(id, kind)
}

func (w *World) Query(access ...Access) iter.Seq2[EntityId, *Row] {
	return w.store.Query(access...)
}

func (w *World) Lookup(id EntityId, access ...Access) (*Row, bool) {
	return w.store.Lookup(id, access...)
}

func (w *World) KindsOf(id EntityId) (*KindSet, bool) {
	return w.registry.KindsOf(id)
}

// Entities iterates a snapshot of the live entity ids.
func (w *World) Entities() iter.Seq[EntityId] {
	return w.registry.Iter()
}

func (w *World) Ref(id EntityId) (EntityRef, bool) {
	return w.registry.Ref(id)
}

func (w *World) Resolve(ref EntityRef) (EntityId, bool) {
	return w.registry.Resolve(ref)
}

// Stats gathers entity and component counts.
func (w *World) Stats() StoreStats {
	return w.store.CollectStats()
}
