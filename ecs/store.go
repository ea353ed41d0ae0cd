package ecs

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/sasha-s/go-deadlock"
)

type cellKey struct {
	id   EntityId
	kind Kind
}

// cell holds one component value behind its own lock. value is always a
// pointer to the component type. A cell is dead once it has been removed from
// the store; handles acquired on a dead cell report the component as absent.
type cell struct {
	mu    deadlock.RWMutex
	value any
	dead  atomic.Bool
}

// Store owns every component value, keyed by entity id and kind. Each value
// is guarded by its own reader/writer lock so unrelated components can be
// accessed concurrently.
//
// Structural changes (attach, detach, destroy) lock the registry and then the
// store, in that order, so the registry's kind sets and the store's cells are
// always observed together.
type Store struct {
	registry *Registry

	mu    sync.RWMutex
	cells map[cellKey]*cell
}

// NewStore creates a component store bound to registry. A registry serves
// one store; binding a second one panics.
func NewStore(registry *Registry) *Store {
	s := &Store{
		registry: registry,
		cells:    make(map[cellKey]*cell),
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if registry.store != nil {
		panic("ecs: registry already has a store")
	}
	registry.store = s
	return s
}

// Registry returns the entity registry the store is bound to.
func (s *Store) Registry() *Registry {
	return s.registry
}

// Attach inserts or replaces the component value for (id, kind). value may be
// a component or a pointer to one; the store keeps its own copy. Replacing an
// existing value waits for outstanding handles on that key to be released.
func (s *Store) Attach(id EntityId, kind Kind, value any) error {
	boxed, err := box(kind, value)
	if err != nil {
		return err
	}

	for {
		c, created, err := s.insertCell(id, kind, boxed)
		if err != nil {
			return err
		}
		if created {
			return nil
		}

		c.mu.Lock()
		if c.dead.Load() {
			// Detached or destroyed while we waited; start over.
			c.mu.Unlock()
			continue
		}
		c.value = boxed
		c.mu.Unlock()
		return nil
	}
}

// insertCell publishes a new cell for (id, kind) holding boxed, or returns
// the existing cell for the caller to update under its lock.
func (s *Store) insertCell(id EntityId, kind Kind, boxed any) (*cell, bool, error) {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()

	set, ok := s.registry.entities.Get(id)
	if !ok {
		return nil, false, eris.Wrapf(ErrEntityNotFound, "attach %s to entity %d", kind, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := cellKey{id: id, kind: kind}
	if c, ok := s.cells[key]; ok {
		set.insert(kind)
		return c, false, nil
	}

	c := &cell{value: boxed}
	s.cells[key] = c
	set.insert(kind)
	return c, true, nil
}

// Detach removes and returns the component for (id, kind). It waits for
// outstanding handles on that key to be released before returning.
func (s *Store) Detach(id EntityId, kind Kind) (any, bool) {
	c := s.removeCell(id, kind)
	if c == nil {
		return nil, false
	}

	c.mu.Lock()
	v := c.value
	c.value = nil
	c.mu.Unlock()

	return reflect.ValueOf(v).Elem().Interface(), true
}

func (s *Store) removeCell(id EntityId, kind Kind) *cell {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	key := cellKey{id: id, kind: kind}
	c, ok := s.cells[key]
	if !ok {
		return nil
	}

	delete(s.cells, key)
	c.dead.Store(true)
	if set, ok := s.registry.entities.Get(id); ok {
		set.remove(kind)
	}
	return c
}

// dropEntity removes every component listed in kinds for id. The caller
// holds the registry lock.
func (s *Store) dropEntity(id EntityId, kinds *KindSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, kind := range kinds.Kinds() {
		key := cellKey{id: id, kind: kind}
		if c, ok := s.cells[key]; ok {
			c.dead.Store(true)
			delete(s.cells, key)
		}
	}
}

// Has reports whether a component is attached for (id, kind).
func (s *Store) Has(id EntityId, kind Kind) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cells[cellKey{id: id, kind: kind}]
	return ok
}

// Get acquires shared access to the component for (id, kind). It returns
// false without blocking when no such component exists. The handle must be
// released.
func (s *Store) Get(id EntityId, kind Kind) (*Handle, bool) {
	return s.acquire(id, kind, false)
}

// GetMut acquires exclusive access to the component for (id, kind). It
// returns false without blocking when no such component exists. The handle
// must be released.
//
// A caller must not already hold a handle on the same key: the acquisition
// would never complete.
func (s *Store) GetMut(id EntityId, kind Kind) (*Handle, bool) {
	return s.acquire(id, kind, true)
}

func (s *Store) acquire(id EntityId, kind Kind, exclusive bool) (*Handle, bool) {
	s.mu.RLock()
	c := s.cells[cellKey{id: id, kind: kind}]
	s.mu.RUnlock()

	if c == nil {
		return nil, false
	}

	if exclusive {
		c.mu.Lock()
	} else {
		c.mu.RLock()
	}

	h := &Handle{cell: c, id: id, kind: kind, exclusive: exclusive}
	if c.dead.Load() {
		h.Release()
		return nil, false
	}
	return h, true
}

// StoreStats summarises the contents of a store.
type StoreStats struct {
	EntityCount    int
	ComponentCount int
	Kinds          []KindStats
}

// KindStats is the number of components attached under one kind.
type KindStats struct {
	Kind  Kind
	Name  string
	Count int
}

// CollectStats gathers entity and component counts.
func (s *Store) CollectStats() StoreStats {
	s.registry.mu.RLock()
	defer s.registry.mu.RUnlock()

	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[Kind]int)
	for key := range s.cells {
		counts[key.kind]++
	}

	stats := StoreStats{
		EntityCount:    s.registry.entities.Len(),
		ComponentCount: len(s.cells),
		Kinds:          make([]KindStats, 0, len(counts)),
	}
	for kind, n := range counts {
		stats.Kinds = append(stats.Kinds, KindStats{Kind: kind, Name: kind.String(), Count: n})
	}
	sortKindStats(stats.Kinds)
	return stats
}

// box validates value against kind and returns a freshly allocated pointer
// holding a copy of it.
func box(kind Kind, value any) (any, error) {
	want := kind.Type()
	if want == nil {
		return nil, eris.Wrapf(ErrKindMismatch, "kind %d is not registered", kind)
	}
	if value == nil {
		return nil, eris.Wrapf(ErrKindMismatch, "nil value for %s", want)
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, eris.Wrapf(ErrKindMismatch, "nil pointer for %s", want)
		}
		v = v.Elem()
	}
	if v.Type() != want {
		return nil, eris.Wrapf(ErrKindMismatch, "got %s, want %s", v.Type(), want)
	}

	p := reflect.New(want)
	p.Elem().Set(v)
	return p.Interface(), nil
}
