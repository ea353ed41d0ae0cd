package ecs

import (
	"iter"
	"slices"
	"sync"

	"github.com/kamstrup/intmap"
)

// Registry owns the set of live entity ids and, for each, the set of
// component kinds attached to it.
type Registry struct {
	mu          sync.RWMutex
	entities    *intmap.Map[EntityId, *KindSet]
	generations *intmap.Map[EntityId, uint32]
	free        []EntityId

	// store is the component store bound by NewStore, if any.
	store *Store
}

// NewRegistry creates an empty entity registry.
func NewRegistry() *Registry {
	return &Registry{
		entities:    intmap.New[EntityId, *KindSet](256),
		generations: intmap.New[EntityId, uint32](256),
	}
}

// Create registers a new entity and returns its id. The most recently
// destroyed id is reused first; otherwise a new id is minted.
func (r *Registry) Create() EntityId {
	r.mu.Lock()
	defer r.mu.Unlock()

	var id EntityId
	if n := len(r.free); n > 0 {
		id = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		id = EntityId(r.entities.Len())
		// Ids registered through CreateWith may already sit above len(live).
		for r.entities.Has(id) {
			id++
		}
	}

	r.entities.Put(id, &KindSet{})
	return id
}

// CreateWith registers the given id directly. The id must not be live;
// registering a live id panics.
func (r *Registry) CreateWith(id EntityId) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entities.Has(id) {
		panic("ecs: CreateWith called with live entity id " + id.String())
	}
	if i := slices.Index(r.free, id); i >= 0 {
		r.free = slices.Delete(r.free, i, i+1)
	}
	r.entities.Put(id, &KindSet{})
}

// Destroy removes the entity and every component it holds in store. A nil
// store means the store bound to the registry, if any. It reports whether
// the entity was live.
func (r *Registry) Destroy(id EntityId, store *Store) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store == nil {
		store = r.store
	} else if r.store != nil && store != r.store {
		panic("ecs: Destroy called with a store not bound to this registry")
	}

	set, ok := r.entities.Get(id)
	if !ok {
		return false
	}

	r.entities.Del(id)
	r.free = append(r.free, id)

	gen, _ := r.generations.Get(id)
	r.generations.Put(id, gen+1)

	if store != nil {
		store.dropEntity(id, set)
	}
	return true
}

// KindsOf returns a copy of the kinds attached to id. The second result is
// false when the entity is not live.
func (r *Registry) KindsOf(id EntityId) (*KindSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.entities.Get(id)
	if !ok {
		return nil, false
	}
	return set.Clone(), true
}

// Has reports whether id is live.
func (r *Registry) Has(id EntityId) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entities.Has(id)
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entities.Len()
}

// Iter returns an iterator over the live entity ids. Each iteration walks a
// snapshot taken when it starts. No ordering is guaranteed.
func (r *Registry) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for _, id := range r.snapshot(nil) {
			if !yield(id) {
				return
			}
		}
	}
}

// Ref returns a generation-checked reference to a live entity.
func (r *Registry) Ref(id EntityId) (EntityRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.entities.Has(id) {
		return EntityRef{}, false
	}
	gen, _ := r.generations.Get(id)
	return EntityRef{Id: id, Generation: gen}, true
}

// Resolve returns the id the ref points to if that entity is still live and
// has not been recycled since the ref was taken.
func (r *Registry) Resolve(ref EntityRef) (EntityId, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.entities.Has(ref.Id) {
		return 0, false
	}
	if gen, _ := r.generations.Get(ref.Id); gen != ref.Generation {
		return 0, false
	}
	return ref.Id, true
}

// snapshot returns the live ids holding every kind in required. A nil
// required set matches every live entity.
func (r *Registry) snapshot(required *KindSet) []EntityId {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]EntityId, 0, r.entities.Len())
	r.entities.ForEach(func(id EntityId, set *KindSet) bool {
		if required == nil || set.Contains(required) {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}
