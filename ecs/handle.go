package ecs

import (
	"cmp"
	"slices"
)

// Handle is scoped access to one component value. A shared handle allows
// reading; an exclusive handle allows reading and writing. Release must be
// called exactly when access is no longer needed; calling it again is a no-op.
// Handles are not safe for use by more than one goroutine.
type Handle struct {
	cell      *cell
	id        EntityId
	kind      Kind
	exclusive bool
	released  bool
}

// Entity returns the id of the entity the component belongs to.
func (h *Handle) Entity() EntityId { return h.id }

// Kind returns the kind of the component.
func (h *Handle) Kind() Kind { return h.kind }

// Exclusive reports whether the handle grants write access.
func (h *Handle) Exclusive() bool { return h.exclusive }

// Value returns a pointer to the component. Writing through the pointer is
// only allowed while holding an exclusive handle.
func (h *Handle) Value() any {
	if h.released {
		panic("ecs: use of released handle")
	}
	return h.cell.value
}

// Release gives up access to the component.
func (h *Handle) Release() {
	if h == nil || h.released {
		return
	}
	h.released = true
	if h.exclusive {
		h.cell.mu.Unlock()
	} else {
		h.cell.mu.RUnlock()
	}
}

// Cast returns the handle's value as a *T. It returns false when the
// component is not a T.
func Cast[T any](h *Handle) (*T, bool) {
	if h == nil {
		return nil, false
	}
	p, ok := h.Value().(*T)
	return p, ok
}

// ComponentReader provides shared access to components.
type ComponentReader interface {
	Get(EntityId, Kind) (*Handle, bool)
}

// ComponentWriter provides exclusive access to components.
type ComponentWriter interface {
	GetMut(EntityId, Kind) (*Handle, bool)
}

// ComponentAttacher attaches and detaches components.
type ComponentAttacher interface {
	Attach(EntityId, Kind, any) error
	Detach(EntityId, Kind) (any, bool)
	Has(EntityId, Kind) bool
}

// ReadComponent calls fn with shared access to the entity's T component. It
// returns false, without calling fn, when the entity has no T.
func ReadComponent[T any](r ComponentReader, id EntityId, fn func(*T)) bool {
	h, ok := r.Get(id, KindOf[T]())
	if !ok {
		return false
	}
	defer h.Release()

	p, ok := Cast[T](h)
	if !ok {
		return false
	}
	fn(p)
	return true
}

// WriteComponent calls fn with exclusive access to the entity's T component.
// It returns false, without calling fn, when the entity has no T.
func WriteComponent[T any](w ComponentWriter, id EntityId, fn func(*T)) bool {
	h, ok := w.GetMut(id, KindOf[T]())
	if !ok {
		return false
	}
	defer h.Release()

	p, ok := Cast[T](h)
	if !ok {
		return false
	}
	fn(p)
	return true
}

// GetComponent returns a copy of the entity's T component.
func GetComponent[T any](r ComponentReader, id EntityId) (T, bool) {
	var out T
	ok := ReadComponent(r, id, func(v *T) { out = *v })
	return out, ok
}

// AttachComponent attaches value as the entity's T component.
func AttachComponent[T any](a ComponentAttacher, id EntityId, value T) error {
	return a.Attach(id, KindOf[T](), value)
}

// DetachComponent removes and returns the entity's T component.
func DetachComponent[T any](a ComponentAttacher, id EntityId) (T, bool) {
	var zero T
	v, ok := a.Detach(id, KindOf[T]())
	if !ok {
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}

// HasComponent reports whether the entity has a T component.
func HasComponent[T any](a ComponentAttacher, id EntityId) bool {
	return a.Has(id, KindOf[T]())
}

func sortKindStats(stats []KindStats) {
	slices.SortFunc(stats, func(a, b KindStats) int {
		return cmp.Compare(a.Kind, b.Kind)
	})
}
