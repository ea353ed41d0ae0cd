package ecs

import (
	"iter"
	"slices"
)

// Access describes how a query reaches one component kind.
type Access struct {
	Kind     Kind
	Mut      bool
	Optional bool
}

// Read requests shared access to kind.
func Read(kind Kind) Access {
	return Access{Kind: kind}
}

// Write requests exclusive access to kind.
func Write(kind Kind) Access {
	return Access{Kind: kind, Mut: true}
}

// Optional marks an access as not required for an entity to match.
func Optional(a Access) Access {
	a.Optional = true
	return a
}

// Row holds the handles acquired for one entity during a query. A row is
// only valid inside the loop body that received it; its handles are released
// when the body returns.
type Row struct {
	Id      EntityId
	access  []Access
	handles []*Handle
}

// Handle returns the handle for the i-th requested access, or nil when that
// access was optional and the entity lacks the component.
func (r *Row) Handle(i int) *Handle {
	return r.handles[i]
}

// Value returns the component pointer for the i-th requested access, or nil
// when an optional component is absent.
func (r *Row) Value(i int) any {
	if h := r.handles[i]; h != nil {
		return h.Value()
	}
	return nil
}

// Release releases every handle held by the row.
func (r *Row) Release() {
	for i, h := range r.handles {
		h.Release()
		r.handles[i] = nil
	}
}

// Col returns the i-th component of a row as a *T.
func Col[T any](r *Row, i int) *T {
	p, _ := Cast[T](r.handles[i])
	return p
}

// plan is a validated list of accesses with the order handles are acquired
// in. Handles are always acquired in ascending kind order so two queries can
// never wait on each other's locks in opposite orders.
type plan struct {
	access   []Access
	order    []int
	required *KindSet
}

func newPlan(access []Access) *plan {
	p := &plan{
		access:   access,
		order:    make([]int, len(access)),
		required: &KindSet{},
	}

	seen := &KindSet{}
	for i, a := range access {
		if !a.Kind.Valid() {
			panic("ecs: query over unregistered kind")
		}
		if !seen.insert(a.Kind) {
			panic("ecs: query requests " + a.Kind.String() + " more than once")
		}
		if !a.Optional {
			p.required.insert(a.Kind)
		}
		p.order[i] = i
	}

	slices.SortFunc(p.order, func(a, b int) int {
		return int(access[a].Kind) - int(access[b].Kind)
	})
	return p
}

// fill acquires the plan's handles for id into row. It returns false, with
// nothing held, when a required component is missing.
func (p *plan) fill(s *Store, id EntityId, row *Row) bool {
	for _, i := range p.order {
		a := p.access[i]
		h, ok := s.acquire(id, a.Kind, a.Mut)
		if !ok {
			if a.Optional {
				row.handles[i] = nil
				continue
			}
			row.Release()
			return false
		}
		row.handles[i] = h
	}
	row.Id = id
	return true
}

func (p *plan) newRow() *Row {
	return &Row{access: p.access, handles: make([]*Handle, len(p.access))}
}

// Query returns an iterator over every live entity holding all required
// kinds in access. Matching is computed afresh each time iteration starts.
// The yielded row is reused between iterations and its handles are released
// as soon as the loop body returns.
//
// The loop body must not acquire another handle on a key the row already
// holds.
func (s *Store) Query(access ...Access) iter.Seq2[EntityId, *Row] {
	p := newPlan(access)
	return func(yield func(EntityId, *Row) bool) {
		var required *KindSet
		if !p.required.IsEmpty() {
			required = p.required
		}

		row := p.newRow()
		for _, id := range s.registry.snapshot(required) {
			if !p.fill(s, id, row) {
				continue
			}
			if !yieldRow(yield, id, row) {
				return
			}
		}
	}
}

func yieldRow(yield func(EntityId, *Row) bool, id EntityId, row *Row) bool {
	defer row.Release()
	return yield(id, row)
}

// Lookup acquires the requested accesses for a single entity. The caller
// must Release the returned row.
func (s *Store) Lookup(id EntityId, access ...Access) (*Row, bool) {
	p := newPlan(access)
	if !s.registry.Has(id) {
		return nil, false
	}
	row := p.newRow()
	if !p.fill(s, id, row) {
		return nil, false
	}
	return row, true
}
