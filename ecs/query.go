package ecs

import "iter"

// Query is a View declared as a system field. The Scheduler initializes Query
// fields when the system is registered. Every iteration matches entities
// afresh, so structural changes made earlier in the frame are visible.
type Query[T any] struct {
	view *View[T]
}

// NewQuery creates a Query bound to the world's store.
func NewQuery[T any](world *World) *Query[T] {
	q := &Query[T]{}
	q.Init(world)
	return q
}

// Init initializes or re-initializes the Query with a world.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(world *World) {
	q.view = NewView[T](world.Store())
}

func (q *Query[T]) mustView() *View[T] {
	if q.view == nil {
		panic("Query used before Init; register the system with a Scheduler")
	}
	return q.view
}

// Iter returns an iterator over entity IDs and component data.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	return q.mustView().Iter()
}

// Values returns an iterator over component data only.
func (q *Query[T]) Values() iter.Seq[T] {
	return q.mustView().Values()
}

// Get calls fn with the component data of a single entity.
func (q *Query[T]) Get(id EntityId, fn func(T)) bool {
	return q.mustView().Get(id, fn)
}

// Collect materializes the matching entity ids. Component pointers are not
// retained; use the ids with Get or the store afterwards.
func (q *Query[T]) Collect() []EntityId {
	var ids []EntityId
	for id := range q.Iter() {
		ids = append(ids, id)
	}
	return ids
}
