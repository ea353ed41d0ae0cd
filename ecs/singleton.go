package ecs

// Singleton provides access to a single value that is not associated with
// any entity. Values live on the EngineContext keyed by their kind, so every
// Singleton[T] bound to the same context shares one T. Use this for global
// game state, configuration, or other engine-wide data.
//
// Singletons are not guarded by component locks; systems that share one
// across goroutines synchronise access themselves.
type Singleton[T any] struct {
	ctx   *EngineContext
	value *T
}

// NewSingleton creates a new Singleton accessor for the given context.
// If an initializer is provided and the value doesn't exist yet, it is
// created from the initializer. Otherwise, a zero value is used.
// This guarantees the value exists on the context after the call.
func NewSingleton[T any](ctx *EngineContext, initializer ...T) *Singleton[T] {
	s := &Singleton[T]{ctx: ctx}
	r := ctx.resourceOrInit(KindOf[T](), func() any {
		value := new(T)
		if len(initializer) > 0 {
			*value = initializer[0]
		}
		return value
	})
	s.value = r.(*T)
	return s
}

// Init binds the Singleton to the world's context.
// This is called automatically by the Scheduler during system registration.
func (s *Singleton[T]) Init(world *World) {
	s.ctx = world.Context()
	s.value = nil
	s.updateCache()
}

// Get returns a pointer to the value.
// Returns nil if the value has not been created on the context.
func (s *Singleton[T]) Get() *T {
	if s.value == nil {
		s.updateCache()
	}
	return s.value
}

// updateCache refreshes the cached pointer from the context.
func (s *Singleton[T]) updateCache() {
	if s.ctx == nil {
		return
	}
	if r, ok := s.ctx.resource(KindOf[T]()).(*T); ok {
		s.value = r
	}
}

// Exists returns true if the value has been created on the context.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

// SetSingleton creates or replaces the T value held by ctx.
func SetSingleton[T any](ctx *EngineContext, value T) {
	p := ctx.resourceOrInit(KindOf[T](), func() any { return new(T) }).(*T)
	*p = value
}
