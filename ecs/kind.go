package ecs

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Kind is the runtime tag identifying a component type. Kinds are assigned
// once per type for the lifetime of the process; the zero Kind is never
// assigned to a type.
type Kind uint32

var kinds struct {
	byType sync.Map // reflect.Type -> Kind

	mu    sync.Mutex
	next  Kind
	types atomic.Pointer[[]reflect.Type] // index Kind -> type, copy-on-write
}

// KindOf returns the kind for the component type T.
func KindOf[T any]() Kind {
	return KindFor(reflect.TypeFor[T]())
}

// KindFor returns the kind for the given component type, assigning a new one
// the first time the type is seen. Pointer types share the kind of their
// element type. Maps, channels, functions and interfaces cannot be components.
func KindFor(t reflect.Type) Kind {
	if t == nil {
		panic("ecs: nil component type")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if k, ok := kinds.byType.Load(t); ok {
		return k.(Kind)
	}

	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic("ecs: components cannot be pointers, maps, channels, functions or interfaces: " + t.String())
	}

	kinds.mu.Lock()
	defer kinds.mu.Unlock()

	if k, ok := kinds.byType.Load(t); ok {
		return k.(Kind)
	}

	kinds.next++
	k := kinds.next

	var types []reflect.Type
	if old := kinds.types.Load(); old != nil {
		types = make([]reflect.Type, len(*old), int(k)+1)
		copy(types, *old)
	} else {
		types = make([]reflect.Type, 1, 16)
	}
	types = append(types, t)
	kinds.types.Store(&types)
	kinds.byType.Store(t, k)

	return k
}

// kindOfValue returns the kind of a component value.
func kindOfValue(v any) Kind {
	return KindFor(reflect.TypeOf(v))
}

// Type returns the component type registered for k, or nil if k was never
// assigned.
func (k Kind) Type() reflect.Type {
	types := kinds.types.Load()
	if types == nil || k == 0 || int(k) >= len(*types) {
		return nil
	}
	return (*types)[k]
}

// Valid reports whether k was assigned to a component type.
func (k Kind) Valid() bool {
	return k.Type() != nil
}

func (k Kind) String() string {
	if t := k.Type(); t != nil {
		return t.String()
	}
	return "<invalid kind>"
}
