package ecs

import "time"

// System represents a behavior that reacts to events. User-defined systems can
// include Query and Singleton fields, initialised at registration, as well as
// custom state fields that persist between events. Systems ignore events they
// have no use for.
type System interface {
	Update(frame *Frame) error
}

// Initializer is implemented by systems that need one-time setup against the
// world before the first event.
type Initializer interface {
	Init(world *World) error
}

// Finalizer is implemented by systems that hold resources to release on
// teardown.
type Finalizer interface {
	Close() error
}

// SystemFunc adapts a function to the System interface.
type SystemFunc func(frame *Frame) error

func (f SystemFunc) Update(frame *Frame) error { return f(frame) }

// DispatchObserver is notified after each system handles an event.
type DispatchObserver interface {
	ObserveSystem(name string, d time.Duration, err error)
}
