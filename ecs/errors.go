package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotFound is returned when a mutation targets an entity that is
	// not live.
	ErrEntityNotFound = eris.New("entity not found")

	// ErrKindMismatch is returned when a component value's type does not
	// match the type registered for the kind it is attached under.
	ErrKindMismatch = eris.New("component type does not match kind")

	// ErrNotInitialized is returned when events are dispatched to systems
	// whose Init has not run.
	ErrNotInitialized = eris.New("systems not initialized")
)
