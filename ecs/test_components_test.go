package ecs_test

import "github.com/plus3/strata/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

func newTestWorld() *ecs.World {
	return ecs.NewWorld(nil)
}

// spawn creates an entity holding components and fails the test on error.
func spawn(t interface {
	Helper()
	Fatalf(string, ...any)
}, w *ecs.World, components ...any) ecs.EntityId {
	t.Helper()
	id, err := w.Spawn(components...)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	return id
}
