package ecs

import "time"

// Event is one occurrence dispatched to every system. The set of events is
// closed: TickEvent, InputEvent and DrawEvent. Systems that do not care about
// an event treat it as a no-op.
type Event interface {
	event()
}

// TickEvent advances the simulation by Delta.
type TickEvent struct {
	Delta time.Duration
}

// InputEvent carries a raw input payload from the host loop.
type InputEvent struct {
	Payload any
}

// DrawEvent requests a frame be drawn to Target, an opaque surface owned by
// the rendering backend. Resized is set when the surface changed size since
// the previous draw, so systems holding surface-dependent resources rebuild
// them before use.
type DrawEvent struct {
	Target  any
	Resized bool
}

func (TickEvent) event()  {}
func (InputEvent) event() {}
func (DrawEvent) event()  {}
