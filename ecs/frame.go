package ecs

import "github.com/rs/zerolog"

// Frame is what a system sees while handling one event.
type Frame struct {
	Event    Event
	World    *World
	Commands *Commands

	// Logger is scoped to the system being updated.
	Logger zerolog.Logger

	// DeltaTime is the tick delta in seconds; zero for non-tick events.
	DeltaTime float64
}

// Context returns the world's engine context.
func (f *Frame) Context() *EngineContext {
	return f.World.Context()
}

func newFrame(ev Event, world *World) *Frame {
	f := &Frame{
		Event:    ev,
		World:    world,
		Commands: newCommands(),
		Logger:   world.Logger(),
	}
	if tick, ok := ev.(TickEvent); ok {
		f.DeltaTime = tick.Delta.Seconds()
	}
	return f
}
