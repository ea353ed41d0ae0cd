package main

import (
	"math/rand/v2"

	"github.com/plus3/strata/ecs"
)

type Position struct{ X, Y float64 }

type Velocity struct{ DX, DY float64 }

type Health struct {
	Current int
	Max     int
}

type Lifetime struct{ Ticks int }

type Tag struct{ Group uint8 }

// componentCount is the number of component types the workload attaches.
const componentCount = 5

// MovementSystem integrates velocity into position.
type MovementSystem struct {
	Movers ecs.Query[struct {
		Position *Position `ecs:"mut"`
		Velocity *Velocity
	}]
}

func (s *MovementSystem) Update(frame *ecs.Frame) error {
	if frame.DeltaTime == 0 {
		return nil
	}
	for m := range s.Movers.Values() {
		m.Position.X += m.Velocity.DX * frame.DeltaTime
		m.Position.Y += m.Velocity.DY * frame.DeltaTime
	}
	return nil
}

// RegenSystem heals every entity by one point per tick up to its maximum.
type RegenSystem struct {
	Living ecs.Query[struct {
		Health *Health `ecs:"mut"`
	}]
}

func (s *RegenSystem) Update(frame *ecs.Frame) error {
	if _, ok := frame.Event.(ecs.TickEvent); !ok {
		return nil
	}
	for l := range s.Living.Values() {
		if l.Health.Current < l.Health.Max {
			l.Health.Current++
		}
	}
	return nil
}

// LifetimeSystem counts lifetimes down and replaces expired entities with
// new random ones, keeping the population stable.
type LifetimeSystem struct {
	Mortal ecs.Query[struct {
		Id       ecs.EntityId
		Lifetime *Lifetime `ecs:"mut"`
	}]

	Expired int64
}

func (s *LifetimeSystem) Update(frame *ecs.Frame) error {
	if _, ok := frame.Event.(ecs.TickEvent); !ok {
		return nil
	}
	for m := range s.Mortal.Values() {
		m.Lifetime.Ticks--
		if m.Lifetime.Ticks > 0 {
			continue
		}
		frame.Commands.Destroy(m.Id)
		frame.Commands.Create(randomComponents(rand.IntN(componentCount) + 1)...)
		s.Expired++
	}
	return nil
}

// randomComponents returns n distinct random components.
func randomComponents(n int) []any {
	all := []any{
		Position{X: rand.Float64() * 1000, Y: rand.Float64() * 1000},
		Velocity{DX: rand.Float64() - 0.5, DY: rand.Float64() - 0.5},
		Health{Current: rand.IntN(100), Max: 100},
		Lifetime{Ticks: rand.IntN(600) + 60},
		Tag{Group: uint8(rand.IntN(8))},
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:min(n, len(all))]
}

// registerSystems registers the workload systems and returns them by name
// for the report.
func registerSystems(scheduler *ecs.Scheduler) *LifetimeSystem {
	lifetime := &LifetimeSystem{}
	scheduler.Register(&MovementSystem{})
	scheduler.Register(&RegenSystem{})
	scheduler.Register(lifetime)
	return lifetime
}
