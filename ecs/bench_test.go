package ecs_test

import (
	"testing"

	"github.com/plus3/strata/ecs"
)

func BenchmarkSpawn(b *testing.B) {
	w := newTestWorld()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkSpawnWithMultipleComponents(b *testing.B) {
	w := newTestWorld()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Spawn(
			Position{X: 1.0, Y: 2.0},
			Velocity{DX: 0.5, DY: 0.5},
			Health{Current: 100, Max: 100},
			Name{Value: "Entity"},
		)
	}
}

func BenchmarkDestroy(b *testing.B) {
	w := newTestWorld()

	ids := make([]ecs.EntityId, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = spawn(b, w, Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Destroy(ids[i])
	}
}

func BenchmarkGetComponent(b *testing.B) {
	w := newTestWorld()
	id := spawn(b, w, Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ecs.ReadComponent(w, id, func(*Position) {})
	}
}

func BenchmarkGetMutComponent(b *testing.B) {
	w := newTestWorld()
	id := spawn(b, w, Position{X: 1.0, Y: 2.0})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ecs.WriteComponent(w, id, func(p *Position) { p.X++ })
	}
}

func BenchmarkAttachDetach(b *testing.B) {
	w := newTestWorld()
	id := spawn(b, w, Position{X: 1.0, Y: 2.0})
	kind := ecs.KindOf[Velocity]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Attach(id, kind, Velocity{DX: 1})
		w.Detach(id, kind)
	}
}

func BenchmarkEntityRef(b *testing.B) {
	w := newTestWorld()
	id := spawn(b, w, Position{X: 1.0, Y: 2.0})
	ref, _ := w.Ref(id)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Resolve(ref)
	}
}

func BenchmarkViewGet(b *testing.B) {
	w := newTestWorld()
	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](w.Store())
	id := spawn(b, w, Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		view.Get(id, func(struct {
			*Position
			*Velocity
		}) {
		})
	}
}

func benchmarkViewIter(b *testing.B, n int) {
	w := newTestWorld()
	view := ecs.NewView[struct {
		Position *Position `ecs:"mut"`
		*Velocity
	}](w.Store())

	for i := 0; i < n; i++ {
		spawn(b, w, Position{X: float32(i)}, Velocity{DX: 1})
		// Entities without Velocity must be filtered out.
		spawn(b, w, Position{X: float32(i)})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for e := range view.Values() {
			e.Position.X += e.Velocity.DX
		}
	}
}

func BenchmarkViewIter(b *testing.B)      { benchmarkViewIter(b, 100) }
func BenchmarkViewIterLarge(b *testing.B) { benchmarkViewIter(b, 10000) }

func BenchmarkRawQueryIter(b *testing.B) {
	w := newTestWorld()
	for i := 0; i < 1000; i++ {
		spawn(b, w, Position{X: float32(i)}, Velocity{DX: 1})
	}
	pos, vel := ecs.KindOf[Position](), ecs.KindOf[Velocity]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, row := range w.Query(ecs.Write(pos), ecs.Read(vel)) {
			ecs.Col[Position](row, 0).X += ecs.Col[Velocity](row, 1).DX
		}
	}
}

func BenchmarkViewSpawn(b *testing.B) {
	w := newTestWorld()
	type spawnView struct {
		*Position
		*Velocity
	}
	view := ecs.NewView[spawnView](w.Store())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		view.Spawn(spawnView{Position: &Position{X: 1}, Velocity: &Velocity{DX: 1}})
	}
}

func BenchmarkMixedOperations(b *testing.B) {
	w := newTestWorld()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := spawn(b, w, Position{X: 1.0, Y: 2.0})
		ecs.AttachComponent(w, id, Velocity{DX: 0.5, DY: 0.5})
		ecs.ReadComponent(w, id, func(*Position) {})
		w.Destroy(id)
	}
}

func BenchmarkSchedulerOnce(b *testing.B) {
	w := newTestWorld()
	for i := 0; i < 1000; i++ {
		spawn(b, w, Position{}, Velocity{DX: 1, DY: 1})
	}

	s := ecs.NewScheduler(w)
	s.Register(&MovementSystem{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Once(1.0 / 60)
	}
}

func BenchmarkSchedulerParallelReaders(b *testing.B) {
	w := newTestWorld()
	for i := 0; i < 1000; i++ {
		spawn(b, w, Position{X: float32(i)}, Velocity{DX: 1})
	}
	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](w.Store())

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var sum float32
		for pb.Next() {
			for e := range view.Values() {
				sum += e.Position.X
			}
		}
		_ = sum
	})
}
