package ecs_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/strata/ecs"
)

// recordingSystem appends its name to a shared log on every update.
type recordingSystem struct {
	name    string
	log     *[]string
	fail    error
	initErr error
	closeFn func() error

	inits int
}

func (s *recordingSystem) Update(frame *ecs.Frame) error {
	*s.log = append(*s.log, s.name)
	return s.fail
}

func (s *recordingSystem) Init(w *ecs.World) error {
	s.inits++
	*s.log = append(*s.log, "init:"+s.name)
	return s.initErr
}

func (s *recordingSystem) Close() error {
	*s.log = append(*s.log, "close:"+s.name)
	if s.closeFn != nil {
		return s.closeFn()
	}
	return nil
}

type MovementSystem struct {
	Entities ecs.Query[struct {
		*Position `ecs:"mut"`
		*Velocity
	}]
	ExecuteCount int
}

func (s *MovementSystem) Update(frame *ecs.Frame) error {
	s.ExecuteCount++
	for _, item := range s.Entities.Iter() {
		item.Position.X += item.Velocity.DX * float32(frame.DeltaTime)
		item.Position.Y += item.Velocity.DY * float32(frame.DeltaTime)
	}
	return nil
}

func TestSchedulerDispatchOrder(t *testing.T) {
	w := newTestWorld()
	s := ecs.NewScheduler(w)

	var log []string
	a := &recordingSystem{name: "a", log: &log}
	b := &recordingSystem{name: "b", log: &log}
	c := &recordingSystem{name: "c", log: &log}
	s.RegisterNamed("a", a)
	s.RegisterNamed("b", b)
	s.RegisterNamed("c", c)

	require.NoError(t, s.InitAll())
	require.NoError(t, s.Dispatch(ecs.InputEvent{Payload: "x"}))

	assert.Equal(t, []string{"init:a", "init:b", "init:c", "a", "b", "c"}, log)
	assert.Equal(t, []string{"a", "b", "c"}, s.SystemNames())
}

func TestSchedulerDispatchFailFast(t *testing.T) {
	w := newTestWorld()
	s := ecs.NewScheduler(w)

	boom := eris.New("boom")
	var log []string
	s.RegisterNamed("a", &recordingSystem{name: "a", log: &log})
	s.RegisterNamed("b", &recordingSystem{name: "b", log: &log, fail: boom})
	s.RegisterNamed("c", &recordingSystem{name: "c", log: &log})
	require.NoError(t, s.InitAll())
	log = nil

	err := s.Dispatch(ecs.TickEvent{Delta: time.Millisecond})
	require.Error(t, err)
	assert.True(t, eris.Is(err, boom))
	assert.Contains(t, err.Error(), "system b")
	assert.Equal(t, []string{"a", "b"}, log)

	stats := s.GetStats()
	assert.Equal(t, int64(1), stats.FailedDispatch)
	assert.Equal(t, int64(1), stats.Systems[1].ErrorCount)
	assert.Equal(t, int64(0), stats.Systems[2].ExecutionCount)
}

func TestSchedulerInitAllFailFast(t *testing.T) {
	w := newTestWorld()
	s := ecs.NewScheduler(w)

	bad := eris.New("no device")
	var log []string
	first := &recordingSystem{name: "a", log: &log}
	second := &recordingSystem{name: "b", log: &log, initErr: bad}
	third := &recordingSystem{name: "c", log: &log}
	s.RegisterNamed("a", first)
	s.RegisterNamed("b", second)
	s.RegisterNamed("c", third)

	err := s.InitAll()
	require.Error(t, err)
	assert.True(t, eris.Is(err, bad))
	assert.Contains(t, err.Error(), "init system b")
	assert.Equal(t, []string{"init:a", "init:b"}, log)

	// Dispatch refuses to run with uninitialized systems.
	err = s.Dispatch(ecs.TickEvent{})
	assert.True(t, eris.Is(err, ecs.ErrNotInitialized))

	// A retry only initializes what has not succeeded yet.
	second.initErr = nil
	require.NoError(t, s.InitAll())
	assert.Equal(t, 1, first.inits)
	assert.Equal(t, 2, second.inits)
	assert.Equal(t, 1, third.inits)
}

func TestSchedulerRegisterAfterInitAll(t *testing.T) {
	w := newTestWorld()
	s := ecs.NewScheduler(w)

	var log []string
	a := &recordingSystem{name: "a", log: &log}
	s.RegisterNamed("a", a)
	require.NoError(t, s.InitAll())

	late := &recordingSystem{name: "late", log: &log}
	s.RegisterNamed("late", late)
	assert.Equal(t, 0, late.inits)

	require.NoError(t, s.InitAll())
	assert.Equal(t, 1, a.inits)
	assert.Equal(t, 1, late.inits)
}

func TestSchedulerTeardownReverseOrder(t *testing.T) {
	w := newTestWorld()
	s := ecs.NewScheduler(w)

	first := eris.New("first close failure")
	var log []string
	s.RegisterNamed("a", &recordingSystem{name: "a", log: &log, closeFn: func() error { return eris.New("later") }})
	s.RegisterNamed("b", &recordingSystem{name: "b", log: &log})
	s.RegisterNamed("c", &recordingSystem{name: "c", log: &log, closeFn: func() error { return first }})
	require.NoError(t, s.InitAll())
	log = nil

	err := s.Teardown()
	assert.True(t, eris.Is(err, first))
	assert.Equal(t, []string{"close:c", "close:b", "close:a"}, log)
	assert.Empty(t, s.SystemNames())
}

func TestSchedulerOnceMovesEntities(t *testing.T) {
	w := newTestWorld()
	s := ecs.NewScheduler(w)

	movement := &MovementSystem{}
	s.Register(movement)
	id := spawn(t, w, Position{}, Velocity{DX: 1, DY: 2})

	require.NoError(t, s.Once(1.0))
	require.NoError(t, s.Once(0.5))

	assert.Equal(t, 2, movement.ExecuteCount)
	pos, _ := ecs.GetComponent[Position](w, id)
	assert.InDelta(t, 1.5, pos.X, 1e-6)
	assert.InDelta(t, 3.0, pos.Y, 1e-6)

	stats := s.GetStats()
	require.Len(t, stats.Systems, 1)
	assert.Equal(t, "MovementSystem", stats.Systems[0].Name)
	assert.Equal(t, int64(2), stats.Systems[0].ExecutionCount)
	assert.Equal(t, int64(2), stats.TotalExecutions)
	assert.LessOrEqual(t, stats.Systems[0].MinDuration, stats.Systems[0].MaxDuration)
}

func TestSchedulerTickAdvancesTiming(t *testing.T) {
	w := newTestWorld()
	s := ecs.NewScheduler(w)

	var seen []ecs.FrameTiming
	s.Register(ecs.SystemFunc(func(frame *ecs.Frame) error {
		seen = append(seen, frame.Context().Timing())
		return nil
	}))

	require.NoError(t, s.Dispatch(ecs.TickEvent{Delta: 10 * time.Millisecond}))
	require.NoError(t, s.Dispatch(ecs.DrawEvent{}))
	require.NoError(t, s.Dispatch(ecs.TickEvent{Delta: 20 * time.Millisecond}))

	require.Len(t, seen, 3)
	assert.Equal(t, ecs.FrameTiming{Frame: 1, Delta: 10 * time.Millisecond, Elapsed: 10 * time.Millisecond}, seen[0])
	assert.Equal(t, seen[0], seen[1], "non-tick events leave timing alone")
	assert.Equal(t, ecs.FrameTiming{Frame: 2, Delta: 20 * time.Millisecond, Elapsed: 30 * time.Millisecond}, seen[2])
}

func TestSchedulerFrameDeltaTime(t *testing.T) {
	w := newTestWorld()
	s := ecs.NewScheduler(w)

	var deltas []float64
	s.Register(ecs.SystemFunc(func(frame *ecs.Frame) error {
		deltas = append(deltas, frame.DeltaTime)
		return nil
	}))

	require.NoError(t, s.Dispatch(ecs.TickEvent{Delta: 250 * time.Millisecond}))
	require.NoError(t, s.Dispatch(ecs.InputEvent{}))
	assert.Equal(t, []float64{0.25, 0}, deltas)
}

type observation struct {
	name string
	err  error
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *recordingObserver) ObserveSystem(name string, d time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{name: name, err: err})
}

func TestSchedulerObserver(t *testing.T) {
	w := newTestWorld()
	s := ecs.NewScheduler(w)
	obs := &recordingObserver{}
	s.SetObserver(obs)

	boom := eris.New("boom")
	var log []string
	s.RegisterNamed("ok", &recordingSystem{name: "ok", log: &log})
	s.RegisterNamed("bad", &recordingSystem{name: "bad", log: &log, fail: boom})
	require.NoError(t, s.InitAll())

	require.Error(t, s.Dispatch(ecs.TickEvent{}))
	require.Len(t, obs.seen, 2)
	assert.Equal(t, "ok", obs.seen[0].name)
	assert.NoError(t, obs.seen[0].err)
	assert.Equal(t, "bad", obs.seen[1].name)
	assert.ErrorIs(t, obs.seen[1].err, boom)
}

func TestSchedulerRun(t *testing.T) {
	w := newTestWorld()
	s := ecs.NewScheduler(w)

	var ticks int
	s.Register(ecs.SystemFunc(func(frame *ecs.Frame) error {
		ticks++
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx, 5*time.Millisecond))
	assert.Positive(t, ticks)
	assert.Equal(t, uint64(ticks), w.Context().Timing().Frame)
}

func TestSchedulerRunStopsOnError(t *testing.T) {
	w := newTestWorld()
	s := ecs.NewScheduler(w)

	boom := eris.New("boom")
	var ticks int
	s.Register(ecs.SystemFunc(func(frame *ecs.Frame) error {
		ticks++
		if ticks == 3 {
			return boom
		}
		return nil
	}))

	err := s.Run(context.Background(), time.Millisecond)
	assert.True(t, eris.Is(err, boom))
	assert.Equal(t, 3, ticks)
}

type singletonSystem struct {
	Config ecs.Singleton[Name]
}

func (s *singletonSystem) Update(frame *ecs.Frame) error { return nil }

func TestSchedulerInitializesSingletonFields(t *testing.T) {
	w := newTestWorld()
	ecs.NewSingleton(w.Context(), Name{Value: "cfg"})

	sys := &singletonSystem{}
	ecs.NewScheduler(w).Register(sys)

	require.True(t, sys.Config.Exists())
	assert.Equal(t, "cfg", sys.Config.Get().Value)
}

func TestSchedulerDispatchRequiresInitOnlyForInitializers(t *testing.T) {
	w := newTestWorld()
	s := ecs.NewScheduler(w)

	var ran int
	s.Register(ecs.SystemFunc(func(frame *ecs.Frame) error {
		ran++
		return nil
	}))
	require.NoError(t, s.Dispatch(ecs.TickEvent{}))
	assert.Equal(t, 1, ran)

	var log []string
	s.RegisterNamed("late", &recordingSystem{name: "late", log: &log})

	err := s.Dispatch(ecs.TickEvent{})
	assert.True(t, eris.Is(err, ecs.ErrNotInitialized))
	assert.Equal(t, 1, ran, "no system runs while one is uninitialized")
	assert.Equal(t, uint64(1), w.Context().Timing().Frame)

	require.NoError(t, s.InitAll())
	require.NoError(t, s.Dispatch(ecs.TickEvent{}))
	assert.Equal(t, 2, ran)
	assert.Equal(t, []string{"init:late", "late"}, log)
}
