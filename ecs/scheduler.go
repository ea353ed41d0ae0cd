package ecs

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	FailedDispatch  int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	ErrorCount     int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	errorCount     int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration, err error) {
	s.executionCount++
	if err != nil {
		s.errorCount++
	}
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

type systemEntry struct {
	name        string
	system      System
	initialized bool
	stats       systemStatsInternal
}

// Scheduler holds the ordered list of systems and dispatches events to them.
// Dispatch, InitAll and Teardown must not be called concurrently with each
// other; GetStats may be called from any goroutine.
type Scheduler struct {
	world    *World
	systems  []*systemEntry
	observer DispatchObserver

	statsMu        sync.Mutex
	failedDispatch int64
}

// NewScheduler creates a new scheduler for the given world.
func NewScheduler(world *World) *Scheduler {
	return &Scheduler{world: world}
}

// World returns the world systems are dispatched against.
func (s *Scheduler) World() *World {
	return s.world
}

// SetObserver installs a hook notified after every system update.
func (s *Scheduler) SetObserver(observer DispatchObserver) {
	s.observer = observer
}

// Register appends a system and initializes its Query and Singleton fields.
// The system's Init, if any, runs on the next InitAll.
func (s *Scheduler) Register(system System) {
	s.RegisterNamed(systemName(system), system)
}

// RegisterNamed is Register with an explicit name for logs and stats.
func (s *Scheduler) RegisterNamed(name string, system System) {
	s.initializeFields(system)

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.systems = append(s.systems, &systemEntry{
		name:   name,
		system: system,
		stats:  systemStatsInternal{minDuration: time.Duration(1<<63 - 1)},
	})
}

func systemName(system System) string {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}

func (s *Scheduler) initializeFields(system System) {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return
	}

	systemType := systemValue.Type()

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()
		if !strings.HasPrefix(typeName, "Query[") && !strings.HasPrefix(typeName, "Singleton[") {
			continue
		}

		initMethod := field.Addr().MethodByName("Init")
		if !initMethod.IsValid() {
			panic("Init method not found on field: " + fieldType.Name)
		}

		initMethod.Call([]reflect.Value{
			reflect.ValueOf(s.world),
		})
	}
}

// InitAll runs Init on every registered system that has not been initialized,
// in registration order. The first failure stops bring-up and is returned.
func (s *Scheduler) InitAll() error {
	logger := s.world.Logger()
	for _, entry := range s.systems {
		if entry.initialized {
			continue
		}
		if init, ok := entry.system.(Initializer); ok {
			if err := init.Init(s.world); err != nil {
				return eris.Wrapf(err, "init system %s", entry.name)
			}
		}
		entry.initialized = true
		logger.Debug().Str("system", entry.name).Msg("system initialized")
	}
	return nil
}

// Dispatch delivers ev to every system in registration order. The first
// system to fail stops the dispatch and its error is returned; commands
// queued during a failed dispatch are discarded. Tick events advance the
// engine timing before any system runs.
func (s *Scheduler) Dispatch(ev Event) error {
	for _, entry := range s.systems {
		if _, ok := entry.system.(Initializer); ok && !entry.initialized {
			return eris.Wrapf(ErrNotInitialized, "system %s", entry.name)
		}
	}

	if tick, ok := ev.(TickEvent); ok {
		s.world.Context().advance(tick.Delta)
	}

	frame := newFrame(ev, s.world)
	base := frame.Logger

	for _, entry := range s.systems {
		frame.Logger = base.With().Str("system", entry.name).Logger()

		start := time.Now()
		err := entry.system.Update(frame)
		duration := time.Since(start)

		s.statsMu.Lock()
		entry.stats.record(duration, err)
		if err != nil {
			s.failedDispatch++
		}
		s.statsMu.Unlock()

		if s.observer != nil {
			s.observer.ObserveSystem(entry.name, duration, err)
		}

		if err != nil {
			frame.Commands.Reset()
			frame.Logger.Error().Err(err).Msg("system failed")
			return eris.Wrapf(err, "system %s generated an error", entry.name)
		}
	}

	if err := frame.Commands.Flush(s.world); err != nil {
		return eris.Wrap(err, "flush commands")
	}
	return nil
}

// Once dispatches a single tick of dt seconds.
func (s *Scheduler) Once(dt float64) error {
	return s.Dispatch(TickEvent{Delta: time.Duration(dt * float64(time.Second))})
}

// Run dispatches tick events at the given interval until the context is
// cancelled or a dispatch fails.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			delta := now.Sub(lastTime)
			lastTime = now
			if err := s.Dispatch(TickEvent{Delta: delta}); err != nil {
				return err
			}
		}
	}
}

// Teardown closes every system implementing Finalizer in reverse
// registration order and unregisters all systems. Every finalizer runs; the
// first error is returned and later ones are logged.
func (s *Scheduler) Teardown() error {
	logger := s.world.Logger()

	var first error
	for i := len(s.systems) - 1; i >= 0; i-- {
		entry := s.systems[i]
		fin, ok := entry.system.(Finalizer)
		if !ok {
			continue
		}
		if err := fin.Close(); err != nil {
			err = eris.Wrapf(err, "close system %s", entry.name)
			if first == nil {
				first = err
			} else {
				logger.Error().Err(err).Msg("teardown")
			}
			continue
		}
		logger.Debug().Str("system", entry.name).Msg("system closed")
	}

	s.statsMu.Lock()
	s.systems = nil
	s.statsMu.Unlock()
	return first
}

// SystemNames returns the registered system names in dispatch order.
func (s *Scheduler) SystemNames() []string {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	names := make([]string, len(s.systems))
	for i, entry := range s.systems {
		names[i] = entry.name
	}
	return names
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	stats := &SchedulerStats{
		SystemCount:    len(s.systems),
		FailedDispatch: s.failedDispatch,
		Systems:        make([]SystemStats, len(s.systems)),
	}

	var totalExecs int64
	for i, entry := range s.systems {
		internal := entry.stats
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           entry.name,
			ExecutionCount: internal.executionCount,
			ErrorCount:     internal.errorCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
