package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/pkg/profile"

	"github.com/plus3/strata/ecs"
	"github.com/plus3/strata/internal/config"
	"github.com/plus3/strata/internal/statsd"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	readers := flag.Int("readers", runtime.NumCPU()/2, "Goroutines reading components concurrently with the simulation.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "Write a profile to the working directory: cpu or mem.")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cfg.Logger()
	cfg.ApplyLockChecks(logger)

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		logger.Fatal().Str("profile", *profileMode).Msg("unknown profile mode")
	}

	logger.Info().Msg("Starting ECS stress test...")

	// 1. Setup World and Scheduler
	engine := ecs.NewEngineContext()
	engine.SetLogger(logger)
	world := ecs.NewWorld(engine)
	scheduler := ecs.NewScheduler(world)
	lifetime := registerSystems(scheduler)

	observer, err := statsd.New(cfg.StatsdAddress, logger, "cmd:ecs-stress")
	if err != nil {
		logger.Fatal().Err(err).Msg("statsd")
	}
	defer observer.Close()
	scheduler.SetObserver(observer)

	if err := scheduler.InitAll(); err != nil {
		logger.Fatal().Err(err).Msg("init systems")
	}

	// 2. Populate the world with initial entities
	logger.Info().Int("entities", *entityCount).Msg("Populating world...")
	for i := 0; i < *entityCount; i++ {
		// Spawn an entity with 1 to 5 random components
		if _, err := world.Spawn(randomComponents(rand.IntN(componentCount) + 1)...); err != nil {
			logger.Fatal().Err(err).Msg("spawn")
		}
	}
	logger.Info().Msg("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Components:     componentCount,
		Systems:        len(scheduler.SystemNames()),
		Readers:        *readers,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", *duration).Msg("Running simulation...")
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	var readOps atomic.Int64
	readerGroup := runReaders(ctx, world, *readers, &readOps)

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := scheduler.Dispatch(ecs.TickEvent{Delta: deltaTime}); err != nil {
				logger.Fatal().Err(err).Msg("dispatch")
			}
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	if err := readerGroup.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("readers")
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.ReadOps = readOps.Load()
	report.Expired = lifetime.Expired
	report.FinalEntities = world.Registry().Len()
	report.SystemStats = scheduler.GetStats().Systems
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	if err := scheduler.Teardown(); err != nil {
		logger.Error().Err(err).Msg("teardown")
	}

	logger.Info().Msg("Simulation finished.")

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("Failed to generate report")
	}
	fmt.Println("--- End of Report ---")
}
