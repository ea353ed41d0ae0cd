package main

import (
	"image/color"
	"math"
	"math/rand/v2"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/plus3/strata/ecs"
	"github.com/plus3/strata/ecs/debugui"
	debugui_ebiten "github.com/plus3/strata/ecs/debugui/ebiten"
	"github.com/plus3/strata/ecs/render"
	render_ebiten "github.com/plus3/strata/ecs/render/ebiten"
	"github.com/plus3/strata/internal/config"
	"github.com/plus3/strata/internal/statsd"
)

const spriteCount = 200

// Orbit moves an entity in a circle around a centre point.
type Orbit struct {
	CX, CY float64
	Radius float64
	Speed  float64
	Angle  float64
}

type OrbitSystem struct {
	Orbiters ecs.Query[struct {
		Orbit     *Orbit            `ecs:"mut"`
		Transform *render.Transform `ecs:"mut"`
	}]
}

func (s *OrbitSystem) Update(frame *ecs.Frame) error {
	if frame.DeltaTime == 0 {
		return nil
	}
	for o := range s.Orbiters.Values() {
		o.Orbit.Angle += o.Orbit.Speed * frame.DeltaTime
		o.Transform.X = o.Orbit.CX + math.Cos(o.Orbit.Angle)*o.Orbit.Radius
		o.Transform.Y = o.Orbit.CY + math.Sin(o.Orbit.Angle)*o.Orbit.Radius
		o.Transform.Rotation = o.Orbit.Angle
	}
	return nil
}

// CameraControlSystem zooms the main camera with the keyboard and stops the
// game on Escape.
type CameraControlSystem struct {
	Cameras ecs.Query[struct {
		Camera *render.Camera `ecs:"mut"`
	}]
	Input ecs.Singleton[debugui.ImguiInputState]
}

func (s *CameraControlSystem) Update(frame *ecs.Frame) error {
	ev, ok := frame.Event.(ecs.InputEvent)
	if !ok {
		return nil
	}
	keys, ok := ev.Payload.(render_ebiten.KeyInput)
	if !ok {
		return nil
	}
	if state := s.Input.Get(); state != nil && state.WantCaptureKeyboard {
		return nil
	}

	for _, key := range keys.Keys {
		switch key {
		case ebiten.KeyEscape:
			return ebiten.Termination
		case ebiten.KeyEqual, ebiten.KeyKPAdd:
			s.zoom(1.25)
		case ebiten.KeyMinus, ebiten.KeyKPSubtract:
			s.zoom(0.8)
		}
	}
	return nil
}

func (s *CameraControlSystem) zoom(factor float64) {
	for c := range s.Cameras.Values() {
		if c.Camera.Main {
			c.Camera.Zoom = math.Max(0.25, math.Min(8, c.Camera.Zoom*factor))
		}
	}
}

func populate(world *ecs.World, drawable render.Drawable) error {
	if _, err := world.Spawn(
		render.Camera{Active: true, Main: true, Zoom: 1},
		render.Transform{Active: true},
	); err != nil {
		return err
	}

	for i := range spriteCount {
		c := color.RGBA{
			R: uint8(rand.IntN(200) + 55),
			G: uint8(rand.IntN(200) + 55),
			B: uint8(rand.IntN(200) + 55),
			A: 255,
		}
		_, err := world.Spawn(
			render.Transform{ScaleX: 0.5 + rand.Float64(), ScaleY: 0.5 + rand.Float64(), Active: true},
			render.Sprite{Layer: i % 3, Color: c, Drawable: drawable, Active: true},
			Orbit{
				Radius: 2 + rand.Float64()*20,
				Speed:  0.2 + rand.Float64(),
				Angle:  rand.Float64() * 2 * math.Pi,
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger := zerolog.New(os.Stderr)
		logger.Fatal().Err(err).Msg("config")
	}
	logger := cfg.Logger()
	cfg.ApplyLockChecks(logger)

	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("strata sprites")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TickRate)

	imguiBackend := debugui_ebiten.NewImguiBackend("strata sprites", cfg.WindowWidth, cfg.WindowHeight)

	engine := ecs.NewEngineContext()
	engine.SetLogger(logger)
	engine.Device = imguiBackend
	world := ecs.NewWorld(engine)
	ecs.NewSingleton[debugui.ImguiInputState](engine)

	scheduler := ecs.NewScheduler(world)
	scheduler.Register(&debugui.ImguiSystem{})
	scheduler.Register(&CameraControlSystem{})
	scheduler.Register(&OrbitSystem{})
	scheduler.Register(&render.SpriteRenderer{})

	observer, err := statsd.New(cfg.StatsdAddress, logger, "cmd:sprites")
	if err != nil {
		logger.Fatal().Err(err).Msg("statsd")
	}
	defer observer.Close()
	scheduler.SetObserver(observer)

	if err := populate(world, &render_ebiten.SpriteDrawable{World: world}); err != nil {
		logger.Fatal().Err(err).Msg("populate")
	}
	if _, err := debugui.SpawnDebugUI(world, scheduler); err != nil {
		logger.Fatal().Err(err).Msg("debug ui")
	}

	if err := scheduler.InitAll(); err != nil {
		logger.Fatal().Err(err).Msg("init systems")
	}
	defer func() {
		if err := scheduler.Teardown(); err != nil {
			logger.Error().Err(err).Msg("teardown")
		}
	}()

	game := render_ebiten.NewGame(scheduler)
	game.Overlay = imguiBackend

	if err := ebiten.RunGame(game); err != nil {
		logger.Error().Err(err).Msg("game stopped")
	}
}
