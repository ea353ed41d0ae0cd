package ebiten

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rotisserie/eris"

	"github.com/plus3/strata/ecs"
)

// KeyInput is the payload of the InputEvent sent for keys pressed since the
// previous update.
type KeyInput struct {
	Keys []ebiten.Key
}

// Overlay draws on top of the engine output, for example a debug UI.
type Overlay interface {
	BeginFrame()
	EndFrame()
	Draw(screen *ebiten.Image)
	Layout(width, height int)
}

// Game implements ebiten.Game by dispatching engine events: an InputEvent
// when keys were pressed, then a TickEvent on every update, and a DrawEvent
// on every draw.
type Game struct {
	Scheduler *ecs.Scheduler
	Overlay   Overlay

	keys    []ebiten.Key
	resized bool
	err     error
}

// NewGame creates a game driving scheduler.
func NewGame(scheduler *ecs.Scheduler) *Game {
	return &Game{Scheduler: scheduler}
}

// Update dispatches input and tick events. A system returning
// ebiten.Termination stops the game cleanly.
func (g *Game) Update() error {
	if err := g.update(); err != nil {
		if eris.Is(err, ebiten.Termination) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (g *Game) update() error {
	if g.err != nil {
		return g.err
	}

	if g.Overlay != nil {
		g.Overlay.BeginFrame()
		defer g.Overlay.EndFrame()
	}

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	if len(g.keys) > 0 {
		keys := append([]ebiten.Key(nil), g.keys...)
		if err := g.Scheduler.Dispatch(ecs.InputEvent{Payload: KeyInput{Keys: keys}}); err != nil {
			return err
		}
	}

	delta := tickDelta(ebiten.TPS(), ebiten.ActualTPS())
	return g.Scheduler.Dispatch(ecs.TickEvent{Delta: delta})
}

// tickDelta is the simulated time of one update. With a fixed TPS it is
// 1/tps; under ebiten.SyncWithFPS it follows the measured rate, and is zero
// until a rate has been measured.
func tickDelta(tps int, actualTPS float64) time.Duration {
	if tps > 0 {
		return time.Second / time.Duration(tps)
	}
	if actualTPS > 0 {
		return time.Duration(float64(time.Second) / actualTPS)
	}
	return 0
}

// Draw dispatches a DrawEvent targeting screen. Ebiten's Draw cannot fail,
// so a dispatch error is returned from the next Update.
func (g *Game) Draw(screen *ebiten.Image) {
	ev := ecs.DrawEvent{Target: screen, Resized: g.resized}
	g.resized = false

	if err := g.Scheduler.Dispatch(ev); err != nil && g.err == nil {
		g.err = err
	}

	if g.Overlay != nil {
		g.Overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	ctx := g.Scheduler.World().Context()
	if ctx.SetSurface(image.Pt(outsideWidth, outsideHeight)) {
		g.resized = true
	}
	if g.Overlay != nil {
		g.Overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
