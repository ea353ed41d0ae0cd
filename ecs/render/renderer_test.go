package render_test

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/strata/ecs"
	"github.com/plus3/strata/ecs/render"
)

type drawCall struct {
	id     ecs.EntityId
	camera ecs.EntityId
	target any
}

type recorder struct {
	calls []drawCall
	fail  ecs.EntityId
	err   error
}

func (r *recorder) Draw(id ecs.EntityId, camera render.CameraView, ctx *ecs.EngineContext, target any) error {
	r.calls = append(r.calls, drawCall{id: id, camera: camera.Id, target: target})
	if r.err != nil && id == r.fail {
		return r.err
	}
	return nil
}

func (r *recorder) ids() []ecs.EntityId {
	ids := make([]ecs.EntityId, len(r.calls))
	for i, c := range r.calls {
		ids[i] = c.id
	}
	return ids
}

type fixture struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	renderer  *render.SpriteRenderer
	rec       *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		world: ecs.NewWorld(nil),
		rec:   &recorder{},
	}
	f.renderer = &render.SpriteRenderer{Default: f.rec}
	f.scheduler = ecs.NewScheduler(f.world)
	f.scheduler.Register(f.renderer)
	require.NoError(t, f.scheduler.InitAll())
	return f
}

func (f *fixture) spawn(t *testing.T, components ...any) ecs.EntityId {
	t.Helper()
	id, err := f.world.Spawn(components...)
	require.NoError(t, err)
	return id
}

func (f *fixture) camera(t *testing.T, main bool) ecs.EntityId {
	return f.spawn(t, render.Camera{Active: true, Main: main}, render.Transform{Active: true})
}

func (f *fixture) sprite(t *testing.T, layer int) ecs.EntityId {
	return f.spawn(t, render.Sprite{Layer: layer, Active: true}, render.Transform{Active: true})
}

func TestSortByLayer(t *testing.T) {
	items := []render.DrawItem{
		{Id: 1, Sprite: render.Sprite{Layer: 1}},
		{Id: 2, Sprite: render.Sprite{Layer: 0}},
		{Id: 3, Sprite: render.Sprite{Layer: 1}},
	}
	render.SortByLayer(items)

	var ids []ecs.EntityId
	for _, item := range items {
		ids = append(ids, item.Id)
	}
	assert.Equal(t, []ecs.EntityId{2, 1, 3}, ids)
}

func TestSpriteRendererDrawOrder(t *testing.T) {
	f := newFixture(t)
	cam := f.camera(t, true)
	e1 := f.sprite(t, 1)
	e2 := f.sprite(t, 0)
	e3 := f.sprite(t, 1)

	require.NoError(t, f.scheduler.Dispatch(ecs.DrawEvent{Target: "screen"}))

	assert.Equal(t, []ecs.EntityId{e2, e1, e3}, f.rec.ids())
	for _, c := range f.rec.calls {
		assert.Equal(t, cam, c.camera)
		assert.Equal(t, "screen", c.target)
	}
}

func TestSpriteRendererSkipsInactive(t *testing.T) {
	f := newFixture(t)
	f.camera(t, true)
	visible := f.sprite(t, 0)
	f.spawn(t, render.Sprite{Active: false}, render.Transform{Active: true})
	f.spawn(t, render.Sprite{Active: true}, render.Transform{Active: false})
	f.spawn(t, render.Sprite{Active: true})

	require.NoError(t, f.scheduler.Dispatch(ecs.DrawEvent{}))
	assert.Equal(t, []ecs.EntityId{visible}, f.rec.ids())
}

func TestSpriteRendererNoCamera(t *testing.T) {
	f := newFixture(t)
	f.sprite(t, 0)
	f.spawn(t, render.Camera{Active: false, Main: true}, render.Transform{Active: true})
	f.spawn(t, render.Camera{Active: true, Main: true}, render.Transform{Active: false})

	require.NoError(t, f.scheduler.Dispatch(ecs.DrawEvent{}))
	assert.Empty(t, f.rec.calls)
}

func TestSpriteRendererIgnoresOtherEvents(t *testing.T) {
	f := newFixture(t)
	f.camera(t, true)
	f.sprite(t, 0)

	require.NoError(t, f.scheduler.Dispatch(ecs.TickEvent{}))
	require.NoError(t, f.scheduler.Dispatch(ecs.InputEvent{Payload: 42}))
	assert.Empty(t, f.rec.calls)
}

func TestSelectCamera(t *testing.T) {
	f := newFixture(t)

	_, ok := f.renderer.SelectCamera()
	assert.False(t, ok)

	plain := f.camera(t, false)
	cam, ok := f.renderer.SelectCamera()
	require.True(t, ok)
	assert.Equal(t, plain, cam.Id, "falls back to any active camera")

	mainA := f.camera(t, true)
	mainB := f.camera(t, true)
	cam, ok = f.renderer.SelectCamera()
	require.True(t, ok)
	assert.Equal(t, min(mainA, mainB), cam.Id)
}

func TestSpriteRendererDrawError(t *testing.T) {
	f := newFixture(t)
	f.camera(t, true)
	first := f.sprite(t, 0)
	f.sprite(t, 1)

	boom := eris.New("boom")
	f.rec.fail = first
	f.rec.err = boom

	err := f.scheduler.Dispatch(ecs.DrawEvent{})
	require.Error(t, err)
	assert.True(t, eris.Is(err, boom))
	assert.Len(t, f.rec.calls, 1)
}

func TestSpriteRendererPerSpriteDrawable(t *testing.T) {
	f := newFixture(t)
	f.camera(t, true)
	fallback := f.sprite(t, 0)

	var custom []ecs.EntityId
	own := f.spawn(t, render.Sprite{
		Layer:  1,
		Active: true,
		Drawable: render.DrawableFunc(func(id ecs.EntityId, _ render.CameraView, _ *ecs.EngineContext, _ any) error {
			custom = append(custom, id)
			return nil
		}),
	}, render.Transform{Active: true})

	require.NoError(t, f.scheduler.Dispatch(ecs.DrawEvent{}))
	assert.Equal(t, []ecs.EntityId{fallback}, f.rec.ids())
	assert.Equal(t, []ecs.EntityId{own}, custom)
}

func TestSpriteRendererDrawableReadsComponents(t *testing.T) {
	world := ecs.NewWorld(nil)
	var seen []float64
	renderer := &render.SpriteRenderer{
		Default: render.DrawableFunc(func(id ecs.EntityId, _ render.CameraView, _ *ecs.EngineContext, _ any) error {
			tr, ok := ecs.GetComponent[render.Transform](world, id)
			if !ok {
				return eris.New("transform missing")
			}
			seen = append(seen, tr.X)
			return nil
		}),
	}
	s := ecs.NewScheduler(world)
	s.Register(renderer)

	_, err := world.Spawn(render.Camera{Active: true}, render.Transform{Active: true})
	require.NoError(t, err)
	_, err = world.Spawn(render.Sprite{Active: true}, render.Transform{X: 4, Active: true})
	require.NoError(t, err)

	require.NoError(t, s.Dispatch(ecs.DrawEvent{}))
	assert.Equal(t, []float64{4}, seen)
}

func TestTransformScale(t *testing.T) {
	sx, sy := render.Transform{}.Scale()
	assert.Equal(t, 1.0, sx)
	assert.Equal(t, 1.0, sy)

	sx, sy = render.Transform{ScaleX: 2, ScaleY: 0.5}.Scale()
	assert.Equal(t, 2.0, sx)
	assert.Equal(t, 0.5, sy)

	assert.Equal(t, 3.0, render.CameraView{}.ZoomOr(3))
	assert.Equal(t, 2.0, render.CameraView{Camera: render.Camera{Zoom: 2}}.ZoomOr(3))
}

type resizingRecorder struct {
	recorder
	events []string
}

func (r *resizingRecorder) Resize(ctx *ecs.EngineContext, target any) error {
	r.events = append(r.events, "resize")
	return nil
}

func (r *resizingRecorder) Draw(id ecs.EntityId, camera render.CameraView, ctx *ecs.EngineContext, target any) error {
	r.events = append(r.events, "draw")
	return r.recorder.Draw(id, camera, ctx, target)
}

func TestSpriteRendererForwardsResize(t *testing.T) {
	world := ecs.NewWorld(nil)
	shared := &resizingRecorder{}
	renderer := &render.SpriteRenderer{Default: shared}
	s := ecs.NewScheduler(world)
	s.Register(renderer)

	_, err := world.Spawn(render.Camera{Active: true}, render.Transform{Active: true})
	require.NoError(t, err)
	for layer := range 2 {
		_, err := world.Spawn(render.Sprite{Layer: layer, Active: true}, render.Transform{Active: true})
		require.NoError(t, err)
	}
	// A sprite carrying the same drawable explicitly is still resized once.
	_, err = world.Spawn(render.Sprite{Layer: 2, Drawable: shared, Active: true}, render.Transform{Active: true})
	require.NoError(t, err)

	require.NoError(t, s.Dispatch(ecs.DrawEvent{Resized: true}))
	assert.Equal(t, []string{"resize", "draw", "draw", "draw"}, shared.events)

	shared.events = nil
	require.NoError(t, s.Dispatch(ecs.DrawEvent{}))
	assert.Equal(t, []string{"draw", "draw", "draw"}, shared.events)
}

func TestSpriteRendererResizeWithoutCamera(t *testing.T) {
	world := ecs.NewWorld(nil)
	shared := &resizingRecorder{}
	s := ecs.NewScheduler(world)
	s.Register(&render.SpriteRenderer{Default: shared})

	require.NoError(t, s.Dispatch(ecs.DrawEvent{Resized: true}))
	assert.Equal(t, []string{"resize"}, shared.events)
}
