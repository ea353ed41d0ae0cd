package render

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/plus3/strata/ecs"
)

// DrawItem is one sprite queued for drawing.
type DrawItem struct {
	Id        ecs.EntityId
	Sprite    Sprite
	Transform Transform
}

// SortByLayer orders items by ascending layer, breaking ties by ascending
// entity id.
func SortByLayer(items []DrawItem) {
	slices.SortStableFunc(items, func(a, b DrawItem) int {
		if c := cmp.Compare(a.Sprite.Layer, b.Sprite.Layer); c != 0 {
			return c
		}
		return cmp.Compare(a.Id, b.Id)
	})
}

type cameraView struct {
	Id        ecs.EntityId
	Camera    *Camera
	Transform *Transform
}

type spriteView struct {
	Id        ecs.EntityId
	Sprite    *Sprite
	Transform *Transform
}

// SpriteRenderer draws every active sprite with an active transform through
// the selected camera on each DrawEvent. Other events are ignored.
type SpriteRenderer struct {
	Cameras ecs.Query[cameraView]
	Sprites ecs.Query[spriteView]

	// Default is used for sprites without their own Drawable.
	Default Drawable

	items []DrawItem
}

// SelectCamera picks the camera to draw through: the lowest-id active main
// camera with an active transform, otherwise the lowest-id active camera with
// an active transform.
func (r *SpriteRenderer) SelectCamera() (CameraView, bool) {
	var (
		main, fallback CameraView
		hasMain        bool
		hasFallback    bool
	)
	for id, v := range r.Cameras.Iter() {
		if !v.Camera.Active || !v.Transform.Active {
			continue
		}
		view := CameraView{Id: id, Camera: *v.Camera, Transform: *v.Transform}
		if v.Camera.Main && (!hasMain || id < main.Id) {
			main, hasMain = view, true
		}
		if !hasFallback || id < fallback.Id {
			fallback, hasFallback = view, true
		}
	}
	if hasMain {
		return main, true
	}
	return fallback, hasFallback
}

// Collect gathers the active sprites in draw order.
func (r *SpriteRenderer) Collect() []DrawItem {
	r.items = r.items[:0]
	for id, v := range r.Sprites.Iter() {
		if !v.Sprite.Active || !v.Transform.Active {
			continue
		}
		r.items = append(r.items, DrawItem{Id: id, Sprite: *v.Sprite, Transform: *v.Transform})
	}
	SortByLayer(r.items)
	return r.items
}

func (r *SpriteRenderer) Update(frame *ecs.Frame) error {
	draw, ok := frame.Event.(ecs.DrawEvent)
	if !ok {
		return nil
	}

	ctx := frame.Context()
	items := r.Collect()

	if draw.Resized {
		if err := r.resize(items, ctx, draw.Target); err != nil {
			return err
		}
	}

	camera, ok := r.SelectCamera()
	if !ok {
		return nil
	}

	for _, item := range items {
		d := r.drawableFor(item)
		if d == nil {
			continue
		}
		if err := d.Draw(item.Id, camera, ctx, draw.Target); err != nil {
			return eris.Wrapf(err, "draw entity %d", item.Id)
		}
	}
	return nil
}

func (r *SpriteRenderer) drawableFor(item DrawItem) Drawable {
	if item.Sprite.Drawable != nil {
		return item.Sprite.Drawable
	}
	return r.Default
}

// resize notifies every Resizer among the default and the sprites'
// drawables. Drawables of comparable types are notified once each.
func (r *SpriteRenderer) resize(items []DrawItem, ctx *ecs.EngineContext, target any) error {
	seen := make(map[Drawable]bool)
	notify := func(d Drawable) error {
		resizer, ok := d.(Resizer)
		if !ok {
			return nil
		}
		if reflect.TypeOf(d).Comparable() {
			if seen[d] {
				return nil
			}
			seen[d] = true
		}
		if err := resizer.Resize(ctx, target); err != nil {
			return eris.Wrap(err, "resize drawable")
		}
		return nil
	}

	if r.Default != nil {
		if err := notify(r.Default); err != nil {
			return err
		}
	}
	for _, item := range items {
		if item.Sprite.Drawable == nil {
			continue
		}
		if err := notify(item.Sprite.Drawable); err != nil {
			return err
		}
	}
	return nil
}
