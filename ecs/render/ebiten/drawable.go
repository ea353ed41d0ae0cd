// Package ebiten draws render components with the Ebiten game engine and
// adapts Ebiten's game loop into engine events.
package ebiten

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rotisserie/eris"

	"github.com/plus3/strata/ecs"
	"github.com/plus3/strata/ecs/render"
)

// ErrUnsupportedTarget is returned when a draw target is not an *ebiten.Image.
var ErrUnsupportedTarget = eris.New("draw target is not an *ebiten.Image")

// DefaultUnit is the on-screen size, in pixels, of one world unit at zoom 1.
const DefaultUnit = 16

// SpriteDrawable draws an entity's Sprite at its Transform, relative to the
// camera and centred on the target. Sprites whose Image is an *ebiten.Image
// are drawn as images; others are drawn as a filled square of one unit.
type SpriteDrawable struct {
	World *ecs.World

	// Unit overrides DefaultUnit when positive.
	Unit float64
}

func (d *SpriteDrawable) unit() float64 {
	if d.Unit > 0 {
		return d.Unit
	}
	return DefaultUnit
}

// Draw implements render.Drawable.
func (d *SpriteDrawable) Draw(entity ecs.EntityId, camera render.CameraView, ctx *ecs.EngineContext, target any) error {
	screen, ok := target.(*ebiten.Image)
	if !ok {
		return eris.Wrapf(ErrUnsupportedTarget, "got %T", target)
	}

	sprite, ok := ecs.GetComponent[render.Sprite](d.World, entity)
	if !ok {
		return nil
	}
	transform, ok := ecs.GetComponent[render.Transform](d.World, entity)
	if !ok {
		return nil
	}

	zoom := camera.ZoomOr(1)
	unit := d.unit() * zoom
	bounds := screen.Bounds()
	sx := (transform.X-camera.Transform.X)*unit + float64(bounds.Dx())/2
	sy := (transform.Y-camera.Transform.Y)*unit + float64(bounds.Dy())/2
	scaleX, scaleY := transform.Scale()

	img, ok := sprite.Image.(*ebiten.Image)
	if !ok || img == nil {
		c := sprite.Color
		if c == nil {
			c = color.White
		}
		w := float32(unit * scaleX)
		h := float32(unit * scaleY)
		vector.DrawFilledRect(screen, float32(sx)-w/2, float32(sy)-h/2, w, h, c, false)
		return nil
	}

	size := img.Bounds()
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(-float64(size.Dx())/2, -float64(size.Dy())/2)
	opts.GeoM.Scale(scaleX*zoom, scaleY*zoom)
	opts.GeoM.Rotate(transform.Rotation - camera.Transform.Rotation)
	opts.GeoM.Translate(sx, sy)
	if sprite.Color != nil {
		opts.ColorScale.ScaleWithColor(sprite.Color)
	}
	screen.DrawImage(img, opts)
	return nil
}
