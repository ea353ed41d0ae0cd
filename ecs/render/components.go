// Package render holds the backend-agnostic rendering components and the
// system that draws sprites through a camera in a stable order.
package render

import (
	"image/color"

	"github.com/plus3/strata/ecs"
)

// Transform positions an entity in world space. Inactive transforms are
// skipped by the renderer.
type Transform struct {
	X, Y     float64
	Rotation float64
	ScaleX   float64
	ScaleY   float64
	Active   bool
}

// Scale returns the transform's scale, treating zero as one.
func (t Transform) Scale() (float64, float64) {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

// Camera marks an entity whose Transform is the viewpoint for drawing.
type Camera struct {
	Active bool
	Main   bool
	Zoom   float64
}

// Sprite is a drawable entity. Image is an opaque backend asset handle
// interpreted only by Drawable.
type Sprite struct {
	Layer    int
	Color    color.Color
	Image    any
	Drawable Drawable
	Active   bool
}

// CameraView is the camera selected for a draw.
type CameraView struct {
	Id        ecs.EntityId
	Camera    Camera
	Transform Transform
}

// ZoomOr returns the camera zoom, or def when unset.
func (c CameraView) ZoomOr(def float64) float64 {
	if c.Camera.Zoom <= 0 {
		return def
	}
	return c.Camera.Zoom
}

// Drawable renders one entity. target is the backend surface carried by the
// DrawEvent.
type Drawable interface {
	Draw(entity ecs.EntityId, camera CameraView, ctx *ecs.EngineContext, target any) error
}

// DrawableFunc adapts a function to the Drawable interface.
type DrawableFunc func(entity ecs.EntityId, camera CameraView, ctx *ecs.EngineContext, target any) error

func (f DrawableFunc) Draw(entity ecs.EntityId, camera CameraView, ctx *ecs.EngineContext, target any) error {
	return f(entity, camera, ctx, target)
}

// Resizer is implemented by drawables holding resources that depend on the
// draw surface size. On a resized DrawEvent the renderer calls Resize once
// per drawable, before any Draw.
type Resizer interface {
	Resize(ctx *ecs.EngineContext, target any) error
}
