package ecs

import (
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// FrameTiming tracks simulation time. It is advanced once per TickEvent.
type FrameTiming struct {
	Frame   uint64
	Delta   time.Duration
	Elapsed time.Duration
}

// EngineContext is the engine-wide state shared by every system: the
// rendering device handle, frame timing, surface size, logger and typed
// resources.
type EngineContext struct {
	// Device is the rendering backend's device or display handle. The core
	// never inspects it.
	Device any

	mu        sync.RWMutex
	logger    zerolog.Logger
	timing    FrameTiming
	surface   image.Point
	resources map[Kind]any
}

// NewEngineContext creates a context with a no-op logger.
func NewEngineContext() *EngineContext {
	return &EngineContext{
		logger:    zerolog.Nop(),
		resources: make(map[Kind]any),
	}
}

// Logger returns the engine logger.
func (c *EngineContext) Logger() zerolog.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// SetLogger replaces the engine logger.
func (c *EngineContext) SetLogger(logger zerolog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// Timing returns the current frame timing.
func (c *EngineContext) Timing() FrameTiming {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timing
}

func (c *EngineContext) advance(delta time.Duration) FrameTiming {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timing.Frame++
	c.timing.Delta = delta
	c.timing.Elapsed += delta
	return c.timing
}

// Surface returns the size of the draw surface last reported by the host.
func (c *EngineContext) Surface() image.Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.surface
}

// SetSurface records the draw surface size and reports whether it changed.
func (c *EngineContext) SetSurface(size image.Point) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := c.surface != size
	c.surface = size
	return changed
}

func (c *EngineContext) resource(kind Kind) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resources[kind]
}

func (c *EngineContext) resourceOrInit(kind Kind, init func() any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.resources[kind]; ok {
		return r
	}
	r := init()
	c.resources[kind] = r
	return r
}

// ResourceCount returns the number of typed resources held by the context.
func (c *EngineContext) ResourceCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.resources)
}
