package main

import (
	"context"
	"math/rand/v2"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/plus3/strata/ecs"
)

// runReaders starts n goroutines reading random entities' components until
// ctx is done. Each successful read adds one to ops.
func runReaders(ctx context.Context, world *ecs.World, n int, ops *atomic.Int64) *errgroup.Group {
	g, ctx := errgroup.WithContext(ctx)
	for range n {
		g.Go(func() error {
			var sink float64
			for ctx.Err() == nil {
				limit := world.Registry().Len()
				if limit == 0 {
					runtime.Gosched()
					continue
				}
				id := ecs.EntityId(rand.IntN(limit * 2))
				if ecs.ReadComponent(world, id, func(p *Position) { sink += p.X }) {
					ops.Add(1)
				}
				if ecs.ReadComponent(world, id, func(h *Health) { sink += float64(h.Current) }) {
					ops.Add(1)
				}
			}
			_ = sink
			return nil
		})
	}
	return g
}
