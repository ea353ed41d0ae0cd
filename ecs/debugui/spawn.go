package debugui

import "github.com/plus3/strata/ecs"

// SpawnDebugUI creates one ImguiItem entity that draws the entity browser,
// component inspector, signature viewer, query debugger and performance
// panels for world. scheduler may be nil, in which case no system stats are
// shown. Register an ImguiSystem to have the panels drawn.
func SpawnDebugUI(world *ecs.World, scheduler *ecs.Scheduler) (ecs.EntityId, error) {
	browser := NewEntityBrowserComponent(100)
	inspector := NewComponentInspectorComponent()
	signatures := NewSignatureViewerComponent()
	queries := NewQueryDebuggerComponent()
	perf := NewPerformanceStatsComponent(120)

	return world.Spawn(ImguiItem{
		Render: func() {
			browser.Render(world)
			if sig, ok := signatures.Render(world); ok {
				browser.FilterSignature(sig)
			}
			id, selected := browser.GetSelectedEntity()
			inspector.Render(world, id, selected)
			queries.Render(world)
			perf.Render(world, scheduler)
		},
	})
}
