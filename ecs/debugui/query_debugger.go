package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/strata/ecs"
)

func NewQueryDebuggerComponent() QueryDebuggerComponent {
	return QueryDebuggerComponent{
		selectedKinds: make(map[ecs.Kind]bool),
	}
}

// Selected returns the selected kinds in ascending order.
func (qd *QueryDebuggerComponent) Selected() []ecs.Kind {
	return ecs.NewKindSet(qd.selectedKindList()...).Kinds()
}

func (qd *QueryDebuggerComponent) selectedKindList() []ecs.Kind {
	kinds := make([]ecs.Kind, 0, len(qd.selectedKinds))
	for k := range qd.selectedKinds {
		kinds = append(kinds, k)
	}
	return kinds
}

// Render lets the user pick kinds and shows how many entities a query over
// them would match.
func (qd *QueryDebuggerComponent) Render(world *ecs.World) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		clear(qd.selectedKinds)
	}

	for _, kind := range KnownKinds(world) {
		selected := qd.selectedKinds[kind]
		if imgui.Checkbox(kind.String(), &selected) {
			if selected {
				qd.selectedKinds[kind] = true
			} else {
				delete(qd.selectedKinds, kind)
			}
		}
	}

	imgui.Separator()

	kinds := qd.Selected()
	if len(kinds) == 0 {
		imgui.Text("No component types selected")
		return
	}

	imgui.Text(fmt.Sprintf("Query: %s", ecs.NewKindSet(kinds...)))
	imgui.Text(fmt.Sprintf("Matching Entities: %d", MatchingEntities(world, kinds)))
}
