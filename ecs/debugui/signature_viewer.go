package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/strata/ecs"
)

type SignatureViewerCache struct {
	signatures []SignatureInfo
	age        int
}

func NewSignatureViewerComponent() SignatureViewerComponent {
	return SignatureViewerComponent{cache: &SignatureViewerCache{}}
}

// Render lists the distinct kind sets held by live entities. It returns the
// signature clicked this frame, if any.
func (sv *SignatureViewerComponent) Render(world *ecs.World) (string, bool) {
	if !imgui.BeginV("Signature Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return "", false
	}
	defer imgui.End()

	sv.cache.age++
	if sv.cache.signatures == nil || sv.cache.age >= refreshInterval {
		sv.cache.signatures = CollectSignatures(world)
		sv.cache.age = 0
	}

	maxEntityCount := 0
	for _, sig := range sv.cache.signatures {
		maxEntityCount = max(maxEntityCount, sig.EntityCount)
	}

	var (
		clicked    string
		hasClicked bool
	)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("SignatureTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Signature")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		for _, sig := range sv.cache.signatures {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := sv.selectedSignature == sig.Signature
			if imgui.SelectableBoolV(sig.Signature, isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				sv.selectedSignature = sig.Signature
				clicked, hasClicked = sig.Signature, true
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(sig.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", sig.EntityCount))

			if maxEntityCount > 0 {
				barWidth := float32(sig.EntityCount) / float32(maxEntityCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	return clicked, hasClicked
}
