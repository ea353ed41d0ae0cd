package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/strata/ecs"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

// Render shows every component of the selected entity. Each component is
// held with an exclusive handle while its fields are drawn, so edits are
// written straight into the store.
func (ci *ComponentInspectorComponent) Render(world *ecs.World, selectedEntityId ecs.EntityId, selected bool) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	if !selected {
		imgui.Text("No entity selected")
		return
	}
	ci.selectedEntityId = selectedEntityId

	kinds, ok := world.KindsOf(ci.selectedEntityId)
	if !ok {
		imgui.Text(fmt.Sprintf("Entity %d no longer exists", ci.selectedEntityId))
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", ci.selectedEntityId))
	imgui.Text(fmt.Sprintf("Signature: %s", kinds))
	imgui.Separator()

	for _, kind := range kinds.Kinds() {
		if imgui.TreeNodeStr(kind.String()) {
			ci.renderComponent(world, kind)
			imgui.TreePop()
		}
	}
}

func (ci *ComponentInspectorComponent) renderComponent(world *ecs.World, kind ecs.Kind) {
	h, ok := world.GetMut(ci.selectedEntityId, kind)
	if !ok {
		imgui.Text("<detached>")
		return
	}
	defer h.Release()

	val := reflect.ValueOf(h.Value()).Elem()
	if val.Kind() != reflect.Struct {
		renderValue(kind.String(), val)
		return
	}

	for _, field := range KindFields(kind) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			fieldVal = fieldVal.Elem()
		}
		renderValue(field.Name, fieldVal)
	}
}

// renderValue draws an editor for val, writing changes back when val is
// settable.
func renderValue(name string, val reflect.Value) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range FieldsOf(val.Type()) {
				nested := val.Field(nf.Index)
				if nf.IsPointer {
					if nested.IsNil() {
						imgui.Text(fmt.Sprintf("%s: nil", nf.Name))
						continue
					}
					nested = nested.Elem()
				}
				renderValue(nf.Name, nested)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	case reflect.Interface:
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", name))
			return
		}
		imgui.Text(fmt.Sprintf("%s: %s", name, val.Elem().Type()))

	case reflect.Func, reflect.Chan, reflect.Pointer:
		imgui.Text(fmt.Sprintf("%s: <%s>", name, val.Type()))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		} else {
			imgui.Text(fmt.Sprintf("%s: <%s>", name, val.Type()))
		}
	}
}
