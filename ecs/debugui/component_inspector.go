package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scenery/ecs"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{
		selectedEntityId: ecs.InvalidEntityId,
		layouts:          NewLayoutCache(),
	}
}

func (ci *ComponentInspectorComponent) Render(scene *ecs.Scene, selectedEntityId ecs.EntityId) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selectedEntityId = selectedEntityId

	if ci.selectedEntityId == ecs.InvalidEntityId {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	entity, ok := scene.Entity(ci.selectedEntityId)
	if !ok {
		imgui.Text(fmt.Sprintf("Entity %d not found (destroyed)", ci.selectedEntityId))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", entity.Id()))
	imgui.Text(fmt.Sprintf("Components: %d", entity.ComponentCount()))
	imgui.Separator()

	for _, handle := range entity.Components() {
		layout := ci.layouts.Layout(handle)
		if imgui.TreeNodeStr(layout.Label) {
			ci.renderComponent(handle, layout)
			imgui.TreePop()
		}
	}

	imgui.End()
}

// renderComponent shows the component's exported fields. Edits are applied
// through a borrow of the handle; a borrowed component is shown read-only.
func (ci *ComponentInspectorComponent) renderComponent(handle *ecs.ComponentHandle, layout *ComponentLayout) {
	if handle.IsBorrowed() {
		imgui.Text("<borrowed>")
		return
	}

	if layout.Collection {
		if sized, ok := handle.Value().(interface{ Size() int }); ok {
			imgui.Text(fmt.Sprintf("%d elements", sized.Size()))
		}
		return
	}

	val := reflect.ValueOf(handle.Value())
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		imgui.Text(fmt.Sprintf("value: %v", val.Interface()))
		return
	}

	for _, field := range layout.Fields {
		fieldVal := val.Field(field.Index)
		if field.IsPointer && !fieldVal.IsNil() {
			fieldVal = fieldVal.Elem()
		}

		ci.renderField(field.Name, fieldVal, field, handle, []int{field.Index})
	}
}

func (ci *ComponentInspectorComponent) renderField(name string, val reflect.Value, field FieldInfo, handle *ecs.ComponentHandle, path []int) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.IsPointer && val.Kind() == reflect.Ptr && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			ci.updateField(handle, path, func(f reflect.Value) { f.SetInt(int64(v)) })
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 {
			ci.updateField(handle, path, func(f reflect.Value) { f.SetUint(uint64(v)) })
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) {
			ci.updateField(handle, path, func(f reflect.Value) { f.SetFloat(float64(v)) })
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			ci.updateField(handle, path, func(f reflect.Value) { f.SetBool(v) })
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) {
			ci.updateField(handle, path, func(f reflect.Value) { f.SetString(v) })
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			nestedFields := ci.layouts.Fields(val.Type())
			for _, nf := range nestedFields {
				nestedVal := val.Field(nf.Index)
				if nf.IsPointer && !nestedVal.IsNil() {
					nestedVal = nestedVal.Elem()
				}
				ci.renderField(nf.Name, nestedVal, nf, handle, append(path[:len(path):len(path)], nf.Index))
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

func (ci *ComponentInspectorComponent) updateField(handle *ecs.ComponentHandle, path []int, set func(reflect.Value)) {
	handle.Borrow(func(value any) {
		if field, ok := resolveFieldPath(value, path); ok {
			set(field)
		}
	})
}

// resolveFieldPath walks a chain of struct field indices from a component
// pointer, following non-nil pointers, and returns a settable field.
func resolveFieldPath(component any, path []int) (reflect.Value, bool) {
	val := reflect.ValueOf(component)
	for _, idx := range path {
		for val.Kind() == reflect.Ptr {
			if val.IsNil() {
				return reflect.Value{}, false
			}
			val = val.Elem()
		}
		if val.Kind() != reflect.Struct || idx >= val.NumField() {
			return reflect.Value{}, false
		}
		val = val.Field(idx)
	}
	for val.Kind() == reflect.Ptr && !val.IsNil() {
		val = val.Elem()
	}
	if !val.CanSet() {
		return reflect.Value{}, false
	}
	return val, true
}
