package debugui

import (
	"reflect"
	"strings"

	"github.com/plus3/scenery/ecs"
)

type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	IsPointer bool
	IsStruct  bool
	IsSlice   bool
	IsMap     bool
}

// ComponentLayout is what the inspector needs to know about one component
// type tag. Layouts are built once per tag, the first time a handle of that
// type is inspected.
type ComponentLayout struct {
	Type      reflect.Type
	Label     string
	Behaviour bool
	// collections render as a count; their elements are not addressable by path
	Collection bool
	Fields     []FieldInfo
}

var ecsPkgPath = reflect.TypeFor[ecs.Entity]().PkgPath()

// bookkeeping types embedded in components that are not worth inspecting
var hiddenFieldTypes = map[reflect.Type]bool{
	reflect.TypeFor[ecs.BehaviourBase](): true,
	reflect.TypeFor[ecs.EntityRef]():     true,
}

// LayoutCache maps component type tags to layouts, and nested struct types to
// their visible fields. It is only touched from the draw pass.
type LayoutCache struct {
	layouts map[reflect.Type]*ComponentLayout
	nested  map[reflect.Type][]FieldInfo
}

func NewLayoutCache() *LayoutCache {
	return &LayoutCache{
		layouts: make(map[reflect.Type]*ComponentLayout),
		nested:  make(map[reflect.Type][]FieldInfo),
	}
}

// Layout returns the layout for the handle's type tag.
func (lc *LayoutCache) Layout(handle *ecs.ComponentHandle) *ComponentLayout {
	if layout, ok := lc.layouts[handle.Type()]; ok {
		return layout
	}

	typ := handle.Type()
	_, behaviour := handle.Behaviour()
	layout := &ComponentLayout{
		Type:       typ,
		Label:      typ.String(),
		Behaviour:  behaviour,
		Collection: typ.PkgPath() == ecsPkgPath && strings.HasPrefix(typ.Name(), "ComponentCollection["),
	}
	if behaviour {
		layout.Label += " (behaviour)"
	}
	if !layout.Collection {
		layout.Fields = lc.Fields(typ)
	}

	lc.layouts[typ] = layout
	return layout
}

// Fields returns the exported, non-bookkeeping fields of a struct type.
func (lc *LayoutCache) Fields(t reflect.Type) []FieldInfo {
	if cached, ok := lc.nested[t]; ok {
		return cached
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			field := t.Field(i)
			if !field.IsExported() || hiddenFieldTypes[field.Type] {
				continue
			}

			fieldType := field.Type
			isPointer := fieldType.Kind() == reflect.Ptr
			if isPointer {
				fieldType = fieldType.Elem()
			}

			fields = append(fields, FieldInfo{
				Name:      field.Name,
				Type:      fieldType,
				Index:     i,
				IsPointer: isPointer,
				IsStruct:  fieldType.Kind() == reflect.Struct,
				IsSlice:   fieldType.Kind() == reflect.Slice,
				IsMap:     fieldType.Kind() == reflect.Map,
			})
		}
	}

	lc.nested[t] = fields
	return fields
}
