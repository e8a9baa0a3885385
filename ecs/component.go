package ecs

import (
	"fmt"
	"reflect"
)

// Behaviour is implemented by components that carry per-frame logic.
// Update and Draw are invoked by the BehaviourSystem once per pass, OnDestroyed
// runs exactly once when the owning entity is destroyed, and SetEntity is
// called by the entity when the component is attached (with a live reference)
// and detached (with the zero EntityRef).
type Behaviour interface {
	Update(frame *UpdateFrame)
	Draw(frame *UpdateFrame)
	OnDestroyed()
	SetEntity(ref EntityRef)
}

// AsBehaviour reports whether a component value is behaviour-capable.
// Components are stored as pointers, so methods with pointer receivers count.
func AsBehaviour(value any) (Behaviour, bool) {
	b, ok := value.(Behaviour)
	return b, ok
}

// BehaviourBase can be embedded in a component struct to make it
// behaviour-capable. Override Update, Draw or OnDestroyed as needed.
type BehaviourBase struct {
	ref EntityRef
}

func (b *BehaviourBase) Update(*UpdateFrame) {}

func (b *BehaviourBase) Draw(*UpdateFrame) {}

func (b *BehaviourBase) OnDestroyed() {}

// SetEntity is called by the owning entity. Do not call it yourself.
func (b *BehaviourBase) SetEntity(ref EntityRef) {
	b.ref = ref
}

// EntityRef returns the back-reference to the owning entity.
func (b *BehaviourBase) EntityRef() EntityRef {
	return b.ref
}

// Entity resolves the owning entity, or nil once the component is detached
// or the entity is destroyed.
func (b *BehaviourBase) Entity() *Entity {
	return b.ref.Entity()
}

// EntityId returns the id of the owning entity, or InvalidEntityId.
func (b *BehaviourBase) EntityId() EntityId {
	return b.ref.Id()
}

// ComponentTypeOf returns the type tag components of type T are keyed by.
// Systems compare it against ComponentHandle.Type in their notification hooks.
func ComponentTypeOf[T any]() reflect.Type {
	return typeTag[T]()
}

// typeTag returns the type key for components of type T
func typeTag[T any]() reflect.Type {
	return stripPointer(reflect.TypeFor[T]())
}

func stripPointer(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

// boxComponent returns the type tag for a component value and a pointer to it.
// Values that are not pointers are copied into a fresh allocation so that
// later mutation through UseComponent is visible to every holder of the handle.
func boxComponent(component any) (reflect.Type, any, error) {
	if component == nil {
		return nil, nil, fmt.Errorf("%w: nil", ErrInvalidComponent)
	}

	val := reflect.ValueOf(component)
	typ := val.Type()

	if typ.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, nil, fmt.Errorf("%w: nil %s", ErrInvalidComponent, typ)
		}
		if !isComponentKind(typ.Elem()) {
			return nil, nil, fmt.Errorf("%w: %s", ErrInvalidComponent, typ)
		}
		return typ.Elem(), component, nil
	}

	if !isComponentKind(typ) {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidComponent, typ)
	}

	ptr := reflect.New(typ)
	ptr.Elem().Set(val)
	return typ, ptr.Interface(), nil
}

// Components can be structs or primitives, but not pointers, maps, channels,
// or functions.
func isComponentKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return false
	}
	return true
}
