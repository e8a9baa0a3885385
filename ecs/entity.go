package ecs

import (
	"fmt"
	"reflect"
	"slices"
	"weak"
)

// EntityId identifies an entity within its scene. Ids are allocated from a
// monotonically increasing counter and never reused.
type EntityId int64

// InvalidEntityId is the id carried by destroyed entities and empty refs.
const InvalidEntityId EntityId = -1

// Entity is an identity plus at most one component per concrete type.
// Entities are created by Scene.CreateEntity and destroyed by
// Scene.DestroyEntity (or Entity.Destroy).
type Entity struct {
	id         EntityId
	scene      weak.Pointer[Scene]
	components map[reflect.Type]*ComponentHandle
	order      []*ComponentHandle
	destroying bool
}

func newEntity(id EntityId, scene weak.Pointer[Scene]) *Entity {
	return &Entity{
		id:         id,
		scene:      scene,
		components: make(map[reflect.Type]*ComponentHandle),
	}
}

// Id returns the entity's id, or InvalidEntityId after destruction.
func (e *Entity) Id() EntityId {
	return e.id
}

// Scene returns the owning scene, or nil if the entity is no longer valid.
func (e *Entity) Scene() *Scene {
	if e == nil || e.destroying {
		return nil
	}
	return e.scene.Value()
}

// IsValid reports whether the entity is still attached to a live scene.
func (e *Entity) IsValid() bool {
	return e.Scene() != nil
}

// Ref returns a weak reference to this entity.
func (e *Entity) Ref() EntityRef {
	return EntityRef{id: e.id, scene: e.scene}
}

// Destroy removes the entity from its scene. Destroying an invalid entity
// does nothing and reports ErrInvalidEntity.
func (e *Entity) Destroy() error {
	scene := e.Scene()
	if scene == nil {
		return ErrInvalidEntity
	}
	return scene.DestroyEntity(e)
}

// AddComponent attaches a component. The value may be passed by value or by
// pointer; either way it is keyed by its non-pointer type. Every system
// installed in the scene is notified of the attachment.
func (e *Entity) AddComponent(component any) error {
	scene := e.Scene()
	if scene == nil {
		return ErrInvalidEntity
	}

	typ, value, err := boxComponent(component)
	if err != nil {
		return err
	}

	if _, exists := e.components[typ]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, typ)
	}

	handle := newComponentHandle(typ, value)
	handle.attached = true
	e.components[typ] = handle
	e.order = append(e.order, handle)

	if behaviour, ok := handle.Behaviour(); ok {
		behaviour.SetEntity(e.Ref())
	}

	scene.componentAttached(handle)
	return nil
}

// RemoveComponentByType detaches the component with the given type tag.
// A pointer type is treated as its element type.
func (e *Entity) RemoveComponentByType(compType reflect.Type) error {
	scene := e.Scene()
	if scene == nil {
		return ErrInvalidEntity
	}

	compType = stripPointer(compType)
	handle, ok := e.components[compType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingComponent, compType)
	}

	delete(e.components, compType)
	e.order = slices.DeleteFunc(e.order, func(h *ComponentHandle) bool {
		return h == handle
	})
	e.detachHandle(handle)

	scene.componentDetached(handle)
	return nil
}

func (e *Entity) detachHandle(handle *ComponentHandle) {
	handle.attached = false
	if behaviour, ok := handle.Behaviour(); ok {
		behaviour.SetEntity(EntityRef{})
	}
}

// Component returns the handle for the given type tag.
func (e *Entity) Component(compType reflect.Type) (*ComponentHandle, bool) {
	if !e.IsValid() {
		return nil, false
	}
	handle, ok := e.components[stripPointer(compType)]
	return handle, ok
}

// Components returns the attached handles in attach order.
func (e *Entity) Components() []*ComponentHandle {
	if !e.IsValid() {
		return nil
	}
	return slices.Clone(e.order)
}

// ComponentCount returns the number of attached components.
func (e *Entity) ComponentCount() int {
	return len(e.order)
}

func (e *Entity) handle(compType reflect.Type) (*ComponentHandle, error) {
	if !e.IsValid() {
		return nil, ErrInvalidEntity
	}
	handle, ok := e.components[compType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingComponent, compType)
	}
	return handle, nil
}

// RemoveComponent detaches the component of type T from the entity.
func RemoveComponent[T any](e *Entity) error {
	return e.RemoveComponentByType(typeTag[T]())
}

// HasComponent reports whether a component of type T is attached.
func HasComponent[T any](e *Entity) bool {
	_, ok := e.Component(typeTag[T]())
	return ok
}

// UseComponent borrows the component of type T exclusively for the duration
// of f and returns f's result. It fails if the entity is invalid, the
// component is missing, or the component is already borrowed (a reentrant
// call from inside another use of the same component).
func UseComponent[T any, R any](e *Entity, f func(*T) R) (R, error) {
	var result R

	handle, err := e.handle(typeTag[T]())
	if err != nil {
		return result, err
	}

	ptr, ok := handle.value.(*T)
	if !ok {
		return result, fmt.Errorf("%w: %s holds %T", ErrTypeMismatch, handle.typ, handle.value)
	}

	if !handle.Borrow(func(any) { result = f(ptr) }) {
		return result, fmt.Errorf("%w: %s", ErrBorrowConflict, handle.typ)
	}

	return result, nil
}

// WithComponent is UseComponent for callbacks that return nothing.
func WithComponent[T any](e *Entity, f func(*T)) error {
	_, err := UseComponent(e, func(c *T) struct{} {
		f(c)
		return struct{}{}
	})
	return err
}
