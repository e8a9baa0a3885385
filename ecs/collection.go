package ecs

import (
	"reflect"
	"slices"
)

// ComponentCollection bundles many components of one type under a single
// component slot, so an entity can carry several of them. The collection is
// itself a Behaviour: Update, Draw and OnDestroyed fan out to the elements
// that are behaviour-capable, in collection order.
//
// The zero value is an empty collection ready to use.
type ComponentCollection[T any] struct {
	items []collectionItem[T]
	ref   EntityRef
}

// collectionItem pairs an element's handle with the slot Get and Use expose.
// For pointer element types the handle holds the pointer itself, so a
// collection of *B still sees B's behaviour methods.
type collectionItem[T any] struct {
	handle *ComponentHandle
	slot   *T
}

// NewComponentCollection creates a collection holding the given values.
func NewComponentCollection[T any](values ...T) *ComponentCollection[T] {
	c := &ComponentCollection[T]{}
	for _, v := range values {
		c.Add(v)
	}
	return c
}

// Add appends a value to the collection.
func (c *ComponentCollection[T]) Add(value T) {
	slot := &value
	var boxed any = slot
	if reflect.TypeFor[T]().Kind() == reflect.Pointer {
		boxed = value
	}

	handle := newComponentHandle(typeTag[T](), boxed)
	handle.attached = true
	c.items = append(c.items, collectionItem[T]{handle: handle, slot: slot})

	if behaviour, ok := handle.Behaviour(); ok && c.ref.Id() != InvalidEntityId {
		behaviour.SetEntity(c.ref)
	}
}

// Pop removes and returns the most recently added value.
func (c *ComponentCollection[T]) Pop() (T, bool) {
	var zero T
	if len(c.items) == 0 {
		return zero, false
	}

	last := c.items[len(c.items)-1]
	c.items = c.items[:len(c.items)-1]
	last.handle.attached = false

	if behaviour, ok := last.handle.Behaviour(); ok {
		behaviour.SetEntity(EntityRef{})
	}
	return *last.slot, true
}

// Get returns a pointer to the element at index without borrowing it.
func (c *ComponentCollection[T]) Get(index int) (*T, bool) {
	if index < 0 || index >= len(c.items) {
		return nil, false
	}
	return c.items[index].slot, true
}

// Use borrows the element at index for the duration of f. It returns false if
// the index is out of range or the element is already borrowed.
func (c *ComponentCollection[T]) Use(index int, f func(*T)) bool {
	if index < 0 || index >= len(c.items) {
		return false
	}
	item := c.items[index]
	return item.handle.Borrow(func(any) {
		f(item.slot)
	})
}

// Size returns the number of elements.
func (c *ComponentCollection[T]) Size() int {
	return len(c.items)
}

// BehaviourIterate calls f for every behaviour-capable element, skipping
// elements that are currently borrowed elsewhere.
func (c *ComponentCollection[T]) BehaviourIterate(f func(Behaviour)) {
	for _, item := range slices.Clone(c.items) {
		handle := item.handle
		if !handle.attached {
			continue
		}
		behaviour, ok := handle.Behaviour()
		if !ok {
			continue
		}
		handle.Borrow(func(any) {
			f(behaviour)
		})
	}
}

func (c *ComponentCollection[T]) Update(frame *UpdateFrame) {
	c.BehaviourIterate(func(b Behaviour) {
		b.Update(frame)
	})
}

func (c *ComponentCollection[T]) Draw(frame *UpdateFrame) {
	c.BehaviourIterate(func(b Behaviour) {
		b.Draw(frame)
	})
}

func (c *ComponentCollection[T]) OnDestroyed() {
	for _, item := range slices.Clone(c.items) {
		item.handle.notifyDestroyed()
	}
}

// SetEntity records the owning entity and hands the same reference to every
// behaviour-capable element.
func (c *ComponentCollection[T]) SetEntity(ref EntityRef) {
	c.ref = ref
	for _, item := range c.items {
		if behaviour, ok := item.handle.Behaviour(); ok {
			behaviour.SetEntity(ref)
		}
	}
}

// Entity returns the entity the collection is attached to, or nil.
func (c *ComponentCollection[T]) Entity() *Entity {
	return c.ref.Entity()
}
