package ecs

import "reflect"

// ComponentHandle is the shared, type-erased cell a component lives in.
// The owning entity and any number of systems hold the same handle, so
// identity (pointer equality) is what distinguishes two attachments of equal
// values. Access to the value is guarded by a non-blocking exclusive borrow.
type ComponentHandle struct {
	typ      reflect.Type
	value    any
	borrowed bool
	attached bool

	// set when OnDestroyed was requested while the handle was borrowed
	destroyPending bool
}

func newComponentHandle(typ reflect.Type, value any) *ComponentHandle {
	return &ComponentHandle{
		typ:   typ,
		value: value,
	}
}

// Type returns the component's type tag.
func (h *ComponentHandle) Type() reflect.Type {
	return h.typ
}

// Value returns the pointer to the component without borrowing it.
// Prefer Borrow or UseComponent for mutation.
func (h *ComponentHandle) Value() any {
	return h.value
}

// IsBorrowed reports whether someone currently holds exclusive access.
func (h *ComponentHandle) IsBorrowed() bool {
	return h.borrowed
}

// IsAttached reports whether the component is currently attached to an entity.
func (h *ComponentHandle) IsAttached() bool {
	return h.attached
}

// Behaviour returns the behaviour view of the component, if it has one.
func (h *ComponentHandle) Behaviour() (Behaviour, bool) {
	return AsBehaviour(h.value)
}

// Borrow runs f with exclusive access to the component value. It never blocks:
// if the handle is already borrowed, f is not called and Borrow returns false.
func (h *ComponentHandle) Borrow(f func(value any)) bool {
	if h.borrowed {
		return false
	}

	h.borrowed = true
	defer h.release()

	f(h.value)
	return true
}

func (h *ComponentHandle) release() {
	h.borrowed = false
	if h.destroyPending {
		h.destroyPending = false
		h.notifyDestroyed()
	}
}

// notifyDestroyed invokes OnDestroyed on a behaviour component. When the
// handle is borrowed (an entity destroyed from inside one of its own
// components' callbacks) the hook runs as soon as the borrow is released.
func (h *ComponentHandle) notifyDestroyed() {
	behaviour, ok := h.Behaviour()
	if !ok {
		return
	}

	if h.borrowed {
		h.destroyPending = true
		return
	}

	h.Borrow(func(any) {
		behaviour.OnDestroyed()
	})
}
