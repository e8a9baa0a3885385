package ecs

import (
	"log/slog"
	"slices"
)

// BehaviourSystem keeps every behaviour-capable component in the scene in
// attach order and drives their Update and Draw methods.
//
// Dispatch is best effort: a component whose handle is already borrowed when
// its turn comes (because an enclosing callback is using it) is skipped for
// that pass instead of failing the pass.
type BehaviourSystem struct {
	subscriptions []subscription
}

type subscription struct {
	handle    *ComponentHandle
	behaviour Behaviour
}

// NewBehaviourSystem creates an empty behaviour system.
func NewBehaviourSystem() *BehaviourSystem {
	return &BehaviourSystem{}
}

// Reserve grows the subscription list to hold at least n more components.
func (b *BehaviourSystem) Reserve(n int) {
	b.subscriptions = slices.Grow(b.subscriptions, n)
}

// Len returns the number of subscribed components.
func (b *BehaviourSystem) Len() int {
	return len(b.subscriptions)
}

// Subscribed reports whether the handle is in the subscription list.
func (b *BehaviourSystem) Subscribed(handle *ComponentHandle) bool {
	return slices.ContainsFunc(b.subscriptions, func(sub subscription) bool {
		return sub.handle == handle
	})
}

// Subscriptions returns the subscribed handles in dispatch order.
func (b *BehaviourSystem) Subscriptions() []*ComponentHandle {
	handles := make([]*ComponentHandle, len(b.subscriptions))
	for i, sub := range b.subscriptions {
		handles[i] = sub.handle
	}
	return handles
}

func (b *BehaviourSystem) OnComponentAttached(handle *ComponentHandle) {
	behaviour, ok := handle.Behaviour()
	if !ok || b.Subscribed(handle) {
		return
	}
	b.subscriptions = append(b.subscriptions, subscription{
		handle:    handle,
		behaviour: behaviour,
	})
}

func (b *BehaviourSystem) OnComponentDetached(handle *ComponentHandle) {
	b.subscriptions = slices.DeleteFunc(b.subscriptions, func(sub subscription) bool {
		return sub.handle == handle
	})
}

func (b *BehaviourSystem) Update(frame *UpdateFrame) {
	b.dispatch(frame, "update", func(behaviour Behaviour) {
		behaviour.Update(frame)
	})
}

func (b *BehaviourSystem) Draw(frame *UpdateFrame) {
	b.dispatch(frame, "draw", func(behaviour Behaviour) {
		behaviour.Draw(frame)
	})
}

// dispatch iterates a snapshot so callbacks may attach or detach components.
// Entries detached earlier in the same pass are not visited.
func (b *BehaviourSystem) dispatch(frame *UpdateFrame, pass string, call func(Behaviour)) {
	for _, sub := range slices.Clone(b.subscriptions) {
		if !sub.handle.attached {
			continue
		}
		if !sub.handle.Borrow(func(any) { call(sub.behaviour) }) {
			frame.logger().Debug("behaviour skipped",
				slog.String("pass", pass),
				slog.String("component", sub.handle.typ.String()),
				slog.Any("error", ErrBorrowConflict))
		}
	}
}
