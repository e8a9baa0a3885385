package ecs

import "reflect"

// System observes every component attached to or detached from any entity in
// its scene. Systems that also implement UpdateSystem or DrawSystem are driven
// once per Scene.Update or Scene.Draw pass.
type System interface {
	OnComponentAttached(handle *ComponentHandle)
	OnComponentDetached(handle *ComponentHandle)
}

// UpdateSystem is a System driven by Scene.Update.
type UpdateSystem interface {
	System
	Update(frame *UpdateFrame)
}

// DrawSystem is a System driven by Scene.Draw.
type DrawSystem interface {
	System
	Draw(frame *UpdateFrame)
}

// BaseSystem provides no-op notification hooks. Embed it in systems that do
// not care about attach/detach events.
type BaseSystem struct{}

func (BaseSystem) OnComponentAttached(*ComponentHandle) {}

func (BaseSystem) OnComponentDetached(*ComponentHandle) {}

// systemType returns the type key a system is registered under
func systemType(system System) reflect.Type {
	return stripPointer(reflect.TypeOf(system))
}

func systemName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
