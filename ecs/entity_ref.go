package ecs

import "weak"

// EntityRef is a weak reference to an entity: its id plus the owning scene.
// Resolving it goes through the scene's entity table, so a ref to a destroyed
// entity (or to an entity of a scene that has been collected) resolves to nil.
// The zero EntityRef refers to nothing.
type EntityRef struct {
	id    EntityId
	scene weak.Pointer[Scene]
}

// Id returns the referenced entity id, or InvalidEntityId for an empty ref.
func (r EntityRef) Id() EntityId {
	if r.scene == (weak.Pointer[Scene]{}) {
		return InvalidEntityId
	}
	return r.id
}

// Entity resolves the reference.
func (r EntityRef) Entity() *Entity {
	scene := r.scene.Value()
	if scene == nil {
		return nil
	}

	entity, ok := scene.entities.Get(r.id)
	if !ok || !entity.IsValid() {
		return nil
	}
	return entity
}

// IsValid reports whether the reference still resolves to a live entity.
func (r EntityRef) IsValid() bool {
	return r.Entity() != nil
}
