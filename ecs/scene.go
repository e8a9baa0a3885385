package ecs

import (
	"cmp"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"time"
	"weak"

	"github.com/kamstrup/intmap"
)

// Scene owns a set of entities and the systems observing them.
// A Scene is not safe for concurrent use; every operation, including the
// update and draw passes, runs to completion on the calling goroutine.
type Scene struct {
	self     weak.Pointer[Scene]
	entities *intmap.Map[EntityId, *Entity]
	nextId   EntityId

	systems  []*installedSystem
	commands *Commands
	logger   *slog.Logger

	updateTicks uint64
	drawTicks   uint64
}

type installedSystem struct {
	system  System
	typ     reflect.Type
	removed bool
	update  passStatsInternal
	draw    passStatsInternal
}

var behaviourSystemType = reflect.TypeFor[BehaviourSystem]()

// NewScene creates an empty scene.
func NewScene(opts ...SceneOption) *Scene {
	cfg := sceneConfig{
		logger:         discardLogger,
		entityCapacity: 256,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Scene{
		entities: intmap.New[EntityId, *Entity](cfg.entityCapacity),
		commands: newCommands(),
		logger:   cfg.logger,
	}
	s.self = weak.Make(s)

	if cfg.behaviours {
		_ = s.AddSystem(NewBehaviourSystem())
	}

	return s
}

// Commands returns the scene's deferred command buffer.
func (s *Scene) Commands() *Commands {
	return s.commands
}

// CreateEntity allocates a new entity with no components.
func (s *Scene) CreateEntity() *Entity {
	id := s.nextId
	s.nextId++

	entity := newEntity(id, s.self)
	s.entities.Put(id, entity)
	return entity
}

// Entity looks up a live entity by id.
func (s *Scene) Entity(id EntityId) (*Entity, bool) {
	entity, ok := s.entities.Get(id)
	if !ok || !entity.IsValid() {
		return nil, false
	}
	return entity, true
}

// Entities returns all live entities ordered by id.
func (s *Scene) Entities() []*Entity {
	entities := make([]*Entity, 0, s.entities.Len())
	for _, entity := range s.entities.All() {
		entities = append(entities, entity)
	}
	slices.SortFunc(entities, func(a, b *Entity) int {
		return cmp.Compare(a.id, b.id)
	})
	return entities
}

// EntityCount returns the number of live entities.
func (s *Scene) EntityCount() int {
	return s.entities.Len()
}

// DestroyEntity tears an entity down: every behaviour component gets its
// OnDestroyed hook exactly once, then each component is detached (systems
// observe the detach), the component map is cleared, and the entity becomes
// invalid with id InvalidEntityId. Destroying an invalid entity is a no-op
// reporting ErrInvalidEntity.
//
// Unlike a hook-only teardown, systems receive OnComponentDetached for every
// component of the destroyed entity, after all OnDestroyed hooks have run.
func (s *Scene) DestroyEntity(entity *Entity) error {
	if entity == nil || entity.Scene() != s {
		return ErrInvalidEntity
	}

	id := entity.id
	entity.destroying = true
	handles := slices.Clone(entity.order)

	for _, handle := range handles {
		handle.notifyDestroyed()
	}

	for _, handle := range handles {
		entity.detachHandle(handle)
		s.componentDetached(handle)
	}

	clear(entity.components)
	entity.order = nil
	entity.id = InvalidEntityId
	entity.scene = weak.Pointer[Scene]{}
	s.entities.Del(id)

	s.logger.Debug("entity destroyed", slog.Int64("entity", int64(id)), slog.Int("components", len(handles)))
	return nil
}

// AddSystem installs a system. At most one system per concrete type can be
// installed; a duplicate is rejected and the existing instance kept.
// The new system is told about every component already attached, in entity
// id order, so its view of the scene is complete from the start.
func (s *Scene) AddSystem(system System) error {
	if system == nil {
		return ErrInvalidSystem
	}

	typ := systemType(system)
	if s.findSystem(typ) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateSystem, typ)
	}

	s.systems = append(s.systems, &installedSystem{
		system: system,
		typ:    typ,
		update: newPassStats(),
		draw:   newPassStats(),
	})

	for _, entity := range s.Entities() {
		for _, handle := range slices.Clone(entity.order) {
			system.OnComponentAttached(handle)
		}
	}

	s.logger.Debug("system added", slog.String("system", typ.String()))
	return nil
}

// RemoveSystemByType uninstalls the system registered under the given type.
func (s *Scene) RemoveSystemByType(typ reflect.Type) error {
	typ = stripPointer(typ)
	idx := slices.IndexFunc(s.systems, func(entry *installedSystem) bool {
		return entry.typ == typ
	})
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrMissingSystem, typ)
	}

	s.systems[idx].removed = true
	s.systems = slices.Delete(s.systems, idx, idx+1)

	s.logger.Debug("system removed", slog.String("system", typ.String()))
	return nil
}

// Systems returns the installed systems in registration order.
func (s *Scene) Systems() []System {
	systems := make([]System, len(s.systems))
	for i, entry := range s.systems {
		systems[i] = entry.system
	}
	return systems
}

func (s *Scene) findSystem(typ reflect.Type) *installedSystem {
	for _, entry := range s.systems {
		if entry.typ == typ {
			return entry
		}
	}
	return nil
}

// RemoveSystem uninstalls the system of type T.
func RemoveSystem[T System](s *Scene) error {
	return s.RemoveSystemByType(reflect.TypeFor[T]())
}

// GetSystem returns the installed system of type T.
func GetSystem[T System](s *Scene) (T, bool) {
	var zero T
	entry := s.findSystem(stripPointer(reflect.TypeFor[T]()))
	if entry == nil {
		return zero, false
	}
	system, ok := entry.system.(T)
	return system, ok
}

// Update runs one update pass: every installed UpdateSystem in registration
// order, then the deferred commands.
func (s *Scene) Update(dt float64) {
	s.updateTicks++
	frame := newUpdateFrame(dt, s.updateTicks, s, nil)
	s.runUpdate(slices.Clone(s.systems), frame)
	s.commands.Flush(s)
}

// Draw runs one headless draw pass.
func (s *Scene) Draw(dt float64) {
	s.DrawTo(dt, nil)
}

// DrawTo runs one draw pass with the given render target exposed through
// UpdateFrame.Canvas.
func (s *Scene) DrawTo(dt float64, canvas any) {
	s.drawTicks++
	frame := newUpdateFrame(dt, s.drawTicks, s, canvas)
	s.runDraw(slices.Clone(s.systems), frame)
	s.commands.Flush(s)
}

// UpdateBehaviour runs an update pass on the BehaviourSystem alone,
// skipping every other system.
func (s *Scene) UpdateBehaviour(dt float64) {
	entry := s.findSystem(behaviourSystemType)
	if entry == nil {
		return
	}
	s.updateTicks++
	frame := newUpdateFrame(dt, s.updateTicks, s, nil)
	s.runUpdate([]*installedSystem{entry}, frame)
	s.commands.Flush(s)
}

// DrawBehaviour runs a draw pass on the BehaviourSystem alone.
func (s *Scene) DrawBehaviour(dt float64) {
	s.DrawBehaviourTo(dt, nil)
}

// DrawBehaviourTo is DrawBehaviour with a render target.
func (s *Scene) DrawBehaviourTo(dt float64, canvas any) {
	entry := s.findSystem(behaviourSystemType)
	if entry == nil {
		return
	}
	s.drawTicks++
	frame := newUpdateFrame(dt, s.drawTicks, s, canvas)
	s.runDraw([]*installedSystem{entry}, frame)
	s.commands.Flush(s)
}

func (s *Scene) runUpdate(entries []*installedSystem, frame *UpdateFrame) {
	for _, entry := range entries {
		if entry.removed {
			continue
		}
		updatable, ok := entry.system.(UpdateSystem)
		if !ok {
			continue
		}
		start := time.Now()
		updatable.Update(frame)
		entry.update.record(time.Since(start))
	}
}

func (s *Scene) runDraw(entries []*installedSystem, frame *UpdateFrame) {
	for _, entry := range entries {
		if entry.removed {
			continue
		}
		drawable, ok := entry.system.(DrawSystem)
		if !ok {
			continue
		}
		start := time.Now()
		drawable.Draw(frame)
		entry.draw.record(time.Since(start))
	}
}

func (s *Scene) componentAttached(handle *ComponentHandle) {
	for _, entry := range slices.Clone(s.systems) {
		if !entry.removed {
			entry.system.OnComponentAttached(handle)
		}
	}
}

func (s *Scene) componentDetached(handle *ComponentHandle) {
	for _, entry := range slices.Clone(s.systems) {
		if !entry.removed {
			entry.system.OnComponentDetached(handle)
		}
	}
}
