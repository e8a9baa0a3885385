package ecs

import (
	"log/slog"
	"reflect"
)

// Commands buffers structural changes requested during a pass. The scene
// flushes the buffer after every Update, Draw and behaviour-only pass, so
// callbacks can create, modify and destroy entities without touching the
// structures currently being iterated.
type Commands struct {
	creates  []createCommand
	destroys []*Entity
	adds     []addComponentCommand
	removes  []removeComponentCommand
	defers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type createCommand struct {
	components []any
	then       func(*Entity)
}

type addComponentCommand struct {
	entity    *Entity
	component any
}

type removeComponentCommand struct {
	entity   *Entity
	compType reflect.Type
}

// Defer queues a function to run at flush time, after all structural changes.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// CreateEntity queues the creation of an entity with the given components.
func (c *Commands) CreateEntity(components ...any) {
	c.creates = append(c.creates, createCommand{components: components})
}

// CreateEntityThen queues an entity creation and calls then with the new
// entity once its components are attached.
func (c *Commands) CreateEntityThen(then func(*Entity), components ...any) {
	c.creates = append(c.creates, createCommand{components: components, then: then})
}

// Destroy queues an entity destruction.
func (c *Commands) Destroy(entity *Entity) {
	c.destroys = append(c.destroys, entity)
}

// AddComponent queues a component attachment.
func (c *Commands) AddComponent(entity *Entity, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component detachment.
func (c *Commands) RemoveComponent(entity *Entity, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.creates) + len(c.destroys) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies queued operations to the scene in the order destroys,
// removes, adds, creates, defers. Operations on entities destroyed in the same
// flush are dropped. Anything queued while flushing is kept for the next flush.
func (c *Commands) Flush(scene *Scene) {
	creates, destroys, adds, removes, defers := c.creates, c.destroys, c.adds, c.removes, c.defers
	c.creates, c.destroys, c.adds, c.removes, c.defers = nil, nil, nil, nil, nil

	logger := scene.logger
	deleted := make(map[*Entity]bool, len(destroys))

	for _, entity := range destroys {
		if err := scene.DestroyEntity(entity); err != nil {
			logger.Debug("deferred destroy failed", slog.Int64("entity", int64(entity.Id())), slog.Any("error", err))
		}
		deleted[entity] = true
	}

	for _, cmd := range removes {
		if deleted[cmd.entity] {
			continue
		}
		if err := cmd.entity.RemoveComponentByType(cmd.compType); err != nil {
			logger.Debug("deferred remove failed", slog.Int64("entity", int64(cmd.entity.Id())), slog.Any("error", err))
		}
	}

	for _, cmd := range adds {
		if deleted[cmd.entity] {
			continue
		}
		if err := cmd.entity.AddComponent(cmd.component); err != nil {
			logger.Debug("deferred add failed", slog.Int64("entity", int64(cmd.entity.Id())), slog.Any("error", err))
		}
	}

	for _, cmd := range creates {
		entity := scene.CreateEntity()
		for _, component := range cmd.components {
			if err := entity.AddComponent(component); err != nil {
				logger.Debug("deferred create failed", slog.Int64("entity", int64(entity.Id())), slog.Any("error", err))
			}
		}
		if cmd.then != nil {
			cmd.then(entity)
		}
	}

	for _, fn := range defers {
		fn()
	}
}
