package ecs_test

import (
	"math/rand/v2"
	"testing"

	"github.com/plus3/scenery/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBehaviourSystemIgnoresDataComponents(t *testing.T) {
	scene, behaviours := newBehaviourScene()
	entity := scene.CreateEntity()

	require.NoError(t, entity.AddComponent(Position{X: 1}))
	assert.Equal(t, 0, behaviours.Len())

	scene.Update(1)
	scene.Draw(1)

	x, err := ecs.UseComponent(entity, func(p *Position) float64 { return p.X })
	require.NoError(t, err)
	assert.Equal(t, 1.0, x)
}

func TestBehaviourSystemDispatchOrder(t *testing.T) {
	scene, _ := newBehaviourScene()
	var log []string

	a := scene.CreateEntity()
	b := scene.CreateEntity()
	require.NoError(t, b.AddComponent(&Tracer{Label: "b1", Log: &log}))
	require.NoError(t, a.AddComponent(&Tracer{Label: "a1", Log: &log}))
	require.NoError(t, b.AddComponent(&SecondTracer{Tracer{Label: "b2", Log: &log}}))

	scene.Update(0)
	scene.Update(0)
	scene.Draw(0)

	assert.Equal(t, []string{
		"update:b1", "update:a1", "update:b2",
		"update:b1", "update:a1", "update:b2",
		"draw:b1", "draw:a1", "draw:b2",
	}, log)
}

func TestBehaviourSystemAttachDetachRoundTrip(t *testing.T) {
	scene, behaviours := newBehaviourScene()
	var log []string

	entity := scene.CreateEntity()
	require.NoError(t, entity.AddComponent(&Tracer{Label: "kept", Log: &log}))
	before := behaviours.Subscriptions()

	require.NoError(t, entity.AddComponent(&Mover{}))
	assert.Equal(t, 2, behaviours.Len())
	require.NoError(t, ecs.RemoveComponent[Mover](entity))

	assert.Equal(t, before, behaviours.Subscriptions())
}

func TestBehaviourSystemNoDuplicates(t *testing.T) {
	scene, behaviours := newBehaviourScene()

	entity := scene.CreateEntity()
	require.NoError(t, entity.AddComponent(&Mover{}))
	handle := entity.Components()[0]

	behaviours.OnComponentAttached(handle)
	assert.Equal(t, 1, behaviours.Len())
	assert.True(t, behaviours.Subscribed(handle))

	behaviours.OnComponentDetached(handle)
	assert.False(t, behaviours.Subscribed(handle))
	behaviours.OnComponentDetached(handle)
	assert.Equal(t, 0, behaviours.Len())
}

func TestBehaviourSystemMovesEntities(t *testing.T) {
	scene, _ := newBehaviourScene()
	entity := scene.CreateEntity()

	require.NoError(t, entity.AddComponent(Position{}))
	require.NoError(t, entity.AddComponent(Velocity{DX: 2, DY: -1}))
	require.NoError(t, entity.AddComponent(&Mover{}))

	scene.Update(0.5)
	scene.Update(0.5)

	pos, err := ecs.UseComponent(entity, func(p *Position) Position { return *p })
	require.NoError(t, err)
	assert.Equal(t, Position{X: 2, Y: -1}, pos)
}

// reentrant runs a nested behaviour pass from inside its own Update.
type reentrant struct {
	ecs.BehaviourBase
	Updates int
	nested  bool
}

func (r *reentrant) Update(frame *ecs.UpdateFrame) {
	r.Updates++
	if !r.nested {
		r.nested = true
		frame.Scene.UpdateBehaviour(frame.DeltaTime)
	}
}

func TestBehaviourSystemSkipsBorrowedEntries(t *testing.T) {
	scene, _ := newBehaviourScene()

	outer := &reentrant{}
	counter := &Counter{}
	require.NoError(t, scene.CreateEntity().AddComponent(outer))
	require.NoError(t, scene.CreateEntity().AddComponent(counter))

	assert.NotPanics(t, func() { scene.Update(0) })

	// the nested pass skipped the borrowed outer component
	assert.Equal(t, 1, outer.Updates)
	assert.Equal(t, 2, counter.Updates)
}

// remover detaches a component from another entity during its Update.
type remover struct {
	ecs.BehaviourBase
	target *ecs.Entity
	err    error
}

func (r *remover) Update(*ecs.UpdateFrame) {
	r.err = ecs.RemoveComponent[Counter](r.target)
}

func TestBehaviourSystemDetachDuringPass(t *testing.T) {
	scene, behaviours := newBehaviourScene()

	target := scene.CreateEntity()
	counter := &Counter{}
	rm := &remover{target: target}

	require.NoError(t, scene.CreateEntity().AddComponent(rm))
	require.NoError(t, target.AddComponent(counter))

	scene.Update(0)
	require.NoError(t, rm.err)
	assert.Equal(t, 0, counter.Updates)
	assert.Equal(t, 1, behaviours.Len())
}

// adder attaches a new behaviour to its own entity during Update.
type adder struct {
	ecs.BehaviourBase
	added *Counter
}

func (a *adder) Update(*ecs.UpdateFrame) {
	if a.added == nil {
		a.added = &Counter{}
		_ = a.Entity().AddComponent(a.added)
	}
}

func TestBehaviourSystemAttachDuringPass(t *testing.T) {
	scene, behaviours := newBehaviourScene()
	a := &adder{}
	require.NoError(t, scene.CreateEntity().AddComponent(a))

	scene.Update(0)
	require.NotNil(t, a.added)
	assert.Equal(t, 0, a.added.Updates)
	assert.Equal(t, 2, behaviours.Len())

	scene.Update(0)
	assert.Equal(t, 1, a.added.Updates)
}

// selfDestroyer destroys its own entity from inside Update.
type selfDestroyer struct {
	ecs.BehaviourBase
	Destroyed     int
	destroyErr    error
	validInUpdate bool
}

func (s *selfDestroyer) Update(*ecs.UpdateFrame) {
	entity := s.Entity()
	if entity == nil {
		return
	}
	s.destroyErr = entity.Destroy()
	s.validInUpdate = entity.IsValid()
}

func (s *selfDestroyer) OnDestroyed() {
	s.Destroyed++
}

func TestBehaviourSelfDestroyDuringUpdate(t *testing.T) {
	scene, behaviours := newBehaviourScene()
	entity := scene.CreateEntity()
	sd := &selfDestroyer{}
	require.NoError(t, entity.AddComponent(sd))

	scene.Update(0)

	require.NoError(t, sd.destroyErr)
	assert.False(t, sd.validInUpdate)
	assert.Equal(t, 1, sd.Destroyed)
	assert.False(t, entity.IsValid())
	assert.Equal(t, 0, behaviours.Len())

	scene.Update(0)
	assert.Equal(t, 1, sd.Destroyed)
}

// peeker tries to borrow itself through the entity while already borrowed.
type peeker struct {
	ecs.BehaviourBase
	err error
}

func (p *peeker) Update(*ecs.UpdateFrame) {
	p.err = ecs.WithComponent(p.Entity(), func(*peeker) {})
}

func TestBehaviourReentrantUseComponent(t *testing.T) {
	scene, _ := newBehaviourScene()
	p := &peeker{}
	require.NoError(t, scene.CreateEntity().AddComponent(p))

	scene.Update(0)
	assert.ErrorIs(t, p.err, ecs.ErrBorrowConflict)
}

func TestBehaviourSubscriptionsMatchAttachedComponents(t *testing.T) {
	scene, behaviours := newBehaviourScene()
	rng := rand.New(rand.NewPCG(7, 11))
	var log []string

	entities := make([]*ecs.Entity, 0, 16)
	for i := 0; i < 8; i++ {
		entities = append(entities, scene.CreateEntity())
	}

	for step := 0; step < 500; step++ {
		entity := entities[rng.IntN(len(entities))]

		switch rng.IntN(8) {
		case 0:
			_ = entity.AddComponent(&Tracer{Label: "t", Log: &log})
		case 1:
			_ = entity.AddComponent(&SecondTracer{Tracer{Label: "s", Log: &log}})
		case 2:
			_ = entity.AddComponent(&Mover{})
		case 3:
			_ = entity.AddComponent(Position{})
		case 4:
			_ = ecs.RemoveComponent[Tracer](entity)
		case 5:
			_ = ecs.RemoveComponent[Mover](entity)
		case 6:
			_ = ecs.RemoveComponent[SecondTracer](entity)
		case 7:
			if rng.IntN(4) == 0 {
				_ = entity.Destroy()
				for i, e := range entities {
					if e == entity {
						entities[i] = scene.CreateEntity()
					}
				}
			}
		}

		expected := make(map[*ecs.ComponentHandle]bool)
		for _, e := range scene.Entities() {
			for _, handle := range e.Components() {
				if _, ok := handle.Behaviour(); ok {
					expected[handle] = true
				}
			}
		}

		subscribed := behaviours.Subscriptions()
		require.Len(t, subscribed, len(expected), "step %d", step)
		seen := make(map[*ecs.ComponentHandle]bool)
		for _, handle := range subscribed {
			require.True(t, expected[handle], "step %d: stale subscription", step)
			require.False(t, seen[handle], "step %d: duplicate subscription", step)
			seen[handle] = true
		}
	}
}

func TestBehaviourSystemReserve(t *testing.T) {
	behaviours := ecs.NewBehaviourSystem()
	behaviours.Reserve(64)
	assert.Equal(t, 0, behaviours.Len())
}
