package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/scenery/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComponent(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()

	require.NoError(t, entity.AddComponent(Position{X: 1, Y: 2}))
	require.NoError(t, entity.AddComponent(&Velocity{DX: 3}))

	assert.True(t, ecs.HasComponent[Position](entity))
	assert.True(t, ecs.HasComponent[Velocity](entity))
	assert.False(t, ecs.HasComponent[Name](entity))
	assert.Equal(t, 2, entity.ComponentCount())

	pos, err := ecs.UseComponent(entity, func(p *Position) Position { return *p })
	require.NoError(t, err)
	assert.Equal(t, Position{X: 1, Y: 2}, pos)
}

func TestAddComponentPrimitiveTypes(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()

	require.NoError(t, entity.AddComponent(Name("player")))
	require.NoError(t, entity.AddComponent(Score(10)))

	require.NoError(t, ecs.WithComponent(entity, func(s *Score) { *s += 5 }))

	score, err := ecs.UseComponent(entity, func(s *Score) Score { return *s })
	require.NoError(t, err)
	assert.Equal(t, Score(15), score)
}

func TestAddDuplicateComponentKeepsOriginal(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()

	require.NoError(t, entity.AddComponent(Position{X: 1}))

	err := entity.AddComponent(Position{X: 99})
	assert.ErrorIs(t, err, ecs.ErrDuplicateComponent)

	// pointer and value forms share the same slot
	err = entity.AddComponent(&Position{X: 42})
	assert.ErrorIs(t, err, ecs.ErrDuplicateComponent)

	x, err := ecs.UseComponent(entity, func(p *Position) float64 { return p.X })
	require.NoError(t, err)
	assert.Equal(t, 1.0, x)
	assert.Equal(t, 1, entity.ComponentCount())
}

func TestAddInvalidComponent(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()

	var nilPos *Position
	tests := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"nil pointer", nilPos},
		{"map", map[string]int{}},
		{"func", func() {}},
		{"chan", make(chan int)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, entity.AddComponent(tt.value), ecs.ErrInvalidComponent)
		})
	}
	assert.Equal(t, 0, entity.ComponentCount())
}

func TestPointerComponentIsShared(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()

	pos := &Position{X: 1}
	require.NoError(t, entity.AddComponent(pos))

	require.NoError(t, ecs.WithComponent(entity, func(p *Position) { p.X = 7 }))
	assert.Equal(t, 7.0, pos.X)
}

func TestValueComponentIsCopied(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()

	pos := Position{X: 1}
	require.NoError(t, entity.AddComponent(pos))

	require.NoError(t, ecs.WithComponent(entity, func(p *Position) { p.X = 7 }))
	assert.Equal(t, 1.0, pos.X)

	x, _ := ecs.UseComponent(entity, func(p *Position) float64 { return p.X })
	assert.Equal(t, 7.0, x)
}

func TestRemoveComponent(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()

	require.NoError(t, entity.AddComponent(Position{}))
	require.NoError(t, entity.AddComponent(Velocity{}))

	require.NoError(t, ecs.RemoveComponent[Position](entity))
	assert.False(t, ecs.HasComponent[Position](entity))
	assert.True(t, ecs.HasComponent[Velocity](entity))

	assert.ErrorIs(t, ecs.RemoveComponent[Position](entity), ecs.ErrMissingComponent)

	require.NoError(t, entity.RemoveComponentByType(reflect.TypeOf(&Velocity{})))
	assert.Equal(t, 0, entity.ComponentCount())

	// the slot is free again
	require.NoError(t, entity.AddComponent(Position{X: 3}))
}

func TestUseComponentMissing(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()

	_, err := ecs.UseComponent(entity, func(p *Position) int { return 1 })
	assert.ErrorIs(t, err, ecs.ErrMissingComponent)
}

func TestUseComponentTypeMismatch(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()
	require.NoError(t, entity.AddComponent(Position{}))

	called := false
	err := ecs.WithComponent(entity, func(p **Position) { called = true })
	assert.ErrorIs(t, err, ecs.ErrTypeMismatch)
	assert.False(t, called)
}

func TestUseComponentReentrantBorrowFails(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()
	require.NoError(t, entity.AddComponent(Position{X: 1}))

	var inner error
	outer := ecs.WithComponent(entity, func(p *Position) {
		inner = ecs.WithComponent(entity, func(p *Position) { p.X = 100 })
		p.X = 2
	})

	require.NoError(t, outer)
	assert.ErrorIs(t, inner, ecs.ErrBorrowConflict)

	x, err := ecs.UseComponent(entity, func(p *Position) float64 { return p.X })
	require.NoError(t, err)
	assert.Equal(t, 2.0, x)
}

func TestUseComponentDifferentTypesNest(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()
	require.NoError(t, entity.AddComponent(Position{}))
	require.NoError(t, entity.AddComponent(Velocity{DX: 4}))

	err := ecs.WithComponent(entity, func(p *Position) {
		dx, err := ecs.UseComponent(entity, func(v *Velocity) float64 { return v.DX })
		require.NoError(t, err)
		p.X = dx
	})
	require.NoError(t, err)

	x, _ := ecs.UseComponent(entity, func(p *Position) float64 { return p.X })
	assert.Equal(t, 4.0, x)
}

func TestBehaviourBackReference(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()

	mover := &Mover{}
	assert.Nil(t, mover.Entity())
	assert.Equal(t, ecs.InvalidEntityId, mover.EntityId())

	require.NoError(t, entity.AddComponent(mover))
	assert.Same(t, entity, mover.Entity())
	assert.Equal(t, entity.Id(), mover.EntityId())

	require.NoError(t, ecs.RemoveComponent[Mover](entity))
	assert.Nil(t, mover.Entity())
	assert.Equal(t, ecs.InvalidEntityId, mover.EntityId())
	assert.False(t, mover.EntityRef().IsValid())
}

func TestEntityRefResolvesAbsentAfterDestroy(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()
	ref := entity.Ref()

	assert.Same(t, entity, ref.Entity())
	assert.True(t, ref.IsValid())

	require.NoError(t, entity.Destroy())
	assert.Nil(t, ref.Entity())
	assert.False(t, ref.IsValid())

	var empty ecs.EntityRef
	assert.Nil(t, empty.Entity())
	assert.Equal(t, ecs.InvalidEntityId, empty.Id())
}

func TestDestroyedEntityRejectsOperations(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()
	require.NoError(t, entity.AddComponent(Position{}))

	require.NoError(t, entity.Destroy())

	assert.False(t, entity.IsValid())
	assert.Nil(t, entity.Scene())
	assert.Equal(t, ecs.InvalidEntityId, entity.Id())
	assert.Equal(t, 0, entity.ComponentCount())
	assert.Empty(t, entity.Components())

	assert.ErrorIs(t, entity.AddComponent(Velocity{}), ecs.ErrInvalidEntity)
	assert.ErrorIs(t, ecs.RemoveComponent[Position](entity), ecs.ErrInvalidEntity)
	_, err := ecs.UseComponent(entity, func(p *Position) int { return 0 })
	assert.ErrorIs(t, err, ecs.ErrInvalidEntity)
	assert.False(t, ecs.HasComponent[Position](entity))

	assert.ErrorIs(t, entity.Destroy(), ecs.ErrInvalidEntity)
}

func TestComponentsInAttachOrder(t *testing.T) {
	scene := ecs.NewScene()
	entity := scene.CreateEntity()

	require.NoError(t, entity.AddComponent(Velocity{}))
	require.NoError(t, entity.AddComponent(Name("a")))
	require.NoError(t, entity.AddComponent(Position{}))
	require.NoError(t, ecs.RemoveComponent[Name](entity))

	handles := entity.Components()
	require.Len(t, handles, 2)
	assert.Equal(t, reflect.TypeOf(Velocity{}), handles[0].Type())
	assert.Equal(t, reflect.TypeOf(Position{}), handles[1].Type())

	handle, ok := entity.Component(reflect.TypeOf(Position{}))
	require.True(t, ok)
	assert.Same(t, handles[1], handle)
	assert.True(t, handle.IsAttached())
}
