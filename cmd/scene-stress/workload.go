package main

import (
	"math/rand"
	"sync/atomic"

	"github.com/plus3/scenery/ecs"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Health struct {
	Current, Max int
}

// Wanderer moves its entity's Position and occasionally respawns the entity
// through the frame's command buffer.
type Wanderer struct {
	ecs.BehaviourBase
	workload *Workload
}

func (w *Wanderer) Update(frame *ecs.UpdateFrame) {
	entity := w.Entity()
	if entity == nil {
		return
	}

	_ = ecs.WithComponent(entity, func(pos *Position) {
		_ = ecs.WithComponent(entity, func(vel *Velocity) {
			pos.X += vel.DX * frame.DeltaTime
			pos.Y += vel.DY * frame.DeltaTime
		})
	})

	if w.workload.rng.Float64() < w.workload.Churn {
		frame.Commands.Destroy(entity)
		scene := frame.Scene
		frame.Commands.Defer(func() {
			_ = w.workload.Spawn(scene)
		})
	}
}

func (w *Wanderer) OnDestroyed() {
	w.workload.destroyed.Add(1)
}

// Regen heals its entity over time.
type Regen struct {
	ecs.BehaviourBase
	Rate  float64
	carry float64
}

func (r *Regen) Update(frame *ecs.UpdateFrame) {
	r.carry += r.Rate * frame.DeltaTime
	if r.carry < 1 {
		return
	}
	heal := int(r.carry)
	r.carry -= float64(heal)

	if entity := r.Entity(); entity != nil {
		_ = ecs.WithComponent(entity, func(h *Health) {
			h.Current = min(h.Current+heal, h.Max)
		})
	}
}

// Ticker counts its update and draw calls.
type Ticker struct {
	ecs.BehaviourBase
	Updates, Draws int
}

func (t *Ticker) Update(*ecs.UpdateFrame) { t.Updates++ }

func (t *Ticker) Draw(*ecs.UpdateFrame) { t.Draws++ }

// BoundsSystem tracks every Position component through attach notifications
// and wraps them into a fixed area.
type BoundsSystem struct {
	positions map[*ecs.ComponentHandle]struct{}
	Size      float64
}

func (b *BoundsSystem) OnComponentAttached(handle *ecs.ComponentHandle) {
	if handle.Type() == positionType {
		b.positions[handle] = struct{}{}
	}
}

func (b *BoundsSystem) OnComponentDetached(handle *ecs.ComponentHandle) {
	delete(b.positions, handle)
}

func (b *BoundsSystem) Update(*ecs.UpdateFrame) {
	for handle := range b.positions {
		handle.Borrow(func(value any) {
			pos := value.(*Position)
			pos.X = wrap(pos.X, b.Size)
			pos.Y = wrap(pos.Y, b.Size)
		})
	}
}

func wrap(v, size float64) float64 {
	for v < 0 {
		v += size
	}
	for v >= size {
		v -= size
	}
	return v
}

var positionType = ecs.ComponentTypeOf[Position]()

type Workload struct {
	MaxBehaviours  int
	CollectionSize int
	Churn          float64

	rng       *rand.Rand
	spawned   int64
	destroyed atomic.Int64
}

func (w *Workload) Install(scene *ecs.Scene) error {
	return scene.AddSystem(&BoundsSystem{
		positions: make(map[*ecs.ComponentHandle]struct{}),
		Size:      1000,
	})
}

// Spawn creates an entity with data components and 1 to MaxBehaviours
// behaviour components.
func (w *Workload) Spawn(scene *ecs.Scene) error {
	entity := scene.CreateEntity()
	w.spawned++

	components := []any{
		Position{X: w.rng.Float64() * 1000, Y: w.rng.Float64() * 1000},
		Velocity{DX: w.rng.Float64()*20 - 10, DY: w.rng.Float64()*20 - 10},
		Health{Current: 50, Max: 100},
	}

	behaviours := []func() any{
		func() any { return &Wanderer{workload: w} },
		func() any { return &Regen{Rate: 5} },
		func() any { return &Ticker{} },
	}
	n := 1
	if w.MaxBehaviours > 1 {
		n += w.rng.Intn(min(w.MaxBehaviours, len(behaviours)))
	}
	for _, build := range behaviours[:min(n, len(behaviours))] {
		components = append(components, build())
	}

	if w.CollectionSize > 0 {
		tickers := ecs.NewComponentCollection[Ticker]()
		for i := 0; i < w.CollectionSize; i++ {
			tickers.Add(Ticker{})
		}
		components = append(components, tickers)
	}

	for _, c := range components {
		if err := entity.AddComponent(c); err != nil {
			return err
		}
	}
	return nil
}
