package ecs_test

import (
	"github.com/plus3/scenery/ecs"
)

// Plain data components
type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Name string

type Score int32

// Tracer appends every callback it receives to a shared log.
type Tracer struct {
	ecs.BehaviourBase
	Label string
	Log   *[]string
}

func (t *Tracer) Update(*ecs.UpdateFrame) {
	*t.Log = append(*t.Log, "update:"+t.Label)
}

func (t *Tracer) Draw(*ecs.UpdateFrame) {
	*t.Log = append(*t.Log, "draw:"+t.Label)
}

func (t *Tracer) OnDestroyed() {
	*t.Log = append(*t.Log, "destroyed:"+t.Label)
}

// SecondTracer is a distinct component type with Tracer's behaviour.
type SecondTracer struct {
	Tracer
}

// Mover integrates Velocity into Position on its own entity.
type Mover struct {
	ecs.BehaviourBase
	Updates   int
	Draws     int
	Destroyed int
}

func (m *Mover) Update(frame *ecs.UpdateFrame) {
	m.Updates++
	entity := m.Entity()
	if entity == nil {
		return
	}
	velocity, err := ecs.UseComponent(entity, func(v *Velocity) Velocity { return *v })
	if err != nil {
		return
	}
	_ = ecs.WithComponent(entity, func(p *Position) {
		p.X += velocity.DX * frame.DeltaTime
		p.Y += velocity.DY * frame.DeltaTime
	})
}

func (m *Mover) Draw(*ecs.UpdateFrame) {
	m.Draws++
}

func (m *Mover) OnDestroyed() {
	m.Destroyed++
}

// Counter counts callbacks and is used as a collection element.
type Counter struct {
	ecs.BehaviourBase
	Updates   int
	Draws     int
	Destroyed int
}

func (c *Counter) Update(*ecs.UpdateFrame) { c.Updates++ }

func (c *Counter) Draw(*ecs.UpdateFrame) { c.Draws++ }

func (c *Counter) OnDestroyed() { c.Destroyed++ }

// recorderSystem logs its passes and notifications.
type recorderSystem struct {
	name     string
	log      *[]string
	attached int
	detached int
}

func (r *recorderSystem) OnComponentAttached(*ecs.ComponentHandle) { r.attached++ }

func (r *recorderSystem) OnComponentDetached(*ecs.ComponentHandle) { r.detached++ }

func (r *recorderSystem) Update(*ecs.UpdateFrame) {
	*r.log = append(*r.log, "update:"+r.name)
}

func (r *recorderSystem) Draw(*ecs.UpdateFrame) {
	*r.log = append(*r.log, "draw:"+r.name)
}

type physicsSystem struct {
	recorderSystem
}

type renderSystem struct {
	recorderSystem
}

// drawOnlySystem has no Update method.
type drawOnlySystem struct {
	ecs.BaseSystem
	draws int
}

func (d *drawOnlySystem) Draw(*ecs.UpdateFrame) { d.draws++ }

// passiveSystem only observes notifications.
type passiveSystem struct {
	ecs.BaseSystem
}

func newBehaviourScene() (*ecs.Scene, *ecs.BehaviourSystem) {
	scene := ecs.NewScene()
	behaviours := ecs.NewBehaviourSystem()
	if err := scene.AddSystem(behaviours); err != nil {
		panic(err)
	}
	return scene, behaviours
}
