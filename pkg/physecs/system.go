// Package physecs runs a physics world as a system of an EngoEngine ecs.World,
// mirroring body state into components each frame.
package physecs

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/rigid2d/pkg/physics"
)

// PhysicsPriority orders the physics system ahead of systems with the
// default priority, so they observe the positions of the current frame.
const PhysicsPriority = 100

// BodyComponent links an entity to a body and holds a copy of its state
// as of the last update.
type BodyComponent struct {
	Body     physics.ID
	Position physics.Vec2
	Velocity physics.Vec2
	Static   bool
}

// GetBodyComponent returns the component itself
func (c *BodyComponent) GetBodyComponent() *BodyComponent {
	return c
}

// Entity is a ready-made entity with a body
type Entity struct {
	ecs.BasicEntity
	BodyComponent
}

type physicsEntity struct {
	basic *ecs.BasicEntity
	body  *BodyComponent
}

// PhysicsSystem steps a physics world from ecs.World.Update
type PhysicsSystem struct {
	world    *physics.World
	entities []physicsEntity
	onStep   func(physics.StepReport)
}

// NewPhysicsSystem wraps w. A nil w creates an empty world with a
// pixels-per-meter scale of 50.
func NewPhysicsSystem(w *physics.World) *PhysicsSystem {
	if w == nil {
		w = physics.NewWorld(50)
	}
	return &PhysicsSystem{world: w}
}

// World returns the wrapped physics world
func (ps *PhysicsSystem) World() *physics.World {
	return ps.world
}

// OnStep registers fn to receive the report of every update
func (ps *PhysicsSystem) OnStep(fn func(physics.StepReport)) {
	ps.onStep = fn
}

// Priority implements ecs.Prioritizer
func (ps *PhysicsSystem) Priority() int {
	return PhysicsPriority
}

// Spawn creates a body and an entity tracking it
func (ps *PhysicsSystem) Spawn(pos physics.Vec2, shape physics.Shape, static bool) *Entity {
	e := &Entity{BasicEntity: ecs.NewBasic()}
	e.BodyComponent.Body = ps.world.AddBody(pos, shape, static)
	ps.Add(&e.BasicEntity, &e.BodyComponent)
	return e
}

// Add tracks an entity whose component names an existing body. Entities
// naming an unknown body are ignored.
func (ps *PhysicsSystem) Add(basic *ecs.BasicEntity, body *BodyComponent) {
	b, ok := ps.world.GetBody(body.Body)
	if !ok {
		return
	}
	syncComponent(body, b)
	ps.entities = append(ps.entities, physicsEntity{basic: basic, body: body})
}

// Remove implements ecs.System. The body stays in the world; only the
// entity stops being updated.
func (ps *PhysicsSystem) Remove(basic ecs.BasicEntity) {
	for i, e := range ps.entities {
		if e.basic.ID() == basic.ID() {
			ps.entities = append(ps.entities[:i], ps.entities[i+1:]...)
			return
		}
	}
}

// Len returns the number of tracked entities
func (ps *PhysicsSystem) Len() int {
	return len(ps.entities)
}

// Update implements ecs.System
func (ps *PhysicsSystem) Update(dt float32) {
	ps.world.Update(dt)

	for _, e := range ps.entities {
		if b, ok := ps.world.GetBody(e.body.Body); ok {
			syncComponent(e.body, b)
		}
	}

	if ps.onStep != nil {
		ps.onStep(ps.world.LastStep())
	}
}

func syncComponent(c *BodyComponent, b *physics.Body) {
	c.Position = b.Position
	c.Velocity = b.Velocity
	c.Static = b.Static
}
