// pkg/physics/world.go
package physics

import (
	"errors"
	"fmt"
)

// Default world boundary, in pixels
const (
	DefaultWidth  float32 = 800
	DefaultHeight float32 = 600
)

// StandardGravity is the downward acceleration in meters per second squared
const StandardGravity float32 = 9.8

// ErrBodyNotFound is returned when an operation names an unknown body ID
var ErrBodyNotFound = errors.New("physics: body not found")

// Edge names a side of the world boundary
type Edge int

const (
	EdgeBottom Edge = iota
	EdgeRight
	EdgeLeft
)

func (e Edge) String() string {
	switch e {
	case EdgeBottom:
		return "bottom"
	case EdgeRight:
		return "right"
	case EdgeLeft:
		return "left"
	default:
		return fmt.Sprintf("Edge(%d)", int(e))
	}
}

// Contact records a detected collision between two bodies. Normal points
// from A towards B and is only set when HasNormal is true; it is absent
// when both bodies share a position.
type Contact struct {
	A, B      ID
	Normal    Vec2
	HasNormal bool
}

// Bounce records a body being pushed back inside the world boundary. Speed
// is the magnitude of the velocity component before the bounce.
type Bounce struct {
	Body  ID
	Edge  Edge
	Speed float32
}

// StepReport lists what happened during one World.Update call
type StepReport struct {
	Contacts []Contact
	Bounces  []Bounce
}

// World owns a set of bodies and advances them a step at a time. A World is
// not safe for concurrent use.
type World struct {
	objects    []Body
	nextID     ID
	PxToMeters int
	Gravity    Vec2
	Width      float32
	Height     float32

	steps  uint64
	report StepReport
}

// NewWorld creates an empty 800x600 world. Gravity is scaled by pxToMeters
// so integration happens directly in pixel units.
func NewWorld(pxToMeters int) *World {
	return &World{
		objects:    make([]Body, 0, 16),
		nextID:     1,
		PxToMeters: pxToMeters,
		Gravity:    Vec2{X: 0, Y: StandardGravity * float32(pxToMeters)},
		Width:      DefaultWidth,
		Height:     DefaultHeight,
	}
}

// SetBounds changes the size of the containing boundary
func (w *World) SetBounds(width, height float32) {
	w.Width = width
	w.Height = height
}

// AddBody creates a body with default material values and returns its ID.
// IDs start at 1 and increase with every call.
func (w *World) AddBody(pos Vec2, shape Shape, static bool) ID {
	id := w.nextID
	w.nextID++
	w.objects = append(w.objects, newBody(id, pos, shape, static))
	return id
}

// GetBody returns the body with the given ID. The pointer stays valid until
// the next AddBody or Reset call.
func (w *World) GetBody(id ID) (*Body, bool) {
	for i := range w.objects {
		if w.objects[i].ID == id {
			return &w.objects[i], true
		}
	}
	return nil, false
}

// SetVelocity replaces the velocity of a body
func (w *World) SetVelocity(id ID, v Vec2) error {
	b, ok := w.GetBody(id)
	if !ok {
		return fmt.Errorf("set velocity of body %d: %w", id, ErrBodyNotFound)
	}
	b.Velocity = v
	return nil
}

// Len returns the number of bodies
func (w *World) Len() int {
	return len(w.objects)
}

// Bodies returns a copy of all bodies in insertion order
func (w *World) Bodies() []Body {
	out := make([]Body, len(w.objects))
	copy(out, w.objects)
	return out
}

// Each calls fn for every body in insertion order. fn must not add bodies.
func (w *World) Each(fn func(b *Body)) {
	for i := range w.objects {
		fn(&w.objects[i])
	}
}

// Reset removes every body and restarts ID assignment at 1
func (w *World) Reset() {
	w.objects = w.objects[:0]
	w.nextID = 1
	w.steps = 0
	w.report = StepReport{}
}

// Steps returns how many times Update has run
func (w *World) Steps() uint64 {
	return w.steps
}

// LastStep returns the contacts and bounces produced by the latest Update
func (w *World) LastStep() StepReport {
	return w.report
}

// Update advances the simulation by dt seconds: dynamic bodies integrate
// and are contained by the boundary, then every pair of bodies is tested
// for collision.
func (w *World) Update(dt float32) {
	w.report = StepReport{}

	for i := range w.objects {
		b := &w.objects[i]
		if b.Static {
			continue
		}
		b.integrate(w.Gravity, dt)
		w.contain(b)
	}

	n := len(w.objects)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := &w.objects[i], &w.objects[j]
			if !a.Collides(b) {
				continue
			}
			w.react(a, b)
		}
	}

	w.steps++
}

// contain keeps b inside the boundary along the bottom, right and left edges,
// reflecting the crossing velocity component scaled by restitution. Bounds
// are recomputed after each correction, so a body in a corner is placed
// against both edges. The top edge is open.
func (w *World) contain(b *Body) {
	bounds := b.Bounds()
	if bounds.Bottom() > w.Height {
		b.Position.Y -= bounds.Bottom() - w.Height
		w.bounce(b, EdgeBottom, &b.Velocity.Y)
		bounds = b.Bounds()
	}
	if bounds.Right() > w.Width {
		b.Position.X -= bounds.Right() - w.Width
		w.bounce(b, EdgeRight, &b.Velocity.X)
		bounds = b.Bounds()
	}
	if bounds.Left() < 0 {
		b.Position.X -= bounds.Left()
		w.bounce(b, EdgeLeft, &b.Velocity.X)
	}
}

func (w *World) bounce(b *Body, edge Edge, component *float32) {
	speed := *component
	if speed < 0 {
		speed = -speed
	}
	*component = -*component * b.Restitution
	w.report.Bounces = append(w.report.Bounces, Bounce{Body: b.ID, Edge: edge, Speed: speed})
}

// react applies the collision response: a's horizontal motion stops. The
// contact normal is recorded but not used to separate the bodies.
func (w *World) react(a, b *Body) {
	contact := Contact{A: a.ID, B: b.ID}
	if n, err := b.Position.Sub(a.Position).Normalize(); err == nil {
		contact.Normal = n
		contact.HasNormal = true
	}
	a.Velocity.X = 0
	w.report.Contacts = append(w.report.Contacts, contact)
}
