// pkg/physics/body.go
package physics

// ID identifies a body within its world
type ID uint64

// Default material values applied by World.AddBody
const (
	DefaultMass        float32 = 1
	DefaultFriction    float32 = 0.2
	DefaultRestitution float32 = 0.75
)

// Body is a simulated object. Rotation and AngularVelocity are carried for
// consumers but never integrated.
type Body struct {
	ID              ID
	Position        Vec2
	Velocity        Vec2
	Rotation        float32
	AngularVelocity float32
	Mass            float32
	Friction        float32
	Restitution     float32
	Shape           Shape
	Static          bool
}

func newBody(id ID, pos Vec2, shape Shape, static bool) Body {
	return Body{
		ID:          id,
		Position:    pos,
		Mass:        DefaultMass,
		Friction:    DefaultFriction,
		Restitution: DefaultRestitution,
		Shape:       shape,
		Static:      static,
	}
}

// WorldShape returns the body's shape translated to world space
func (b *Body) WorldShape() Shape {
	return b.Shape.Translate(b.Position)
}

// Bounds returns the world-space bounding box of the body's shape. Bodies
// without a shape report a zero-size rectangle at the origin.
func (b *Body) Bounds() Rect {
	if b.Shape.Kind == ShapeNone {
		return Rect{}
	}
	return b.WorldShape().Bounds()
}

// Collides reports whether the two bodies' shapes overlap in world space
func (b *Body) Collides(other *Body) bool {
	return Overlaps(b.WorldShape(), other.WorldShape())
}

// integrate advances a dynamic body by dt under the given acceleration
func (b *Body) integrate(gravity Vec2, dt float32) {
	b.Velocity = b.Velocity.Add(gravity.Scale(dt))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}
