// pkg/physics/collision.go
package physics

import "fmt"

// Rect is an axis-aligned rectangle anchored at its top-left corner.
// Y grows downward, matching screen coordinates.
type Rect struct {
	Position Vec2
	Width    float32
	Height   float32
}

// NewRect creates a rectangle from its top-left corner and size
func NewRect(pos Vec2, width, height float32) Rect {
	return Rect{Position: pos, Width: width, Height: height}
}

func (r Rect) Left() float32   { return r.Position.X }
func (r Rect) Right() float32  { return r.Position.X + r.Width }
func (r Rect) Top() float32    { return r.Position.Y }
func (r Rect) Bottom() float32 { return r.Position.Y + r.Height }

// ContainsPoint reports whether p lies inside r, edges included
func (r Rect) ContainsPoint(p Vec2) bool {
	return p.X >= r.Left() &&
		p.X <= r.Right() &&
		p.Y >= r.Top() &&
		p.Y <= r.Bottom()
}

// Intersects reports whether two rectangles overlap; shared edges count
func (r Rect) Intersects(other Rect) bool {
	return r.Right() >= other.Left() && r.Left() <= other.Right() &&
		r.Bottom() >= other.Top() && r.Top() <= other.Bottom()
}

// Translate returns r moved by offset
func (r Rect) Translate(offset Vec2) Rect {
	r.Position = r.Position.Add(offset)
	return r
}

// Circle represents a circular collision shape
type Circle struct {
	Position Vec2 // center
	Radius   float32
}

// NewCircle creates a circle from its center and radius
func NewCircle(pos Vec2, radius float32) Circle {
	return Circle{Position: pos, Radius: radius}
}

// Bounds returns the circle's bounding box. The box is one unit wider and
// taller than the diameter so that the rasterised outline fits inside it.
func (c Circle) Bounds() Rect {
	return Rect{
		Position: c.Position.Sub(Vec2{X: c.Radius, Y: c.Radius}),
		Width:    2*c.Radius + 1,
		Height:   2*c.Radius + 1,
	}
}

// Translate returns c moved by offset
func (c Circle) Translate(offset Vec2) Circle {
	c.Position = c.Position.Add(offset)
	return c
}

// CircleCircleCollision reports whether two circles overlap. Touching counts.
func CircleCircleCollision(a, b Circle) bool {
	return Distance(a.Position, b.Position) <= a.Radius+b.Radius
}

// CircleRectCollision is an approximate circle/rectangle test: the circle
// collides when its center lies inside the rectangle grown by the radius on
// every side. Near the corners this reports overlaps a true distance test
// would reject.
func CircleRectCollision(c Circle, r Rect) bool {
	cx, cy := c.Position.X, c.Position.Y
	return cx >= r.Left()-c.Radius && cx <= r.Right()+c.Radius &&
		cy >= r.Top()-c.Radius && cy <= r.Bottom()+c.Radius
}

// ShapeKind identifies the variant held by a Shape
type ShapeKind int

const (
	ShapeNone ShapeKind = iota
	ShapeCircle
	ShapeRectangle
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeNone:
		return "none"
	case ShapeCircle:
		return "circle"
	case ShapeRectangle:
		return "rectangle"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Shape is the collision geometry of a body. Only the field matching Kind is
// meaningful; its position is an offset from the owning body's position.
type Shape struct {
	Kind   ShapeKind
	Circle Circle
	Rect   Rect
}

// NoShape returns an empty shape that never collides
func NoShape() Shape { return Shape{Kind: ShapeNone} }

// CircleShape wraps a circle as a Shape
func CircleShape(c Circle) Shape { return Shape{Kind: ShapeCircle, Circle: c} }

// RectShape wraps a rectangle as a Shape
func RectShape(r Rect) Shape { return Shape{Kind: ShapeRectangle, Rect: r} }

// Translate returns the shape moved by offset
func (s Shape) Translate(offset Vec2) Shape {
	switch s.Kind {
	case ShapeCircle:
		s.Circle = s.Circle.Translate(offset)
	case ShapeRectangle:
		s.Rect = s.Rect.Translate(offset)
	}
	return s
}

// Bounds returns the bounding box of the shape in its own space. An empty
// shape yields a zero-size rectangle at the origin.
func (s Shape) Bounds() Rect {
	switch s.Kind {
	case ShapeCircle:
		return s.Circle.Bounds()
	case ShapeRectangle:
		return s.Rect
	default:
		return Rect{}
	}
}

// Overlaps runs the narrow-phase test between two shapes already placed in
// world space.
func Overlaps(a, b Shape) bool {
	switch {
	case a.Kind == ShapeCircle && b.Kind == ShapeCircle:
		return CircleCircleCollision(a.Circle, b.Circle)
	case a.Kind == ShapeCircle && b.Kind == ShapeRectangle:
		return CircleRectCollision(a.Circle, b.Rect)
	case a.Kind == ShapeRectangle && b.Kind == ShapeCircle:
		return CircleRectCollision(b.Circle, a.Rect)
	case a.Kind == ShapeRectangle && b.Kind == ShapeRectangle:
		return a.Rect.Intersects(b.Rect)
	default:
		return false
	}
}
