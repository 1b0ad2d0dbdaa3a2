// pkg/physics/vector.go
package physics

import (
	"errors"

	"github.com/chewxy/math32"
)

// ErrDegenerateVector is returned when a zero-length vector is normalized
var ErrDegenerateVector = errors.New("physics: cannot normalize zero-length vector")

// Vec2 represents a 2D vector with x and y components
type Vec2 struct {
	X float32
	Y float32
}

// NewVec2 creates a vector from its components
func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Zero returns the zero vector
func Zero() Vec2 { return Vec2{} }

// One returns the vector (1, 1)
func One() Vec2 { return Vec2{X: 1, Y: 1} }

// UnitX returns the unit vector along the X axis
func UnitX() Vec2 { return Vec2{X: 1} }

// UnitY returns the unit vector along the Y axis
func UnitY() Vec2 { return Vec2{Y: 1} }

// Add returns the sum of two vectors
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vec2) Scale(factor float32) Vec2 {
	return Vec2{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Negate returns the vector pointing the opposite way
func (v Vec2) Negate() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product of two vectors
func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// LengthSqr returns magnitude squared
func (v Vec2) LengthSqr() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Length returns the magnitude of the vector
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.LengthSqr())
}

// Normalize returns a unit vector in the same direction. A vector whose
// length is zero or not finite yields ErrDegenerateVector.
func (v Vec2) Normalize() (Vec2, error) {
	length := v.Length()
	if length == 0 || math32.IsInf(length, 0) || math32.IsNaN(length) {
		return Vec2{}, ErrDegenerateVector
	}
	return Vec2{
		X: v.X / length,
		Y: v.Y / length,
	}, nil
}

// NormalizeOrZero is Normalize with the zero vector standing in for the error
func (v Vec2) NormalizeOrZero() Vec2 {
	n, err := v.Normalize()
	if err != nil {
		return Vec2{}
	}
	return n
}

// Angle returns the unsigned angle between v and other in radians.
// The angle against a zero-length vector is 0.
func (v Vec2) Angle(other Vec2) float32 {
	denom := v.Length() * other.Length()
	if denom == 0 {
		return 0
	}
	cos := v.Dot(other) / denom
	// rounding can push |cos| slightly past 1
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math32.Acos(cos)
}

// Distance returns the distance between two points
func Distance(a, b Vec2) float32 {
	return math32.Sqrt(DistanceSqr(a, b))
}

// DistanceSqr returns the squared distance between two points
func DistanceSqr(a, b Vec2) float32 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// ApproxEqual reports whether both components differ by at most eps
func (v Vec2) ApproxEqual(other Vec2, eps float32) bool {
	return math32.Abs(v.X-other.X) <= eps && math32.Abs(v.Y-other.Y) <= eps
}
