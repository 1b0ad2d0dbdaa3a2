// pkg/physics/body_test.go
package physics

import "testing"

func TestBody_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		body     Body
		expected Rect
	}{
		{
			name:     "circle_padded_by_one",
			body:     newBody(1, Vec2{X: 100, Y: 100}, CircleShape(NewCircle(Vec2{}, 5)), false),
			expected: Rect{Position: Vec2{X: 95, Y: 95}, Width: 11, Height: 11},
		},
		{
			name:     "circle_with_offset",
			body:     newBody(1, Vec2{X: 100, Y: 100}, CircleShape(NewCircle(Vec2{X: 10, Y: -10}, 2)), false),
			expected: Rect{Position: Vec2{X: 108, Y: 88}, Width: 5, Height: 5},
		},
		{
			name:     "rectangle_translated",
			body:     newBody(1, Vec2{X: 50, Y: 60}, RectShape(NewRect(Vec2{X: -5, Y: 0}, 20, 8)), false),
			expected: Rect{Position: Vec2{X: 45, Y: 60}, Width: 20, Height: 8},
		},
		{
			name:     "no_shape_at_origin",
			body:     newBody(1, Vec2{X: 50, Y: 60}, NoShape(), false),
			expected: Rect{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.body.Bounds(); got != tt.expected {
				t.Errorf("Bounds() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func TestBody_Defaults(t *testing.T) {
	b := newBody(7, Vec2{X: 1, Y: 2}, NoShape(), true)

	if b.ID != 7 || !b.Static {
		t.Errorf("unexpected identity: %+v", b)
	}
	if b.Velocity != Zero() {
		t.Errorf("velocity = %v, expected zero", b.Velocity)
	}
	if b.Mass != DefaultMass || b.Friction != DefaultFriction || b.Restitution != DefaultRestitution {
		t.Errorf("material = %v/%v/%v", b.Mass, b.Friction, b.Restitution)
	}
}

func TestBody_Collides(t *testing.T) {
	circleAt := func(x, y, r float32) Body {
		return newBody(1, Vec2{X: x, Y: y}, CircleShape(NewCircle(Vec2{}, r)), false)
	}
	boxAt := func(x, y, w, h float32) Body {
		return newBody(2, Vec2{X: x, Y: y}, RectShape(NewRect(Vec2{}, w, h)), false)
	}

	tests := []struct {
		name     string
		a, b     Body
		expected bool
	}{
		{"circles_overlap", circleAt(0, 0, 5), circleAt(8, 0, 5), true},
		{"circles_apart", circleAt(0, 0, 5), circleAt(11, 0, 5), false},
		{"circle_rect", circleAt(105, 50, 6), boxAt(110, 0, 20, 100), true},
		{"rect_circle", boxAt(110, 0, 20, 100), circleAt(105, 50, 6), true},
		{"circle_rect_apart", circleAt(90, 50, 6), boxAt(110, 0, 20, 100), false},
		{"rects_overlap", boxAt(0, 0, 10, 10), boxAt(9, 9, 10, 10), true},
		{"rects_apart", boxAt(0, 0, 10, 10), boxAt(20, 0, 10, 10), false},
		{"shapeless", newBody(3, Vec2{}, NoShape(), false), circleAt(0, 0, 100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Collides(&tt.b); got != tt.expected {
				t.Errorf("Collides() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestBody_CollidesUsesWorldSpace(t *testing.T) {
	// identical local shapes, far apart in the world
	a := newBody(1, Vec2{X: 0, Y: 0}, RectShape(NewRect(Vec2{}, 10, 10)), false)
	b := newBody(2, Vec2{X: 500, Y: 0}, RectShape(NewRect(Vec2{}, 10, 10)), false)

	if a.Collides(&b) {
		t.Error("bodies far apart should not collide")
	}

	b.Position = Vec2{X: 5, Y: 5}
	if !a.Collides(&b) {
		t.Error("overlapping bodies should collide")
	}
}
