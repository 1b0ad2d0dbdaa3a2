package config

import (
	"fmt"

	"github.com/opd-ai/rigid2d/pkg/physics"
)

// BuildShape converts a shape description into a physics shape
func (s ShapeConfig) BuildShape() (physics.Shape, error) {
	offset := physics.NewVec2(s.OffsetX, s.OffsetY)
	switch s.Type {
	case ShapeTypeCircle:
		return physics.CircleShape(physics.NewCircle(offset, s.Radius)), nil
	case ShapeTypeRectangle:
		return physics.RectShape(physics.NewRect(offset, s.Width, s.Height)), nil
	case ShapeTypeNone, "":
		return physics.NoShape(), nil
	default:
		return physics.Shape{}, fmt.Errorf("%w: unknown shape %q", ErrInvalidConfig, s.Type)
	}
}

// BuildWorld validates the scene and creates a world holding its bodies, in
// order, so body IDs follow the order of the Bodies list.
func BuildWorld(c *SceneConfig) (*physics.World, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	w := physics.NewWorld(c.World.PxToMeters)
	w.SetBounds(c.World.Width, c.World.Height)

	if err := Populate(w, c.Bodies); err != nil {
		return nil, err
	}
	return w, nil
}

// Populate adds the described bodies to w
func Populate(w *physics.World, bodies []BodyConfig) error {
	for i, bc := range bodies {
		shape, err := bc.Shape.BuildShape()
		if err != nil {
			return fmt.Errorf("bodies[%d]: %w", i, err)
		}

		id := w.AddBody(physics.NewVec2(bc.X, bc.Y), shape, bc.Static)
		body, _ := w.GetBody(id)
		body.Velocity = physics.NewVec2(bc.VX, bc.VY)
		if bc.Mass != nil {
			body.Mass = *bc.Mass
		}
		if bc.Friction != nil {
			body.Friction = *bc.Friction
		}
		if bc.Restitution != nil {
			body.Restitution = *bc.Restitution
		}
	}
	return nil
}
