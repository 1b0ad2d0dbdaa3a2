package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// FieldError describes one invalid setting
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidConfig
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Validate checks the scene for values the physics layer would accept but
// that never make sense, such as negative sizes or unknown shape types. All
// problems are reported together.
func (c *SceneConfig) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if !finite(c.World.Width) || c.World.Width <= 0 {
		add("world.width", "must be a positive number, got %v", c.World.Width)
	}
	if !finite(c.World.Height) || c.World.Height <= 0 {
		add("world.height", "must be a positive number, got %v", c.World.Height)
	}
	if c.World.PxToMeters < 0 {
		add("world.pxToMeters", "must not be negative, got %d", c.World.PxToMeters)
	}

	sim := c.Simulation
	if sim.TickRate <= 0 {
		add("simulation.tickRate", "must be positive, got %d", sim.TickRate)
	}
	if !finite(sim.MaxDelta) || sim.MaxDelta < 0 {
		add("simulation.maxDelta", "must be a non-negative number, got %v", sim.MaxDelta)
	}
	if !finite(sim.FixedDelta) || sim.FixedDelta < 0 {
		add("simulation.fixedDelta", "must be a non-negative number, got %v", sim.FixedDelta)
	}
	if sim.MaxFrames < 0 {
		add("simulation.maxFrames", "must not be negative, got %d", sim.MaxFrames)
	}
	switch sim.Renderer {
	case RendererNull, RendererTerminal:
	default:
		add("simulation.renderer", "unknown renderer %q", sim.Renderer)
	}
	if sim.Renderer == RendererTerminal && (sim.TerminalWidth <= 0 || sim.TerminalHeight <= 0) {
		add("simulation.terminal", "size must be positive, got %dx%d", sim.TerminalWidth, sim.TerminalHeight)
	}

	for i, b := range c.Bodies {
		prefix := fmt.Sprintf("bodies[%d]", i)
		switch b.Shape.Type {
		case ShapeTypeCircle:
			if b.Shape.Radius < 0 {
				add(prefix+".shape.radius", "must not be negative, got %v", b.Shape.Radius)
			}
		case ShapeTypeRectangle:
			if b.Shape.Width < 0 || b.Shape.Height < 0 {
				add(prefix+".shape", "size must not be negative, got %vx%v", b.Shape.Width, b.Shape.Height)
			}
		case ShapeTypeNone, "":
		default:
			add(prefix+".shape.type", "unknown shape %q", b.Shape.Type)
		}
		if b.Mass != nil && *b.Mass <= 0 {
			add(prefix+".mass", "must be positive, got %v", *b.Mass)
		}
		if b.Restitution != nil && (*b.Restitution < 0 || *b.Restitution > 1) {
			add(prefix+".restitution", "must be within [0, 1], got %v", *b.Restitution)
		}
		if b.Friction != nil && *b.Friction < 0 {
			add(prefix+".friction", "must not be negative, got %v", *b.Friction)
		}
	}

	return errors.Join(errs...)
}
