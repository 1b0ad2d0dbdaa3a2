// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/rigid2d/pkg/logging"
	"github.com/opd-ai/rigid2d/pkg/physics"
)

// Renderer draws one frame of a world. Clear starts a frame, RenderBody is
// called once per body and Present finishes the frame.
type Renderer interface {
	Clear()
	RenderBody(body *physics.Body)
	Present() error
}

// boundsSetter is implemented by renderers that scale to the world size
type boundsSetter interface {
	SetWorldBounds(width, height float32)
}

// Draw renders every body of w. Bodies are not modified.
func Draw(r Renderer, w *physics.World) error {
	if bs, ok := r.(boundsSetter); ok {
		bs.SetWorldBounds(w.Width, w.Height)
	}
	r.Clear()
	w.Each(func(b *physics.Body) {
		r.RenderBody(b)
	})
	return r.Present()
}

// NullRenderer draws nothing and logs each call at debug level
type NullRenderer struct {
	logger *logging.Logger
	frames int
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{logger: logger}
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// RenderBody implements Renderer.
func (d *NullRenderer) RenderBody(body *physics.Body) {
	ctx := context.Background()
	if body == nil {
		d.logger.Debug(ctx, "RenderBody called with nil body")
		return
	}
	d.logger.Debug(ctx, "RenderBody called",
		"body_id", body.ID,
		"shape", body.Shape.Kind.String(),
		"x", body.Position.X,
		"y", body.Position.Y,
	)
}

// Present implements Renderer.
func (d *NullRenderer) Present() error {
	d.frames++
	d.logger.Debug(context.Background(), "Present called", "frame", d.frames)
	return nil
}

// Frames returns how many frames have been presented
func (d *NullRenderer) Frames() int {
	return d.frames
}
