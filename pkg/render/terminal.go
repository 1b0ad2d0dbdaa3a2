package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/opd-ai/rigid2d/pkg/physics"
)

// Cell symbols used by the terminal renderer
const (
	SymbolEmpty     = ' '
	SymbolRectangle = '#'
	SymbolCircle    = 'o'
	SymbolPoint     = '.'
)

const clearScreen = "\033[H\033[2J"

// TerminalRenderer draws the world as ASCII art, scaling the whole world
// boundary onto a fixed grid of character cells.
type TerminalRenderer struct {
	out         io.Writer
	width       int
	height      int
	buffer      [][]rune
	worldWidth  float32
	worldHeight float32

	// ClearScreen emits an ANSI clear sequence before each frame
	ClearScreen bool
}

// NewTerminalRenderer creates a renderer with a width x height cell grid
// covering an 800x600 world. Draw resizes the mapping to the drawn world.
func NewTerminalRenderer(out io.Writer, width, height int) *TerminalRenderer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	r := &TerminalRenderer{
		out:         out,
		width:       width,
		height:      height,
		buffer:      buffer,
		worldWidth:  physics.DefaultWidth,
		worldHeight: physics.DefaultHeight,
		ClearScreen: true,
	}
	r.Clear()
	return r
}

// SetWorldBounds changes the world area mapped onto the grid
func (r *TerminalRenderer) SetWorldBounds(width, height float32) {
	if width > 0 {
		r.worldWidth = width
	}
	if height > 0 {
		r.worldHeight = height
	}
}

func (r *TerminalRenderer) cellSize() (float32, float32) {
	return r.worldWidth / float32(r.width), r.worldHeight / float32(r.height)
}

// worldToScreen converts world coordinates to a cell, which may lie outside
// the grid.
func (r *TerminalRenderer) worldToScreen(pos physics.Vec2) (int, int) {
	cw, ch := r.cellSize()
	return floorDiv(pos.X, cw), floorDiv(pos.Y, ch)
}

func floorDiv(v, size float32) int {
	q := v / size
	i := int(q)
	if q < 0 && float32(i) != q {
		i--
	}
	return i
}

// lastCell returns the cell holding the far edge of a span ending at v.
// An edge exactly on a cell boundary belongs to the previous cell.
func lastCell(first int, v, size float32) int {
	last := floorDiv(v, size)
	if float32(last)*size == v {
		last--
	}
	if last < first {
		last = first
	}
	return last
}

// clampSpan limits the cell span lo..hi to a grid of n cells. The result is
// empty, with lo > hi, when the span misses the grid.
func clampSpan(lo, hi, n int) (int, int) {
	return max(lo, 0), min(hi, n-1)
}

func (r *TerminalRenderer) set(x, y int, symbol rune) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = symbol
	}
}

// Clear implements Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = SymbolEmpty
		}
	}
}

// RenderBody implements Renderer
func (r *TerminalRenderer) RenderBody(body *physics.Body) {
	if body == nil {
		return
	}
	switch shape := body.WorldShape(); shape.Kind {
	case physics.ShapeRectangle:
		r.fillRect(shape.Rect)
	case physics.ShapeCircle:
		r.fillCircle(shape.Circle)
	default:
		x, y := r.worldToScreen(body.Position)
		r.set(x, y, SymbolPoint)
	}
}

func (r *TerminalRenderer) fillRect(rect physics.Rect) {
	cw, ch := r.cellSize()
	x0, y0 := r.worldToScreen(rect.Position)
	x1, y1 := lastCell(x0, rect.Right(), cw), lastCell(y0, rect.Bottom(), ch)
	x0, x1 = clampSpan(x0, x1, r.width)
	y0, y1 = clampSpan(y0, y1, r.height)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			r.set(x, y, SymbolRectangle)
		}
	}
}

// fillCircle marks every cell whose centre lies inside the circle. A circle
// smaller than a cell still marks the cell holding its centre.
func (r *TerminalRenderer) fillCircle(c physics.Circle) {
	cw, ch := r.cellSize()
	bounds := c.Bounds()
	x0, y0 := r.worldToScreen(bounds.Position)
	x1, y1 := r.worldToScreen(physics.NewVec2(bounds.Right(), bounds.Bottom()))
	x0, x1 = clampSpan(x0, x1, r.width)
	y0, y1 = clampSpan(y0, y1, r.height)
	rr := c.Radius * c.Radius
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			center := physics.NewVec2((float32(x)+0.5)*cw, (float32(y)+0.5)*ch)
			if physics.DistanceSqr(center, c.Position) <= rr {
				r.set(x, y, SymbolCircle)
			}
		}
	}
	x, y := r.worldToScreen(c.Position)
	r.set(x, y, SymbolCircle)
}

// Frame returns the current buffer as newline-separated rows
func (r *TerminalRenderer) Frame() string {
	var sb strings.Builder
	for y := range r.buffer {
		sb.WriteString(string(r.buffer[y]))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Present implements Renderer
func (r *TerminalRenderer) Present() error {
	w := bufio.NewWriter(r.out)
	if r.ClearScreen {
		w.WriteString(clearScreen)
	}

	border := "+" + strings.Repeat("-", r.width) + "+\n"
	w.WriteString(border)
	for y := range r.buffer {
		w.WriteByte('|')
		w.WriteString(string(r.buffer[y]))
		w.WriteString("|\n")
	}
	w.WriteString(border)

	return w.Flush()
}
