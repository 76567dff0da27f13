package viz

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/spinarena/internal/pattern"
	"github.com/san-kum/spinarena/internal/sim"
)

// Viewport maps arena coordinates (pixels, y down) onto canvas sub-pixels.
type Viewport struct {
	Canvas         *Canvas
	ScaleX, ScaleY float64
}

// NewViewport fits an arena of the given size to the whole canvas.
func NewViewport(c *Canvas, width, height float64) Viewport {
	v := Viewport{Canvas: c, ScaleX: 1, ScaleY: 1}
	if width > 0 {
		v.ScaleX = float64(c.SubWidth()-1) / width
	}
	if height > 0 {
		v.ScaleY = float64(c.SubHeight()-1) / height
	}
	return v
}

// Project converts an arena point to a sub-pixel.
func (v Viewport) Project(p cp.Vector) (int, int) {
	return int(math.Round(p.X * v.ScaleX)), int(math.Round(p.Y * v.ScaleY))
}

// Unproject converts a sub-pixel back to arena coordinates.
func (v Viewport) Unproject(x, y int) cp.Vector {
	return cp.Vector{X: float64(x) / v.ScaleX, Y: float64(y) / v.ScaleY}
}

func (v Viewport) DrawPath(points []cp.Vector, closed bool) {
	xs := make([]int, len(points))
	ys := make([]int, len(points))
	for i, p := range points {
		xs[i], ys[i] = v.Project(p)
	}
	v.Canvas.DrawPolyline(xs, ys, closed)
}

// DrawBody draws the rim of the disk and its pattern, rotated with the body.
// Held bodies get a second rim.
func (v Viewport) DrawBody(b sim.BodyState) {
	rim := pattern.Pattern{Kind: pattern.Circle}.Paths(b.Radius)[0]
	v.DrawPath(pattern.Place(rim.Points, b.X, b.Y, 0), true)
	if b.Held {
		outer := pattern.Pattern{Kind: pattern.Circle}.Paths(b.Radius + 2/v.ScaleX)[0]
		v.DrawPath(pattern.Place(outer.Points, b.X, b.Y, 0), true)
	}
	for _, path := range b.Pattern.Paths(b.Radius) {
		v.DrawPath(pattern.Place(path.Points, b.X, b.Y, b.Rotation), path.Closed)
	}
}

// DrawFrame clears the canvas and draws the arena border and every body.
func DrawFrame(c *Canvas, f sim.Frame) Viewport {
	c.Clear()
	v := NewViewport(c, f.Width, f.Height)
	c.DrawRect(0, 0, c.SubWidth()-1, c.SubHeight()-1)
	for _, b := range f.Bodies {
		v.DrawBody(b)
	}
	return v
}
