// Package dnd turns pointer movement over a table grid into snapped previews
// and committed cell moves.
package dnd

import "math"

// Point is an offset or position in grid units (pixels, terminal cells, ...).
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is an axis-aligned box. Right and Bottom are exclusive far edges.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// CellSize is the size of one grid cell.
type CellSize struct {
	Width  float64
	Height float64
}

// Geometry holds the grid constants used by snapping and clamping.
type Geometry struct {
	Cell CellSize
	// HeaderWidth is the band of row labels on the left of the container.
	HeaderWidth float64
	// HeaderHeight is the band of column labels on top of the container.
	HeaderHeight float64
	// EdgeMargin keeps the lower bound off the exact header edge.
	EdgeMargin float64
}

// DefaultGeometry returns the pixel constants of the web grid.
func DefaultGeometry() Geometry {
	return Geometry{
		Cell:         CellSize{Width: 80, Height: 30},
		HeaderWidth:  120,
		HeaderHeight: 40,
		EdgeMargin:   1,
	}
}

// Snap rounds v to the nearest multiple of unit, ties away from zero.
func Snap(v, unit float64) float64 {
	if unit <= 0 {
		return v
	}
	return math.Round(v/unit) * unit
}

// Bounds returns the allowed transform range for an element inside container.
func Bounds(g Geometry, container, dragging Rect) (lo, hi Point) {
	lo = Point{
		X: container.Left - dragging.Left + g.HeaderWidth + g.EdgeMargin,
		Y: container.Top - dragging.Top + g.HeaderHeight + g.EdgeMargin,
	}
	hi = Point{
		X: container.Right - dragging.Right,
		Y: container.Bottom - dragging.Bottom,
	}
	return lo, hi
}

// Transform snaps a raw pointer delta to the grid and clamps it so the
// dragged element stays inside the container. Clamping happens after
// snapping, so a clamped value may sit off the grid. With no container or
// no element box the delta is returned unchanged.
func Transform(g Geometry, delta Point, container, dragging *Rect) Point {
	if container == nil || dragging == nil {
		return delta
	}
	lo, hi := Bounds(g, *container, *dragging)
	return Point{
		X: math.Min(math.Max(Snap(delta.X, g.Cell.Width), lo.X), hi.X),
		Y: math.Min(math.Max(Snap(delta.Y, g.Cell.Height), lo.Y), hi.Y),
	}
}

// Quantize converts a raw delta into whole day and slot offsets.
// It floors, unlike the preview which rounds, so a drop can land one cell
// away from the last preview.
func Quantize(g Geometry, delta Point) (dayOffset, timeOffset int) {
	if g.Cell.Width > 0 {
		dayOffset = int(math.Floor(delta.X / g.Cell.Width))
	}
	if g.Cell.Height > 0 {
		timeOffset = int(math.Floor(delta.Y / g.Cell.Height))
	}
	return dayOffset, timeOffset
}
