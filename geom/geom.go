// Package geom provides integer cell-grid geometry: points, sizes, and
// rectangles with clipping arithmetic.
package geom

import "fmt"

// Point is a position in cell coordinates
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{x, y}
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Size is a width/height pair, never negative
type Size struct {
	Width, Height int
}

// Sz is shorthand for Size{w, h}, clamping negatives to zero
func Sz(w, h int) Size {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Size{Width: w, Height: h}
}

// Empty returns true if the size covers no cells
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect is an origin plus size. A rect with zero area is "empty" and
// participates in no drawing or hit testing.
type Rect struct {
	Origin Point
	Size   Size
}

// NewRect builds a rect from components, clamping negative dimensions
func NewRect(x, y, w, h int) Rect {
	return Rect{Origin: Pt(x, y), Size: Sz(w, h)}
}

func (r Rect) Left() int   { return r.Origin.X }
func (r Rect) Top() int    { return r.Origin.Y }
func (r Rect) Right() int  { return r.Origin.X + r.Size.Width }
func (r Rect) Bottom() int { return r.Origin.Y + r.Size.Height }

// Empty returns true if the rect covers no cells
func (r Rect) Empty() bool {
	return r.Size.Empty()
}

// Contains reports whether p lies inside r
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X < r.Right() &&
		p.Y >= r.Top() && p.Y < r.Bottom()
}

// Intersect returns the overlap of r and o; empty if they are disjoint
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.Left(), o.Left())
	y0 := max(r.Top(), o.Top())
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return NewRect(x0, y0, x1-x0, y1-y0)
}

// Union returns the smallest rect covering both r and o.
// Empty operands do not grow the result.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := min(r.Left(), o.Left())
	y0 := min(r.Top(), o.Top())
	x1 := max(r.Right(), o.Right())
	y1 := max(r.Bottom(), o.Bottom())
	return NewRect(x0, y0, x1-x0, y1-y0)
}

// Offset returns r translated by (dx, dy)
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{Origin: Pt(r.Origin.X+dx, r.Origin.Y+dy), Size: r.Size}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %s]", r.Origin.X, r.Origin.Y, r.Size)
}
