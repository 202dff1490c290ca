// Package layout provides the declarative position and dimension algebra.
// Pos and Dim values are expression trees resolved against a container
// extent at layout time; view-edge anchors additionally read the referenced
// view's already-resolved frame, so the layout pass must order resolution
// accordingly (see Anchors).
package layout

import (
	"fmt"

	"github.com/lixenwraith/termview/geom"
)

// Framer is a laid-out view: anything exposing a resolved frame.
// Edge anchors hold a Framer and read its frame at resolve time.
type Framer interface {
	Frame() geom.Rect
}

// Pos is a horizontal or vertical position expression
type Pos interface {
	// Resolve evaluates the expression against the container extent
	Resolve(extent int) int

	anchors(add func(Framer))
}

// Dim is a width or height expression
type Dim interface {
	Resolve(extent int) int

	anchors(add func(Framer))
}

// Anchors returns the views a Pos expression reads frames from.
// The result drives layout ordering and cycle detection.
func Anchors(p Pos) []Framer {
	if p == nil {
		return nil
	}
	var out []Framer
	p.anchors(func(f Framer) { out = append(out, f) })
	return out
}

// DimAnchors returns the views a Dim expression reads frames from
func DimAnchors(d Dim) []Framer {
	if d == nil {
		return nil
	}
	var out []Framer
	d.anchors(func(f Framer) { out = append(out, f) })
	return out
}

// absolute is a fixed coordinate or extent
type absolute int

func (a absolute) Resolve(int) int      { return int(a) }
func (a absolute) anchors(func(Framer)) {}
func (a absolute) String() string       { return fmt.Sprintf("Abs(%d)", int(a)) }

// At returns a Pos at a fixed coordinate
func At(n int) Pos { return absolute(n) }

// Sized returns a Dim with a fixed extent
func Sized(n int) Dim { return absolute(n) }

// percent resolves to floor(extent * f / 100)
type percent float64

func (p percent) Resolve(extent int) int {
	return int(float64(extent) * float64(p) / 100)
}
func (p percent) anchors(func(Framer)) {}

// PercentPos returns a Pos at f percent of the container extent.
// f outside [0, 100] is a construction error, never deferred to resolve time.
func PercentPos(f float64) (Pos, error) {
	if f < 0 || f > 100 {
		return nil, fmt.Errorf("layout: percent %v out of range [0,100]", f)
	}
	return percent(f), nil
}

// PercentDim returns a Dim of f percent of the container extent
func PercentDim(f float64) (Dim, error) {
	if f < 0 || f > 100 {
		return nil, fmt.Errorf("layout: percent %v out of range [0,100]", f)
	}
	return percent(f), nil
}

// center resolves to the container midpoint (floor division)
type center struct{}

func (center) Resolve(extent int) int { return extent / 2 }
func (center) anchors(func(Framer))   {}

// Center returns a Pos at the container midpoint
func Center() Pos { return center{} }

// anchorEnd resolves to extent - margin. A margin larger than the extent
// yields a non-positive value, preserved so callers can tell the result is
// outside the visible area.
type anchorEnd int

func (a anchorEnd) Resolve(extent int) int { return extent - int(a) }
func (a anchorEnd) anchors(func(Framer))   {}

// AnchorEnd returns a Pos measured back from the container end.
// Negative margins clamp to 0.
func AnchorEnd(margin int) Pos {
	if margin < 0 {
		margin = 0
	}
	return anchorEnd(margin)
}

// fill resolves to the container extent minus a margin, floored at 0
type fill int

func (f fill) Resolve(extent int) int {
	n := extent - int(f)
	if n < 0 {
		return 0
	}
	return n
}
func (f fill) anchors(func(Framer)) {}

// Fill returns a Dim covering the container extent minus margin
func Fill(margin int) Dim { return fill(margin) }

// Edge selects which side of a referenced view an anchor reads
type Edge uint8

const (
	EdgeLeft Edge = iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// viewEdge anchors to an edge of another view's resolved frame
type viewEdge struct {
	view Framer
	edge Edge
}

func (v viewEdge) Resolve(int) int {
	fr := v.view.Frame()
	switch v.edge {
	case EdgeLeft:
		return fr.Left()
	case EdgeRight:
		return fr.Right()
	case EdgeTop:
		return fr.Top()
	default:
		return fr.Bottom()
	}
}

func (v viewEdge) anchors(add func(Framer)) { add(v.view) }

// Left returns a Pos anchored to the left edge of another view
func Left(v Framer) Pos { return viewEdge{view: v, edge: EdgeLeft} }

// Right returns a Pos anchored to the right edge of another view
func Right(v Framer) Pos { return viewEdge{view: v, edge: EdgeRight} }

// Top returns a Pos anchored to the top edge of another view
func Top(v Framer) Pos { return viewEdge{view: v, edge: EdgeTop} }

// Bottom returns a Pos anchored to the bottom edge of another view
func Bottom(v Framer) Pos { return viewEdge{view: v, edge: EdgeBottom} }

// combine composes two resolved expressions with + or -
type combine struct {
	left, right interface {
		Resolve(int) int
		anchors(func(Framer))
	}
	sub bool
}

func (c combine) Resolve(extent int) int {
	l := c.left.Resolve(extent)
	r := c.right.Resolve(extent)
	if c.sub {
		return l - r
	}
	return l + r
}

func (c combine) anchors(add func(Framer)) {
	c.left.anchors(add)
	c.right.anchors(add)
}

// Add returns the sum of two Pos expressions
func Add(a, b Pos) Pos { return combine{left: a, right: b} }

// Sub returns the difference of two Pos expressions
func Sub(a, b Pos) Pos { return combine{left: a, right: b, sub: true} }

// AddDim returns the sum of two Dim expressions
func AddDim(a, b Dim) Dim { return combine{left: a, right: b} }

// SubDim returns the difference of two Dim expressions
func SubDim(a, b Dim) Dim { return combine{left: a, right: b, sub: true} }
