package view

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/termview/geom"
	"github.com/lixenwraith/termview/terminal"
)

// Painter writes into a layer through a clip rectangle. Writes outside
// the clip are silently dropped; a view cannot paint outside the region
// it was asked to redraw.
type Painter struct {
	layer *Layer
	clip  geom.Rect

	cur  geom.Point
	attr terminal.Attribute
}

// NewPainter returns a painter over a layer, clipped to a region in
// layer coordinates. An empty region clips to the whole layer.
func NewPainter(l *Layer, region geom.Rect) *Painter {
	bounds := geom.Rect{Size: l.Size()}
	clip := bounds
	if !region.Empty() {
		clip = region.Intersect(bounds)
	}
	return &Painter{layer: l, clip: clip}
}

// Clip returns the effective clip rectangle
func (p *Painter) Clip() geom.Rect {
	return p.clip
}

// MoveTo positions the painter cursor in layer coordinates
func (p *Painter) MoveTo(x, y int) {
	p.cur = geom.Pt(x, y)
}

// Cursor returns the current painter cursor
func (p *Painter) Cursor() geom.Point {
	return p.cur
}

// SetAttribute selects the attribute stamped on subsequent writes
func (p *Painter) SetAttribute(a terminal.Attribute) {
	p.attr = a
}

// Attribute returns the current attribute
func (p *Painter) Attribute() terminal.Attribute {
	return p.attr
}

// AddRune writes one rune at the cursor and advances it. Wide runes
// occupy two cells; the continuation cell holds rune 0.
func (p *Painter) AddRune(r rune) {
	w := runewidth.RuneWidth(r)
	if w <= 0 {
		return
	}

	x, y := p.cur.X, p.cur.Y
	p.cur.X += w

	if !p.clip.Contains(geom.Pt(x, y)) {
		return
	}
	// A wide rune straddling the clip edge is dropped whole rather than
	// leaving half a glyph
	if w == 2 && !p.clip.Contains(geom.Pt(x+1, y)) {
		return
	}

	p.layer.Set(x, y, terminal.Cell{Rune: r, Attr: p.attr})
	if w == 2 {
		p.layer.Set(x+1, y, terminal.Cell{Rune: 0, Attr: p.attr})
	}
}

// AddStr writes a string at the cursor
func (p *Painter) AddStr(s string) {
	for _, r := range s {
		p.AddRune(r)
	}
}

// DrawString positions and writes in one call
func (p *Painter) DrawString(x, y int, s string) {
	p.MoveTo(x, y)
	p.AddStr(s)
}

// FillRegion floods a region with one rune in the current attribute
func (p *Painter) FillRegion(region geom.Rect, r rune) {
	area := region.Intersect(p.clip)
	for y := area.Top(); y < area.Bottom(); y++ {
		for x := area.Left(); x < area.Right(); x++ {
			p.layer.Set(x, y, terminal.Cell{Rune: r, Attr: p.attr})
		}
	}
}

// Clear floods the whole clip region with blanks
func (p *Painter) Clear() {
	p.FillRegion(p.clip, ' ')
}

// DrawBorder draws a single-line box on a rectangle's perimeter
func (p *Painter) DrawBorder(r geom.Rect) {
	if r.Size.Width < 2 || r.Size.Height < 2 {
		return
	}
	right, bottom := r.Right()-1, r.Bottom()-1

	p.MoveTo(r.Left(), r.Top())
	p.AddRune('┌')
	for x := r.Left() + 1; x < right; x++ {
		p.AddRune('─')
	}
	p.AddRune('┐')

	for y := r.Top() + 1; y < bottom; y++ {
		p.MoveTo(r.Left(), y)
		p.AddRune('│')
		p.MoveTo(right, y)
		p.AddRune('│')
	}

	p.MoveTo(r.Left(), bottom)
	p.AddRune('└')
	for x := r.Left() + 1; x < right; x++ {
		p.AddRune('─')
	}
	p.AddRune('┘')
}
