package view

import (
	"github.com/lixenwraith/termview/geom"
	"github.com/lixenwraith/termview/terminal"
)

// compositor assembles view layers into a screen buffer and flushes
// only the cells that changed since the previous flush. Flushing an
// unchanged frame emits nothing.
type compositor struct {
	size geom.Size

	cur  []terminal.Cell
	last []terminal.Cell

	// lastValid is false after a resize or Refresh, forcing a full emit
	lastValid bool
}

func newCompositor(size geom.Size) *compositor {
	c := &compositor{}
	c.resize(size)
	return c
}

func (c *compositor) resize(size geom.Size) {
	if size.Width < 0 {
		size.Width = 0
	}
	if size.Height < 0 {
		size.Height = 0
	}
	c.size = size
	n := size.Width * size.Height
	c.cur = make([]terminal.Cell, n)
	c.last = make([]terminal.Cell, n)
	c.lastValid = false
}

// invalidate forgets the flushed state so the next flush emits every cell
func (c *compositor) invalidate() {
	c.lastValid = false
}

// composite rebuilds the screen buffer from the root views, back to
// front; later roots (modal layers) paint over earlier ones
func (c *compositor) composite(roots ...*View) {
	blank := terminal.Cell{Rune: ' '}
	for i := range c.cur {
		c.cur[i] = blank
	}
	screen := geom.Rect{Size: c.size}
	for _, root := range roots {
		c.blit(root, geom.Point{}, screen)
	}
}

// blit copies a view's layer into the screen buffer, clipped to the
// intersection of every ancestor frame; a child overflowing its parent
// never paints outside the parent's bounds
func (c *compositor) blit(v *View, parentOrigin geom.Point, clip geom.Rect) {
	if !v.drawable || v.layer == nil {
		return
	}
	origin := geom.Pt(parentOrigin.X+v.frame.Origin.X, parentOrigin.Y+v.frame.Origin.Y)

	abs := geom.Rect{Origin: origin, Size: v.frame.Size}
	visible := abs.Intersect(clip)
	if visible.Empty() {
		return
	}

	for y := visible.Top(); y < visible.Bottom(); y++ {
		row := y * c.size.Width
		for x := visible.Left(); x < visible.Right(); x++ {
			c.cur[row+x] = v.layer.At(x-origin.X, y-origin.Y)
		}
	}

	for _, child := range v.children {
		c.blit(child, origin, visible)
	}
}

// flush emits changed cells to the driver and records the new state.
// Wide-rune continuation cells (rune 0) ride along with their head cell
// and are never emitted on their own.
func (c *compositor) flush(d terminal.Driver) {
	emitted := false
	for y := 0; y < c.size.Height; y++ {
		row := y * c.size.Width
		for x := 0; x < c.size.Width; x++ {
			cell := c.cur[row+x]
			if c.lastValid && cell == c.last[row+x] {
				continue
			}
			if cell.Rune == 0 {
				continue
			}
			d.MoveTo(x, y)
			d.SetAttribute(cell.Attr)
			d.AddRune(cell.Rune)
			emitted = true
		}
	}

	if emitted || !c.lastValid {
		d.UpdateScreen()
	}
	copy(c.last, c.cur)
	c.lastValid = true
}
