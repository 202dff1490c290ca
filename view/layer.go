package view

import (
	"github.com/lixenwraith/termview/geom"
	"github.com/lixenwraith/termview/terminal"
)

// Layer is a view's private cell buffer, sized to its frame. The
// compositor blits layers back to front into the screen buffer.
type Layer struct {
	size  geom.Size
	cells []terminal.Cell
}

// NewLayer returns a layer filled with blank cells
func NewLayer(size geom.Size) *Layer {
	l := &Layer{}
	l.Resize(size)
	return l
}

// Size returns the layer dimensions
func (l *Layer) Size() geom.Size {
	return l.size
}

// Resize reallocates the buffer. Content does not survive a resize;
// the owner is expected to redraw.
func (l *Layer) Resize(size geom.Size) {
	if size.Width < 0 {
		size.Width = 0
	}
	if size.Height < 0 {
		size.Height = 0
	}
	if size == l.size && l.cells != nil {
		return
	}
	l.size = size
	l.cells = make([]terminal.Cell, size.Width*size.Height)
	l.Clear(terminal.Attribute{})
}

// Clear fills the layer with blank cells in an attribute
func (l *Layer) Clear(attr terminal.Attribute) {
	blank := terminal.Cell{Rune: ' ', Attr: attr}
	for i := range l.cells {
		l.cells[i] = blank
	}
}

// At returns the cell at a coordinate; out of bounds yields a blank
func (l *Layer) At(x, y int) terminal.Cell {
	if x < 0 || y < 0 || x >= l.size.Width || y >= l.size.Height {
		return terminal.Cell{Rune: ' '}
	}
	return l.cells[y*l.size.Width+x]
}

// Set writes a cell; out-of-bounds writes are dropped
func (l *Layer) Set(x, y int, c terminal.Cell) {
	if x < 0 || y < 0 || x >= l.size.Width || y >= l.size.Height {
		return
	}
	l.cells[y*l.size.Width+x] = c
}
