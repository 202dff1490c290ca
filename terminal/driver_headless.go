package terminal

import (
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/termview/geom"
)

// HeadlessDriver renders into an in-memory cell grid and never touches
// a real terminal. It exists for tests and for running under harnesses
// with no tty; an optional lifetime bound posts a close event so loops
// built on it always terminate.
type HeadlessDriver struct {
	mu sync.Mutex

	cols, rows int
	cells      []Cell

	clip       geom.Rect
	curX, curY int
	attr       Attribute

	cursorX, cursorY int
	cursorVisible    bool

	eventCh chan Event
	quitCh  chan struct{}
	timer   *time.Timer

	lifetime    time.Duration
	initialized bool
	finalized   bool
}

// NewHeadless returns a headless driver with a fixed screen size. A
// zero lifetime means the driver runs until End.
func NewHeadless(cols, rows int, lifetime time.Duration) *HeadlessDriver {
	if cols < 1 {
		cols = 80
	}
	if rows < 1 {
		rows = 24
	}
	return &HeadlessDriver{
		cols:     cols,
		rows:     rows,
		lifetime: lifetime,
		eventCh:  make(chan Event, 256),
		quitCh:   make(chan struct{}),
	}
}

func (d *HeadlessDriver) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized {
		return nil
	}
	d.cells = make([]Cell, d.cols*d.rows)
	d.clearLocked()
	if d.lifetime > 0 {
		d.timer = time.AfterFunc(d.lifetime, func() {
			d.PostEvent(Event{Type: EventClosed})
		})
	}
	d.initialized = true
	return nil
}

func (d *HeadlessDriver) End() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized || d.finalized {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.finalized = true
	close(d.quitCh)
}

func (d *HeadlessDriver) Size() (int, int) {
	return d.cols, d.rows
}

// Resize changes the grid size and synthesizes the resize event a real
// terminal would deliver
func (d *HeadlessDriver) Resize(cols, rows int) {
	d.mu.Lock()
	if cols > 0 && rows > 0 {
		d.cols, d.rows = cols, rows
		d.cells = make([]Cell, cols*rows)
		d.clearLocked()
	}
	d.mu.Unlock()
	d.PostEvent(Event{Type: EventResize, Width: cols, Height: rows})
}

func (d *HeadlessDriver) ColorSupport() ColorSupport {
	return ColorSupportRGB
}

func (d *HeadlessDriver) MakeAttribute(fg, bg Color, flags CellFlags) Attribute {
	return Attribute{Fg: fg, Bg: bg, Flags: flags}
}

func (d *HeadlessDriver) Colors() Colors {
	return makeColors(d)
}

func (d *HeadlessDriver) SetClip(r geom.Rect) {
	d.mu.Lock()
	d.clip = r
	d.mu.Unlock()
}

func (d *HeadlessDriver) Clip() geom.Rect {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clip
}

func (d *HeadlessDriver) MoveTo(col, row int) {
	d.mu.Lock()
	d.curX, d.curY = col, row
	d.mu.Unlock()
}

func (d *HeadlessDriver) SetAttribute(a Attribute) {
	d.mu.Lock()
	d.attr = a
	d.mu.Unlock()
}

func (d *HeadlessDriver) AddRune(r rune) {
	d.mu.Lock()
	d.addRuneLocked(r)
	d.mu.Unlock()
}

func (d *HeadlessDriver) AddStr(s string) {
	d.mu.Lock()
	for _, r := range s {
		d.addRuneLocked(r)
	}
	d.mu.Unlock()
}

func (d *HeadlessDriver) addRuneLocked(r rune) {
	w := runewidth.RuneWidth(r)
	if w <= 0 {
		return
	}
	x, y := d.curX, d.curY
	d.curX += w

	if x < 0 || y < 0 || x+w > d.cols || y >= d.rows {
		return
	}
	if !d.clip.Empty() && !d.clip.Contains(geom.Pt(x, y)) {
		return
	}

	d.cells[y*d.cols+x] = Cell{Rune: r, Attr: d.attr}
	// Wide rune shadows its continuation cell
	for i := 1; i < w; i++ {
		d.cells[y*d.cols+x+i] = Cell{Rune: 0, Attr: d.attr}
	}
}

func (d *HeadlessDriver) UpdateScreen() {}

func (d *HeadlessDriver) Refresh() {
	d.mu.Lock()
	d.clearLocked()
	d.mu.Unlock()
}

func (d *HeadlessDriver) clearLocked() {
	for i := range d.cells {
		d.cells[i] = Cell{Rune: ' '}
	}
}

func (d *HeadlessDriver) UpdateCursor(col, row int) {
	d.mu.Lock()
	d.cursorX, d.cursorY = col, row
	d.mu.Unlock()
}

func (d *HeadlessDriver) ShowCursor(visible bool) {
	d.mu.Lock()
	d.cursorVisible = visible
	d.mu.Unlock()
}

func (d *HeadlessDriver) Bell() {}

func (d *HeadlessDriver) Suspend() bool { return false }

func (d *HeadlessDriver) PollEvent() Event {
	select {
	case ev := <-d.eventCh:
		return ev
	case <-d.quitCh:
		return Event{Type: EventClosed}
	}
}

func (d *HeadlessDriver) PostEvent(ev Event) {
	select {
	case d.eventCh <- ev:
	default:
	}
}

// CellAt returns the cell at a coordinate, or a blank outside the grid
func (d *HeadlessDriver) CellAt(x, y int) Cell {
	d.mu.Lock()
	defer d.mu.Unlock()
	if x < 0 || y < 0 || x >= d.cols || y >= d.rows {
		return Cell{Rune: ' '}
	}
	return d.cells[y*d.cols+x]
}

// Cursor reports the last hardware cursor position and visibility
func (d *HeadlessDriver) Cursor() (x, y int, visible bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursorX, d.cursorY, d.cursorVisible
}

// Snapshot renders the grid as text, one line per row, for assertions
func (d *HeadlessDriver) Snapshot() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var b strings.Builder
	b.Grow((d.cols + 1) * d.rows)
	for y := 0; y < d.rows; y++ {
		for x := 0; x < d.cols; x++ {
			r := d.cells[y*d.cols+x].Rune
			if r == 0 {
				continue // continuation of a wide rune
			}
			b.WriteRune(r)
		}
		if y < d.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
