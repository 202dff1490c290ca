package terminal

import (
	"bufio"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/termview/geom"
)

// seqTable is the escape-sequence vocabulary of an escape driver. The
// term driver fills it from the capability database, the ansi driver
// from hardcoded sequences; everything else they share.
type seqTable struct {
	enterCA    []byte
	exitCA     []byte
	hideCursor []byte
	showCursor []byte
	clear      []byte
	sgr0       []byte
	bell       []byte

	enableMouse  [][]byte
	disableMouse [][]byte

	// gotoXY emits cursor positioning (0-indexed)
	gotoXY func(w *bufio.Writer, col, row int)
	// attr emits the full attribute change sequence
	attr func(w *bufio.Writer, a Attribute)
}

// Attribute encoding bits set by MakeAttribute
const (
	encValid     uint32 = 1 << 31
	encFgDefault uint32 = 1 << 30
	encBgDefault uint32 = 1 << 29
)

// encPalette extracts the precomputed palette indexes, recomputing on
// the fly for attributes assembled outside MakeAttribute
func encPalette(a Attribute) (fg, bg int, fgDef, bgDef bool) {
	if a.enc&encValid != 0 {
		return int(a.enc>>8) & 0xff, int(a.enc) & 0xff,
			a.enc&encFgDefault != 0, a.enc&encBgDefault != 0
	}
	return a.Fg.paletteIndex(), a.Bg.paletteIndex(),
		a.Fg.Kind == ColorKindDefault, a.Bg.Kind == ColorKindDefault
}

// escDriver implements Driver over a backend and a sequence table
type escDriver struct {
	name    string
	backend backend
	seqs    seqTable
	support ColorSupport

	out   *bufio.Writer
	input *inputReader

	resizeCh    chan Event
	syntheticCh chan Event
	quitCh      chan struct{}

	mu          sync.Mutex
	initialized bool
	finalized   bool

	cols, rows int
	clip       geom.Rect

	// Logical and physical cursor; positioning is emitted lazily so
	// consecutive writes coalesce into one run
	curX, curY   int
	physX, physY int
	physValid    bool

	attr      Attribute
	attrValid bool
	lastAttr  Attribute
}

func newEscDriver(name string, b backend, seqs seqTable, support ColorSupport) *escDriver {
	return &escDriver{
		name:        name,
		backend:     b,
		seqs:        seqs,
		support:     support,
		syntheticCh: make(chan Event, 16),
		resizeCh:    make(chan Event, 1),
		quitCh:      make(chan struct{}),
	}
}

func (d *escDriver) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		return nil
	}

	if err := d.backend.Init(); err != nil {
		return err
	}

	d.out = bufio.NewWriterSize(writerFunc(d.backend.Write), 65536)
	d.cols, d.rows = d.backend.Size()

	d.input = newInputReader(d.backend)
	d.backend.SetResizeHandler(func(w, h int) {
		ev := Event{Type: EventResize, Width: w, Height: h}
		// Keep only the latest pending resize
		select {
		case d.resizeCh <- ev:
		default:
			select {
			case <-d.resizeCh:
			default:
			}
			select {
			case d.resizeCh <- ev:
			default:
			}
		}
	})

	d.out.Write(d.seqs.enterCA)
	d.out.Write(d.seqs.hideCursor)
	d.out.Write(csiAutoWrapOff)
	d.out.Write(d.seqs.clear)
	for _, s := range d.seqs.enableMouse {
		d.out.Write(s)
	}
	d.out.Flush()

	d.input.start()
	d.initialized = true
	return nil
}

func (d *escDriver) End() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized || d.finalized {
		return
	}

	d.input.stop()

	for _, s := range d.seqs.disableMouse {
		d.out.Write(s)
	}
	d.out.Write(d.seqs.showCursor)
	d.out.Write(d.seqs.sgr0)
	d.out.Write(csiAutoWrapOn)
	d.out.Write(d.seqs.exitCA)
	d.out.Flush()

	d.backend.Fini()
	d.finalized = true
	close(d.quitCh)
}

func (d *escDriver) Size() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized && !d.finalized {
		d.cols, d.rows = d.backend.Size()
	}
	return d.cols, d.rows
}

func (d *escDriver) ColorSupport() ColorSupport {
	return d.support
}

// MakeAttribute folds the logical colors onto the 256 palette once so
// flushes do not recompute the mapping per cell
func (d *escDriver) MakeAttribute(fg, bg Color, flags CellFlags) Attribute {
	a := Attribute{Fg: fg, Bg: bg, Flags: flags}
	a.enc = encValid | uint32(fg.paletteIndex())<<8 | uint32(bg.paletteIndex())
	if fg.Kind == ColorKindDefault {
		a.enc |= encFgDefault
	}
	if bg.Kind == ColorKindDefault {
		a.enc |= encBgDefault
	}
	return a
}

func (d *escDriver) Colors() Colors {
	return makeColors(d)
}

func (d *escDriver) SetClip(r geom.Rect) {
	d.mu.Lock()
	d.clip = r
	d.mu.Unlock()
}

func (d *escDriver) Clip() geom.Rect {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clip
}

func (d *escDriver) MoveTo(col, row int) {
	d.mu.Lock()
	d.curX, d.curY = col, row
	d.mu.Unlock()
}

func (d *escDriver) SetAttribute(a Attribute) {
	d.mu.Lock()
	d.attr = a
	d.mu.Unlock()
}

func (d *escDriver) AddRune(r rune) {
	d.mu.Lock()
	d.addRuneLocked(r)
	d.mu.Unlock()
}

func (d *escDriver) AddStr(s string) {
	d.mu.Lock()
	for _, r := range s {
		d.addRuneLocked(r)
	}
	d.mu.Unlock()
}

func (d *escDriver) addRuneLocked(r rune) {
	if !d.initialized || d.finalized {
		return
	}

	w := runewidth.RuneWidth(r)
	if w <= 0 {
		return // combining or control rune; cell model has no home for it
	}

	if !d.inClip(d.curX, d.curY) || d.curX+w > d.cols || d.curY >= d.rows {
		d.curX += w
		return
	}

	// Position physical cursor only when the run breaks
	if !d.physValid || d.physX != d.curX || d.physY != d.curY {
		d.seqs.gotoXY(d.out, d.curX, d.curY)
		d.physX, d.physY = d.curX, d.curY
		d.physValid = true
	}

	if !d.attrValid || d.attr != d.lastAttr {
		d.seqs.attr(d.out, d.attr)
		d.lastAttr = d.attr
		d.attrValid = true
	}

	d.out.WriteRune(r)
	d.curX += w
	d.physX += w
}

// inClip reports whether a cell is inside the driver clip; an empty clip
// admits the whole screen
func (d *escDriver) inClip(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	if d.clip.Empty() {
		return true
	}
	return d.clip.Contains(geom.Pt(x, y))
}

func (d *escDriver) UpdateScreen() {
	d.mu.Lock()
	if d.initialized && !d.finalized {
		d.out.Write(d.seqs.sgr0)
		d.attrValid = false
		d.out.Flush()
	}
	d.mu.Unlock()
}

func (d *escDriver) Refresh() {
	d.mu.Lock()
	if d.initialized && !d.finalized {
		d.out.Write(d.seqs.sgr0)
		d.out.Write(d.seqs.clear)
		d.attrValid = false
		d.physValid = false
		d.out.Flush()
	}
	d.mu.Unlock()
}

func (d *escDriver) UpdateCursor(col, row int) {
	d.mu.Lock()
	if d.initialized && !d.finalized {
		d.seqs.gotoXY(d.out, col, row)
		d.physValid = false
		d.out.Flush()
	}
	d.mu.Unlock()
}

func (d *escDriver) ShowCursor(visible bool) {
	d.mu.Lock()
	if d.initialized && !d.finalized {
		if visible {
			d.out.Write(d.seqs.showCursor)
		} else {
			d.out.Write(d.seqs.hideCursor)
		}
		d.out.Flush()
	}
	d.mu.Unlock()
}

func (d *escDriver) Bell() {
	d.mu.Lock()
	if d.initialized && !d.finalized {
		d.out.Write(d.seqs.bell)
		d.out.Flush()
	}
	d.mu.Unlock()
}

// Suspend leaves the alternate screen, stops the process, and restores
// the screen when resumed
func (d *escDriver) Suspend() bool {
	d.mu.Lock()
	if !d.initialized || d.finalized {
		d.mu.Unlock()
		return false
	}
	d.out.Write(d.seqs.showCursor)
	d.out.Write(d.seqs.sgr0)
	d.out.Write(d.seqs.exitCA)
	d.out.Flush()
	d.mu.Unlock()

	ok := d.backend.Suspend()

	d.mu.Lock()
	d.out.Write(d.seqs.enterCA)
	d.out.Write(d.seqs.hideCursor)
	d.out.Write(d.seqs.clear)
	d.attrValid = false
	d.physValid = false
	d.out.Flush()
	d.mu.Unlock()
	return ok
}

func (d *escDriver) PollEvent() Event {
	select {
	case ev := <-d.syntheticCh:
		return ev
	default:
	}

	// Before Init the input channel is nil and never fires
	d.mu.Lock()
	var inputCh <-chan Event
	if d.input != nil {
		inputCh = d.input.events()
	}
	d.mu.Unlock()

	select {
	case <-d.quitCh:
		return Event{Type: EventClosed}
	case ev := <-d.syntheticCh:
		return ev
	case ev := <-inputCh:
		return ev
	case ev := <-d.resizeCh:
		return ev
	}
}

func (d *escDriver) PostEvent(ev Event) {
	select {
	case d.syntheticCh <- ev:
	default:
		// Channel full, drop
	}
}

// writerFunc adapts the backend write into an io.Writer for bufio
type writerFunc func(p []byte) error

func (f writerFunc) Write(p []byte) (int, error) {
	if err := f(p); err != nil {
		return 0, err
	}
	return len(p), nil
}
