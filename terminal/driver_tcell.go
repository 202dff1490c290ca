package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/termview/geom"
)

// tcellDriver delegates terminal handling to tcell. It trades the
// in-tree escape machinery for tcell's broader terminal coverage,
// including Windows consoles.
type tcellDriver struct {
	mu sync.Mutex

	screen tcell.Screen

	clip       geom.Rect
	curX, curY int
	attr       Attribute
	style      tcell.Style

	eventCh chan Event
	quitCh  chan struct{}
	doneCh  chan struct{}

	lastButtons tcell.ButtonMask

	initialized bool
	finalized   bool
}

func newTcellDriver() Driver {
	return &tcellDriver{
		eventCh: make(chan Event, 256),
		quitCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		style:   tcell.StyleDefault,
	}
}

func (d *tcellDriver) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized {
		return nil
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	s.HideCursor()

	d.screen = s
	d.initialized = true
	go d.eventLoop()
	return nil
}

func (d *tcellDriver) End() {
	d.mu.Lock()
	if !d.initialized || d.finalized {
		d.mu.Unlock()
		return
	}
	d.finalized = true
	s := d.screen
	d.mu.Unlock()

	close(d.quitCh)
	s.Fini() // unblocks the tcell poll inside eventLoop
	<-d.doneCh
}

// eventLoop converts tcell events into toolkit events
func (d *tcellDriver) eventLoop() {
	defer close(d.doneCh)
	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			d.send(Event{Type: EventClosed})
			return
		}
		select {
		case <-d.quitCh:
			d.send(Event{Type: EventClosed})
			return
		default:
		}

		switch tev := ev.(type) {
		case *tcell.EventKey:
			d.send(convertTcellKey(tev))
		case *tcell.EventMouse:
			d.send(d.convertTcellMouse(tev))
		case *tcell.EventResize:
			w, h := tev.Size()
			d.send(Event{Type: EventResize, Width: w, Height: h})
		case *tcell.EventError:
			d.send(Event{Type: EventError, Err: tev})
		}
	}
}

func (d *tcellDriver) send(ev Event) {
	select {
	case d.eventCh <- ev:
	default:
	}
}

func (d *tcellDriver) Size() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.screen == nil {
		return 80, 24
	}
	return d.screen.Size()
}

func (d *tcellDriver) ColorSupport() ColorSupport {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.screen == nil {
		return ColorSupport16
	}
	switch n := d.screen.Colors(); {
	case n >= 1<<24:
		return ColorSupportRGB
	case n >= 256:
		return ColorSupport256
	case n >= 8:
		return ColorSupport16
	default:
		return ColorSupportNone
	}
}

func (d *tcellDriver) MakeAttribute(fg, bg Color, flags CellFlags) Attribute {
	return Attribute{Fg: fg, Bg: bg, Flags: flags}
}

func (d *tcellDriver) Colors() Colors {
	return makeColors(d)
}

func (d *tcellDriver) SetClip(r geom.Rect) {
	d.mu.Lock()
	d.clip = r
	d.mu.Unlock()
}

func (d *tcellDriver) Clip() geom.Rect {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clip
}

func (d *tcellDriver) MoveTo(col, row int) {
	d.mu.Lock()
	d.curX, d.curY = col, row
	d.mu.Unlock()
}

func (d *tcellDriver) SetAttribute(a Attribute) {
	d.mu.Lock()
	if a != d.attr {
		d.attr = a
		d.style = tcellStyle(a)
	}
	d.mu.Unlock()
}

func tcellStyle(a Attribute) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(tcellColor(a.Fg)).
		Background(tcellColor(a.Bg))
	f := a.Flags
	st = st.Bold(f.Has(FlagBold)).
		Dim(f.Has(FlagDim)).
		Underline(f.Has(FlagUnderline)).
		Blink(f.Has(FlagBlink)).
		Reverse(f.Has(FlagInvert) || f.Has(FlagStandout))
	return st
}

func tcellColor(c Color) tcell.Color {
	switch c.Kind {
	case ColorKindNamed, ColorKindPalette:
		return tcell.PaletteColor(int(c.Index))
	case ColorKindRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	default:
		return tcell.ColorDefault
	}
}

func (d *tcellDriver) AddRune(r rune) {
	d.mu.Lock()
	d.addRuneLocked(r)
	d.mu.Unlock()
}

func (d *tcellDriver) AddStr(s string) {
	d.mu.Lock()
	for _, r := range s {
		d.addRuneLocked(r)
	}
	d.mu.Unlock()
}

func (d *tcellDriver) addRuneLocked(r rune) {
	if d.screen == nil || d.finalized {
		return
	}
	w := runewidth.RuneWidth(r)
	if w <= 0 {
		return
	}
	x, y := d.curX, d.curY
	d.curX += w

	if d.clip.Empty() || d.clip.Contains(geom.Pt(x, y)) {
		d.screen.SetContent(x, y, r, nil, d.style)
	}
}

func (d *tcellDriver) UpdateScreen() {
	d.mu.Lock()
	if d.screen != nil && !d.finalized {
		d.screen.Show()
	}
	d.mu.Unlock()
}

func (d *tcellDriver) Refresh() {
	d.mu.Lock()
	if d.screen != nil && !d.finalized {
		d.screen.Sync()
	}
	d.mu.Unlock()
}

func (d *tcellDriver) UpdateCursor(col, row int) {
	d.mu.Lock()
	if d.screen != nil && !d.finalized {
		d.screen.ShowCursor(col, row)
	}
	d.mu.Unlock()
}

func (d *tcellDriver) ShowCursor(visible bool) {
	d.mu.Lock()
	if d.screen != nil && !d.finalized {
		if visible {
			x, y := d.curX, d.curY
			d.screen.ShowCursor(x, y)
		} else {
			d.screen.HideCursor()
		}
	}
	d.mu.Unlock()
}

func (d *tcellDriver) Bell() {
	d.mu.Lock()
	if d.screen != nil && !d.finalized {
		d.screen.Beep()
	}
	d.mu.Unlock()
}

func (d *tcellDriver) Suspend() bool {
	d.mu.Lock()
	s := d.screen
	ok := s != nil && !d.finalized
	d.mu.Unlock()
	if !ok {
		return false
	}
	if err := s.Suspend(); err != nil {
		return false
	}
	return s.Resume() == nil
}

func (d *tcellDriver) PollEvent() Event {
	select {
	case ev := <-d.eventCh:
		return ev
	case <-d.quitCh:
		return Event{Type: EventClosed}
	}
}

func (d *tcellDriver) PostEvent(ev Event) {
	d.send(ev)
}

func convertTcellKey(tev *tcell.EventKey) Event {
	ev := Event{Type: EventKey}

	mods := tev.Modifiers()
	if mods&tcell.ModShift != 0 {
		ev.Modifiers |= ModShift
	}
	if mods&tcell.ModAlt != 0 {
		ev.Modifiers |= ModAlt
	}
	if mods&tcell.ModCtrl != 0 {
		ev.Modifiers |= ModCtrl
	}

	switch key := tev.Key(); key {
	case tcell.KeyRune:
		ev.Key = KeyRune
		ev.Rune = tev.Rune()
	case tcell.KeyEnter:
		ev.Key = KeyEnter
	case tcell.KeyTab:
		ev.Key = KeyTab
	case tcell.KeyBacktab:
		ev.Key = KeyBacktab
	case tcell.KeyEsc:
		ev.Key = KeyEscape
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ev.Key = KeyBackspace
	case tcell.KeyDelete:
		ev.Key = KeyDelete
	case tcell.KeyInsert:
		ev.Key = KeyInsert
	case tcell.KeyUp:
		ev.Key = KeyUp
	case tcell.KeyDown:
		ev.Key = KeyDown
	case tcell.KeyLeft:
		ev.Key = KeyLeft
	case tcell.KeyRight:
		ev.Key = KeyRight
	case tcell.KeyHome:
		ev.Key = KeyHome
	case tcell.KeyEnd:
		ev.Key = KeyEnd
	case tcell.KeyPgUp:
		ev.Key = KeyPageUp
	case tcell.KeyPgDn:
		ev.Key = KeyPageDown
	default:
		switch {
		case key >= tcell.KeyF1 && key <= tcell.KeyF12:
			ev.Key = KeyF1 + Key(key-tcell.KeyF1)
		case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlG:
			ev.Key = KeyCtrlA + Key(key-tcell.KeyCtrlA)
		case key == tcell.KeyCtrlK:
			ev.Key = KeyCtrlK
		case key == tcell.KeyCtrlL:
			ev.Key = KeyCtrlL
		case key == tcell.KeyCtrlN:
			ev.Key = KeyCtrlN
		case key == tcell.KeyCtrlO:
			ev.Key = KeyCtrlO
		case key == tcell.KeyCtrlP:
			ev.Key = KeyCtrlP
		case key >= tcell.KeyCtrlQ && key <= tcell.KeyCtrlZ:
			ev.Key = KeyCtrlQ + Key(key-tcell.KeyCtrlQ)
		default:
			ev.Key = KeyUnknown
		}
	}
	return ev
}

func (d *tcellDriver) convertTcellMouse(tev *tcell.EventMouse) Event {
	x, y := tev.Position()
	ev := Event{Type: EventMouse, MouseX: x, MouseY: y}

	mods := tev.Modifiers()
	if mods&tcell.ModShift != 0 {
		ev.Modifiers |= ModShift
	}
	if mods&tcell.ModAlt != 0 {
		ev.Modifiers |= ModAlt
	}
	if mods&tcell.ModCtrl != 0 {
		ev.Modifiers |= ModCtrl
	}

	buttons := tev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		ev.MouseButton = MouseBtnWheelUp
		ev.MouseAction = MouseActionPress
	case buttons&tcell.WheelDown != 0:
		ev.MouseButton = MouseBtnWheelDown
		ev.MouseAction = MouseActionPress
	default:
		d.mu.Lock()
		prev := d.lastButtons
		d.lastButtons = buttons
		d.mu.Unlock()

		pressed := buttons &^ prev
		released := prev &^ buttons

		switch {
		case pressed != 0:
			ev.MouseButton = firstButton(pressed)
			ev.MouseAction = MouseActionPress
		case released != 0:
			ev.MouseButton = firstButton(released)
			ev.MouseAction = MouseActionRelease
		case buttons != 0:
			ev.MouseButton = firstButton(buttons)
			ev.MouseAction = MouseActionDrag
		default:
			ev.MouseButton = MouseBtnNone
			ev.MouseAction = MouseActionMove
		}
	}
	return ev
}

func firstButton(m tcell.ButtonMask) MouseButton {
	switch {
	case m&tcell.Button1 != 0:
		return MouseBtnLeft
	case m&tcell.Button2 != 0:
		return MouseBtnMiddle
	case m&tcell.Button3 != 0:
		return MouseBtnRight
	default:
		return MouseBtnNone
	}
}
