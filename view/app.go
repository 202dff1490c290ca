package view

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/lixenwraith/termview/geom"
	"github.com/lixenwraith/termview/terminal"
)

// Application owns the driver, the toplevel stack, and the main loop.
// Everything runs on the loop goroutine; views and their state are
// never touched from anywhere else.
type Application struct {
	driver terminal.Driver
	colors terminal.Colors

	stack []*Toplevel
	comp  *compositor

	capture *View

	running bool
}

// NewApplication wraps a driver. The driver is not initialized until
// Run.
func NewApplication(d terminal.Driver) *Application {
	return &Application{driver: d}
}

// Driver returns the owning driver
func (a *Application) Driver() terminal.Driver {
	return a.driver
}

// Colors returns the scheme set built at startup. Valid only once Run
// has initialized the driver.
func (a *Application) Colors() terminal.Colors {
	return a.colors
}

// Push makes a toplevel the modal top of the stack
func (a *Application) Push(t *Toplevel) {
	if t == nil {
		return
	}
	a.stack = append(a.stack, t)
	a.fitToScreen(t)
	t.InvalidateLayout()
}

// Pop removes the topmost toplevel. The one beneath gets a full redraw.
func (a *Application) Pop() *Toplevel {
	if len(a.stack) == 0 {
		return nil
	}
	t := a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
	if a.comp != nil {
		a.comp.invalidate()
	}
	for _, rest := range a.stack {
		rest.SetNeedsDisplay(geom.Rect{})
	}
	return t
}

// Top returns the active toplevel, nil when the stack is empty
func (a *Application) Top() *Toplevel {
	if len(a.stack) == 0 {
		return nil
	}
	return a.stack[len(a.stack)-1]
}

// CaptureMouse routes all mouse input to one view until release;
// drag interactions use this to keep receiving events outside their
// frame
func (a *Application) CaptureMouse(v *View) {
	a.capture = v
}

// ReleaseMouse ends a capture
func (a *Application) ReleaseMouse() {
	a.capture = nil
}

// Suspend stops the process if the driver supports it and forces a
// full redraw on resume
func (a *Application) Suspend() bool {
	if !a.driver.Suspend() {
		return false
	}
	if a.comp != nil {
		a.comp.invalidate()
	}
	for _, t := range a.stack {
		t.SetNeedsDisplay(geom.Rect{})
	}
	return true
}

// Bell sounds the terminal bell
func (a *Application) Bell() {
	a.driver.Bell()
}

// Stop ends the loop after the current iteration
func (a *Application) Stop() {
	a.running = false
	a.driver.PostEvent(terminal.Event{Type: terminal.EventClosed})
}

// Run initializes the driver and runs the loop until the stack empties,
// the driver closes, or an error surfaces. The terminal is restored on
// every exit path, panics included.
func (a *Application) Run(top *Toplevel) (err error) {
	if top == nil {
		return fmt.Errorf("view: Run with nil toplevel")
	}

	if err := a.driver.Init(); err != nil {
		return fmt.Errorf("view: driver init: %w", err)
	}
	defer a.driver.End()

	defer func() {
		if p := recover(); p != nil {
			a.driver.End()
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\napplication panic: %v\r\n%s\r\n", p, debug.Stack())
			err = fmt.Errorf("view: panic in loop: %v", p)
		}
	}()

	a.colors = a.driver.Colors()
	cols, rows := a.driver.Size()
	a.comp = newCompositor(geom.Sz(cols, rows))

	a.Push(top)
	a.running = true

	for a.running && len(a.stack) > 0 {
		t := a.Top()
		if !t.Running() {
			a.Pop()
			continue
		}

		if err := a.render(); err != nil {
			return err
		}

		ev := a.driver.PollEvent()
		switch ev.Type {
		case terminal.EventClosed:
			return nil
		case terminal.EventError:
			return fmt.Errorf("view: driver: %w", ev.Err)
		case terminal.EventResize:
			a.resize(ev.Width, ev.Height)
		case terminal.EventKey:
			a.routeKey(t, ev)
		case terminal.EventMouse:
			a.routeMouse(t, ev)
		}
	}
	return nil
}

func (a *Application) fitToScreen(t *Toplevel) {
	cols, rows := a.driver.Size()
	t.SetFrame(geom.NewRect(0, 0, cols, rows))
}

// resize refits every toplevel and invalidates all layout; nothing
// resolved against the old extent survives
func (a *Application) resize(cols, rows int) {
	if cols < 1 || rows < 1 {
		return
	}
	a.comp.resize(geom.Sz(cols, rows))
	for _, t := range a.stack {
		t.SetFrame(geom.NewRect(0, 0, cols, rows))
		t.InvalidateLayout()
		t.SetNeedsDisplay(geom.Rect{})
	}
}

// render brings the screen up to date: layout, draw dirty views,
// composite, flush, position the cursor
func (a *Application) render() error {
	roots := make([]*View, 0, len(a.stack))
	for _, t := range a.stack {
		if t.needsLayout {
			if err := t.LayoutSubviews(); err != nil {
				return err
			}
		}
		a.drawTree(t.View)
		roots = append(roots, t.View)
	}

	a.comp.composite(roots...)
	a.comp.flush(a.driver)
	a.positionCursor()
	return nil
}

func (a *Application) drawTree(v *View) {
	if !v.needsDisplay.Empty() {
		v.draw(a.colors)
	}
	for _, c := range v.children {
		a.drawTree(c)
	}
}

// positionCursor runs the focused view's cursor hook once per frame,
// after compositing
func (a *Application) positionCursor() {
	t := a.Top()
	if t == nil {
		a.driver.ShowCursor(false)
		return
	}
	f := t.Focused()
	if f == nil || f.CursorPos == nil {
		a.driver.ShowCursor(false)
		return
	}
	p, ok := f.CursorPos()
	if !ok {
		a.driver.ShowCursor(false)
		return
	}
	o := f.ScreenOrigin()
	a.driver.UpdateCursor(o.X+p.X, o.Y+p.Y)
	a.driver.ShowCursor(true)
}

// routeKey runs the three keystroke phases: hot keys innermost first
// along the focus chain, then the focused view, then cold keys
// outermost first across the tree. The first handler returning true
// stops the route.
func (a *Application) routeKey(t *Toplevel, ev terminal.Event) {
	focused := t.Focused()

	// Hot phase: focused view, then its ancestors
	for v := focused; v != nil; v = v.parent {
		if v.HotKeyHandler != nil && v.HotKeyHandler(ev) {
			return
		}
	}

	// Normal phase
	if focused != nil && focused.KeyHandler != nil && focused.KeyHandler(ev) {
		return
	}

	// Cold phase: outermost first. The focused view is offered its cold
	// handler too; it is a separate interest from the normal-phase one.
	if a.coldPhase(t.View, ev) {
		return
	}

	// Built-in focus cycling
	switch ev.Key {
	case terminal.KeyTab:
		t.FocusNext()
	case terminal.KeyBacktab:
		t.FocusPrev()
	}
}

func (a *Application) coldPhase(v *View, ev terminal.Event) bool {
	if v.ColdKeyHandler != nil && v.ColdKeyHandler(ev) {
		return true
	}
	for _, c := range v.children {
		if a.coldPhase(c, ev) {
			return true
		}
	}
	return false
}

// routeMouse hit-tests the topmost toplevel and bubbles unhandled
// events toward the root. A captured view bypasses hit testing.
func (a *Application) routeMouse(t *Toplevel, ev terminal.Event) {
	abs := geom.Pt(ev.MouseX, ev.MouseY)

	if a.capture != nil {
		o := a.capture.ScreenOrigin()
		local := ev
		local.MouseX = abs.X - o.X
		local.MouseY = abs.Y - o.Y
		if a.capture.MouseHandler != nil {
			a.capture.MouseHandler(local)
		}
		return
	}

	if !t.Frame().Contains(abs) {
		return
	}
	rootLocal := geom.Pt(abs.X-t.Frame().Origin.X, abs.Y-t.Frame().Origin.Y)
	target, local := t.HitTest(rootLocal)

	// A press claims focus for focusable targets before delivery
	if ev.MouseAction == terminal.MouseActionPress && target.canFocus {
		t.SetFocus(target)
	}

	for target != nil {
		lev := ev
		lev.MouseX = local.X
		lev.MouseY = local.Y
		if target.MouseHandler != nil && target.MouseHandler(lev) {
			return
		}
		local = geom.Pt(local.X+target.frame.Origin.X, local.Y+target.frame.Origin.Y)
		target = target.parent
	}
}
