package view

import (
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/termview/geom"
	"github.com/lixenwraith/termview/layout"
	"github.com/lixenwraith/termview/terminal"
)

func runApp(t *testing.T, d terminal.Driver, top *Toplevel) error {
	t.Helper()
	app := NewApplication(d)
	done := make(chan error, 1)
	go func() { done <- app.Run(top) }()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not terminate")
		return nil
	}
}

func TestAppRunsAndStopsOnKey(t *testing.T) {
	d := terminal.NewHeadless(20, 20, 0)
	top := NewToplevel("top")

	bar := New("bar")
	bar.SetPosition(layout.At(0), layout.At(0))
	bar.SetSize(layout.Fill(0), layout.Sized(3))
	bar.Drawer = func(region geom.Rect, p *Painter) {
		p.DrawString(0, 0, "hello")
	}
	top.AddSubview(bar)

	top.ColdKeyHandler = func(ev terminal.Event) bool {
		if ev.Key == terminal.KeyRune && ev.Rune == 'q' {
			top.Stop()
			return true
		}
		return false
	}

	d.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'q'})

	if err := runApp(t, d, top); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The bar laid out against the 20x20 screen: (0,0,20,3)
	if got := bar.Frame(); got != geom.NewRect(0, 0, 20, 3) {
		t.Errorf("Expected (0,0,20,3), got %v", got)
	}
	if !strings.HasPrefix(d.Snapshot(), "hello") {
		t.Errorf("Expected drawn content in snapshot, got %q", d.Snapshot()[:20])
	}
}

func TestAppStopsOnClosedEvent(t *testing.T) {
	d := terminal.NewHeadless(10, 5, 0)
	top := NewToplevel("top")

	d.PostEvent(terminal.Event{Type: terminal.EventClosed})
	if err := runApp(t, d, top); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestAppHeadlessLifetimeBound(t *testing.T) {
	d := terminal.NewHeadless(10, 5, 20*time.Millisecond)
	top := NewToplevel("top")

	if err := runApp(t, d, top); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestAppLayoutCycleIsFatal(t *testing.T) {
	d := terminal.NewHeadless(10, 5, 0)
	top := NewToplevel("top")

	a := New("a")
	b := New("b")
	a.SetPosition(layout.Right(b), layout.At(0))
	a.SetSize(layout.Sized(1), layout.Sized(1))
	b.SetPosition(layout.Right(a), layout.At(0))
	b.SetSize(layout.Sized(1), layout.Sized(1))
	top.AddSubview(a)
	top.AddSubview(b)

	err := runApp(t, d, top)
	if err == nil {
		t.Fatal("Expected layout cycle to terminate the loop with an error")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("Expected cycle error, got %v", err)
	}
}

func TestAppKeyRoutingPhases(t *testing.T) {
	d := terminal.NewHeadless(10, 5, 0)
	top := NewToplevel("top")

	var order []string
	field := New("field")
	field.SetCanFocus(true)
	field.HotKeyHandler = func(ev terminal.Event) bool {
		order = append(order, "hot")
		return false
	}
	field.KeyHandler = func(ev terminal.Event) bool {
		order = append(order, "normal")
		return false
	}
	top.ColdKeyHandler = func(ev terminal.Event) bool {
		order = append(order, "cold")
		top.Stop()
		return true
	}
	top.AddSubview(field)
	top.SetFocus(field)

	d.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'x'})
	if err := runApp(t, d, top); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := "hot,normal,cold"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("Expected phase order %q, got %q", want, got)
	}
}

func TestAppColdPhaseIncludesFocusedView(t *testing.T) {
	d := terminal.NewHeadless(10, 5, 0)
	top := NewToplevel("top")

	// A focused view with an unhandled normal phase still gets its cold
	// handler, like a default button reacting to Enter from anywhere
	coldRan := false
	field := New("field")
	field.SetCanFocus(true)
	field.KeyHandler = func(ev terminal.Event) bool {
		return false
	}
	field.ColdKeyHandler = func(ev terminal.Event) bool {
		coldRan = true
		top.Stop()
		return true
	}
	top.AddSubview(field)
	top.SetFocus(field)

	d.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEnter})
	if err := runApp(t, d, top); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !coldRan {
		t.Error("Expected the focused view's cold handler to run")
	}
}

func TestAppHotKeyShortCircuits(t *testing.T) {
	d := terminal.NewHeadless(10, 5, 0)
	top := NewToplevel("top")

	normalRan := false
	field := New("field")
	field.SetCanFocus(true)
	field.HotKeyHandler = func(ev terminal.Event) bool {
		top.Stop()
		return true
	}
	field.KeyHandler = func(ev terminal.Event) bool {
		normalRan = true
		return false
	}
	top.AddSubview(field)
	top.SetFocus(field)

	d.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'x'})
	if err := runApp(t, d, top); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if normalRan {
		t.Error("Expected hot phase to short-circuit the normal phase")
	}
}

func TestAppTabCyclesFocus(t *testing.T) {
	d := terminal.NewHeadless(10, 5, 0)
	top := NewToplevel("top")

	a := New("a")
	a.SetCanFocus(true)
	b := New("b")
	b.SetCanFocus(true)
	top.AddSubview(a)
	top.AddSubview(b)
	top.SetFocus(a)

	top.ColdKeyHandler = func(ev terminal.Event) bool {
		if ev.Key == terminal.KeyRune && ev.Rune == 'q' {
			top.Stop()
			return true
		}
		return false
	}

	d.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyTab})
	d.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'q'})
	if err := runApp(t, d, top); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if top.Focused() != b {
		t.Error("Expected Tab to move focus to b")
	}
}

func TestAppMouseRouting(t *testing.T) {
	d := terminal.NewHeadless(20, 10, 0)
	top := NewToplevel("top")

	var hit *View
	var at geom.Point
	box := New("box")
	box.SetPosition(layout.At(5), layout.At(2))
	box.SetSize(layout.Sized(8), layout.Sized(4))
	box.MouseHandler = func(ev terminal.Event) bool {
		hit = box
		at = geom.Pt(ev.MouseX, ev.MouseY)
		top.Stop()
		return true
	}
	top.AddSubview(box)

	d.PostEvent(terminal.Event{
		Type: terminal.EventMouse, MouseX: 7, MouseY: 3,
		MouseButton: terminal.MouseBtnLeft, MouseAction: terminal.MouseActionPress,
	})
	if err := runApp(t, d, top); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if hit != box {
		t.Fatal("Expected box to receive the click")
	}
	if at != geom.Pt(2, 1) {
		t.Errorf("Expected local (2,1), got %v", at)
	}
}

func TestAppMouseBubbles(t *testing.T) {
	d := terminal.NewHeadless(20, 10, 0)
	top := NewToplevel("top")

	bubbled := false
	box := New("box")
	box.SetPosition(layout.At(0), layout.At(0))
	box.SetSize(layout.Sized(10), layout.Sized(5))
	// box has no handler; its parent should hear the click
	top.MouseHandler = func(ev terminal.Event) bool {
		bubbled = true
		top.Stop()
		return true
	}
	top.AddSubview(box)

	d.PostEvent(terminal.Event{
		Type: terminal.EventMouse, MouseX: 2, MouseY: 2,
		MouseButton: terminal.MouseBtnLeft, MouseAction: terminal.MouseActionPress,
	})
	if err := runApp(t, d, top); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !bubbled {
		t.Error("Expected unhandled click to bubble to the parent")
	}
}

func TestAppMouseCapture(t *testing.T) {
	d := terminal.NewHeadless(20, 10, 0)
	top := NewToplevel("top")

	var at geom.Point
	box := New("box")
	box.SetPosition(layout.At(5), layout.At(5))
	box.SetSize(layout.Sized(4), layout.Sized(2))
	box.MouseHandler = func(ev terminal.Event) bool {
		at = geom.Pt(ev.MouseX, ev.MouseY)
		top.Stop()
		return true
	}
	top.AddSubview(box)

	app := NewApplication(d)
	app.CaptureMouse(box)

	// The drag lands far outside the box; capture routes it there anyway
	d.PostEvent(terminal.Event{
		Type: terminal.EventMouse, MouseX: 1, MouseY: 1,
		MouseButton: terminal.MouseBtnLeft, MouseAction: terminal.MouseActionDrag,
	})

	done := make(chan error, 1)
	go func() { done <- app.Run(top) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not terminate")
	}

	if at != geom.Pt(-4, -4) {
		t.Errorf("Expected captured coords (-4,-4), got %v", at)
	}
}

func TestAppMousePressFocuses(t *testing.T) {
	d := terminal.NewHeadless(20, 10, 0)
	top := NewToplevel("top")

	box := New("box")
	box.SetCanFocus(true)
	box.SetPosition(layout.At(0), layout.At(0))
	box.SetSize(layout.Sized(10), layout.Sized(5))
	box.MouseHandler = func(ev terminal.Event) bool {
		top.Stop()
		return true
	}
	top.AddSubview(box)

	d.PostEvent(terminal.Event{
		Type: terminal.EventMouse, MouseX: 1, MouseY: 1,
		MouseButton: terminal.MouseBtnLeft, MouseAction: terminal.MouseActionPress,
	})
	if err := runApp(t, d, top); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if top.Focused() != box {
		t.Error("Expected click to focus the box")
	}
}

func TestAppModalStack(t *testing.T) {
	d := terminal.NewHeadless(10, 4, 0)

	app := NewApplication(d)

	base := NewToplevel("base")
	base.Drawer = func(region geom.Rect, p *Painter) {
		p.FillRegion(region, '.')
	}

	dialog := NewToplevel("dialog")
	dialogRan := false
	dialog.ColdKeyHandler = func(ev terminal.Event) bool {
		dialogRan = true
		dialog.Stop()
		return true
	}

	pushed := false
	baseRan := false
	base.ColdKeyHandler = func(ev terminal.Event) bool {
		if !pushed {
			// First key raises the dialog; while it is up, base must
			// see nothing
			pushed = true
			app.Push(dialog)
			return true
		}
		baseRan = true
		base.Stop()
		return true
	}

	d.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEnter})
	d.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEnter})
	d.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEnter})

	done := make(chan error, 1)
	go func() { done <- app.Run(base) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not terminate")
	}

	if !dialogRan || !baseRan {
		t.Errorf("Expected both toplevels to handle a key, got dialog=%v base=%v", dialogRan, baseRan)
	}
}

func TestAppResizeRelayouts(t *testing.T) {
	d := terminal.NewHeadless(20, 20, 0)
	top := NewToplevel("top")

	bar := New("bar")
	bar.SetPosition(layout.At(0), layout.At(0))
	bar.SetSize(layout.Fill(0), layout.Sized(3))
	top.AddSubview(bar)

	top.ColdKeyHandler = func(ev terminal.Event) bool {
		top.Stop()
		return true
	}

	app := NewApplication(d)
	done := make(chan error, 1)
	go func() { done <- app.Run(top) }()

	time.Sleep(20 * time.Millisecond)
	d.Resize(30, 10)
	d.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEnter})

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not terminate")
	}

	if got := bar.Frame().Size.Width; got != 30 {
		t.Errorf("Expected bar to fill the new width 30, got %d", got)
	}
}

func TestAppCursorPositioning(t *testing.T) {
	d := terminal.NewHeadless(20, 10, 0)
	top := NewToplevel("top")

	field := New("field")
	field.SetCanFocus(true)
	field.SetPosition(layout.At(3), layout.At(2))
	field.SetSize(layout.Sized(10), layout.Sized(1))
	field.CursorPos = func() (geom.Point, bool) {
		return geom.Pt(4, 0), true
	}
	top.AddSubview(field)
	top.SetFocus(field)

	top.ColdKeyHandler = func(ev terminal.Event) bool {
		top.Stop()
		return true
	}

	d.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEnter})
	if err := runApp(t, d, top); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	x, y, visible := d.Cursor()
	if !visible {
		t.Fatal("Expected cursor visible")
	}
	if x != 7 || y != 2 {
		t.Errorf("Expected cursor at (7,2), got (%d,%d)", x, y)
	}
}
