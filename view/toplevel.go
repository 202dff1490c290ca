package view

// Toplevel is a root-capable view. The application keeps a stack of
// them; only the topmost receives input. A toplevel that stops running
// is popped off the stack.
type Toplevel struct {
	*View
	running bool
}

// NewToplevel returns a running toplevel
func NewToplevel(name string) *Toplevel {
	return &Toplevel{
		View:    New(name),
		running: true,
	}
}

// Running reports whether the toplevel still wants the loop
func (t *Toplevel) Running() bool {
	return t.running
}

// Stop asks the application to pop this toplevel
func (t *Toplevel) Stop() {
	t.running = false
}

// Resume marks the toplevel running again, for reuse after a Stop
func (t *Toplevel) Resume() {
	t.running = true
}

// focusables collects focus targets in depth-first document order
func (t *Toplevel) focusables() []*View {
	var out []*View
	var walk func(v *View)
	walk = func(v *View) {
		if v.canFocus {
			out = append(out, v)
		}
		for _, c := range v.children {
			walk(c)
		}
	}
	walk(t.View)
	return out
}

// FocusNext moves focus to the next focusable view, wrapping at the
// end. Focus never leaves the toplevel.
func (t *Toplevel) FocusNext() bool {
	return t.cycleFocus(1)
}

// FocusPrev moves focus to the previous focusable view, wrapping at the
// start
func (t *Toplevel) FocusPrev() bool {
	return t.cycleFocus(-1)
}

func (t *Toplevel) cycleFocus(dir int) bool {
	targets := t.focusables()
	if len(targets) == 0 {
		return false
	}

	cur := t.Focused()
	idx := -1
	for i, v := range targets {
		if v == cur {
			idx = i
			break
		}
	}

	if idx < 0 {
		if dir > 0 {
			return t.SetFocus(targets[0])
		}
		return t.SetFocus(targets[len(targets)-1])
	}

	next := (idx + dir + len(targets)) % len(targets)
	return t.SetFocus(targets[next])
}
