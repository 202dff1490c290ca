// Package terminal defines the driver contract between the view toolkit
// and a concrete terminal, and implements the term (capability-driven),
// ansi (hardcoded escape), tcell, and headless backends.
package terminal

import (
	"github.com/lixenwraith/termview/geom"
)

// Driver is the capability surface a backend exposes to the toolkit.
// Cell-writing primitives clip against the driver clip rectangle. End
// must be safe on every exit path, including after Init failure.
type Driver interface {
	// Init queries the terminal, enters raw mode, and installs resize
	// handling
	Init() error

	// End restores the terminal state; safe to call repeatedly. It also
	// unblocks any in-flight PollEvent with an EventClosed.
	End()

	// Size returns the current terminal extent in cells
	Size() (cols, rows int)

	// ColorSupport reports the color depth the driver can render
	ColorSupport() ColorSupport

	// MakeAttribute maps a logical color/flag combination to the
	// driver's representation
	MakeAttribute(fg, bg Color, flags CellFlags) Attribute

	// Colors builds the startup color schemes for this terminal
	Colors() Colors

	// SetClip bounds subsequent cell writes; an empty rect means the
	// whole screen
	SetClip(r geom.Rect)
	Clip() geom.Rect

	// MoveTo positions the write cursor (0-indexed)
	MoveTo(col, row int)

	// SetAttribute selects the attribute stamped on subsequent writes
	SetAttribute(a Attribute)

	// AddRune writes one rune at the cursor and advances it
	AddRune(r rune)

	// AddStr writes a string at the cursor
	AddStr(s string)

	// UpdateScreen flushes buffered writes to the terminal
	UpdateScreen()

	// Refresh forces a full clear + redraw on the next update
	Refresh()

	// UpdateCursor moves the visible hardware cursor
	UpdateCursor(col, row int)

	// ShowCursor controls hardware cursor visibility
	ShowCursor(visible bool)

	// Bell sounds the terminal bell
	Bell()

	// Suspend stops the process if the platform allows it; reports
	// whether suspension is supported
	Suspend() bool

	// PollEvent blocks for the next input event. Driver teardown
	// unblocks it with an EventClosed.
	PollEvent() Event

	// PostEvent injects a synthetic event into the queue
	PostEvent(ev Event)
}

// ColorScheme is the four attributes a view draws with
type ColorScheme struct {
	Normal    Attribute
	Focus     Attribute
	HotNormal Attribute
	HotFocus  Attribute
}

// Colors is the process-wide scheme set, populated once by the active
// driver at startup and read-only afterward
type Colors struct {
	Base   ColorScheme
	Dialog ColorScheme
	Menu   ColorScheme
	Error  ColorScheme
}

// makeColors builds the default schemes through a driver's attribute
// mapping
func makeColors(d Driver) Colors {
	return Colors{
		Base: ColorScheme{
			Normal:    d.MakeAttribute(ColorWhite, ColorBlue, 0),
			Focus:     d.MakeAttribute(ColorBlack, ColorCyan, 0),
			HotNormal: d.MakeAttribute(ColorBrightYellow, ColorBlue, 0),
			HotFocus:  d.MakeAttribute(ColorBrightYellow, ColorCyan, 0),
		},
		Dialog: ColorScheme{
			Normal:    d.MakeAttribute(ColorBlack, ColorGray, 0),
			Focus:     d.MakeAttribute(ColorBlack, ColorCyan, 0),
			HotNormal: d.MakeAttribute(ColorBlue, ColorGray, 0),
			HotFocus:  d.MakeAttribute(ColorBlue, ColorCyan, 0),
		},
		Menu: ColorScheme{
			Normal:    d.MakeAttribute(ColorWhite, ColorBlack, 0),
			Focus:     d.MakeAttribute(ColorBlack, ColorGray, 0),
			HotNormal: d.MakeAttribute(ColorBrightYellow, ColorBlack, 0),
			HotFocus:  d.MakeAttribute(ColorBrightYellow, ColorGray, 0),
		},
		Error: ColorScheme{
			Normal:    d.MakeAttribute(ColorWhite, ColorRed, 0),
			Focus:     d.MakeAttribute(ColorBlack, ColorGray, 0),
			HotNormal: d.MakeAttribute(ColorBrightYellow, ColorRed, 0),
			HotFocus:  d.MakeAttribute(ColorBrightYellow, ColorGray, 0),
		},
	}
}
