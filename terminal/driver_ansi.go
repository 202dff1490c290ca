package terminal

import (
	"bufio"
	"os"
	"strings"
)

// newANSIDriver builds a driver that assumes an xterm-compatible
// terminal and emits hardcoded escape sequences, skipping the
// capability database entirely
func newANSIDriver() Driver {
	support := detectColorSupport()
	seqs := seqTable{
		enterCA:    csiAltScreenEnter,
		exitCA:     csiAltScreenExit,
		hideCursor: csiCursorHide,
		showCursor: csiCursorShow,
		clear:      csiClear,
		sgr0:       csiSGR0,
		bell:       bell,

		enableMouse:  [][]byte{csiMouseSGROn, csiMouseClickOn, csiMouseDragOn},
		disableMouse: [][]byte{csiMouseDragOff, csiMouseClickOff, csiMouseSGROff},

		gotoXY: writeCursorPos,
		attr:   makeANSIAttrWriter(support),
	}
	return newEscDriver("ansi", newBackend(), seqs, support)
}

// detectColorSupport inspects the environment the way terminals
// advertise depth: COLORTERM for truecolor, TERM for 256
func detectColorSupport() ColorSupport {
	ct := strings.ToLower(os.Getenv("COLORTERM"))
	if ct == "truecolor" || ct == "24bit" {
		return ColorSupportRGB
	}
	term := os.Getenv("TERM")
	if strings.Contains(term, "256color") {
		return ColorSupport256
	}
	if term == "" || term == "dumb" {
		return ColorSupportNone
	}
	return ColorSupport16
}

// makeANSIAttrWriter returns the SGR emitter for a color depth. Every
// change starts from a reset so stale flags never leak between cells.
func makeANSIAttrWriter(support ColorSupport) func(w *bufio.Writer, a Attribute) {
	return func(w *bufio.Writer, a Attribute) {
		w.Write(csiSGR0)
		writeSGRFlags(w, a.Flags)

		if support == ColorSupportNone {
			return
		}

		fgPal, bgPal, fgDef, bgDef := encPalette(a)

		if !fgDef {
			if support == ColorSupportRGB && a.Fg.Kind == ColorKindRGB {
				writeRGBColor(w, csiFgRGB, a.Fg)
			} else {
				writePaletteColor(w, support, fgPal, false)
			}
		}
		if !bgDef {
			if support == ColorSupportRGB && a.Bg.Kind == ColorKindRGB {
				writeRGBColor(w, csiBgRGB, a.Bg)
			} else {
				writePaletteColor(w, support, bgPal, true)
			}
		}
	}
}

func writeSGRFlags(w *bufio.Writer, f CellFlags) {
	if f.Has(FlagBold) {
		w.WriteString("\x1b[1m")
	}
	if f.Has(FlagDim) {
		w.WriteString("\x1b[2m")
	}
	if f.Has(FlagUnderline) {
		w.WriteString("\x1b[4m")
	}
	if f.Has(FlagBlink) {
		w.WriteString("\x1b[5m")
	}
	if f.Has(FlagInvert) || f.Has(FlagStandout) {
		w.WriteString("\x1b[7m")
	}
}

// writePaletteColor emits a palette index, degrading 256-palette values
// to the base 16 on terminals without 256-color support
func writePaletteColor(w *bufio.Writer, support ColorSupport, idx int, background bool) {
	if support >= ColorSupport256 && idx > 15 {
		if background {
			w.Write(csiBg256)
		} else {
			w.Write(csiFg256)
		}
		writeInt(w, idx)
		w.WriteByte('m')
		return
	}

	if idx > 15 {
		idx &= 0x07 // crude fold onto the base palette
	}

	base := 30
	if background {
		base = 40
	}
	if idx >= 8 {
		base += 60
		idx -= 8
	}
	w.Write(csi)
	writeInt(w, base+idx)
	w.WriteByte('m')
}

func writeRGBColor(w *bufio.Writer, prefix []byte, c Color) {
	w.Write(prefix)
	writeInt(w, int(c.R))
	w.WriteByte(';')
	writeInt(w, int(c.G))
	w.WriteByte(';')
	writeInt(w, int(c.B))
	w.WriteByte('m')
}
