package terminal

import (
	"bufio"
	"fmt"
	"os"

	"github.com/lixenwraith/termview/terminfo"
)

// newTermDriver builds a driver that emits whatever the capability
// database says the terminal understands. A missing or unparsable
// entry degrades to the built-in profile rather than failing; the
// terminal is still usable, just possibly suboptimal.
func newTermDriver() Driver {
	ti, err := terminfo.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "termview: no terminfo entry for %q, using fallback profile\n", os.Getenv("TERM"))
		ti = terminfo.Fallback()
	}

	support := termColorSupport(ti)
	seqs := seqTable{
		enterCA:    capOr(ti, "smcup", csiAltScreenEnter),
		exitCA:     capOr(ti, "rmcup", csiAltScreenExit),
		hideCursor: capOr(ti, "civis", csiCursorHide),
		showCursor: capOr(ti, "cnorm", csiCursorShow),
		clear:      capOr(ti, "clear", csiClear),
		sgr0:       capOr(ti, "sgr0", csiSGR0),
		bell:       capOr(ti, "bel", bell),

		gotoXY: makeTermGotoXY(ti),
		attr:   makeTermAttrWriter(ti, support),
	}
	seqs.enableMouse, seqs.disableMouse = termMouseSeqs(ti)
	return newEscDriver("term", newBackend(), seqs, support)
}

// termMouseSeqs returns the mouse mode-set sequences, but only when the
// entry advertises mouse reporting through kmous; entries without it
// never receive the toggles. The wire format itself has no terminfo
// vocabulary, so the xterm SGR protocol is assumed.
func termMouseSeqs(ti *terminfo.Terminfo) (enable, disable [][]byte) {
	if _, ok := ti.Str("kmous"); !ok {
		return nil, nil
	}
	enable = [][]byte{csiMouseSGROn, csiMouseClickOn, csiMouseDragOn}
	disable = [][]byte{csiMouseDragOff, csiMouseClickOff, csiMouseSGROff}
	return enable, disable
}

// capOr returns a string capability as bytes, or the hardcoded fallback
// when the entry lacks it
func capOr(ti *terminfo.Terminfo, name string, fallback []byte) []byte {
	if s, ok := ti.Str(name); ok && s != "" {
		return []byte(s)
	}
	return fallback
}

func termColorSupport(ti *terminfo.Terminfo) ColorSupport {
	// COLORTERM outranks the database; entries rarely advertise direct
	// color even on terminals that render it
	if cs := detectColorSupport(); cs == ColorSupportRGB {
		return cs
	}
	switch n := ti.Colors(); {
	case n >= 256:
		return ColorSupport256
	case n >= 8:
		return ColorSupport16
	default:
		return ColorSupportNone
	}
}

func makeTermGotoXY(ti *terminfo.Terminfo) func(w *bufio.Writer, col, row int) {
	if _, ok := ti.Str("cup"); !ok {
		return writeCursorPos
	}
	return func(w *bufio.Writer, col, row int) {
		w.WriteString(ti.GotoXY(col, row))
	}
}

// makeTermAttrWriter builds the attribute emitter from the entry's
// mode-setting capabilities. Flags whose capability is absent are
// silently dropped; that is the degradation the database encodes.
func makeTermAttrWriter(ti *terminfo.Terminfo, support ColorSupport) func(w *bufio.Writer, a Attribute) {
	sgr0 := capOr(ti, "sgr0", csiSGR0)
	boldSeq, _ := ti.Str("bold")
	dimSeq, _ := ti.Str("dim")
	underSeq, _ := ti.Str("smul")
	blinkSeq, _ := ti.Str("blink")
	revSeq, _ := ti.Str("rev")
	standoutSeq, _ := ti.Str("smso")

	return func(w *bufio.Writer, a Attribute) {
		w.Write(sgr0)

		f := a.Flags
		if f.Has(FlagBold) && boldSeq != "" {
			w.WriteString(boldSeq)
		}
		if f.Has(FlagDim) && dimSeq != "" {
			w.WriteString(dimSeq)
		}
		if f.Has(FlagUnderline) && underSeq != "" {
			w.WriteString(underSeq)
		}
		if f.Has(FlagBlink) && blinkSeq != "" {
			w.WriteString(blinkSeq)
		}
		if f.Has(FlagInvert) && revSeq != "" {
			w.WriteString(revSeq)
		}
		if f.Has(FlagStandout) && standoutSeq != "" {
			w.WriteString(standoutSeq)
		}

		if support == ColorSupportNone {
			return
		}

		fgPal, bgPal, fgDef, bgDef := encPalette(a)

		if !fgDef {
			if support == ColorSupportRGB && a.Fg.Kind == ColorKindRGB {
				writeRGBColor(w, csiFgRGB, a.Fg)
			} else {
				w.WriteString(ti.SetForeground(fgPal))
			}
		}
		if !bgDef {
			if support == ColorSupportRGB && a.Bg.Kind == ColorKindRGB {
				writeRGBColor(w, csiBgRGB, a.Bg)
			} else {
				w.WriteString(ti.SetBackground(bgPal))
			}
		}
	}
}
