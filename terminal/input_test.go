package terminal

import (
	"testing"
)

// drain collects everything the parser emitted
func drain(r *inputReader) []Event {
	var evs []Event
	for {
		select {
		case ev := <-r.eventCh:
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

func parseAll(t *testing.T, data []byte) []Event {
	t.Helper()
	r := newInputReader(nil)
	consumed := r.parseInput(data)
	if consumed != len(data) {
		t.Errorf("Expected %d bytes consumed, got %d", len(data), consumed)
	}
	return drain(r)
}

func TestParsePrintableASCII(t *testing.T) {
	evs := parseAll(t, []byte("ab"))
	if len(evs) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(evs))
	}
	if evs[0].Key != KeyRune || evs[0].Rune != 'a' {
		t.Errorf("Expected rune 'a', got key %d rune %q", evs[0].Key, evs[0].Rune)
	}
	if evs[1].Rune != 'b' {
		t.Errorf("Expected rune 'b', got %q", evs[1].Rune)
	}
}

func TestParseUTF8(t *testing.T) {
	evs := parseAll(t, []byte("é"))
	if len(evs) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(evs))
	}
	if evs[0].Key != KeyRune || evs[0].Rune != 'é' {
		t.Errorf("Expected rune 'é', got %q", evs[0].Rune)
	}
}

func TestParseSplitUTF8(t *testing.T) {
	// First byte of a two-byte rune: parser must wait
	r := newInputReader(nil)
	data := []byte("é")
	consumed := r.parseInput(data[:1])
	if consumed != 0 {
		t.Errorf("Expected 0 consumed on partial rune, got %d", consumed)
	}
	if evs := drain(r); len(evs) != 0 {
		t.Errorf("Expected no events on partial rune, got %d", len(evs))
	}
}

func TestParseControlKeys(t *testing.T) {
	cases := []struct {
		b    byte
		want Key
	}{
		{0x01, KeyCtrlA},
		{0x03, KeyCtrlC},
		{0x09, KeyTab},
		{0x0d, KeyEnter},
		{0x1a, KeyCtrlZ},
	}
	for _, c := range cases {
		evs := parseAll(t, []byte{c.b})
		if len(evs) != 1 || evs[0].Key != c.want {
			t.Errorf("Byte 0x%02x: expected key %d, got %+v", c.b, c.want, evs)
		}
	}
}

func TestParseBackspace(t *testing.T) {
	evs := parseAll(t, []byte{0x7f})
	if len(evs) != 1 || evs[0].Key != KeyBackspace {
		t.Errorf("Expected Backspace, got %+v", evs)
	}
}

func TestParseArrowKeys(t *testing.T) {
	cases := []struct {
		seq  string
		want Key
	}{
		{"\x1b[A", KeyUp},
		{"\x1b[B", KeyDown},
		{"\x1b[C", KeyRight},
		{"\x1b[D", KeyLeft},
		{"\x1b[H", KeyHome},
		{"\x1b[F", KeyEnd},
		{"\x1b[5~", KeyPageUp},
		{"\x1b[6~", KeyPageDown},
		{"\x1b[3~", KeyDelete},
		{"\x1b[Z", KeyBacktab},
	}
	for _, c := range cases {
		evs := parseAll(t, []byte(c.seq))
		if len(evs) != 1 || evs[0].Key != c.want {
			t.Errorf("Sequence %q: expected key %d, got %+v", c.seq, c.want, evs)
		}
	}
}

func TestParseSS3Keys(t *testing.T) {
	cases := []struct {
		seq  string
		want Key
	}{
		{"\x1bOP", KeyF1},
		{"\x1bOQ", KeyF2},
		{"\x1bOR", KeyF3},
		{"\x1bOS", KeyF4},
	}
	for _, c := range cases {
		evs := parseAll(t, []byte(c.seq))
		if len(evs) != 1 || evs[0].Key != c.want {
			t.Errorf("Sequence %q: expected key %d, got %+v", c.seq, c.want, evs)
		}
	}
}

func TestParseAltKeys(t *testing.T) {
	evs := parseAll(t, []byte("\x1bx"))
	if len(evs) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(evs))
	}
	if evs[0].Key != KeyRune || evs[0].Rune != 'x' || evs[0].Modifiers != ModAlt {
		t.Errorf("Expected Alt+x, got %+v", evs[0])
	}
}

func TestParseModifiedArrow(t *testing.T) {
	// xterm Shift+Up
	evs := parseAll(t, []byte("\x1b[1;2A"))
	if len(evs) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(evs))
	}
	if evs[0].Key != KeyUp || evs[0].Modifiers != ModShift {
		t.Errorf("Expected Shift+Up, got %+v", evs[0])
	}
}

func TestParseUnknownCSI(t *testing.T) {
	// Well-formed but unmapped sequence surfaces as KeyUnknown
	evs := parseAll(t, []byte("\x1b[99;42X"))
	if len(evs) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(evs))
	}
	if evs[0].Key != KeyUnknown {
		t.Errorf("Expected KeyUnknown, got key %d", evs[0].Key)
	}
}

func TestParseIncompleteCSI(t *testing.T) {
	r := newInputReader(nil)
	consumed := r.parseInput([]byte("\x1b[1;"))
	if consumed != 0 {
		t.Errorf("Expected 0 consumed on incomplete CSI, got %d", consumed)
	}
	if evs := drain(r); len(evs) != 0 {
		t.Errorf("Expected no events, got %d", len(evs))
	}
}

func TestParseSGRMousePress(t *testing.T) {
	evs := parseAll(t, []byte("\x1b[<0;10;5M"))
	if len(evs) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(evs))
	}
	ev := evs[0]
	if ev.Type != EventMouse {
		t.Fatalf("Expected mouse event, got type %d", ev.Type)
	}
	if ev.MouseX != 9 || ev.MouseY != 4 {
		t.Errorf("Expected (9,4), got (%d,%d)", ev.MouseX, ev.MouseY)
	}
	if ev.MouseButton != MouseBtnLeft || ev.MouseAction != MouseActionPress {
		t.Errorf("Expected left press, got %s %s", ev.MouseButton, ev.MouseAction)
	}
}

func TestParseSGRMouseRelease(t *testing.T) {
	evs := parseAll(t, []byte("\x1b[<0;3;3m"))
	if len(evs) != 1 || evs[0].MouseAction != MouseActionRelease {
		t.Errorf("Expected release, got %+v", evs)
	}
}

func TestParseSGRMouseWheel(t *testing.T) {
	evs := parseAll(t, []byte("\x1b[<64;1;1M"))
	if len(evs) != 1 || evs[0].MouseButton != MouseBtnWheelUp {
		t.Errorf("Expected wheel up, got %+v", evs)
	}
	evs = parseAll(t, []byte("\x1b[<65;1;1M"))
	if len(evs) != 1 || evs[0].MouseButton != MouseBtnWheelDown {
		t.Errorf("Expected wheel down, got %+v", evs)
	}
}

func TestParseSGRMouseDrag(t *testing.T) {
	evs := parseAll(t, []byte("\x1b[<32;7;8M"))
	if len(evs) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(evs))
	}
	if evs[0].MouseAction != MouseActionDrag || evs[0].MouseButton != MouseBtnLeft {
		t.Errorf("Expected left drag, got %s %s", evs[0].MouseButton, evs[0].MouseAction)
	}
}

func TestParseSGRMouseModifiers(t *testing.T) {
	// btn 0 + shift(4) + ctrl(16) = 20
	evs := parseAll(t, []byte("\x1b[<20;1;1M"))
	if len(evs) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(evs))
	}
	want := ModShift | ModCtrl
	if evs[0].Modifiers != want {
		t.Errorf("Expected modifiers %d, got %d", want, evs[0].Modifiers)
	}
}

func TestParseMixedStream(t *testing.T) {
	evs := parseAll(t, []byte("a\x1b[Ab"))
	if len(evs) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(evs))
	}
	if evs[0].Rune != 'a' || evs[1].Key != KeyUp || evs[2].Rune != 'b' {
		t.Errorf("Unexpected sequence: %+v", evs)
	}
}

func TestParseSGRParams(t *testing.T) {
	btn, x, y, ok := parseSGRParams([]byte("32;100;42"))
	if !ok || btn != 32 || x != 100 || y != 42 {
		t.Errorf("Expected (32,100,42), got (%d,%d,%d) ok=%v", btn, x, y, ok)
	}

	if _, _, _, ok := parseSGRParams([]byte("1;2")); ok {
		t.Error("Expected failure on missing field")
	}
	if _, _, _, ok := parseSGRParams([]byte("a;b;c")); ok {
		t.Error("Expected failure on non-digit input")
	}
}
