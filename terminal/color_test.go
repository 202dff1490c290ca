package terminal

import "testing"

func TestRGBTo256Primaries(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    uint8
	}{
		{0, 0, 0, 16},       // cube black
		{255, 255, 255, 231}, // cube white
		{255, 0, 0, 196},    // pure red
		{0, 255, 0, 46},     // pure green
		{0, 0, 255, 21},     // pure blue
		{255, 255, 0, 226},  // yellow
		{0, 255, 255, 51},   // cyan
		{255, 0, 255, 201},  // magenta
	}
	for _, c := range cases {
		got := rgbTo256(c.r, c.g, c.b)
		if got != c.want {
			t.Errorf("rgbTo256(%d,%d,%d): expected %d, got %d", c.r, c.g, c.b, c.want, got)
		}
	}
}

func TestRGBTo256Grayscale(t *testing.T) {
	// Mid grays should land on the grayscale ramp (232-255)
	got := rgbTo256(128, 128, 128)
	if got < 232 {
		t.Errorf("Expected grayscale ramp index for mid gray, got %d", got)
	}
	// Near-black and near-white snap to the cube corners
	if got := rgbTo256(2, 2, 2); got != 16 {
		t.Errorf("Expected 16 for near-black, got %d", got)
	}
	if got := rgbTo256(250, 250, 250); got != 231 {
		t.Errorf("Expected 231 for near-white, got %d", got)
	}
}

func TestPaletteIndex(t *testing.T) {
	if got := ColorRed.paletteIndex(); got != 1 {
		t.Errorf("Expected 1 for red, got %d", got)
	}
	if got := Palette(200).paletteIndex(); got != 200 {
		t.Errorf("Expected 200, got %d", got)
	}
	if got := ColorDefault.paletteIndex(); got != 0 {
		t.Errorf("Expected 0 for default, got %d", got)
	}
}

func TestAttributeChange(t *testing.T) {
	a := Attribute{Fg: ColorWhite, Bg: ColorBlue, Flags: FlagBold}

	b := a.ChangeForeground(ColorRed)
	if b.Fg != ColorRed || b.Bg != ColorBlue || b.Flags != FlagBold {
		t.Errorf("ChangeForeground altered unrelated fields: %+v", b)
	}
	if a.Fg != ColorWhite {
		t.Error("ChangeForeground mutated the receiver")
	}

	c := a.ChangeFlags(FlagUnderline)
	if c.Flags != FlagUnderline || c.Fg != ColorWhite {
		t.Errorf("ChangeFlags wrong result: %+v", c)
	}
}

func TestCellFlagsHas(t *testing.T) {
	f := FlagBold | FlagUnderline
	if !f.Has(FlagBold) || !f.Has(FlagUnderline) {
		t.Error("Expected set flags reported")
	}
	if f.Has(FlagBlink) {
		t.Error("Expected unset flag not reported")
	}
}

func TestEncPalette(t *testing.T) {
	esc := &escDriver{}
	a := esc.MakeAttribute(ColorRed, ColorDefault, 0)
	fg, _, fgDef, bgDef := encPalette(a)
	if fg != 1 || fgDef || !bgDef {
		t.Errorf("Expected fg=1 fgDef=false bgDef=true, got fg=%d fgDef=%v bgDef=%v", fg, fgDef, bgDef)
	}

	// Attribute assembled by hand still resolves
	b := Attribute{Fg: Palette(99), Bg: ColorBlue}
	fg, bg, _, _ := encPalette(b)
	if fg != 99 || bg != 4 {
		t.Errorf("Expected (99,4), got (%d,%d)", fg, bg)
	}
}
