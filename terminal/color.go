package terminal

// ColorKind discriminates the color variants
type ColorKind uint8

const (
	ColorKindDefault ColorKind = iota // terminal default fg/bg
	ColorKindNamed                    // one of the 16 named colors
	ColorKindPalette                  // 256-color palette index
	ColorKindRGB                      // 24-bit direct color
)

// Color is a named palette color, a 256-palette index, or an RGB triple
type Color struct {
	Kind    ColorKind
	Index   uint8 // named (0-15) or palette (0-255)
	R, G, B uint8
}

// The 16 named colors. Indexes follow the ANSI palette order.
var (
	ColorDefault       = Color{Kind: ColorKindDefault}
	ColorBlack         = named(0)
	ColorRed           = named(1)
	ColorGreen         = named(2)
	ColorYellow        = named(3)
	ColorBlue          = named(4)
	ColorMagenta       = named(5)
	ColorCyan          = named(6)
	ColorGray          = named(7)
	ColorBrightBlack   = named(8)
	ColorBrightRed     = named(9)
	ColorBrightGreen   = named(10)
	ColorBrightYellow  = named(11)
	ColorBrightBlue    = named(12)
	ColorBrightMagenta = named(13)
	ColorBrightCyan    = named(14)
	ColorWhite         = named(15)
)

func named(i uint8) Color {
	return Color{Kind: ColorKindNamed, Index: i}
}

// Palette returns a 256-color palette color
func Palette(index uint8) Color {
	return Color{Kind: ColorKindPalette, Index: index}
}

// RGB returns a 24-bit direct color
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorKindRGB, R: r, G: g, B: b}
}

// paletteIndex flattens a color onto the 256-color palette
func (c Color) paletteIndex() int {
	switch c.Kind {
	case ColorKindNamed, ColorKindPalette:
		return int(c.Index)
	case ColorKindRGB:
		return int(rgbTo256(c.R, c.G, c.B))
	default:
		return 0
	}
}

// CellFlags is the text attribute bitset
type CellFlags uint8

const (
	FlagBold CellFlags = 1 << iota
	FlagUnderline
	FlagDim
	FlagStandout
	FlagBlink
	FlagInvert
)

// Has returns true if the set contains flag
func (f CellFlags) Has(flag CellFlags) bool {
	return f&flag != 0
}

// Attribute is an immutable (foreground, background, flags) triple plus an
// optional driver-private encoding computed by MakeAttribute.
type Attribute struct {
	Fg    Color
	Bg    Color
	Flags CellFlags

	// enc is driver-specific; drivers that emit from the logical fields
	// leave it zero
	enc uint32
}

// ChangeForeground returns a copy with a different foreground
func (a Attribute) ChangeForeground(c Color) Attribute {
	a.Fg = c
	a.enc = 0
	return a
}

// ChangeBackground returns a copy with a different background
func (a Attribute) ChangeBackground(c Color) Attribute {
	a.Bg = c
	a.enc = 0
	return a
}

// ChangeFlags returns a copy with different flags
func (a Attribute) ChangeFlags(f CellFlags) Attribute {
	a.Flags = f
	a.enc = 0
	return a
}

// Cell is one character cell: a rune stamped with an attribute
type Cell struct {
	Rune rune
	Attr Attribute
}

// ColorSupport reports a driver's color depth
type ColorSupport uint8

const (
	ColorSupportNone ColorSupport = iota
	ColorSupport16
	ColorSupport256
	ColorSupportRGB
)

// cube levels of the 6x6x6 palette block (indexes 16-231)
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// rgbTo256 finds the nearest 256-color palette index for an RGB value.
// Grayscale ramp (232-255) wins over the color cube for near-gray input.
func rgbTo256(r, g, b uint8) uint8 {
	gray := (int(r) + int(g) + int(b)) / 3
	maxDiff := max(absInt(int(r)-gray), absInt(int(g)-gray), absInt(int(b)-gray))

	cr, cg, cb := cubeIndex(r), cubeIndex(g), cubeIndex(b)
	cubeDist := absInt(int(r)-int(cubeValues[cr])) +
		absInt(int(g)-int(cubeValues[cg])) +
		absInt(int(b)-int(cubeValues[cb]))

	if maxDiff < 10 {
		if gray < 4 {
			return 16 // cube black
		}
		if gray > 243 {
			return 231 // cube white
		}
		grayIdx := 232 + (gray-8)/10
		if grayIdx > 255 {
			grayIdx = 255
		}
		grayLevel := 8 + (grayIdx-232)*10
		grayDist := 3 * absInt(gray-grayLevel)
		if grayDist < cubeDist {
			return uint8(grayIdx)
		}
	}

	return 16 + 36*cr + 6*cg + cb
}

// cubeIndex maps a 0-255 channel to the nearest cube level
func cubeIndex(v uint8) uint8 {
	best := uint8(0)
	bestDist := absInt(int(v) - int(cubeValues[0]))
	for i := uint8(1); i < 6; i++ {
		d := absInt(int(v) - int(cubeValues[i]))
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
