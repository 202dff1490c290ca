// Package terminfo loads compiled terminal capability entries and evaluates
// parametrized capability strings into literal escape sequences.
//
// Only the capability subset needed to drive color, cursor movement, and
// screen clearing is surfaced; this is not a general terminfo database
// frontend. Unknown terminal types report ErrNotFound and callers are
// expected to continue with Fallback().
package terminfo

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no capability entry exists for a terminal type
var ErrNotFound = errors.New("terminfo: entry not found")

// Terminfo is one terminal type's capability record
type Terminfo struct {
	// Name is the primary terminal name the entry was loaded under
	Name string
	// Aliases holds the full name list from the entry header
	Aliases []string

	flags map[string]bool
	nums  map[string]int
	strs  map[string]string
}

// Flag returns a boolean capability; absent flags are false
func (ti *Terminfo) Flag(name string) bool {
	return ti.flags[name]
}

// Num returns a numeric capability and whether it is present
func (ti *Terminfo) Num(name string) (int, bool) {
	n, ok := ti.nums[name]
	return n, ok
}

// Str returns a string capability. The second result distinguishes an
// absent capability from a legitimately empty one.
func (ti *Terminfo) Str(name string) (string, bool) {
	s, ok := ti.strs[name]
	return s, ok
}

// Colors returns the terminal's advertised color count (0 if monochrome)
func (ti *Terminfo) Colors() int {
	n, ok := ti.nums["colors"]
	if !ok || n < 0 {
		return 0
	}
	return n
}

// GotoXY returns the escape sequence moving the cursor to a 0-indexed
// column and row
func (ti *Terminfo) GotoXY(col, row int) string {
	cup, ok := ti.Str("cup")
	if !ok {
		return ""
	}
	return Expand(cup, row, col)
}

// ClearScreen returns the escape sequence clearing the whole screen
func (ti *Terminfo) ClearScreen() string {
	s, _ := ti.Str("clear")
	return s
}

// SetForeground returns the escape sequence selecting foreground color
// index. Indexes at or above the advertised color count collapse onto the
// representable range rather than passing through unresolved.
func (ti *Terminfo) SetForeground(index int) string {
	setaf, ok := ti.Str("setaf")
	if !ok {
		return ""
	}
	return Expand(setaf, ti.clampColor(index))
}

// SetBackground returns the escape sequence selecting background color index
func (ti *Terminfo) SetBackground(index int) string {
	setab, ok := ti.Str("setab")
	if !ok {
		return ""
	}
	return Expand(setab, ti.clampColor(index))
}

// clampColor maps an out-of-range palette index to the nearest
// representable one
func (ti *Terminfo) clampColor(index int) int {
	n := ti.Colors()
	if n <= 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index >= n {
		// Bright variants fold onto their base color on 8-color terminals
		if n == 8 && index < 16 {
			return index - 8
		}
		return n - 1
	}
	return index
}

func (ti *Terminfo) String() string {
	return fmt.Sprintf("terminfo(%s: %d flags, %d nums, %d strs)",
		ti.Name, len(ti.flags), len(ti.nums), len(ti.strs))
}

// Fallback returns a conservative built-in profile (xterm-256color
// semantics) for use when no database entry can be found.
func Fallback() *Terminfo {
	return &Terminfo{
		Name:    "xterm-256color",
		Aliases: []string{"xterm-256color", "xterm with 256 colors (built-in)"},
		flags: map[string]bool{
			"am":  true,
			"bce": true,
		},
		nums: map[string]int{
			"cols":   80,
			"lines":  24,
			"colors": 256,
			"pairs":  65536,
		},
		strs: map[string]string{
			"bel":   "\x07",
			"clear": "\x1b[H\x1b[2J",
			"el":    "\x1b[K",
			"ed":    "\x1b[J",
			"home":  "\x1b[H",
			"cup":   "\x1b[%i%p1%d;%p2%dH",
			"cuu1":  "\x1b[A",
			"cud1":  "\n",
			"cub1":  "\x08",
			"cuf1":  "\x1b[C",
			"cuu":   "\x1b[%p1%dA",
			"cud":   "\x1b[%p1%dB",
			"cub":   "\x1b[%p1%dD",
			"cuf":   "\x1b[%p1%dC",
			"civis": "\x1b[?25l",
			"cnorm": "\x1b[?12l\x1b[?25h",
			"smcup": "\x1b[?1049h",
			"rmcup": "\x1b[?1049l",
			"kmous": "\x1b[M",
			"smkx":  "\x1b[?1h\x1b=",
			"rmkx":  "\x1b[?1l\x1b>",
			"bold":  "\x1b[1m",
			"dim":   "\x1b[2m",
			"smul":  "\x1b[4m",
			"blink": "\x1b[5m",
			"rev":   "\x1b[7m",
			"smso":  "\x1b[7m",
			"sgr0":  "\x1b(B\x1b[m",
			"op":    "\x1b[39;49m",
			"setaf": "\x1b[%?%p1%{8}%<%t3%p1%d%e%p1%{16}%<%t9%p1%{8}%-%d%e38;5;%p1%d%;m",
			"setab": "\x1b[%?%p1%{8}%<%t4%p1%d%e%p1%{16}%<%t10%p1%{8}%-%d%e48;5;%p1%d%;m",
		},
	}
}
