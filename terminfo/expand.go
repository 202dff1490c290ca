package terminfo

import (
	"strconv"
	"strings"
)

// Expand evaluates a parametrized capability template against integer
// parameters and returns the literal byte sequence to emit. Evaluation is
// deterministic and side-effect free; static/dynamic variable state lives
// only for the duration of one call.
//
// The supported operator set is the terminfo(5) stack machine: %pN, %d
// (with printf-style flags/width), %c, %s, %{n}, %'c', arithmetic and
// bitwise binaries, comparisons, %! %~ unaries, %i, %? %t %e %;
// conditionals, and %P/%g variables.
func Expand(template string, params ...int) string {
	// %i mutates parameters; work on a copy so callers never observe it
	p := make([]int, len(params))
	copy(p, params)
	e := evaluator{
		src:    template,
		params: p,
	}
	return e.run()
}

type evaluator struct {
	src    string
	pos    int
	params []int

	stack   []value
	dynamic [26]value
	static  [26]value

	out strings.Builder
}

// value is an operand: terminfo strings push both ints and strings
type value struct {
	i   int
	s   string
	str bool
}

func intVal(i int) value    { return value{i: i} }
func strVal(s string) value { return value{s: s, str: true} }

// truth follows terminfo semantics: nonzero int or nonempty string
func (v value) truth() bool {
	if v.str {
		return v.s != ""
	}
	return v.i != 0
}

func (e *evaluator) push(v value) {
	e.stack = append(e.stack, v)
}

// pop returns the top of the operand stack, zero if underflow.
// Malformed templates degrade instead of panicking.
func (e *evaluator) pop() value {
	if len(e.stack) == 0 {
		return value{}
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v
}

func (e *evaluator) next() (byte, bool) {
	if e.pos >= len(e.src) {
		return 0, false
	}
	b := e.src[e.pos]
	e.pos++
	return b, true
}

func (e *evaluator) run() string {
	for {
		b, ok := e.next()
		if !ok {
			break
		}
		if b != '%' {
			e.out.WriteByte(b)
			continue
		}
		op, ok := e.next()
		if !ok {
			break
		}
		e.exec(op)
	}
	return e.out.String()
}

func (e *evaluator) exec(op byte) {
	switch op {
	case '%':
		e.out.WriteByte('%')

	case 'p': // %pN push parameter N (1-based)
		if d, ok := e.next(); ok && d >= '1' && d <= '9' {
			n := int(d - '1')
			if n < len(e.params) {
				e.push(intVal(e.params[n]))
			} else {
				e.push(intVal(0))
			}
		}

	case '{': // %{n} push integer literal
		start := e.pos
		for e.pos < len(e.src) && e.src[e.pos] != '}' {
			e.pos++
		}
		n, _ := strconv.Atoi(e.src[start:e.pos])
		if e.pos < len(e.src) {
			e.pos++ // consume '}'
		}
		e.push(intVal(n))

	case '\'': // %'c' push character constant
		if c, ok := e.next(); ok {
			e.push(intVal(int(c)))
			if q, ok := e.next(); ok && q != '\'' {
				e.pos-- // tolerate missing close quote
			}
		}

	case 'i': // increment first two params (1-based cursor addressing)
		if len(e.params) > 0 {
			e.params[0]++
		}
		if len(e.params) > 1 {
			e.params[1]++
		}

	case 'c': // pop and emit as char
		e.out.WriteByte(byte(e.pop().i))

	case 's': // pop and emit as string
		v := e.pop()
		if v.str {
			e.out.WriteString(v.s)
		} else {
			e.out.WriteString(strconv.Itoa(v.i))
		}

	case 'l': // pop string, push its length
		e.push(intVal(len(e.pop().s)))

	case '+', '-', '*', '/', 'm', '&', '|', '^':
		b2 := e.pop().i
		a := e.pop().i
		var r int
		switch op {
		case '+':
			r = a + b2
		case '-':
			r = a - b2
		case '*':
			r = a * b2
		case '/':
			if b2 != 0 {
				r = a / b2
			}
		case 'm':
			if b2 != 0 {
				r = a % b2
			}
		case '&':
			r = a & b2
		case '|':
			r = a | b2
		case '^':
			r = a ^ b2
		}
		e.push(intVal(r))

	case '=', '>', '<', 'A', 'O':
		b2 := e.pop().i
		a := e.pop().i
		var r bool
		switch op {
		case '=':
			r = a == b2
		case '>':
			r = a > b2
		case '<':
			r = a < b2
		case 'A':
			r = a != 0 && b2 != 0
		case 'O':
			r = a != 0 || b2 != 0
		}
		if r {
			e.push(intVal(1))
		} else {
			e.push(intVal(0))
		}

	case '!':
		if e.pop().truth() {
			e.push(intVal(0))
		} else {
			e.push(intVal(1))
		}

	case '~':
		e.push(intVal(^e.pop().i))

	case 'P': // %Pa..%Pz dynamic, %PA..%PZ static: pop into variable
		if c, ok := e.next(); ok {
			if c >= 'a' && c <= 'z' {
				e.dynamic[c-'a'] = e.pop()
			} else if c >= 'A' && c <= 'Z' {
				e.static[c-'A'] = e.pop()
			}
		}

	case 'g': // %ga..%gz / %gA..%gZ: push variable
		if c, ok := e.next(); ok {
			if c >= 'a' && c <= 'z' {
				e.push(e.dynamic[c-'a'])
			} else if c >= 'A' && c <= 'Z' {
				e.push(e.static[c-'A'])
			}
		}

	case '?': // start of conditional, no-op: %t does the branching

	case 't': // pop condition; skip to %e or %; when false
		if !e.pop().truth() {
			e.skipBranch(false)
		}

	case 'e': // reached after executed then-part: skip to %;
		e.skipBranch(true)

	case ';': // end of conditional

	default:
		// printf-style formatting: optional flags/width then d/o/x/X/s
		e.pos-- // re-read op as part of the format spec
		e.format()
	}
}

// skipBranch advances past the current conditional branch, honoring
// nesting. toEnd skips to %; only; otherwise %e at the same level also
// terminates the skip (and execution resumes in the else-part).
func (e *evaluator) skipBranch(toEnd bool) {
	depth := 0
	for {
		b, ok := e.next()
		if !ok {
			return
		}
		if b != '%' {
			continue
		}
		c, ok := e.next()
		if !ok {
			return
		}
		switch c {
		case '?':
			depth++
		case ';':
			if depth == 0 {
				return
			}
			depth--
		case 'e':
			if depth == 0 && !toEnd {
				return
			}
		}
	}
}

// format handles %[[:]flags][width[.precision]]{doxXs} specs
func (e *evaluator) format() {
	start := e.pos
	if e.pos < len(e.src) && e.src[e.pos] == ':' {
		e.pos++ // %:-d form guards '-' from being read as subtraction
		start = e.pos
	}
	for e.pos < len(e.src) {
		c := e.src[e.pos]
		if c == '-' || c == '+' || c == '#' || c == ' ' || c == '.' || (c >= '0' && c <= '9') {
			e.pos++
			continue
		}
		break
	}
	if e.pos >= len(e.src) {
		return
	}
	verb := e.src[e.pos]
	spec := e.src[start:e.pos]
	e.pos++

	v := e.pop()
	switch verb {
	case 'd':
		e.out.WriteString(formatInt(spec, v.i, 10, false))
	case 'o':
		e.out.WriteString(formatInt(spec, v.i, 8, false))
	case 'x':
		e.out.WriteString(formatInt(spec, v.i, 16, false))
	case 'X':
		e.out.WriteString(formatInt(spec, v.i, 16, true))
	case 's':
		e.out.WriteString(padStr(spec, v.s))
	default:
		// Unknown operator: emit nothing, keep going
	}
}

// formatInt renders an integer honoring a minimal flag/width subset
// (zero padding and field width cover every capability in practice)
func formatInt(spec string, n, base int, upper bool) string {
	s := strconv.FormatInt(int64(n), base)
	if upper {
		s = strings.ToUpper(s)
	}
	leftAlign := false
	zeroPad := false
	width := 0
	for i := 0; i < len(spec); i++ {
		switch {
		case spec[i] == '-':
			leftAlign = true
		case spec[i] == '0' && width == 0:
			zeroPad = true
		case spec[i] >= '0' && spec[i] <= '9':
			width = width*10 + int(spec[i]-'0')
		}
	}
	for len(s) < width {
		if leftAlign {
			s = s + " "
		} else if zeroPad {
			s = "0" + s
		} else {
			s = " " + s
		}
	}
	return s
}

func padStr(spec string, s string) string {
	width := 0
	leftAlign := false
	for i := 0; i < len(spec); i++ {
		switch {
		case spec[i] == '-':
			leftAlign = true
		case spec[i] >= '0' && spec[i] <= '9':
			width = width*10 + int(spec[i]-'0')
		}
	}
	for len(s) < width {
		if leftAlign {
			s = s + " "
		} else {
			s = " " + s
		}
	}
	return s
}
