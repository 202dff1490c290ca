package terminfo

import "testing"

func TestExpandLiteralPassthrough(t *testing.T) {
	if got := Expand("\x1b[2J\x1b[H"); got != "\x1b[2J\x1b[H" {
		t.Errorf("Expected literal passthrough, got %q", got)
	}
}

func TestExpandParamDecimal(t *testing.T) {
	if got := Expand("%p1%d", 5); got != "5" {
		t.Errorf("Expected %q, got %q", "5", got)
	}
}

func TestExpandArithmetic(t *testing.T) {
	if got := Expand("%p1%{2}%+%d", 3); got != "5" {
		t.Errorf("Expected %q, got %q", "5", got)
	}
	if got := Expand("%p1%{2}%-%d", 7); got != "5" {
		t.Errorf("Expected %q, got %q", "5", got)
	}
	if got := Expand("%p1%{3}%*%d", 4); got != "12" {
		t.Errorf("Expected %q, got %q", "12", got)
	}
	if got := Expand("%p1%{4}%/%d", 13); got != "3" {
		t.Errorf("Expected %q, got %q", "3", got)
	}
	if got := Expand("%p1%{8}%m%d", 13); got != "5" {
		t.Errorf("Expected %q, got %q", "5", got)
	}
}

func TestExpandCursorAddress(t *testing.T) {
	// xterm cup: 1-based with %i
	got := Expand("\x1b[%i%p1%d;%p2%dH", 4, 9)
	if got != "\x1b[5;10H" {
		t.Errorf("Expected %q, got %q", "\x1b[5;10H", got)
	}
}

func TestExpandParamsNotMutated(t *testing.T) {
	params := []int{4, 9}
	Expand("%i%p1%d;%p2%d", params...)
	if params[0] != 4 || params[1] != 9 {
		t.Errorf("Expected caller params untouched, got %v", params)
	}
}

func TestExpandConditional(t *testing.T) {
	// setaf-style branch: <8 basic, <16 bright, else 256-palette
	setaf := "\x1b[%?%p1%{8}%<%t3%p1%d%e%p1%{16}%<%t9%p1%{8}%-%d%e38;5;%p1%d%;m"

	cases := []struct {
		param int
		want  string
	}{
		{1, "\x1b[31m"},
		{7, "\x1b[37m"},
		{9, "\x1b[91m"},
		{120, "\x1b[38;5;120m"},
	}
	for _, c := range cases {
		if got := Expand(setaf, c.param); got != c.want {
			t.Errorf("setaf(%d): expected %q, got %q", c.param, c.want, got)
		}
	}
}

func TestExpandNestedConditional(t *testing.T) {
	tmpl := "%?%p1%{1}%=%tA%?%p2%{1}%=%tB%eC%;%eD%;"

	cases := []struct {
		p1, p2 int
		want   string
	}{
		{1, 1, "AB"},
		{1, 0, "AC"},
		{0, 9, "D"},
	}
	for _, c := range cases {
		if got := Expand(tmpl, c.p1, c.p2); got != c.want {
			t.Errorf("(%d,%d): expected %q, got %q", c.p1, c.p2, c.want, got)
		}
	}
}

func TestExpandComparisons(t *testing.T) {
	if got := Expand("%p1%p2%>%d", 5, 3); got != "1" {
		t.Errorf("Expected 1, got %q", got)
	}
	if got := Expand("%p1%p2%=%d", 4, 4); got != "1" {
		t.Errorf("Expected 1, got %q", got)
	}
	if got := Expand("%p1%{9}%<%d", 10); got != "0" {
		t.Errorf("Expected 0, got %q", got)
	}
}

func TestExpandCharConstantAndChar(t *testing.T) {
	if got := Expand("%'x'%c"); got != "x" {
		t.Errorf("Expected %q, got %q", "x", got)
	}
	if got := Expand("%p1%'a'%+%c", 1); got != "b" {
		t.Errorf("Expected %q, got %q", "b", got)
	}
}

func TestExpandPercentEscape(t *testing.T) {
	if got := Expand("100%%"); got != "100%" {
		t.Errorf("Expected %q, got %q", "100%", got)
	}
}

func TestExpandWidthAndPadding(t *testing.T) {
	if got := Expand("%p1%02d", 5); got != "05" {
		t.Errorf("Expected %q, got %q", "05", got)
	}
	if got := Expand("%p1%3d", 7); got != "  7" {
		t.Errorf("Expected %q, got %q", "  7", got)
	}
	if got := Expand("%p1%x", 255); got != "ff" {
		t.Errorf("Expected %q, got %q", "ff", got)
	}
}

func TestExpandVariables(t *testing.T) {
	// Store p1 in dynamic a, recall twice
	if got := Expand("%p1%Pa%ga%d;%ga%d", 6); got != "6;6" {
		t.Errorf("Expected %q, got %q", "6;6", got)
	}
}

func TestExpandMalformedDoesNotPanic(t *testing.T) {
	for _, tmpl := range []string{"%", "%p", "%{12", "%?%t", "%+%d", "%;"} {
		_ = Expand(tmpl, 1)
	}
}
