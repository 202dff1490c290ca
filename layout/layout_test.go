package layout

import (
	"testing"

	"github.com/lixenwraith/termview/geom"
)

func TestPercentConstruction(t *testing.T) {
	for _, f := range []float64{0, 50, 100} {
		if _, err := PercentPos(f); err != nil {
			t.Errorf("Expected PercentPos(%v) to succeed, got %v", f, err)
		}
	}
	for _, f := range []float64{-0.1, 100.5, 200} {
		if _, err := PercentPos(f); err == nil {
			t.Errorf("Expected PercentPos(%v) to fail", f)
		}
		if _, err := PercentDim(f); err == nil {
			t.Errorf("Expected PercentDim(%v) to fail", f)
		}
	}
}

func TestPercentResolve(t *testing.T) {
	cases := []struct {
		f      float64
		extent int
		want   int
	}{
		{50, 80, 40},
		{25, 10, 2},
		{33, 10, 3}, // floor(3.3)
		{100, 7, 7},
		{0, 100, 0},
	}
	for _, c := range cases {
		p, err := PercentPos(c.f)
		if err != nil {
			t.Fatalf("Expected PercentPos(%v) to succeed, got %v", c.f, err)
		}
		if got := p.Resolve(c.extent); got != c.want {
			t.Errorf("Percent(%v).Resolve(%d): expected %d, got %d", c.f, c.extent, c.want, got)
		}
	}
}

func TestAnchorEnd(t *testing.T) {
	if got := AnchorEnd(3).Resolve(20); got != 17 {
		t.Errorf("Expected 17, got %d", got)
	}

	// Negative margin clamps at construction
	if got := AnchorEnd(-5).Resolve(20); got != 20 {
		t.Errorf("Expected clamped margin to resolve to 20, got %d", got)
	}

	// Margin beyond extent stays non-positive, not silently clamped
	if got := AnchorEnd(25).Resolve(20); got != -5 {
		t.Errorf("Expected -5, got %d", got)
	}
}

func TestCenterFloors(t *testing.T) {
	if got := Center().Resolve(21); got != 10 {
		t.Errorf("Expected 10, got %d", got)
	}
}

func TestFill(t *testing.T) {
	if got := Fill(4).Resolve(20); got != 16 {
		t.Errorf("Expected 16, got %d", got)
	}
	if got := Fill(30).Resolve(20); got != 0 {
		t.Errorf("Expected underflow to clamp to 0, got %d", got)
	}
}

func TestCombine(t *testing.T) {
	p := Add(At(3), At(4))
	for _, extent := range []int{0, 10, 100} {
		if got := p.Resolve(extent); got != 7 {
			t.Errorf("Expected 7 at extent %d, got %d", extent, got)
		}
	}

	if got := Sub(AnchorEnd(0), At(5)).Resolve(30); got != 25 {
		t.Errorf("Expected 25, got %d", got)
	}

	// Left associative chains
	p = Sub(Add(At(10), At(5)), At(3))
	if got := p.Resolve(0); got != 12 {
		t.Errorf("Expected 12, got %d", got)
	}
}

type fixedFrame geom.Rect

func (f fixedFrame) Frame() geom.Rect { return geom.Rect(f) }

func TestViewEdges(t *testing.T) {
	f := fixedFrame(geom.NewRect(5, 7, 10, 4))

	cases := []struct {
		p    Pos
		want int
	}{
		{Left(f), 5},
		{Right(f), 15},
		{Top(f), 7},
		{Bottom(f), 11},
	}
	for i, c := range cases {
		if got := c.p.Resolve(999); got != c.want {
			t.Errorf("case %d: expected %d, got %d", i, c.want, got)
		}
	}
}

func TestAnchorsWalk(t *testing.T) {
	a := fixedFrame(geom.NewRect(0, 0, 1, 1))
	b := fixedFrame(geom.NewRect(1, 1, 1, 1))

	p := Add(Right(a), Sub(Left(b), At(1)))
	refs := Anchors(p)
	if len(refs) != 2 {
		t.Fatalf("Expected 2 anchors, got %d", len(refs))
	}

	if len(Anchors(At(3))) != 0 {
		t.Error("Expected absolute Pos to have no anchors")
	}
	if len(DimAnchors(Fill(0))) != 0 {
		t.Error("Expected Fill to have no anchors")
	}
}
