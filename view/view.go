// Package view implements the view hierarchy: layout resolution over
// positional expressions, focus and input routing, per-view layers, and
// the compositor that turns layers into driver updates.
package view

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/termview/geom"
	"github.com/lixenwraith/termview/layout"
	"github.com/lixenwraith/termview/terminal"
)

// View is one node of the interface tree. Children are ordered back to
// front; the last child draws on top and wins hit tests.
type View struct {
	// Name identifies the view in layout error messages
	Name string

	parent   *View
	children []*View

	// Unresolved position and size; nil means 0 / natural
	x, y layout.Pos
	w, h layout.Dim

	frame    geom.Rect
	drawable bool

	canFocus     bool
	focusedChild *View

	scheme    terminal.ColorScheme
	hasScheme bool

	layer        *Layer
	needsDisplay geom.Rect
	needsLayout  bool

	// Behavior hooks. A nil hook means the view has no behavior for
	// that phase and routing moves on.
	Drawer         func(region geom.Rect, p *Painter)
	KeyHandler     func(ev terminal.Event) bool
	HotKeyHandler  func(ev terminal.Event) bool
	ColdKeyHandler func(ev terminal.Event) bool
	MouseHandler   func(ev terminal.Event) bool

	// CursorPos reports where the hardware cursor belongs in local
	// coordinates; ok=false hides it
	CursorPos func() (p geom.Point, ok bool)
}

// New returns an empty view
func New(name string) *View {
	return &View{
		Name:        name,
		drawable:    true,
		needsLayout: true,
	}
}

// Frame returns the resolved frame in the parent's coordinate space
func (v *View) Frame() geom.Rect {
	return v.frame
}

// SetFrame pins the frame directly, bypassing the layout expressions.
// Toplevels sized by the screen use this.
func (v *View) SetFrame(r geom.Rect) {
	if r == v.frame {
		return
	}
	v.frame = r
	v.drawable = r.Size.Width > 0 && r.Size.Height > 0
	v.ensureLayer()
	v.needsLayout = true
	v.SetNeedsDisplay(geom.Rect{})
}

// SetPosition sets the unresolved X/Y expressions
func (v *View) SetPosition(x, y layout.Pos) {
	v.x, v.y = x, y
	v.invalidateLayout()
}

// SetSize sets the unresolved width/height expressions
func (v *View) SetSize(w, h layout.Dim) {
	v.w, v.h = w, h
	v.invalidateLayout()
}

// SetCanFocus marks the view as a focus target
func (v *View) SetCanFocus(can bool) {
	v.canFocus = can
}

// CanFocus reports whether the view accepts focus
func (v *View) CanFocus() bool {
	return v.canFocus
}

// SetColorScheme overrides the scheme inherited from the parent
func (v *View) SetColorScheme(s terminal.ColorScheme) {
	v.scheme = s
	v.hasScheme = true
	v.SetNeedsDisplay(geom.Rect{})
}

// ColorScheme returns the view's scheme, inheriting up the tree
func (v *View) ColorScheme() terminal.ColorScheme {
	for n := v; n != nil; n = n.parent {
		if n.hasScheme {
			return n.scheme
		}
	}
	return terminal.ColorScheme{}
}

// Parent returns the containing view, nil at the root
func (v *View) Parent() *View {
	return v.parent
}

// Children returns the child list, back to front. The slice is the
// view's own; callers must not mutate it.
func (v *View) Children() []*View {
	return v.children
}

// AddSubview appends a child at the front of the z-order
func (v *View) AddSubview(child *View) {
	if child == nil || child == v || child.parent != nil {
		return
	}
	child.parent = v
	v.children = append(v.children, child)
	v.invalidateLayout()
}

// RemoveSubview detaches a child. Focus held anywhere inside the
// removed subtree is cleared on the way out.
func (v *View) RemoveSubview(child *View) {
	for i, c := range v.children {
		if c != child {
			continue
		}
		if v.focusedChild == child {
			v.clearFocusUp()
		} else if child.subtreeHoldsFocus() {
			child.clearFocusDown()
		}
		v.children = append(v.children[:i], v.children[i+1:]...)
		child.parent = nil
		v.invalidateLayout()
		return
	}
}

// subtreeHoldsFocus reports whether the focus chain passes through v
func (v *View) subtreeHoldsFocus() bool {
	return v.focusedChild != nil
}

func (v *View) clearFocusDown() {
	for n := v; n != nil; {
		next := n.focusedChild
		n.focusedChild = nil
		n = next
	}
}

func (v *View) clearFocusUp() {
	for n := v; n != nil; n = n.parent {
		if n.focusedChild == nil {
			return
		}
		n.focusedChild = nil
	}
}

// SetFocus moves focus to a descendant. It refuses views that cannot
// take focus and views outside the receiver's subtree.
func (v *View) SetFocus(target *View) bool {
	if target == nil || !target.canFocus {
		return false
	}

	// Verify descent and collect the path
	path := []*View{target}
	n := target
	for n != v {
		if n.parent == nil {
			return false
		}
		n = n.parent
		path = append(path, n)
	}

	// Tear down the old chain below v, then install the new one
	if v.focusedChild != nil {
		v.focusedChild.clearFocusDown()
		v.focusedChild = nil
	}
	for i := len(path) - 1; i > 0; i-- {
		path[i].focusedChild = path[i-1]
	}
	target.SetNeedsDisplay(geom.Rect{})
	return true
}

// Focused returns the focus leaf within the receiver's subtree
func (v *View) Focused() *View {
	n := v
	for n.focusedChild != nil {
		n = n.focusedChild
	}
	if n == v && !v.canFocus {
		return nil
	}
	return n
}

// HasFocus reports whether the view is the focus leaf
func (v *View) HasFocus() bool {
	if v.focusedChild != nil {
		return false
	}
	if v.parent == nil {
		return v.canFocus
	}
	return v.parent.focusedChild == v && v.parent.chainRooted()
}

// chainRooted reports whether the focus chain above v reaches the root
func (v *View) chainRooted() bool {
	for n := v; n.parent != nil; n = n.parent {
		if n.parent.focusedChild != n {
			return false
		}
	}
	return true
}

// SetNeedsDisplay marks a region dirty; an empty rect means the whole
// frame
func (v *View) SetNeedsDisplay(region geom.Rect) {
	bounds := geom.Rect{Size: v.frame.Size}
	if region.Empty() {
		v.needsDisplay = bounds
	} else {
		v.needsDisplay = v.needsDisplay.Union(region.Intersect(bounds))
	}
}

// NeedsDisplay reports the pending dirty region
func (v *View) NeedsDisplay() geom.Rect {
	return v.needsDisplay
}

func (v *View) invalidateLayout() {
	for n := v; n != nil; n = n.parent {
		n.needsLayout = true
	}
}

// InvalidateLayout forces a relayout of the subtree on the next pass
func (v *View) InvalidateLayout() {
	v.markLayoutDown()
	v.invalidateLayout()
}

func (v *View) markLayoutDown() {
	v.needsLayout = true
	for _, c := range v.children {
		c.markLayoutDown()
	}
}

// LayoutSubviews resolves every child frame against the receiver's
// bounds. Children referencing sibling edges resolve after the siblings
// they reference; a reference cycle is an error, never a silent zero.
func (v *View) LayoutSubviews() error {
	order, err := v.layoutOrder()
	if err != nil {
		return err
	}

	extentW := v.frame.Size.Width
	extentH := v.frame.Size.Height

	for _, c := range order {
		w := resolveDim(c.w, extentW)
		h := resolveDim(c.h, extentH)
		x := resolvePos(c.x, extentW)
		y := resolvePos(c.y, extentH)

		frame := geom.Rect{
			Origin: geom.Pt(x, y),
			Size:   geom.Sz(w, h),
		}
		if frame != c.frame {
			c.frame = frame
			c.ensureLayer()
			c.SetNeedsDisplay(geom.Rect{})
		}
		// Zero-area views keep their frame but never draw
		c.drawable = w > 0 && h > 0
	}

	for _, c := range v.children {
		if err := c.LayoutSubviews(); err != nil {
			return err
		}
	}
	v.needsLayout = false
	return nil
}

func resolvePos(p layout.Pos, extent int) int {
	if p == nil {
		return 0
	}
	return p.Resolve(extent)
}

func resolveDim(d layout.Dim, extent int) int {
	if d == nil {
		return 0
	}
	n := d.Resolve(extent)
	if n < 0 {
		return 0
	}
	return n
}

// layoutOrder topologically sorts children by their edge-anchor
// dependencies
func (v *View) layoutOrder() ([]*View, error) {
	index := make(map[*View]int, len(v.children))
	for i, c := range v.children {
		index[c] = i
	}

	// deps[i] holds indexes of siblings child i reads
	deps := make([][]int, len(v.children))
	for i, c := range v.children {
		seen := map[int]bool{}
		collect := func(f layout.Framer) {
			ref, ok := f.(*View)
			if !ok {
				return
			}
			if j, ok := index[ref]; ok && j != i && !seen[j] {
				seen[j] = true
				deps[i] = append(deps[i], j)
			}
		}
		for _, p := range []layout.Pos{c.x, c.y} {
			if p != nil {
				for _, f := range layout.Anchors(p) {
					collect(f)
				}
			}
		}
		for _, d := range []layout.Dim{c.w, c.h} {
			if d != nil {
				for _, f := range layout.DimAnchors(d) {
					collect(f)
				}
			}
		}
	}

	// Kahn's algorithm, preserving declaration order among ready nodes
	indegree := make([]int, len(v.children))
	for i := range deps {
		indegree[i] = len(deps[i])
	}
	dependents := make([][]int, len(v.children))
	for i, ds := range deps {
		for _, j := range ds {
			dependents[j] = append(dependents[j], i)
		}
	}

	order := make([]*View, 0, len(v.children))
	done := make([]bool, len(v.children))
	for len(order) < len(v.children) {
		progressed := false
		for i, c := range v.children {
			if done[i] || indegree[i] != 0 {
				continue
			}
			done[i] = true
			order = append(order, c)
			for _, j := range dependents[i] {
				indegree[j]--
			}
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("view: layout cycle among %s", v.cycleNames(done))
		}
	}
	return order, nil
}

// cycleNames names the children still unresolved when layout stalled
func (v *View) cycleNames(done []bool) string {
	var names []string
	for i, c := range v.children {
		if !done[i] {
			name := c.Name
			if name == "" {
				name = fmt.Sprintf("child[%d]", i)
			}
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func (v *View) ensureLayer() {
	if v.layer == nil {
		v.layer = NewLayer(v.frame.Size)
	} else {
		v.layer.Resize(v.frame.Size)
	}
}

// Layer returns the view's cell buffer; nil until the first layout
func (v *View) Layer() *Layer {
	return v.layer
}

// HitTest finds the deepest drawable view containing a point in the
// receiver's local coordinates. Among overlapping siblings the
// front-most wins. Returns the view and the point in its coordinates.
func (v *View) HitTest(p geom.Point) (*View, geom.Point) {
	for i := len(v.children) - 1; i >= 0; i-- {
		c := v.children[i]
		if !c.drawable || !c.frame.Contains(p) {
			continue
		}
		local := geom.Pt(p.X-c.frame.Origin.X, p.Y-c.frame.Origin.Y)
		return c.HitTest(local)
	}
	return v, p
}

// ScreenOrigin returns the view's origin in absolute coordinates
func (v *View) ScreenOrigin() geom.Point {
	o := geom.Point{}
	for n := v; n != nil; n = n.parent {
		o.X += n.frame.Origin.X
		o.Y += n.frame.Origin.Y
	}
	return o
}

// draw renders the dirty region into the layer through a painter
func (v *View) draw(colors terminal.Colors) {
	if !v.drawable || v.layer == nil {
		v.needsDisplay = geom.Rect{}
		return
	}
	region := v.needsDisplay
	if region.Empty() {
		return
	}

	scheme := v.ColorScheme()
	if !v.hasScheme && v.parent == nil {
		scheme = colors.Base
	}

	p := NewPainter(v.layer, region)
	p.SetAttribute(scheme.Normal)
	p.FillRegion(region, ' ')
	if v.Drawer != nil {
		v.Drawer(region, p)
	}
	v.needsDisplay = geom.Rect{}
}

func (v *View) String() string {
	name := v.Name
	if name == "" {
		name = "view"
	}
	return fmt.Sprintf("%s%v", name, v.frame)
}
