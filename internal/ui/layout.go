package ui

import (
	"github.com/dshills/panelink/internal/pane"
	"github.com/dshills/panelink/internal/workspace"
)

// Sidebar sizing.
const (
	sidebarMinWidth = 16
	mainMinWidth    = 20
)

// Rect is a screen rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether r has no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// PaneBox is where one pane is drawn.
type PaneBox struct {
	ID       pane.ID
	Area     workspace.Area
	Document pane.Document
	Badge    string
	Active   bool

	Header Rect
	Body   Rect
}

// Layout maps a snapshot onto the screen.
type Layout struct {
	Width, Height int

	Panes    []PaneBox
	Dividers []Rect
	Status   Rect
}

// ComputeLayout places every viewable pane of s on a width x height screen.
// Side areas get a fifth of the width each when sidebars is set, their area
// is expanded, and the screen is wide enough. The last row is the status
// line.
func ComputeLayout(s workspace.Snapshot, width, height int, sidebars bool) Layout {
	l := Layout{Width: width, Height: height}
	if width <= 0 || height <= 0 {
		return l
	}
	l.Status = Rect{X: 0, Y: height - 1, W: width, H: 1}
	content := Rect{X: 0, Y: 0, W: width, H: height - 1}
	if content.Empty() {
		return l
	}

	side := width / 5
	if side < sidebarMinWidth {
		side = sidebarMinWidth
	}
	showSide := func(a workspace.Area) bool {
		as := s.Area(a)
		return sidebars && !as.Collapsed && len(as.Root.Children) > 0
	}

	main := content
	if showSide(workspace.AreaLeft) && main.W-side-1 >= mainMinWidth {
		l.place(s.Area(workspace.AreaLeft), Rect{X: main.X, Y: main.Y, W: side, H: main.H})
		l.Dividers = append(l.Dividers, Rect{X: main.X + side, Y: main.Y, W: 1, H: main.H})
		main.X += side + 1
		main.W -= side + 1
	}
	if showSide(workspace.AreaRight) && main.W-side-1 >= mainMinWidth {
		l.place(s.Area(workspace.AreaRight), Rect{X: main.X + main.W - side, Y: main.Y, W: side, H: main.H})
		l.Dividers = append(l.Dividers, Rect{X: main.X + main.W - side - 1, Y: main.Y, W: 1, H: main.H})
		main.W -= side + 1
	}
	l.place(s.Area(workspace.AreaMain), main)
	return l
}

func (l *Layout) place(as workspace.AreaSnapshot, r Rect) {
	l.placeNode(as.Area, as.Root, r)
}

func (l *Layout) placeNode(a workspace.Area, n workspace.NodeSnapshot, r Rect) {
	if r.Empty() {
		return
	}
	if n.Leaf {
		box := PaneBox{
			ID:       n.ID,
			Area:     a,
			Document: n.Document,
			Badge:    n.Badge,
			Active:   n.Active,
			Header:   Rect{X: r.X, Y: r.Y, W: r.W, H: 1},
			Body:     Rect{X: r.X, Y: r.Y + 1, W: r.W, H: r.H - 1},
		}
		l.Panes = append(l.Panes, box)
		return
	}

	count := len(n.Children)
	if count == 0 {
		return
	}
	for i, c := range n.Children {
		var cr Rect
		if n.Orientation == pane.Vertical {
			start := r.X + r.W*i/count
			end := r.X + r.W*(i+1)/count
			cr = Rect{X: start, Y: r.Y, W: end - start, H: r.H}
			if i < count-1 && cr.W > 1 {
				cr.W--
				l.Dividers = append(l.Dividers, Rect{X: cr.X + cr.W, Y: r.Y, W: 1, H: r.H})
			}
		} else {
			start := r.Y + r.H*i/count
			end := r.Y + r.H*(i+1)/count
			cr = Rect{X: r.X, Y: start, W: r.W, H: end - start}
		}
		l.placeNode(a, c, cr)
	}
}

// Hit is the result of a hit test.
type Hit struct {
	Pane   pane.ID
	Header bool
}

// HitTest returns the pane under (x, y). Header is set when the point is on
// the pane's tab header.
func (l Layout) HitTest(x, y int) (Hit, bool) {
	for _, b := range l.Panes {
		if b.Header.Contains(x, y) {
			return Hit{Pane: b.ID, Header: true}, true
		}
		if b.Body.Contains(x, y) {
			return Hit{Pane: b.ID}, true
		}
	}
	return Hit{}, false
}

// Box returns the box of id.
func (l Layout) Box(id pane.ID) (PaneBox, bool) {
	for _, b := range l.Panes {
		if b.ID == id {
			return b, true
		}
	}
	return PaneBox{}, false
}
