package ui

import (
	"github.com/dshills/panelink/internal/command"
	"github.com/dshills/panelink/internal/pane"
)

// MenuAction is the outcome of feeding an event to a menu.
type MenuAction int

// Menu actions.
const (
	MenuNone MenuAction = iota
	MenuSelect
	MenuCancel
)

// MenuOverlay is an open context menu. It is anchored at the click position
// and targets the pane whose header was clicked.
type MenuOverlay struct {
	Target   pane.ID
	X, Y     int
	Items    []command.MenuItem
	Selected int
}

// NewMenuOverlay opens a menu for target at (x, y).
func NewMenuOverlay(target pane.ID, x, y int, items []command.MenuItem) *MenuOverlay {
	return &MenuOverlay{Target: target, X: x, Y: y, Items: items}
}

// Rect returns where the menu is drawn, kept inside a width x height screen.
func (m *MenuOverlay) Rect(width, height int) Rect {
	w := 0
	for _, it := range m.Items {
		if tw := TextWidth(it.Title); tw > w {
			w = tw
		}
	}
	r := Rect{X: m.X, Y: m.Y + 1, W: w + 2, H: len(m.Items)}
	if r.X+r.W > width {
		r.X = width - r.W
	}
	if r.Y+r.H > height {
		r.Y = height - r.H
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	return r
}

// HandleKey moves the selection or closes the menu.
func (m *MenuOverlay) HandleKey(ev Event) MenuAction {
	switch ev.Key {
	case KeyUp, KeyBacktab:
		m.move(-1)
	case KeyDown, KeyTab:
		m.move(1)
	case KeyEnter:
		if len(m.Items) == 0 {
			return MenuCancel
		}
		return MenuSelect
	case KeyEscape:
		return MenuCancel
	}
	return MenuNone
}

// HandleMouse selects the clicked item. A click outside the menu closes it.
func (m *MenuOverlay) HandleMouse(ev Event, width, height int) MenuAction {
	if ev.Button == MouseNone {
		return MenuNone
	}
	r := m.Rect(width, height)
	if !r.Contains(ev.MouseX, ev.MouseY) {
		return MenuCancel
	}
	m.Selected = ev.MouseY - r.Y
	return MenuSelect
}

func (m *MenuOverlay) move(delta int) {
	n := len(m.Items)
	if n == 0 {
		return
	}
	m.Selected = ((m.Selected+delta)%n + n) % n
}
