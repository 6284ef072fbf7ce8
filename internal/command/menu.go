package command

import (
	"github.com/dshills/panelink/internal/pane"
)

// ArgPaneName is the argument carrying a menu's target pane.
const ArgPaneName = "pane"

// MenuItem is one entry of a context menu.
type MenuItem struct {
	Title   string
	Command string
}

// Menu is a context menu whose items run commands against the pane the
// menu was opened on.
type Menu struct {
	registry *Registry
	items    []MenuItem
}

// NewMenu creates an empty menu backed by registry.
func NewMenu(registry *Registry) *Menu {
	return &Menu{registry: registry}
}

// Add appends an item. The title defaults to the command's title.
func (m *Menu) Add(commandID, title string) {
	if title == "" {
		if cmd := m.registry.Get(commandID); cmd != nil {
			title = cmd.Title
		}
	}
	m.items = append(m.items, MenuItem{Title: title, Command: commandID})
}

// Items returns the entries whose commands are registered.
func (m *Menu) Items() []MenuItem {
	var out []MenuItem
	for _, it := range m.items {
		if m.registry.Has(it.Command) {
			out = append(out, it)
		}
	}
	return out
}

// Select runs item i against target.
func (m *Menu) Select(i int, target pane.ID) error {
	items := m.Items()
	if i < 0 || i >= len(items) {
		return ErrUnknownCommand
	}
	return m.registry.Execute(items[i].Command, Args{ArgPaneName: target})
}
