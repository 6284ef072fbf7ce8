package workspace

import (
	"github.com/dshills/panelink/internal/event"
	"github.com/dshills/panelink/internal/event/events"
	"github.com/dshills/panelink/internal/pane"
)

// Split divides id and returns the new, empty pane placed after it. Focus
// does not move.
func (w *Workspace) Split(id pane.ID, o pane.Orientation) (pane.ID, error) {
	n, err := w.leaf(id)
	if err != nil {
		return "", err
	}
	if a, ok := w.areaOf(n); ok && w.collapsed[a] {
		return "", ErrAreaCollapsed
	}

	created := w.newLeaf()
	parent := n.parent
	if parent.orientation == o {
		idx := n.indexInParent()
		parent.children = append(parent.children, nil)
		copy(parent.children[idx+2:], parent.children[idx+1:])
		parent.children[idx+1] = created
		created.parent = parent
	} else {
		container := w.newContainer(o)
		parent.replaceChild(n, container)
		container.children = []*node{n, created}
		n.parent = container
		created.parent = container
	}

	w.logger.Debug("split %s %s into %s", id.Short(), o, created.id.Short())
	w.layoutChanged(events.LayoutSplit)
	return created.id, nil
}

// Close removes id. Containers left with a single child are folded into
// their parent. Closing the focused pane moves focus to the first main pane.
func (w *Workspace) Close(id pane.ID) error {
	n, err := w.leaf(id)
	if err != nil {
		return err
	}
	if err := w.detach(n); err != nil {
		return err
	}
	delete(w.nodes, id)
	w.dropPending(id)

	w.logger.Debug("closed %s", id.Short())
	if w.active == id {
		w.focusFallback(id)
	}
	w.layoutChanged(events.LayoutClose)
	return nil
}

// MoveToArea moves id to the end of another area. The pane keeps its ID and
// document.
func (w *Workspace) MoveToArea(id pane.ID, to Area) error {
	n, err := w.leaf(id)
	if err != nil {
		return err
	}
	from, _ := w.areaOf(n)
	if from == to {
		return nil
	}
	if w.collapsed[to] {
		return ErrAreaCollapsed
	}
	if err := w.detach(n); err != nil {
		return err
	}

	root := w.areas[to]
	root.children = append(root.children, n)
	n.parent = root

	w.logger.Debug("moved %s from %s to %s", id.Short(), from, to)
	w.layoutChanged(events.LayoutMove)
	return nil
}

// detach unhooks leaf n from its tree, folding single-child containers.
func (w *Workspace) detach(n *node) error {
	if a, ok := w.areaOf(n); ok && a == AreaMain {
		if len(w.areas[AreaMain].leaves(nil)) <= 1 {
			return ErrLastPane
		}
	}

	parent := n.parent
	parent.removeChild(n)
	for parent != nil && !parent.isRoot() && len(parent.children) <= 1 {
		grand := parent.parent
		if len(parent.children) == 1 {
			grand.replaceChild(parent, parent.children[0])
		} else {
			grand.removeChild(parent)
		}
		delete(w.nodes, parent.id)
		parent = grand
	}
	return nil
}

func (w *Workspace) dropPending(id pane.ID) {
	kept := w.pending[:0]
	for _, req := range w.pending {
		if req.pane != id {
			kept = append(kept, req)
		}
	}
	w.pending = kept
}

// Focus makes id the active pane.
func (w *Workspace) Focus(id pane.ID) error {
	if _, err := w.leaf(id); err != nil {
		return err
	}
	if !w.Viewable(id) {
		return ErrAreaCollapsed
	}
	w.setActive(id)
	return nil
}

// FocusNext moves focus to the next viewable pane in enumeration order.
func (w *Workspace) FocusNext() {
	w.cycleFocus(1)
}

// FocusPrev moves focus to the previous viewable pane.
func (w *Workspace) FocusPrev() {
	w.cycleFocus(-1)
}

func (w *Workspace) cycleFocus(step int) {
	var ids []pane.ID
	for _, id := range w.Panes() {
		if w.Viewable(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return
	}
	idx := -1
	for i, id := range ids {
		if id == w.active {
			idx = i
			break
		}
	}
	next := (idx + step + len(ids)) % len(ids)
	if idx < 0 {
		next = 0
	}
	w.setActive(ids[next])
}

// focusFallback focuses the first main pane after prev went away.
func (w *Workspace) focusFallback(prev pane.ID) {
	main := w.AreaPanes(AreaMain)
	if len(main) == 0 {
		w.active = ""
		return
	}
	if prev == "" {
		prev = w.active
	}
	w.active = main[0]
	w.publish(event.NewEvent(events.TopicActivePaneChanged, events.ActivePaneChanged{
		Pane:     w.active,
		Previous: prev,
	}, eventSource))
}

func (w *Workspace) setActive(id pane.ID) {
	if w.active == id {
		return
	}
	prev := w.active
	w.active = id
	w.publish(event.NewEvent(events.TopicActivePaneChanged, events.ActivePaneChanged{
		Pane:     id,
		Previous: prev,
	}, eventSource))
}

// Collapsed reports whether a side panel is hidden.
func (w *Workspace) Collapsed(a Area) bool {
	return w.collapsed[a]
}

// SetCollapsed hides or shows a side panel. Panes in a hidden panel stay
// alive but are not viewable.
func (w *Workspace) SetCollapsed(a Area, collapsed bool) error {
	if a == AreaMain {
		return ErrMainArea
	}
	if w.collapsed[a] == collapsed {
		return nil
	}
	w.collapsed[a] = collapsed
	if collapsed {
		if cur, ok := w.nodes[w.active]; ok {
			if area, _ := w.areaOf(cur); area == a {
				w.focusFallback("")
			}
		}
	}
	w.layoutChanged(events.LayoutResize)
	return nil
}

// ToggleArea flips a side panel between hidden and shown.
func (w *Workspace) ToggleArea(a Area) error {
	return w.SetCollapsed(a, !w.collapsed[a])
}

func (w *Workspace) layoutChanged(reason events.LayoutReason) {
	w.publish(event.NewEvent(events.TopicLayoutChanged, events.LayoutChanged{
		Reason: reason,
		Panes:  len(w.Panes()),
	}, eventSource))
}
