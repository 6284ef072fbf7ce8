package workspace

import (
	"github.com/dshills/panelink/internal/event"
	"github.com/dshills/panelink/internal/event/events"
	"github.com/dshills/panelink/internal/pane"
)

// maxFlushLoads bounds how many loads one Flush applies when event handlers
// keep queueing further loads.
const maxFlushLoads = 256

// loadRequest is a queued document load.
type loadRequest struct {
	pane pane.ID
	doc  pane.Document
}

// Load queues doc for display in id. A later request for the same pane
// replaces an earlier one that has not been applied yet.
func (w *Workspace) Load(id pane.ID, doc pane.Document) error {
	n, err := w.leaf(id)
	if err != nil {
		return err
	}
	if a, ok := w.areaOf(n); ok && w.collapsed[a] {
		return ErrAreaCollapsed
	}
	for i, req := range w.pending {
		if req.pane == id {
			w.pending[i].doc = doc
			return nil
		}
	}
	w.pending = append(w.pending, loadRequest{pane: id, doc: doc})
	return nil
}

// Open queues doc for the active pane.
func (w *Workspace) Open(doc pane.Document) error {
	id, ok := w.ActivePane()
	if !ok {
		return ErrPaneNotFound
	}
	return w.Load(id, doc)
}

// Pending returns the number of queued loads.
func (w *Workspace) Pending() int {
	return len(w.pending)
}

// Flush applies queued loads in request order and publishes a
// DocumentOpened event for each one. Loads queued by event handlers join the
// same queue and are applied in the same call; like any Load, they replace a
// request for the same pane that has not been applied yet. Requests for
// panes closed in the meantime are dropped. It returns the number of loads
// applied.
func (w *Workspace) Flush() int {
	applied := 0
	for len(w.pending) > 0 && applied < maxFlushLoads {
		req := w.pending[0]
		w.pending = w.pending[1:]

		n, err := w.leaf(req.pane)
		if err != nil {
			w.logger.Debug("dropped load of %s into closed pane %s", req.doc, req.pane.Short())
			continue
		}
		prev := n.doc
		n.doc = req.doc
		applied++
		w.publish(event.NewEvent(events.TopicDocumentOpened, events.DocumentOpened{
			Pane:     req.pane,
			Document: req.doc,
			Previous: prev,
		}, eventSource))
	}
	if len(w.pending) > 0 {
		w.logger.Warn("flush stopped with %d loads queued", len(w.pending))
	}
	return applied
}
