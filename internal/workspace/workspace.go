package workspace

import (
	"context"

	"github.com/google/uuid"

	"github.com/dshills/panelink/internal/event"
	"github.com/dshills/panelink/internal/logging"
	"github.com/dshills/panelink/internal/pane"
)

// eventSource is the Source recorded on published events.
const eventSource = "workspace"

// Workspace is a pane host made of three split trees: the main area and two
// side panels.
type Workspace struct {
	areas     [3]*node
	collapsed [3]bool
	nodes     map[pane.ID]*node
	active    pane.ID

	pending []loadRequest

	bus      event.Bus
	ctx      context.Context
	logger   *logging.Logger
	newID    func() pane.ID
	onNotice func(msg string)
	notices  []string
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithBus sets the bus events are published on.
func WithBus(b event.Bus) Option {
	return func(w *Workspace) {
		w.bus = b
	}
}

// WithLogger sets the workspace logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithIDGenerator replaces the UUID generator, mainly for tests.
func WithIDGenerator(fn func() pane.ID) Option {
	return func(w *Workspace) {
		if fn != nil {
			w.newID = fn
		}
	}
}

// WithNoticeHandler sets the function user notices are forwarded to.
func WithNoticeHandler(fn func(msg string)) Option {
	return func(w *Workspace) {
		w.onNotice = fn
	}
}

// WithContext sets the context passed to bus handlers.
func WithContext(ctx context.Context) Option {
	return func(w *Workspace) {
		if ctx != nil {
			w.ctx = ctx
		}
	}
}

// New creates a workspace holding one empty main pane and one empty pane in
// each side panel. The main pane is active.
func New(opts ...Option) *Workspace {
	w := &Workspace{
		nodes:  make(map[pane.ID]*node),
		ctx:    context.Background(),
		logger: logging.Null(),
		newID:  func() pane.ID { return pane.ID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("workspace")

	for _, a := range []Area{AreaMain, AreaLeft, AreaRight} {
		o := pane.Vertical
		if a != AreaMain {
			o = pane.Horizontal
		}
		root := w.newContainer(o)
		leaf := w.newLeaf()
		root.children = []*node{leaf}
		leaf.parent = root
		w.areas[a] = root
	}
	w.active = w.areas[AreaMain].children[0].id
	return w
}

func (w *Workspace) newLeaf() *node {
	n := &node{id: w.newID(), leaf: true}
	w.nodes[n.id] = n
	return n
}

func (w *Workspace) newContainer(o pane.Orientation) *node {
	n := &node{id: w.newID(), orientation: o}
	w.nodes[n.id] = n
	return n
}

// leaf returns the live leaf for id.
func (w *Workspace) leaf(id pane.ID) (*node, error) {
	n, ok := w.nodes[id]
	if !ok {
		return nil, ErrPaneNotFound
	}
	if !n.leaf {
		return nil, ErrNotLeaf
	}
	return n, nil
}

// areaOf returns the area containing n.
func (w *Workspace) areaOf(n *node) (Area, bool) {
	r := n.root()
	for a, root := range w.areas {
		if root == r {
			return Area(a), true
		}
	}
	return AreaMain, false
}

// Panes returns every live leaf pane in enumeration order.
func (w *Workspace) Panes() []pane.ID {
	var leaves []*node
	for _, root := range w.areas {
		leaves = root.leaves(leaves)
	}
	ids := make([]pane.ID, len(leaves))
	for i, n := range leaves {
		ids[i] = n.id
	}
	return ids
}

// AreaPanes returns the leaves of one area in enumeration order.
func (w *Workspace) AreaPanes(a Area) []pane.ID {
	leaves := w.areas[a].leaves(nil)
	ids := make([]pane.ID, len(leaves))
	for i, n := range leaves {
		ids[i] = n.id
	}
	return ids
}

// Area returns the area a pane lives in.
func (w *Workspace) Area(id pane.ID) (Area, bool) {
	n, ok := w.nodes[id]
	if !ok {
		return AreaMain, false
	}
	return w.areaOf(n)
}

// Parent returns the container holding id.
func (w *Workspace) Parent(id pane.ID) (pane.ID, bool) {
	n, ok := w.nodes[id]
	if !ok || n.parent == nil {
		return "", false
	}
	return n.parent.id, true
}

// MainRoot returns the root container of the main area.
func (w *Workspace) MainRoot() pane.ID {
	return w.areas[AreaMain].id
}

// Document returns the document shown by id.
func (w *Workspace) Document(id pane.ID) (pane.Document, bool) {
	n, err := w.leaf(id)
	if err != nil || n.doc.IsZero() {
		return "", false
	}
	return n.doc, true
}

// Viewable reports whether id is a live leaf in an expanded area.
func (w *Workspace) Viewable(id pane.ID) bool {
	n, err := w.leaf(id)
	if err != nil {
		return false
	}
	a, ok := w.areaOf(n)
	return ok && !w.collapsed[a]
}

// ActivePane returns the focused pane.
func (w *Workspace) ActivePane() (pane.ID, bool) {
	if _, err := w.leaf(w.active); err != nil {
		return "", false
	}
	return w.active, true
}

// SetBadge shows a badge on id's tab header.
func (w *Workspace) SetBadge(id pane.ID, label string) {
	if n, err := w.leaf(id); err == nil {
		n.badge = label
	}
}

// ClearBadge removes id's badge.
func (w *Workspace) ClearBadge(id pane.ID) {
	if n, err := w.leaf(id); err == nil {
		n.badge = ""
	}
}

// Badge returns id's badge label.
func (w *Workspace) Badge(id pane.ID) string {
	if n, err := w.leaf(id); err == nil {
		return n.badge
	}
	return ""
}

// Notice records a user notice and forwards it to the notice handler.
func (w *Workspace) Notice(msg string) {
	w.notices = append(w.notices, msg)
	if len(w.notices) > 32 {
		w.notices = w.notices[len(w.notices)-32:]
	}
	if w.onNotice != nil {
		w.onNotice(msg)
	}
}

// Notices returns the most recent notices, oldest first.
func (w *Workspace) Notices() []string {
	return append([]string(nil), w.notices...)
}

// SetNoticeHandler replaces the notice handler.
func (w *Workspace) SetNoticeHandler(fn func(msg string)) {
	w.onNotice = fn
}

// publish sends ev on the bus, if one is set.
func (w *Workspace) publish(ev any) {
	if w.bus == nil {
		return
	}
	if err := w.bus.Publish(w.ctx, ev); err != nil {
		w.logger.Debug("publish failed: %v", err)
	}
}

var _ pane.Host = (*Workspace)(nil)
