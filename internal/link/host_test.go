package link

import (
	"errors"
	"fmt"

	"github.com/dshills/panelink/internal/pane"
)

const (
	mainRoot pane.ID = "main"
	sideRoot pane.ID = "side"
)

type load struct {
	pane pane.ID
	doc  pane.Document
}

// fakeHost is a flat host: every pane hangs off the main root or the side
// root. Loads are recorded and applied immediately unless deferLoads is set.
type fakeHost struct {
	order   []pane.ID
	parents map[pane.ID]pane.ID
	docs    map[pane.ID]pane.Document
	hidden  map[pane.ID]bool
	badges  map[pane.ID]string
	notices []string
	loads   []load
	active  pane.ID
	nextID  int

	splitErr   error
	deferLoads bool
	onLoad     func(id pane.ID, doc pane.Document)

	badgeSets   int
	badgeClears int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		parents: make(map[pane.ID]pane.ID),
		docs:    make(map[pane.ID]pane.Document),
		hidden:  make(map[pane.ID]bool),
		badges:  make(map[pane.ID]string),
	}
}

func (h *fakeHost) add(id pane.ID, doc pane.Document) pane.ID {
	return h.addUnder(id, mainRoot, doc)
}

func (h *fakeHost) addSide(id pane.ID, doc pane.Document) pane.ID {
	return h.addUnder(id, sideRoot, doc)
}

func (h *fakeHost) addUnder(id, parent pane.ID, doc pane.Document) pane.ID {
	h.order = append(h.order, id)
	h.parents[id] = parent
	if doc != "" {
		h.docs[id] = doc
	}
	if h.active == "" {
		h.active = id
	}
	return id
}

func (h *fakeHost) close(id pane.ID) {
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	delete(h.parents, id)
	delete(h.docs, id)
	delete(h.badges, id)
}

func (h *fakeHost) live(id pane.ID) bool {
	return pane.Contains(h.order, id)
}

func (h *fakeHost) Panes() []pane.ID {
	return append([]pane.ID(nil), h.order...)
}

func (h *fakeHost) Parent(id pane.ID) (pane.ID, bool) {
	p, ok := h.parents[id]
	return p, ok
}

func (h *fakeHost) MainRoot() pane.ID {
	return mainRoot
}

func (h *fakeHost) Document(id pane.ID) (pane.Document, bool) {
	d, ok := h.docs[id]
	return d, ok
}

func (h *fakeHost) Load(id pane.ID, doc pane.Document) error {
	if !h.live(id) {
		return errors.New("pane closed")
	}
	h.loads = append(h.loads, load{id, doc})
	if h.deferLoads {
		return nil
	}
	h.docs[id] = doc
	if h.onLoad != nil {
		h.onLoad(id, doc)
	}
	return nil
}

// complete applies deferred loads and reports them through onLoad.
func (h *fakeHost) complete() {
	pending := h.loads
	h.loads = nil
	for _, l := range pending {
		if !h.live(l.pane) {
			continue
		}
		h.docs[l.pane] = l.doc
		if h.onLoad != nil {
			h.onLoad(l.pane, l.doc)
		}
	}
}

func (h *fakeHost) Viewable(id pane.ID) bool {
	return h.live(id) && !h.hidden[id]
}

func (h *fakeHost) Split(id pane.ID, _ pane.Orientation) (pane.ID, error) {
	if h.splitErr != nil {
		return "", h.splitErr
	}
	h.nextID++
	created := pane.ID(fmt.Sprintf("new-%d", h.nextID))
	h.addUnder(created, h.parents[id], "")
	return created, nil
}

func (h *fakeHost) ActivePane() (pane.ID, bool) {
	return h.active, h.active != "" && h.live(h.active)
}

func (h *fakeHost) SetBadge(id pane.ID, label string) {
	h.badgeSets++
	h.badges[id] = label
}

func (h *fakeHost) ClearBadge(id pane.ID) {
	h.badgeClears++
	delete(h.badges, id)
}

func (h *fakeHost) Notice(msg string) {
	h.notices = append(h.notices, msg)
}

var _ pane.Host = (*fakeHost)(nil)
