package link

import (
	"sort"

	"github.com/dshills/panelink/internal/pane"
)

// Registry records which panes are linked.
//
// The relation is symmetric and exclusive: every pane has at most one
// partner, and if a is linked to b then b is linked to a. Entries hold pane
// IDs only, so the registry never keeps a pane alive; disappearance is
// detected by reconciliation against the host's live set.
//
// Registry is not safe for concurrent use. It is mutated from the event loop
// only.
type Registry struct {
	links map[pane.ID]map[pane.ID]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		links: make(map[pane.ID]map[pane.ID]struct{}),
	}
}

// SetLinkedPair links a and b, first dropping any links either one had.
// Linking a pair that is already linked is a no-op.
func (r *Registry) SetLinkedPair(a, b pane.ID) error {
	if a == b {
		return ErrSelfLink
	}
	if p, ok := r.Partner(a); ok && p == b {
		if q, ok := r.Partner(b); ok && q == a {
			return nil
		}
	}

	r.clear(a)
	r.clear(b)

	r.links[a] = map[pane.ID]struct{}{b: {}}
	r.links[b] = map[pane.ID]struct{}{a: {}}
	return nil
}

// Partner returns the pane linked to p.
func (r *Registry) Partner(p pane.ID) (pane.ID, bool) {
	for q := range r.links[p] {
		return q, true
	}
	return "", false
}

// IsLinked reports whether p has a partner.
func (r *Registry) IsLinked(p pane.ID) bool {
	return len(r.links[p]) > 0
}

// Unregister removes p and every entry referencing it. Emptied sets are
// deleted, so every pane with an entry is linked.
// It returns the former partner, if any.
func (r *Registry) Unregister(p pane.ID) (pane.ID, bool) {
	partner, ok := r.Partner(p)
	r.clear(p)
	return partner, ok
}

// AllLinked returns every pane holding a link, sorted by ID.
func (r *Registry) AllLinked() []pane.ID {
	ids := make([]pane.ID, 0, len(r.links))
	for id, set := range r.links {
		if len(set) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Pairs returns the number of linked pairs.
func (r *Registry) Pairs() int {
	n := 0
	for _, set := range r.links {
		n += len(set)
	}
	return n / 2
}

// Clear drops every link.
func (r *Registry) Clear() {
	r.links = make(map[pane.ID]map[pane.ID]struct{})
}

// clear removes p's entry and the back-references its partners hold.
func (r *Registry) clear(p pane.ID) {
	for q := range r.links[p] {
		if back := r.links[q]; back != nil {
			delete(back, p)
			if len(back) == 0 {
				delete(r.links, q)
			}
		}
	}
	delete(r.links, p)
}
