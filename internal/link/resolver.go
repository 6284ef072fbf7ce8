package link

import (
	"github.com/dshills/panelink/internal/logging"
	"github.com/dshills/panelink/internal/pane"
)

// maxAncestorDepth bounds the parent walk so a malformed host tree cannot
// loop forever.
const maxAncestorDepth = 64

// ResolveOptions controls partner resolution.
type ResolveOptions struct {
	// CreateIfAbsent splits the source pane when no existing pane qualifies.
	CreateIfAbsent bool
}

// resolverHost is the part of the host the resolver needs.
type resolverHost interface {
	pane.Enumerator
	pane.Documents
	pane.Splitter
}

// Resolver finds or creates the pane a source pane should be linked with.
type Resolver struct {
	host     resolverHost
	registry *Registry
	logger   *logging.Logger
}

// NewResolver creates a resolver writing into registry.
func NewResolver(host resolverHost, registry *Registry, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Null()
	}
	return &Resolver{
		host:     host,
		registry: registry,
		logger:   logger,
	}
}

// Resolve links source with a partner and returns the partner.
//
// Candidates are the live panes inside the main area, in host order; the
// first one other than source showing the same document wins. When none
// qualifies and opts.CreateIfAbsent is set, source is split vertically and
// the new pane is asked to load the document. The registry is updated before
// that load completes.
func (r *Resolver) Resolve(source pane.ID, opts ResolveOptions) (pane.ID, error) {
	live := r.host.Panes()
	if !pane.Contains(live, source) {
		return "", newLinkError("resolve", source, ErrStalePane)
	}

	doc, ok := r.host.Document(source)
	if !ok || doc.IsZero() {
		return "", newLinkError("resolve", source, ErrNoActiveDocument)
	}

	// A live partner is kept; if it drifted (sync disabled, or a load still
	// in flight was superseded) it is pointed back at the source's document.
	if partner, ok := r.registry.Partner(source); ok && pane.Contains(live, partner) && r.InMainArea(partner) {
		if pdoc, ok := r.host.Document(partner); !ok || pdoc != doc {
			if err := r.host.Load(partner, doc); err != nil {
				r.logger.Warn("load %s into %s failed: %v", doc, partner.Short(), err)
			}
		}
		return partner, nil
	}

	candidate, found := r.findCandidate(source, doc, live)

	if !found && opts.CreateIfAbsent {
		created, err := r.host.Split(source, pane.Vertical)
		if err != nil {
			r.logger.Warn("split %s failed: %v", source.Short(), err)
		} else {
			if err := r.host.Load(created, doc); err != nil {
				r.logger.Warn("load %s into %s failed: %v", doc, created.Short(), err)
			}
			candidate, found = created, true
		}
	}

	if !found {
		return "", newLinkError("resolve", source, ErrNoPartnerAvailable)
	}

	if err := r.registry.SetLinkedPair(source, candidate); err != nil {
		return "", newLinkError("resolve", source, err)
	}
	r.logger.Debug("linked %s <-> %s on %s", source.Short(), candidate.Short(), doc)
	return candidate, nil
}

// findCandidate returns the first main-area pane other than source showing doc.
func (r *Resolver) findCandidate(source pane.ID, doc pane.Document, live []pane.ID) (pane.ID, bool) {
	for _, id := range live {
		if id == source {
			continue
		}
		if !r.InMainArea(id) {
			continue
		}
		if d, ok := r.host.Document(id); ok && d == doc {
			return id, true
		}
	}
	return "", false
}

// InMainArea reports whether walking id's ancestors reaches the main-area root.
func (r *Resolver) InMainArea(id pane.ID) bool {
	root := r.host.MainRoot()
	if root == "" {
		return false
	}
	cur := id
	for depth := 0; depth < maxAncestorDepth; depth++ {
		if cur == root {
			return true
		}
		parent, ok := r.host.Parent(cur)
		if !ok {
			return false
		}
		cur = parent
	}
	return false
}
