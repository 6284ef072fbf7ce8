package link

import (
	"github.com/dshills/panelink/internal/logging"
	"github.com/dshills/panelink/internal/pane"
)

// Reconciler prunes registry entries for panes that are no longer live.
// Absence from the host's enumeration is the only signal used; no pane-closed
// event is relied on, so any host event ordering is tolerated.
type Reconciler struct {
	host       pane.Enumerator
	registry   *Registry
	propagator *Propagator
	logger     *logging.Logger
}

// NewReconciler creates a reconciler. propagator may be nil.
func NewReconciler(host pane.Enumerator, registry *Registry, propagator *Propagator, logger *logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.Null()
	}
	return &Reconciler{
		host:       host,
		registry:   registry,
		propagator: propagator,
		logger:     logger,
	}
}

// Reconcile unregisters every registry member missing from the live set and
// returns the removed panes.
func (r *Reconciler) Reconcile() []pane.ID {
	live := pane.Set(r.host.Panes())

	var removed []pane.ID
	for _, id := range r.registry.AllLinked() {
		if _, ok := live[id]; ok {
			continue
		}
		partner, linked := r.registry.Unregister(id)
		if r.propagator != nil {
			r.propagator.Forget(id)
		}
		removed = append(removed, id)
		if linked {
			r.logger.Debug("pane %s closed, unlinked from %s", id.Short(), partner.Short())
		}
	}
	return removed
}
