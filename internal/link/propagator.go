package link

import (
	"github.com/dshills/panelink/internal/logging"
	"github.com/dshills/panelink/internal/pane"
)

// SyncSettings reports whether navigation in one pane should follow into its
// partner.
type SyncSettings interface {
	SyncEnabled() bool
}

// SyncSettingsFunc adapts a function to SyncSettings.
type SyncSettingsFunc func() bool

// SyncEnabled implements SyncSettings.
func (f SyncSettingsFunc) SyncEnabled() bool {
	return f()
}

// alwaysEnabled is used when no settings are supplied.
var alwaysEnabled = SyncSettingsFunc(func() bool { return true })

// Propagator pushes a pane's document into its partner.
//
// Two guards keep linked panes from bouncing documents back and forth. The
// propagating flag rejects calls made while a propagation is in progress
// (hosts that report loads synchronously). The echo table remembers every
// load the propagator requested; the next change event for that pane with
// the same document is the host reporting that load and is consumed without
// propagating (hosts that report loads later).
type Propagator struct {
	host        pane.Documents
	registry    *Registry
	settings    SyncSettings
	logger      *logging.Logger
	propagating bool
	echoes      map[pane.ID]pane.Document
}

// NewPropagator creates a propagator reading links from registry.
func NewPropagator(host pane.Documents, registry *Registry, settings SyncSettings, logger *logging.Logger) *Propagator {
	if settings == nil {
		settings = alwaysEnabled
	}
	if logger == nil {
		logger = logging.Null()
	}
	return &Propagator{
		host:     host,
		registry: registry,
		settings: settings,
		logger:   logger,
		echoes:   make(map[pane.ID]pane.Document),
	}
}

// DocumentChanged reacts to id now showing doc. It returns the partner a
// load was requested for, if any. A pane without a partner is the common
// case and not an error.
func (p *Propagator) DocumentChanged(id pane.ID, doc pane.Document) (pane.ID, bool) {
	if want, ok := p.echoes[id]; ok {
		delete(p.echoes, id)
		if want == doc {
			return "", false
		}
	}
	if p.propagating {
		return "", false
	}
	if !p.settings.SyncEnabled() || doc.IsZero() {
		return "", false
	}

	partner, ok := p.registry.Partner(id)
	if !ok {
		return "", false
	}
	if !p.host.Viewable(partner) {
		p.logger.Debug("partner %s of %s not viewable", partner.Short(), id.Short())
		return "", false
	}
	// While a load into the partner is outstanding its current document is
	// about to be replaced, so only the queued target counts.
	if want, pending := p.echoes[partner]; pending {
		if want == doc {
			return "", false
		}
	} else if current, ok := p.host.Document(partner); ok && current == doc {
		return "", false
	}

	p.propagating = true
	defer func() { p.propagating = false }()

	p.echoes[partner] = doc
	if err := p.host.Load(partner, doc); err != nil {
		delete(p.echoes, partner)
		p.logger.Debug("propagate %s to %s dropped: %v", doc, partner.Short(), err)
		return "", false
	}
	p.logger.Debug("propagated %s from %s to %s", doc, id.Short(), partner.Short())
	return partner, true
}

// Forget drops pending echo state for id.
func (p *Propagator) Forget(id pane.ID) {
	delete(p.echoes, id)
}

// Pending reports whether an echo for id is outstanding.
func (p *Propagator) Pending(id pane.ID) bool {
	_, ok := p.echoes[id]
	return ok
}

// Reset drops all echo state.
func (p *Propagator) Reset() {
	p.echoes = make(map[pane.ID]pane.Document)
	p.propagating = false
}
