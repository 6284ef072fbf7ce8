package link

import (
	"context"
	"errors"

	"github.com/dshills/panelink/internal/event"
	"github.com/dshills/panelink/internal/event/events"
	"github.com/dshills/panelink/internal/logging"
	"github.com/dshills/panelink/internal/pane"
)

// Engine ties the registry to its resolver, propagator, reconciler and
// indicator. Construct one per host session; tests construct a fresh engine
// each.
//
// All methods must be called from the host's event loop.
type Engine struct {
	host pane.Host

	registry   *Registry
	resolver   *Resolver
	propagator *Propagator
	reconciler *Reconciler
	indicator  *Indicator

	createIfAbsent bool
	logger         *logging.Logger
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	logger         *logging.Logger
	settings       SyncSettings
	createIfAbsent bool
}

// WithLogger sets the engine logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *engineConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSettings sets where the sync-enabled flag is read from.
func WithSettings(s SyncSettings) Option {
	return func(c *engineConfig) {
		c.settings = s
	}
}

// WithCreateIfAbsent controls whether linking splits the pane when no
// partner exists. Defaults to true.
func WithCreateIfAbsent(create bool) Option {
	return func(c *engineConfig) {
		c.createIfAbsent = create
	}
}

// New creates an engine with an empty registry.
func New(host pane.Host, opts ...Option) *Engine {
	cfg := engineConfig{
		logger:         logging.Null(),
		settings:       alwaysEnabled,
		createIfAbsent: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.logger.WithComponent("link")
	registry := NewRegistry()
	propagator := NewPropagator(host, registry, cfg.settings, logger)

	return &Engine{
		host:           host,
		registry:       registry,
		resolver:       NewResolver(host, registry, logger),
		propagator:     propagator,
		reconciler:     NewReconciler(host, registry, propagator, logger),
		indicator:      NewIndicator(host, registry),
		createIfAbsent: cfg.createIfAbsent,
		logger:         logger,
	}
}

// LinkActive links the focused pane. Failures are shown as notices.
func (e *Engine) LinkActive() (pane.ID, error) {
	id, ok := e.host.ActivePane()
	if !ok {
		err := newLinkError("link", "", ErrNoActiveDocument)
		e.report(err)
		return "", err
	}
	return e.LinkPane(id)
}

// LinkPane links id with a partner, found or created, and refreshes the
// badges. Failures are shown as notices except stale panes, which are
// ignored.
func (e *Engine) LinkPane(id pane.ID) (pane.ID, error) {
	partner, err := e.resolver.Resolve(id, ResolveOptions{CreateIfAbsent: e.createIfAbsent})
	if err != nil {
		e.report(err)
		return "", err
	}
	e.indicator.Refresh()
	e.logger.Info("linked %s with %s", id.Short(), partner.Short())
	return partner, nil
}

// Unlink drops id's link. It reports whether a link existed.
func (e *Engine) Unlink(id pane.ID) bool {
	partner, ok := e.registry.Unregister(id)
	if !ok {
		return false
	}
	e.propagator.Forget(id)
	e.propagator.Forget(partner)
	e.indicator.Refresh()
	e.logger.Info("unlinked %s from %s", id.Short(), partner.Short())
	return true
}

// UnlinkActive drops the focused pane's link.
func (e *Engine) UnlinkActive() bool {
	id, ok := e.host.ActivePane()
	if !ok {
		return false
	}
	return e.Unlink(id)
}

// DocumentChanged propagates doc from id to its partner.
func (e *Engine) DocumentChanged(id pane.ID, doc pane.Document) (pane.ID, bool) {
	return e.propagator.DocumentChanged(id, doc)
}

// LayoutChanged reconciles the registry with the live panes and redraws the
// badges.
func (e *Engine) LayoutChanged() []pane.ID {
	removed := e.reconciler.Reconcile()
	e.indicator.Refresh()
	return removed
}

// Partner returns id's partner.
func (e *Engine) Partner(id pane.ID) (pane.ID, bool) {
	return e.registry.Partner(id)
}

// Linked returns every linked pane.
func (e *Engine) Linked() []pane.ID {
	return e.registry.AllLinked()
}

// Registry exposes the underlying registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Attach subscribes the engine to document and layout events on bus. The
// returned function removes the subscriptions.
func (e *Engine) Attach(bus event.Bus) (func(), error) {
	opened, err := bus.Subscribe(events.TopicDocumentOpened,
		event.AsHandler(func(_ context.Context, ev event.Event[events.DocumentOpened]) error {
			e.DocumentChanged(ev.Payload.Pane, ev.Payload.Document)
			return nil
		}),
		event.WithPriority(event.PriorityCritical),
	)
	if err != nil {
		return nil, err
	}

	layout, err := bus.Subscribe(events.TopicLayoutChanged,
		event.AsHandler(func(_ context.Context, _ event.Event[events.LayoutChanged]) error {
			if removed := e.LayoutChanged(); len(removed) > 0 {
				e.logger.Debug("reconciled %d closed panes", len(removed))
			}
			return nil
		}),
		event.WithPriority(event.PriorityCritical),
	)
	if err != nil {
		_ = bus.Unsubscribe(opened)
		return nil, err
	}

	return func() {
		_ = bus.Unsubscribe(opened)
		_ = bus.Unsubscribe(layout)
	}, nil
}

// Close clears every link and badge.
func (e *Engine) Close() {
	e.indicator.Clear()
	e.registry.Clear()
	e.propagator.Reset()
}

// report turns user-facing failures into notices.
func (e *Engine) report(err error) {
	if msg := NoticeFor(err); msg != "" {
		e.host.Notice(msg)
		e.logger.Debug("link failed: %v", err)
		return
	}
	if errors.Is(err, ErrStalePane) {
		e.logger.Debug("ignored: %v", err)
		return
	}
	e.logger.Warn("link failed: %v", err)
}
