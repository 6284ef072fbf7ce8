package app

import (
	"context"
	"sync"

	"github.com/dshills/panelink/internal/config"
	"github.com/dshills/panelink/internal/config/notify"
	"github.com/dshills/panelink/internal/event"
	"github.com/dshills/panelink/internal/event/events"
	"github.com/dshills/panelink/internal/logging"
	"github.com/dshills/panelink/internal/ui"
)

// subscriptionManager manages event bus subscriptions for the application.
type subscriptionManager struct {
	mu            sync.Mutex
	subscriptions []event.Subscription
	observers     []*notify.Subscription
	app           *Application
}

// newSubscriptionManager creates a new subscription manager.
func newSubscriptionManager(app *Application) *subscriptionManager {
	return &subscriptionManager{app: app}
}

// setupSubscriptions registers all event subscriptions.
func (sm *subscriptionManager) setupSubscriptions() error {
	// Settings store -> config.changed on the bus
	sm.bridgeConfig()

	// config.changed -> logger level, sidebars
	if err := sm.subscribeConfigChanges(); err != nil {
		return err
	}

	// tabheader.menu -> context menu
	return sm.subscribeTabHeaderMenu()
}

// bridgeConfig republishes every settings change as a config.changed event.
func (sm *subscriptionManager) bridgeConfig() {
	bus := sm.app.bus
	obs := sm.app.settings.Subscribe(func(c notify.Change) {
		if c.Type != notify.ChangeSet {
			return
		}
		ev := event.NewEvent(events.TopicConfigChanged, events.ConfigChanged{
			Path:     c.Path,
			OldValue: c.OldValue,
			NewValue: c.NewValue,
			Source:   events.ConfigSource(c.Source),
		}, "config")
		_ = bus.Publish(context.Background(), ev)
	})
	sm.addObserver(obs)
}

// subscribeConfigChanges applies the settings that take effect without a
// restart.
func (sm *subscriptionManager) subscribeConfigChanges() error {
	sub, err := sm.app.bus.Subscribe(events.TopicConfigChanged,
		event.AsHandler(sm.handleConfigChange),
		event.WithFilter(func(ev any) bool {
			c, ok := event.PayloadOf[events.ConfigChanged](ev)
			return ok && (c.Path == config.PathLogLevel || c.Path == config.PathSidebars)
		}),
	)
	if err != nil {
		return err
	}
	sm.addSubscription(sub)
	return nil
}

// subscribeTabHeaderMenu opens the context menu when a tab header asks for
// it.
func (sm *subscriptionManager) subscribeTabHeaderMenu() error {
	sub, err := sm.app.bus.Subscribe(events.TopicTabHeaderMenu,
		event.AsHandler(sm.handleTabHeaderMenu),
	)
	if err != nil {
		return err
	}
	sm.addSubscription(sub)
	return nil
}

// addSubscription adds a subscription to the managed list.
func (sm *subscriptionManager) addSubscription(sub event.Subscription) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.subscriptions = append(sm.subscriptions, sub)
}

func (sm *subscriptionManager) addObserver(obs *notify.Subscription) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.observers = append(sm.observers, obs)
}

// cleanup unsubscribes all managed subscriptions.
// Safe to call multiple times (idempotent).
func (sm *subscriptionManager) cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for _, obs := range sm.observers {
		obs.Unsubscribe()
	}
	sm.observers = nil

	if sm.app.bus != nil {
		for _, sub := range sm.subscriptions {
			if sub != nil {
				_ = sm.app.bus.Unsubscribe(sub)
			}
		}
	}
	sm.subscriptions = nil
}

// Event Handlers

func (sm *subscriptionManager) handleConfigChange(_ context.Context, ev event.Event[events.ConfigChanged]) error {
	switch ev.Payload.Path {
	case config.PathLogLevel:
		if level, ok := ev.Payload.NewValue.(string); ok {
			logging.SetGlobalLevel(logging.ParseLevel(level))
		}
	case config.PathSidebars:
		if show, ok := ev.Payload.NewValue.(bool); ok && sm.app.view != nil {
			sm.app.view.SetSidebars(show)
		}
	}
	sm.app.logger.Debug("setting %s changed (%s)", ev.Payload.Path, ev.Payload.Source)
	return nil
}

func (sm *subscriptionManager) handleTabHeaderMenu(_ context.Context, ev event.Event[events.TabHeaderMenu]) error {
	if sm.app.view == nil {
		return nil
	}
	items := sm.app.menu.Items()
	if len(items) == 0 {
		return nil
	}
	sm.app.view.Menu = ui.NewMenuOverlay(ev.Payload.Pane, sm.app.menuX, sm.app.menuY, items)
	return nil
}
