// Package event provides the synchronous event bus that carries host
// notifications to panelink's components.
//
// Publishers hand the bus a typed Event whose topic (see package topic) names
// what happened; every active subscription whose pattern matches the topic is
// invoked in priority order, in the publisher's goroutine, before Publish
// returns. The workspace publishes navigation and layout notifications, the
// UI publishes tab-header menu requests, and the config store publishes
// setting changes.
//
// A handler that returns an error or panics does not stop delivery to the
// remaining subscribers; errors and panics are reported to the handlers
// configured with WithErrorHandler and WithPanicHandler.
//
//	bus := event.NewBus()
//	sub, _ := bus.Subscribe(events.TopicLayoutChanged, event.HandlerFunc(
//		func(ctx context.Context, ev any) error {
//			engine.LayoutChanged()
//			return nil
//		}))
//	defer bus.Unsubscribe(sub)
package event
