package event

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/panelink/internal/event/topic"
)

// Bus delivers events to subscribers synchronously.
type Bus interface {
	// Publish delivers event to every matching subscription before returning.
	Publish(ctx context.Context, event any) error

	// Subscribe registers handler for topics matching topicPattern.
	Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)

	// SubscribeFunc is Subscribe for a plain function.
	SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)

	// Unsubscribe removes a subscription.
	Unsubscribe(sub Subscription) error

	// Close drops every subscription; later calls fail with ErrBusClosed.
	Close()

	// Stats returns delivery counters.
	Stats() Stats
}

type bus struct {
	mu     sync.RWMutex
	subs   map[string]*subscription
	seq    uint64
	closed bool

	config busConfig

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &bus{
		subs:   make(map[string]*subscription),
		config: config,
	}
}

// Publish delivers event to the matching subscriptions in priority order,
// ties broken by subscription order. Handlers may publish further events and
// may subscribe or unsubscribe; changes take effect for the next Publish.
func (b *bus) Publish(ctx context.Context, event any) error {
	tp, ok := event.(TopicProvider)
	if !ok || tp.EventTopic() == "" {
		return ErrInvalidEvent
	}
	eventTopic := tp.EventTopic()

	subs, err := b.match(eventTopic)
	if err != nil {
		return err
	}
	b.eventsPublished.Add(1)

	for _, sub := range subs {
		if !sub.shouldDeliver(event) {
			continue
		}
		if b.deliver(ctx, sub, eventTopic, event) && sub.config.Once {
			sub.Cancel()
			b.remove(sub.id)
		}
	}
	return nil
}

// match returns the active subscriptions whose pattern matches t.
func (b *bus) match(t topic.Topic) ([]*subscription, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, ErrBusClosed
	}

	var subs []*subscription
	for _, sub := range b.subs {
		if t.Matches(sub.topic) {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].config.Priority != subs[j].config.Priority {
			return subs[i].config.Priority < subs[j].config.Priority
		}
		return subs[i].seq < subs[j].seq
	})
	return subs, nil
}

// deliver runs one handler, isolating panics. It reports success.
func (b *bus) deliver(ctx context.Context, sub *subscription, t topic.Topic, event any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			ok = false
			if b.config.panicHandler != nil {
				b.config.panicHandler(event, &PanicError{
					SubscriptionID: sub.id,
					Topic:          t.String(),
					Value:          r,
					Stack:          string(debug.Stack()),
				})
			}
		}
	}()

	if err := sub.handler.Handle(ctx, event); err != nil {
		b.handlerErrors.Add(1)
		if b.config.errorHandler != nil {
			b.config.errorHandler(event, &HandlerError{
				SubscriptionID: sub.id,
				Topic:          t.String(),
				Err:            err,
			})
		}
		return false
	}
	b.eventsDelivered.Add(1)
	return true
}

// Subscribe creates a new subscription for the given topic pattern.
func (b *bus) Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !topicPattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, topicPattern)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}
	b.seq++
	sub := newSubscription(uuid.NewString(), b.seq, topicPattern, handler, opts...)
	b.subs[sub.id] = sub
	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *bus) SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(topicPattern, fn, opts...)
}

// Unsubscribe cancels and removes a subscription.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	sub.Cancel()
	if !b.remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (b *bus) remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[id]; !ok {
		return false
	}
	delete(b.subs, id)
	return true
}

// Close cancels every subscription.
func (b *bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		sub.Cancel()
	}
	b.subs = make(map[string]*subscription)
	b.closed = true
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	b.mu.RLock()
	active := 0
	for _, sub := range b.subs {
		if sub.State() == SubscriptionStateActive {
			active++
		}
	}
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: active,
	}
}
