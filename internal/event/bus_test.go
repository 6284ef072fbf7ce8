package event

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/panelink/internal/event/topic"
)

type testPayload struct {
	Value int
}

func TestBus_PublishDeliversToMatchingSubscribers(t *testing.T) {
	b := NewBus()
	ctx := context.Background()

	var exact, wildcard, other int
	_, _ = b.SubscribeFunc("pane.document.opened", func(context.Context, any) error {
		exact++
		return nil
	})
	_, _ = b.SubscribeFunc("pane.**", func(context.Context, any) error {
		wildcard++
		return nil
	})
	_, _ = b.SubscribeFunc("layout.changed", func(context.Context, any) error {
		other++
		return nil
	})

	if err := b.Publish(ctx, NewEvent[testPayload]("pane.document.opened", testPayload{1}, "test")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if exact != 1 || wildcard != 1 || other != 0 {
		t.Errorf("deliveries = exact %d wildcard %d other %d, want 1 1 0", exact, wildcard, other)
	}
}

func TestBus_PriorityOrder(t *testing.T) {
	b := NewBus()
	var order []string

	record := func(name string) HandlerFunc {
		return func(context.Context, any) error {
			order = append(order, name)
			return nil
		}
	}

	_, _ = b.SubscribeFunc("layout.changed", record("low"), WithPriority(PriorityLow))
	_, _ = b.SubscribeFunc("layout.changed", record("normal-1"))
	_, _ = b.SubscribeFunc("layout.changed", record("critical"), WithPriority(PriorityCritical))
	_, _ = b.SubscribeFunc("layout.changed", record("normal-2"))

	_ = b.Publish(context.Background(), NewEvent[testPayload]("layout.changed", testPayload{}, "test"))

	want := []string{"critical", "normal-1", "normal-2", "low"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestBus_TypedHandler(t *testing.T) {
	b := NewBus()
	var got int

	_, _ = b.Subscribe("layout.changed", AsHandler(func(_ context.Context, e Event[testPayload]) error {
		got = e.Payload.Value
		return nil
	}))

	_ = b.Publish(context.Background(), NewEvent[string]("layout.changed", "ignored", "test"))
	if got != 0 {
		t.Fatalf("typed handler received mismatched payload")
	}

	_ = b.Publish(context.Background(), NewEvent("layout.changed", testPayload{Value: 7}, "test"))
	if got != 7 {
		t.Errorf("got = %d, want 7", got)
	}
}

func TestBus_HandlerErrorAndPanicIsolation(t *testing.T) {
	var handlerErrs []*HandlerError
	var panics []*PanicError
	b := NewBus(
		WithErrorHandler(func(_ any, err *HandlerError) { handlerErrs = append(handlerErrs, err) }),
		WithPanicHandler(func(_ any, err *PanicError) { panics = append(panics, err) }),
	)

	boom := errors.New("boom")
	reached := false
	_, _ = b.SubscribeFunc("layout.changed", func(context.Context, any) error { return boom }, WithPriority(PriorityCritical))
	_, _ = b.SubscribeFunc("layout.changed", func(context.Context, any) error { panic("bad") }, WithPriority(PriorityHigh))
	_, _ = b.SubscribeFunc("layout.changed", func(context.Context, any) error {
		reached = true
		return nil
	})

	if err := b.Publish(context.Background(), NewEvent("layout.changed", testPayload{}, "test")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if !reached {
		t.Error("later handler not reached after error and panic")
	}
	if len(handlerErrs) != 1 || !errors.Is(handlerErrs[0], boom) {
		t.Errorf("handler errors = %v", handlerErrs)
	}
	if len(panics) != 1 || !errors.Is(panics[0], ErrHandlerPanic) {
		t.Errorf("panics = %v", panics)
	}

	stats := b.Stats()
	if stats.HandlerErrors != 1 || stats.HandlerPanics != 1 || stats.EventsDelivered != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestBus_Once(t *testing.T) {
	b := NewBus()
	calls := 0
	_, _ = b.SubscribeFunc("layout.changed", func(context.Context, any) error {
		calls++
		return nil
	}, WithOnce())

	ev := NewEvent("layout.changed", testPayload{}, "test")
	_ = b.Publish(context.Background(), ev)
	_ = b.Publish(context.Background(), ev)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if b.Stats().ActiveSubscribers != 0 {
		t.Errorf("once subscription still registered")
	}
}

func TestBus_PauseResumeAndUnsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	sub, err := b.SubscribeFunc("layout.changed", func(context.Context, any) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("SubscribeFunc() error = %v", err)
	}
	ev := NewEvent("layout.changed", testPayload{}, "test")

	sub.Pause()
	_ = b.Publish(context.Background(), ev)
	sub.Resume()
	_ = b.Publish(context.Background(), ev)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	if err := b.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	if err := b.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second Unsubscribe() error = %v, want ErrSubscriptionNotFound", err)
	}
	_ = b.Publish(context.Background(), ev)
	if calls != 1 {
		t.Errorf("handler called after unsubscribe")
	}
}

func TestBus_Filter(t *testing.T) {
	b := NewBus()
	calls := 0
	_, _ = b.SubscribeFunc("layout.changed", func(context.Context, any) error {
		calls++
		return nil
	}, WithFilter(func(ev any) bool {
		p, ok := PayloadOf[testPayload](ev)
		return ok && p.Value > 0
	}))

	_ = b.Publish(context.Background(), NewEvent("layout.changed", testPayload{Value: 0}, "test"))
	_ = b.Publish(context.Background(), NewEvent("layout.changed", testPayload{Value: 1}, "test"))

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBus_NestedPublish(t *testing.T) {
	b := NewBus()
	var seen []topic.Topic

	_, _ = b.SubscribeFunc("**", func(_ context.Context, ev any) error {
		seen = append(seen, ev.(TopicProvider).EventTopic())
		return nil
	})
	_, _ = b.SubscribeFunc("pane.document.opened", func(ctx context.Context, _ any) error {
		return b.Publish(ctx, NewEvent("layout.changed", testPayload{}, "test"))
	})

	_ = b.Publish(context.Background(), NewEvent("pane.document.opened", testPayload{}, "test"))

	if len(seen) != 2 || seen[0] != "pane.document.opened" || seen[1] != "layout.changed" {
		t.Errorf("seen = %v", seen)
	}
}

func TestBus_Validation(t *testing.T) {
	b := NewBus()

	if _, err := b.Subscribe("layout.changed", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil handler error = %v", err)
	}
	if _, err := b.SubscribeFunc("bad..topic", func(context.Context, any) error { return nil }); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("invalid topic error = %v", err)
	}
	if err := b.Publish(context.Background(), "not an event"); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("invalid event error = %v", err)
	}
	if err := b.Unsubscribe(nil); !errors.Is(err, ErrInvalidSubscription) {
		t.Errorf("nil subscription error = %v", err)
	}

	b.Close()
	if err := b.Publish(context.Background(), NewEvent("layout.changed", testPayload{}, "test")); !errors.Is(err, ErrBusClosed) {
		t.Errorf("publish after close error = %v", err)
	}
}
