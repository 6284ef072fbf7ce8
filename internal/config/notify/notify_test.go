package notify

import "testing"

func TestNotifier_Subscribe(t *testing.T) {
	n := New()
	var got []Change
	n.Subscribe(func(c Change) { got = append(got, c) })

	n.NotifySet("enabled", true, false, "command")
	if len(got) != 1 {
		t.Fatalf("got %d changes, want 1", len(got))
	}
	c := got[0]
	if c.Path != "enabled" || c.Type != ChangeSet || c.OldValue != true || c.NewValue != false || c.Source != "command" {
		t.Errorf("change = %+v", c)
	}
}

func TestNotifier_SubscribePath(t *testing.T) {
	tests := []struct {
		sub    string
		change string
		want   bool
	}{
		{"log", "log.level", true},
		{"log.level", "log.level", true},
		{"log", "logger.level", false},
		{"log.level", "log", false},
		{"enabled", "log.level", false},
		{"log", "", true}, // reload
	}
	for _, tt := range tests {
		t.Run(tt.sub+"->"+tt.change, func(t *testing.T) {
			n := New()
			called := false
			n.SubscribePath(tt.sub, func(Change) { called = true })
			if tt.change == "" {
				n.NotifyReload("file")
			} else {
				n.NotifySet(tt.change, nil, 1, "test")
			}
			if called != tt.want {
				t.Errorf("called = %v, want %v", called, tt.want)
			}
		})
	}
}

func TestNotifier_Order(t *testing.T) {
	n := New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		n.Subscribe(func(Change) { order = append(order, i) })
	}
	n.NotifyReload("test")
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v", order)
		}
	}
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := New()
	calls := 0
	sub := n.Subscribe(func(Change) { calls++ })
	n.NotifyReload("test")
	sub.Unsubscribe()
	n.NotifyReload("test")
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n.Len() != 0 {
		t.Errorf("Len() = %d", n.Len())
	}
	var nilSub *Subscription
	nilSub.Unsubscribe()
}

func TestNotifier_Close(t *testing.T) {
	n := New()
	calls := 0
	n.Subscribe(func(Change) { calls++ })
	n.Close()
	n.Close()
	n.NotifyReload("test")
	if calls != 0 {
		t.Errorf("calls = %d after Close", calls)
	}
}

func TestChangeTypeString(t *testing.T) {
	if ChangeSet.String() != "set" || ChangeReload.String() != "reload" || ChangeType(9).String() != "unknown" {
		t.Error("unexpected ChangeType names")
	}
}
