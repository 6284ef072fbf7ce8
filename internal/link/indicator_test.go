package link

import (
	"testing"
)

func badgeSnapshot(h *fakeHost) map[string]string {
	out := make(map[string]string, len(h.badges))
	for id, label := range h.badges {
		out[string(id)] = label
	}
	return out
}

func TestIndicator_MarksExactlyLinkedPanes(t *testing.T) {
	h := newFakeHost()
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	h.add("p3", "b.md")
	r := NewRegistry()
	_ = r.SetLinkedPair("p1", "p2")
	ind := NewIndicator(h, r)

	h.badges["p3"] = "stale"
	ind.Refresh()

	if h.badges["p1"] != BadgeLabel || h.badges["p2"] != BadgeLabel {
		t.Errorf("badges = %v, want p1 and p2 marked", h.badges)
	}
	if _, ok := h.badges["p3"]; ok {
		t.Error("stale badge on p3 not cleared")
	}
}

func TestIndicator_RefreshIdempotent(t *testing.T) {
	h := newFakeHost()
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	h.add("p3", "b.md")
	r := NewRegistry()
	_ = r.SetLinkedPair("p1", "p2")
	ind := NewIndicator(h, r)

	ind.Refresh()
	first := badgeSnapshot(h)
	ind.Refresh()
	second := badgeSnapshot(h)

	if len(first) != len(second) {
		t.Fatalf("badge sets differ: %v vs %v", first, second)
	}
	for id, label := range first {
		if second[id] != label {
			t.Errorf("badge for %s changed from %q to %q", id, label, second[id])
		}
	}
}

func TestIndicator_RelinkMovesBadge(t *testing.T) {
	h := newFakeHost()
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	h.add("p3", "a.md")
	r := NewRegistry()
	ind := NewIndicator(h, r)

	_ = r.SetLinkedPair("p1", "p2")
	ind.Refresh()
	_ = r.SetLinkedPair("p1", "p3")
	ind.Refresh()

	if _, ok := h.badges["p2"]; ok {
		t.Error("p2 still marked after relink")
	}
	if h.badges["p1"] == "" || h.badges["p3"] == "" {
		t.Errorf("badges = %v, want p1 and p3", h.badges)
	}
}

func TestIndicator_SkipsDeadPanes(t *testing.T) {
	h := newFakeHost()
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	r := NewRegistry()
	_ = r.SetLinkedPair("p1", "p2")
	ind := NewIndicator(h, r)

	h.close("p2")
	h.badgeSets = 0
	ind.Refresh()

	if h.badgeSets != 1 {
		t.Errorf("SetBadge called %d times, want 1 (dead pane skipped)", h.badgeSets)
	}
}

func TestIndicator_Clear(t *testing.T) {
	h := newFakeHost()
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	r := NewRegistry()
	_ = r.SetLinkedPair("p1", "p2")
	ind := NewIndicator(h, r)

	ind.Refresh()
	ind.Clear()

	if len(h.badges) != 0 {
		t.Errorf("badges = %v after Clear", h.badges)
	}
}
