package link

import (
	"testing"

	"github.com/dshills/panelink/internal/pane"
)

func newTestPropagator(h *fakeHost, enabled *bool) (*Propagator, *Registry) {
	r := NewRegistry()
	var settings SyncSettings
	if enabled != nil {
		settings = SyncSettingsFunc(func() bool { return *enabled })
	}
	return NewPropagator(h, r, settings, nil), r
}

func TestPropagator_NoPartnerIsNoop(t *testing.T) {
	h := newFakeHost()
	h.add("p1", "a.md")
	p, _ := newTestPropagator(h, nil)

	if _, ok := p.DocumentChanged("p1", "b.md"); ok {
		t.Error("propagated without a partner")
	}
	if len(h.loads) != 0 {
		t.Errorf("loads = %v, want none", h.loads)
	}
}

func TestPropagator_LoadsIntoPartner(t *testing.T) {
	h := newFakeHost()
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	p, r := newTestPropagator(h, nil)
	_ = r.SetLinkedPair("p1", "p2")

	target, ok := p.DocumentChanged("p1", "draft.md")
	if !ok || target != "p2" {
		t.Fatalf("DocumentChanged() = %s, %v; want p2, true", target, ok)
	}
	if d, _ := h.Document("p2"); d != "draft.md" {
		t.Errorf("p2 shows %s, want draft.md", d)
	}
}

func TestPropagator_Disabled(t *testing.T) {
	h := newFakeHost()
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	enabled := false
	p, r := newTestPropagator(h, &enabled)
	_ = r.SetLinkedPair("p1", "p2")

	if _, ok := p.DocumentChanged("p1", "b.md"); ok {
		t.Fatal("propagated while disabled")
	}

	enabled = true
	if _, ok := p.DocumentChanged("p1", "b.md"); !ok {
		t.Error("did not propagate after enabling")
	}
}

func TestPropagator_PartnerAlreadyShowsDocument(t *testing.T) {
	h := newFakeHost()
	h.add("p1", "a.md")
	h.add("p2", "b.md")
	p, r := newTestPropagator(h, nil)
	_ = r.SetLinkedPair("p1", "p2")

	if _, ok := p.DocumentChanged("p1", "b.md"); ok {
		t.Error("reloaded a document the partner already shows")
	}
	if len(h.loads) != 0 {
		t.Errorf("loads = %v, want none", h.loads)
	}
}

func TestPropagator_PartnerNotViewable(t *testing.T) {
	h := newFakeHost()
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	h.hidden["p2"] = true
	p, r := newTestPropagator(h, nil)
	_ = r.SetLinkedPair("p1", "p2")

	if _, ok := p.DocumentChanged("p1", "b.md"); ok {
		t.Error("propagated into a pane that is not viewable")
	}
}

func TestPropagator_StalePartnerIsSilent(t *testing.T) {
	h := newFakeHost()
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	p, r := newTestPropagator(h, nil)
	_ = r.SetLinkedPair("p1", "p2")
	h.close("p2")

	if _, ok := p.DocumentChanged("p1", "b.md"); ok {
		t.Error("propagated into a closed pane")
	}
}

// A host that reports loads synchronously re-enters DocumentChanged while the
// propagation is still running.
func TestPropagator_SynchronousEchoSuppressed(t *testing.T) {
	h := newFakeHost()
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	p, r := newTestPropagator(h, nil)
	_ = r.SetLinkedPair("p1", "p2")

	var reentered []pane.ID
	h.onLoad = func(id pane.ID, doc pane.Document) {
		if _, ok := p.DocumentChanged(id, doc); ok {
			reentered = append(reentered, id)
		}
	}

	if _, ok := p.DocumentChanged("p1", "draft.md"); !ok {
		t.Fatal("initial propagation failed")
	}
	if len(reentered) != 0 {
		t.Errorf("echo propagated from %v", reentered)
	}
	if len(h.loads) != 1 {
		t.Errorf("loads = %v, want exactly one", h.loads)
	}
	if p.Pending("p2") {
		t.Error("echo marker left behind after synchronous echo")
	}
}

// A host that reports loads later delivers the echo after DocumentChanged
// has returned.
func TestPropagator_DeferredEchoSuppressed(t *testing.T) {
	h := newFakeHost()
	h.deferLoads = true
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	p, r := newTestPropagator(h, nil)
	_ = r.SetLinkedPair("p1", "p2")

	var echoed int
	h.onLoad = func(id pane.ID, doc pane.Document) {
		if _, ok := p.DocumentChanged(id, doc); ok {
			echoed++
		}
	}

	if _, ok := p.DocumentChanged("p1", "draft.md"); !ok {
		t.Fatal("initial propagation failed")
	}
	if !p.Pending("p2") {
		t.Fatal("no echo marker recorded for p2")
	}

	h.complete()

	if echoed != 0 {
		t.Errorf("deferred echo propagated %d times", echoed)
	}
	if len(h.loads) != 0 {
		t.Errorf("p1 was asked to reload: %v", h.loads)
	}
	if p.Pending("p2") {
		t.Error("echo marker not consumed")
	}

	// Navigation in p2 afterwards is a real change and flows back.
	h.deferLoads = false
	if target, ok := p.DocumentChanged("p2", "next.md"); !ok || target != "p1" {
		t.Errorf("DocumentChanged(p2) = %s, %v; want p1, true", target, ok)
	}
}

func TestPropagator_StaleEchoDoesNotSwallowDifferentDocument(t *testing.T) {
	h := newFakeHost()
	h.deferLoads = true
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	p, r := newTestPropagator(h, nil)
	_ = r.SetLinkedPair("p1", "p2")

	p.DocumentChanged("p1", "draft.md")

	// The user navigates p2 elsewhere before the load is reported.
	target, ok := p.DocumentChanged("p2", "other.md")
	if !ok || target != "p1" {
		t.Errorf("DocumentChanged(p2, other.md) = %s, %v; want p1, true", target, ok)
	}
}

func TestPropagator_QueuedLoadOverridesCurrentDocument(t *testing.T) {
	h := newFakeHost()
	h.deferLoads = true
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	p, r := newTestPropagator(h, nil)
	_ = r.SetLinkedPair("p1", "p2")
	h.onLoad = func(id pane.ID, doc pane.Document) {
		p.DocumentChanged(id, doc)
	}

	p.DocumentChanged("p1", "x.md")

	// p1 returns to a.md before p2's load of x.md lands. p2 still shows
	// a.md, but the queued load would leave it on x.md.
	target, ok := p.DocumentChanged("p1", "a.md")
	if !ok || target != "p2" {
		t.Fatalf("DocumentChanged(p1, a.md) = %s, %v; want p2, true", target, ok)
	}

	// Apply only the newest load per pane, as a coalescing host would.
	h.loads = h.loads[len(h.loads)-1:]
	h.complete()
	if d, _ := h.Document("p2"); d != "a.md" {
		t.Errorf("p2 shows %s, want a.md", d)
	}
	if p.Pending("p2") {
		t.Error("echo marker not consumed")
	}
}

func TestPropagator_QueuedLoadOfSameDocumentIsNotRepeated(t *testing.T) {
	h := newFakeHost()
	h.deferLoads = true
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	p, r := newTestPropagator(h, nil)
	_ = r.SetLinkedPair("p1", "p2")

	p.DocumentChanged("p1", "x.md")
	if _, ok := p.DocumentChanged("p1", "x.md"); ok {
		t.Error("requested a second load of x.md while one is queued")
	}
	if len(h.loads) != 1 {
		t.Errorf("loads = %v, want one", h.loads)
	}
}

func TestPropagator_Reset(t *testing.T) {
	h := newFakeHost()
	h.deferLoads = true
	h.add("p1", "a.md")
	h.add("p2", "a.md")
	p, r := newTestPropagator(h, nil)
	_ = r.SetLinkedPair("p1", "p2")

	p.DocumentChanged("p1", "draft.md")
	p.Reset()
	if p.Pending("p2") {
		t.Error("Reset() kept echo markers")
	}
}
