package workspace_test

import (
	"fmt"
	"testing"

	"github.com/dshills/panelink/internal/event"
	"github.com/dshills/panelink/internal/link"
	"github.com/dshills/panelink/internal/pane"
	"github.com/dshills/panelink/internal/workspace"
)

func newLinkedSession(t *testing.T) (*workspace.Workspace, *link.Engine) {
	t.Helper()
	n := 0
	bus := event.NewBus()
	w := workspace.New(
		workspace.WithBus(bus),
		workspace.WithIDGenerator(func() pane.ID {
			n++
			return pane.ID(fmt.Sprintf("n%d", n))
		}),
	)
	e := link.New(w)
	detach, err := e.Attach(bus)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(detach)
	return w, e
}

func TestLinkedPanesFollowNavigation(t *testing.T) {
	w, e := newLinkedSession(t)

	if err := w.Open("a.md"); err != nil {
		t.Fatal(err)
	}
	w.Flush()

	partner, err := e.LinkActive()
	if err != nil {
		t.Fatalf("LinkActive: %v", err)
	}
	w.Flush()
	if doc, _ := w.Document(partner); doc != "a.md" {
		t.Fatalf("partner shows %q, want a.md", doc)
	}
	if w.Badge("n2") != link.BadgeLabel || w.Badge(partner) != link.BadgeLabel {
		t.Errorf("badges: %q %q", w.Badge("n2"), w.Badge(partner))
	}

	_ = w.Open("b.md")
	if n := w.Flush(); n != 2 {
		t.Errorf("Flush() = %d, want 2 (source and partner only)", n)
	}
	if doc, _ := w.Document(partner); doc != "b.md" {
		t.Errorf("partner shows %q, want b.md", doc)
	}

	// Navigating the partner drives the source.
	_ = w.Load(partner, "c.md")
	w.Flush()
	if doc, _ := w.Document("n2"); doc != "c.md" {
		t.Errorf("source shows %q, want c.md", doc)
	}
	if w.Pending() != 0 {
		t.Errorf("loads still queued: %d", w.Pending())
	}
}

func TestClosingPartnerUnlinks(t *testing.T) {
	w, e := newLinkedSession(t)
	_ = w.Open("a.md")
	w.Flush()
	partner, err := e.LinkActive()
	if err != nil {
		t.Fatal(err)
	}
	w.Flush()

	if err := w.Close(partner); err != nil {
		t.Fatal(err)
	}
	if len(e.Linked()) != 0 {
		t.Errorf("Linked() = %v after close", e.Linked())
	}
	if w.Badge("n2") != "" {
		t.Error("badge left on surviving pane")
	}

	_ = w.Open("b.md")
	if n := w.Flush(); n != 1 {
		t.Errorf("Flush() = %d, want 1", n)
	}
}

func TestLinkWithoutDocumentNotifies(t *testing.T) {
	w, e := newLinkedSession(t)
	if _, err := e.LinkActive(); err == nil {
		t.Fatal("expected error")
	}
	notices := w.Notices()
	if len(notices) != 1 || notices[0] != "No file is open in this pane." {
		t.Errorf("Notices() = %v", notices)
	}
	if len(w.Panes()) != 3 {
		t.Errorf("panes = %v", w.Panes())
	}
}

func TestLinkReusesMovedPane(t *testing.T) {
	w, e := newLinkedSession(t)
	_ = w.Load("n4", "a.md")
	w.Flush()
	if err := w.MoveToArea("n4", workspace.AreaMain); err != nil {
		t.Fatal(err)
	}
	_ = w.Open("a.md")
	w.Flush()

	partner, err := e.LinkActive()
	if err != nil {
		t.Fatal(err)
	}
	if partner != "n4" {
		t.Fatalf("partner = %q, want existing n4", partner)
	}
	if len(w.Panes()) != 3 {
		t.Errorf("link created a pane: %v", w.Panes())
	}
}

func TestLinkedPanesAgreeAfterConcurrentLoads(t *testing.T) {
	tests := []struct {
		name  string
		first string // "source" or "partner"
		want  pane.Document
	}{
		{name: "partner first", first: "partner", want: "x.md"},
		{name: "source first", first: "source", want: "y.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, e := newLinkedSession(t)
			_ = w.Open("a.md")
			w.Flush()
			source, _ := w.ActivePane()
			partner, err := e.LinkActive()
			if err != nil {
				t.Fatalf("LinkActive: %v", err)
			}
			w.Flush()

			if tt.first == "partner" {
				_ = w.Load(partner, "x.md")
				_ = w.Load(source, "y.md")
			} else {
				_ = w.Load(source, "y.md")
				_ = w.Load(partner, "x.md")
			}
			w.Flush()

			srcDoc, _ := w.Document(source)
			partnerDoc, _ := w.Document(partner)
			if srcDoc != partnerDoc {
				t.Fatalf("linked panes show %q and %q", srcDoc, partnerDoc)
			}
			if srcDoc != tt.want {
				t.Errorf("both panes show %q, want %q", srcDoc, tt.want)
			}
			if got, ok := e.Partner(source); !ok || got != partner {
				t.Errorf("Partner(%s) = %q, %v", source, got, ok)
			}
			if w.Pending() != 0 {
				t.Errorf("loads still queued: %d", w.Pending())
			}
		})
	}
}
