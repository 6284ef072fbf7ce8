package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/panelink/internal/command"
)

func newSimTerminal(t *testing.T, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(w, h)
	t.Cleanup(term.Shutdown)
	return term, screen
}

// rowText returns the characters on row y.
func rowText(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return b.String()
}

func TestViewRenderHeaders(t *testing.T) {
	term, screen := newSimTerminal(t, 100, 30)
	ws := newTestWorkspace()
	if err := ws.Load("n2", "docs/a.md"); err != nil {
		t.Fatal(err)
	}
	ws.Flush()
	ws.SetBadge("n2", "Linked pane")

	v := NewView(term, true)
	v.Render(ws.Snapshot())

	header := rowText(screen, 0)
	if !strings.Contains(header, "a.md [Linked pane]") {
		t.Errorf("header row %q lacks badged title", header)
	}
	if !strings.Contains(header, emptyTitle) {
		t.Errorf("header row %q lacks empty side pane title", header)
	}
	if body := rowText(screen, 1); !strings.Contains(body, "docs/a.md") {
		t.Errorf("body row %q lacks document path", body)
	}

	ws.ClearBadge("n2")
	v.Render(ws.Snapshot())
	if header := rowText(screen, 0); strings.Contains(header, "Linked pane") {
		t.Errorf("badge still drawn after clear: %q", header)
	}
}

func TestViewStatusAndPrompt(t *testing.T) {
	term, screen := newSimTerminal(t, 80, 20)
	ws := newTestWorkspace()
	v := NewView(term, false)

	v.SetStatus("No partner pane available.")
	v.Render(ws.Snapshot())
	if got := rowText(screen, 19); !strings.HasPrefix(got, "No partner pane available.") {
		t.Errorf("status row = %q", got)
	}

	v.Prompt = NewPrompt("Open: ")
	v.Prompt.HandleKey(Event{Type: EventKey, Key: KeyRune, Rune: 'x'})
	v.Render(ws.Snapshot())
	if got := rowText(screen, 19); !strings.HasPrefix(got, "Open: x") {
		t.Errorf("prompt row = %q", got)
	}
}

func TestViewRenderMenu(t *testing.T) {
	term, screen := newSimTerminal(t, 80, 20)
	ws := newTestWorkspace()
	v := NewView(term, false)

	v.Menu = NewMenuOverlay("n2", 4, 0, []command.MenuItem{
		{Title: "Open in linked pane", Command: command.OpenLinked},
		{Title: "Unlink pane", Command: command.Unlink},
	})
	v.Render(ws.Snapshot())

	if got := rowText(screen, 1); !strings.Contains(got, "Open in linked pane") {
		t.Errorf("menu row 1 = %q", got)
	}
	if got := rowText(screen, 2); !strings.Contains(got, "Unlink pane") {
		t.Errorf("menu row 2 = %q", got)
	}
}
