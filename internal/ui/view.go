package ui

import (
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/panelink/internal/workspace"
)

// Styles used by the view.
var (
	styleDefault      = tcell.StyleDefault
	styleHeader       = tcell.StyleDefault.Reverse(true)
	styleHeaderActive = tcell.StyleDefault.Reverse(true).Bold(true)
	styleBadge        = tcell.StyleDefault.Reverse(true).Foreground(tcell.ColorTeal)
	styleDim          = tcell.StyleDefault.Dim(true)
	styleDivider      = tcell.StyleDefault.Dim(true)
	styleMenu         = tcell.StyleDefault.Reverse(true)
	styleMenuSelected = tcell.StyleDefault.Bold(true)
)

// emptyTitle is shown in the header of a pane without a document.
const emptyTitle = "(empty)"

// View draws workspace snapshots on a terminal.
type View struct {
	term     *Terminal
	sidebars bool
	layout   Layout
	status   string

	// Menu is the open context menu, if any.
	Menu *MenuOverlay
	// Prompt is the active status-line prompt, if any.
	Prompt *Prompt
}

// NewView creates a view drawing on term.
func NewView(term *Terminal, sidebars bool) *View {
	return &View{term: term, sidebars: sidebars}
}

// SetSidebars shows or hides the side areas.
func (v *View) SetSidebars(show bool) {
	v.sidebars = show
}

// SetStatus sets the status-line message.
func (v *View) SetStatus(msg string) {
	v.status = msg
}

// Status returns the status-line message.
func (v *View) Status() string {
	return v.status
}

// Layout returns the layout of the last render.
func (v *View) Layout() Layout {
	return v.layout
}

// Render draws s and shows the result.
func (v *View) Render(s workspace.Snapshot) {
	w, h := v.term.Size()
	v.layout = ComputeLayout(s, w, h, v.sidebars)

	v.term.Clear()
	for _, d := range v.layout.Dividers {
		v.term.Fill(d, '│', styleDivider)
	}
	for _, b := range v.layout.Panes {
		v.drawPane(b)
	}
	v.drawStatus()
	if v.Menu != nil {
		v.drawMenu()
	}
	v.term.Show()
}

func (v *View) drawPane(b PaneBox) {
	style := styleHeader
	if b.Active {
		style = styleHeaderActive
	}
	v.term.Fill(b.Header, ' ', style)

	title := emptyTitle
	if !b.Document.IsZero() {
		title = filepath.Base(b.Document.String())
	}
	x := b.Header.X + 1
	avail := b.Header.W - 1
	used := v.term.DrawText(x, b.Header.Y, avail, title, style)
	if b.Badge != "" {
		x += used + 1
		avail -= used + 1
		v.term.DrawText(x, b.Header.Y, avail, "["+b.Badge+"]", styleBadge)
	}

	if b.Body.Empty() {
		return
	}
	v.term.Fill(b.Body, ' ', styleDefault)
	if !b.Document.IsZero() {
		v.term.DrawText(b.Body.X+1, b.Body.Y, b.Body.W-1, b.Document.String(), styleDim)
	}
}

func (v *View) drawStatus() {
	r := v.layout.Status
	if r.Empty() {
		return
	}
	v.term.Fill(r, ' ', styleDefault)
	if v.Prompt != nil {
		v.term.DrawText(r.X, r.Y, r.W, v.Prompt.Text(), styleDefault)
		return
	}
	v.term.DrawText(r.X, r.Y, r.W, v.status, styleDim)
}

func (v *View) drawMenu() {
	r := v.Menu.Rect(v.layout.Width, v.layout.Height)
	for i, it := range v.Menu.Items {
		style := styleMenu
		if i == v.Menu.Selected {
			style = styleMenuSelected
		}
		row := Rect{X: r.X, Y: r.Y + i, W: r.W, H: 1}
		v.term.Fill(row, ' ', style)
		v.term.DrawText(row.X+1, row.Y, row.W-1, it.Title, style)
	}
}
