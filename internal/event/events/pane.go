package events

import (
	"github.com/dshills/panelink/internal/event/topic"
	"github.com/dshills/panelink/internal/pane"
)

// Pane and layout event topics.
const (
	// TopicDocumentOpened is published when a pane finishes loading a document.
	TopicDocumentOpened topic.Topic = "pane.document.opened"

	// TopicActivePaneChanged is published when focus moves to another pane.
	TopicActivePaneChanged topic.Topic = "pane.active.changed"

	// TopicLayoutChanged is published after panes are created, closed or moved.
	TopicLayoutChanged topic.Topic = "layout.changed"

	// TopicTabHeaderMenu is published when a pane's tab header is right-clicked.
	TopicTabHeaderMenu topic.Topic = "tabheader.menu"
)

// DocumentOpened is published when a document becomes visible in a pane.
type DocumentOpened struct {
	// Pane is the pane now showing Document.
	Pane pane.ID

	// Document is the document that was loaded.
	Document pane.Document

	// Previous is what the pane showed before, if anything.
	Previous pane.Document
}

// ActivePaneChanged is published when the focused pane changes.
type ActivePaneChanged struct {
	Pane     pane.ID
	Previous pane.ID
}

// LayoutReason says what changed the layout.
type LayoutReason string

// Layout change reasons.
const (
	LayoutSplit  LayoutReason = "split"
	LayoutClose  LayoutReason = "close"
	LayoutMove   LayoutReason = "move"
	LayoutResize LayoutReason = "resize"
)

// LayoutChanged is published after the pane tree changes.
type LayoutChanged struct {
	// Reason describes the change.
	Reason LayoutReason

	// Panes is the live pane count after the change.
	Panes int
}

// TabHeaderMenu is published when a context menu is requested on a pane's
// tab header.
type TabHeaderMenu struct {
	Pane pane.ID
}
