// Package pane defines the contracts between the linking engine and the
// application that owns the panes.
//
// The engine never holds pane objects. It refers to panes by ID and asks the
// host for everything else: which panes are alive, where they sit in the
// layout, what they display, and how to split them or load documents into
// them. A host is free to implement these interfaces over any window model.
package pane

// ID identifies a pane (or a split container) for as long as it lives.
// IDs are never reused by a host.
type ID string

// String returns the ID as a string.
func (id ID) String() string {
	return string(id)
}

// Short returns an abbreviated form of the ID for logs and status lines.
func (id ID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// Document names a unit of content a pane can display, typically a path.
// The empty Document means "nothing displayed".
type Document string

// String returns the document reference as a string.
func (d Document) String() string {
	return string(d)
}

// IsZero reports whether d is the empty reference.
func (d Document) IsZero() bool {
	return d == ""
}

// Orientation is the direction of a split.
type Orientation int

const (
	// Vertical places the new pane beside the original (side by side).
	Vertical Orientation = iota
	// Horizontal places the new pane below the original.
	Horizontal
)

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

// Enumerator exposes the live layout.
type Enumerator interface {
	// Panes returns every live leaf pane in host order.
	Panes() []ID
	// Parent returns the container holding id, or false at the top of a tree.
	Parent(id ID) (ID, bool)
	// MainRoot returns the root container of the main content area.
	MainRoot() ID
}

// Documents reads and changes what panes display.
type Documents interface {
	// Document returns the document shown by id.
	Document(id ID) (Document, bool)
	// Load asks the host to display doc in id. It returns once the request
	// is queued; completion is reported later through the event bus.
	Load(id ID, doc Document) error
	// Viewable reports whether id can currently display a document.
	Viewable(id ID) bool
}

// Splitter creates panes.
type Splitter interface {
	// Split creates a new pane next to id and returns its ID.
	Split(id ID, o Orientation) (ID, error)
}

// Active reports the focused pane.
type Active interface {
	ActivePane() (ID, bool)
}

// Marker decorates a pane's tab header.
type Marker interface {
	// SetBadge shows a small badge with an accessible label on id's header.
	SetBadge(id ID, label string)
	// ClearBadge removes any badge from id's header.
	ClearBadge(id ID)
}

// Notifier shows transient, non-blocking messages to the user.
type Notifier interface {
	Notice(msg string)
}

// Host is everything the linking engine needs from its environment.
type Host interface {
	Enumerator
	Documents
	Splitter
	Active
	Marker
	Notifier
}

// Contains reports whether ids contains id.
func Contains(ids []ID, id ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Set builds a lookup set from ids.
func Set(ids []ID) map[ID]struct{} {
	s := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}
