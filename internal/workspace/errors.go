package workspace

import "errors"

// Workspace errors.
var (
	// ErrPaneNotFound indicates the pane does not exist (or was closed).
	ErrPaneNotFound = errors.New("pane not found")

	// ErrNotLeaf indicates an operation that needs a leaf pane got a container.
	ErrNotLeaf = errors.New("not a leaf pane")

	// ErrAreaCollapsed indicates the pane's side panel is collapsed.
	ErrAreaCollapsed = errors.New("area is collapsed")

	// ErrMainArea indicates an operation that only applies to side panels.
	ErrMainArea = errors.New("main area cannot be collapsed")

	// ErrLastPane indicates the last pane of the main area cannot be closed.
	ErrLastPane = errors.New("cannot close the last main pane")
)
