// Package workspace is an in-memory pane host: a tree of splits holding
// leaf panes, divided into a main area and collapsible side panels.
//
// Workspace implements pane.Host, so the linking engine can run against it
// unchanged, and reports what happens to it on an event bus:
//
//   - pane.document.opened when a queued load is applied by Flush
//   - pane.active.changed when focus moves
//   - layout.changed after a split, close or move
//
// Loads are asynchronous from the caller's point of view: Load and Open only
// queue a request, and Flush applies queued requests and publishes their
// events. The application calls Flush from its event loop.
//
// Pane enumeration order is depth-first, first child before second child,
// with the main area before the left and right side panels. The order is
// stable for a given tree and changes when the tree is rearranged.
//
// A Workspace is not safe for concurrent use.
package workspace
