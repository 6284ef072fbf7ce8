// Package topic provides hierarchical topic names and pattern matching for
// the event bus.
//
// Topics use dot notation:
//
//	pane.document.opened
//	pane.active.changed
//	layout.changed
//
// Patterns may contain wildcards: "*" matches exactly one segment and "**"
// matches zero or more segments, so "pane.*.changed" matches
// "pane.active.changed" and "pane.**" matches every pane topic.
package topic
