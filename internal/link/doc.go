// Package link implements pane linking: pairing two panes so that a document
// opened in one is opened in the other.
//
// The Registry holds the pairs. The Resolver picks or creates a partner for a
// pane, searching only the host's main area. The Propagator follows document
// changes into the partner without echoing them back. The Reconciler drops
// pairs whose panes are gone, and the Indicator mirrors the registry onto tab
// header badges. Engine bundles them behind the commands and event handlers
// the application wires up.
//
// The package is driven entirely from the host's event loop and holds no
// locks.
package link
