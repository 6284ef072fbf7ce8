// Package command holds the named commands a user, key binding, context
// menu or script can run.
//
// Commands are registered with an ID such as "panelink.open-linked" and a
// title shown in menus. Running an unknown ID fails with an error that
// carries the closest registered IDs.
package command
