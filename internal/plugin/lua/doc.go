// Package lua runs startup scripts against a panelink session.
//
// Scripts see a global "panelink" table:
//
//	panelink.open(doc [, pane])      queue doc for a pane (default: active)
//	panelink.split([pane] [, dir])   split a pane, returns the new pane id
//	panelink.focus(pane)
//	panelink.close(pane)
//	panelink.run(id [, args])        run a command
//	panelink.command{id=, title=, handler=}
//	panelink.set(path, value)        change a setting
//	panelink.panes()                 live pane ids
//	panelink.active()                focused pane id
//	panelink.document(pane)          document shown, or nil
//	panelink.linked()                linked pane ids
//	panelink.partner(pane)           linked partner, or nil
//	panelink.notice(msg)
//	panelink.log(msg)
//
// Queued loads are applied before each call returns, so a script observes
// the effect of open and run immediately.
//
// Only the base, table, string and math libraries are opened.
package lua
