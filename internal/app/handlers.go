package app

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/dshills/panelink/internal/command"
	"github.com/dshills/panelink/internal/event"
	"github.com/dshills/panelink/internal/event/events"
	"github.com/dshills/panelink/internal/ui"
)

// openPromptLabel is the status-line prompt for opening a file.
const openPromptLabel = "Open: "

// handleEvent processes a terminal event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleEvent(ev ui.Event) error {
	switch ev.Type {
	case ui.EventKey:
		return app.handleKey(ev)
	case ui.EventMouse:
		app.handleMouse(ev)
	}
	// Resize needs nothing beyond the redraw the loop does.
	return nil
}

// handleKey routes a key to the prompt, the open menu or the keymap.
func (app *Application) handleKey(ev ui.Event) error {
	if p := app.view.Prompt; p != nil {
		switch p.HandleKey(ev) {
		case ui.PromptAccept:
			app.view.Prompt = nil
			if path := strings.TrimSpace(p.Value()); path != "" {
				app.execute(command.OpenFile, command.Args{command.ArgPath: path})
			}
		case ui.PromptCancel:
			app.view.Prompt = nil
		}
		return nil
	}

	if m := app.view.Menu; m != nil {
		switch m.HandleKey(ev) {
		case ui.MenuSelect:
			app.selectMenu()
		case ui.MenuCancel:
			app.view.Menu = nil
		}
		return nil
	}

	b, ok := app.keymap.Lookup(ev)
	if !ok {
		return nil
	}
	switch b.Command {
	case ui.CommandQuit:
		return ErrQuit
	case ui.CommandOpenPrompt:
		app.view.Prompt = ui.NewPrompt(openPromptLabel)
	default:
		app.execute(b.Command, b.Args)
	}
	return nil
}

// handleMouse focuses clicked panes and opens the tab-header menu on a
// right-click.
func (app *Application) handleMouse(ev ui.Event) {
	layout := app.view.Layout()

	if m := app.view.Menu; m != nil {
		switch m.HandleMouse(ev, layout.Width, layout.Height) {
		case ui.MenuSelect:
			app.selectMenu()
		case ui.MenuCancel:
			app.view.Menu = nil
		}
		return
	}

	if ev.Button == ui.MouseNone {
		return
	}
	hit, ok := layout.HitTest(ev.MouseX, ev.MouseY)
	if !ok {
		return
	}

	switch ev.Button {
	case ui.MouseLeft:
		if err := app.workspace.Focus(hit.Pane); err != nil {
			app.logger.Debug("focus %s: %v", hit.Pane.Short(), err)
		}
	case ui.MouseRight:
		if !hit.Header {
			return
		}
		app.menuX, app.menuY = ev.MouseX, ev.MouseY
		req := event.NewEvent(events.TopicTabHeaderMenu, events.TabHeaderMenu{Pane: hit.Pane}, "ui")
		if err := app.bus.Publish(context.Background(), req); err != nil {
			app.logger.Warn("publish %s: %v", events.TopicTabHeaderMenu, err)
		}
	}
}

// selectMenu runs the highlighted menu item against the menu's pane.
func (app *Application) selectMenu() {
	m := app.view.Menu
	app.view.Menu = nil
	if m == nil {
		return
	}
	app.run("menu", func() error {
		return app.menu.Select(m.Selected, m.Target)
	})
}

// execute runs a registered command.
func (app *Application) execute(id string, args command.Args) {
	app.run(id, func() error {
		return app.commands.Execute(id, args)
	})
}

// run calls fn and reports a failure as a notice. A panic is logged and
// does not take the loop down.
func (app *Application) run(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			err := NewRecoveredPanicError(r, string(debug.Stack()))
			app.logger.Error("%s: %v", name, err)
			app.workspace.Notice(fmt.Sprintf("Command %s failed.", name))
		}
	}()

	if err := fn(); err != nil {
		app.logger.Debug("%s: %v", name, err)
		app.workspace.Notice(err.Error())
	}
}
