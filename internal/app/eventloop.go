package app

import (
	"context"
	"time"

	"github.com/dshills/panelink/internal/config/watcher"
	"github.com/dshills/panelink/internal/event"
	"github.com/dshills/panelink/internal/event/events"
	"github.com/dshills/panelink/internal/ui"
)

// noticeTick is how often notice expiry is checked.
const noticeTick = 250 * time.Millisecond

// eventLoop is the main application loop. Terminal input and settings
// reloads arrive over channels; every engine and workspace call happens on
// this goroutine.
func (app *Application) eventLoop() error {
	input := make(chan ui.Event, 16)
	go app.pollEvents(input)

	ticker := time.NewTicker(noticeTick)
	defer ticker.Stop()

	var reloads <-chan watcher.Event
	var watchErrs <-chan error
	if app.watcher != nil {
		reloads = app.watcher.Events()
		watchErrs = app.watcher.Errors()
	}

	app.render()
	for {
		select {
		case <-app.done:
			return nil

		case ev := <-input:
			if err := app.handleEvent(ev); err != nil {
				return err
			}

		case ev := <-reloads:
			app.reloadSettings(ev)

		case err := <-watchErrs:
			app.logger.Warn("settings watcher: %v", err)
			continue

		case now := <-ticker.C:
			if !app.expireNotice(now) {
				continue
			}
		}

		app.workspace.Flush()
		app.render()
	}
}

// pollEvents forwards terminal events until the screen closes or the loop
// stops.
func (app *Application) pollEvents(out chan<- ui.Event) {
	for {
		ev := app.terminal.PollEvent()
		if ev.Type == ui.EventClosed {
			return
		}
		if ev.Type == ui.EventNone {
			select {
			case <-app.done:
				return
			default:
				continue
			}
		}
		select {
		case out <- ev:
		case <-app.done:
			return
		}
	}
}

// reloadSettings re-reads the settings file after the watcher saw it change.
func (app *Application) reloadSettings(ev watcher.Event) {
	app.logger.Debug("settings file %s: %s", ev.Op, ev.Path)

	_, err := app.settings.Reload()
	if err != nil {
		app.logger.Warn("reload %s: %v", ev.Path, err)
		app.workspace.Notice("Settings file invalid; keeping previous settings.")
	}

	reloaded := event.NewEvent(events.TopicConfigReloaded, events.ConfigReloaded{
		Path: ev.Path,
		Err:  err,
	}, "config")
	_ = app.bus.Publish(context.Background(), reloaded)
}

// render draws the workspace if there is a view.
func (app *Application) render() {
	if app.view == nil {
		return
	}
	app.view.Render(app.workspace.Snapshot())
}

// showNotice is the workspace notice handler.
func (app *Application) showNotice(msg string) {
	app.logger.Info("notice: %s", msg)
	if app.view == nil {
		return
	}
	app.view.SetStatus(msg)
	app.noticeUntil = time.Time{}
	if secs := app.settings.Settings().UI.NoticeSeconds; secs > 0 {
		app.noticeUntil = time.Now().Add(time.Duration(secs) * time.Second)
	}
}

// expireNotice clears a notice whose time is up. It reports whether the
// screen needs redrawing.
func (app *Application) expireNotice(now time.Time) bool {
	if app.noticeUntil.IsZero() || now.Before(app.noticeUntil) {
		return false
	}
	app.noticeUntil = time.Time{}
	if app.view != nil {
		app.view.SetStatus("")
	}
	return true
}
