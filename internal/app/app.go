// Package app wires the workspace, the link engine, settings, commands,
// scripts and the terminal front end together and runs the event loop.
package app

import (
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/panelink/internal/command"
	"github.com/dshills/panelink/internal/config"
	"github.com/dshills/panelink/internal/config/watcher"
	"github.com/dshills/panelink/internal/event"
	"github.com/dshills/panelink/internal/link"
	"github.com/dshills/panelink/internal/logging"
	"github.com/dshills/panelink/internal/pane"
	"github.com/dshills/panelink/internal/plugin/lua"
	"github.com/dshills/panelink/internal/ui"
	"github.com/dshills/panelink/internal/workspace"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty means config.DefaultPath().
	ConfigPath string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// ScriptPath is a Lua script run after startup.
	ScriptPath string

	// Files are opened on startup, the first one in the focused pane.
	Files []string

	// Headless skips the terminal; Run executes the script and returns.
	Headless bool

	// Watch enables live reload of the settings file.
	Watch bool

	// newID overrides pane ID generation in tests.
	newID func() pane.ID
}

// Application owns every component for one session.
type Application struct {
	mu sync.Mutex

	opts   Options
	logger *logging.Logger

	bus       event.Bus
	settings  *config.Store
	watcher   *watcher.Watcher
	workspace *workspace.Workspace
	engine    *link.Engine
	commands  *command.Registry
	menu      *command.Menu
	keymap    *ui.Keymap
	script    *lua.Runtime

	terminal *ui.Terminal
	view     *ui.View

	subs   *subscriptionManager
	detach func()

	// notice expiry for the status line
	noticeUntil time.Time
	// last right-click position, used to anchor the tab-header menu
	menuX, menuY int

	running  atomic.Bool
	quit     sync.Once
	shutdown sync.Once
	done     chan struct{}
}

// New creates and wires an application.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		done: make(chan struct{}),
	}
	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// SetTerminal sets the terminal used by Run.
// Must be called before Run().
func (app *Application) SetTerminal(t *ui.Terminal) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.terminal = t
	app.view = ui.NewView(t, app.settings.Settings().UI.Sidebars)
	return nil
}

// Run starts the application. In headless mode it runs the startup script
// and returns; otherwise it blocks in the event loop until quit or Shutdown.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.opts.Headless {
		return app.runScript()
	}

	if app.terminal == nil {
		return ErrNoTerminal
	}
	if err := app.terminal.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	defer app.terminal.Shutdown()

	if err := app.runScript(); err != nil {
		app.logger.Warn("%v", err)
		app.workspace.Notice("Startup script failed: " + err.Error())
	}
	return app.eventLoop()
}

// runScript runs the startup script, if any, and applies its loads.
func (app *Application) runScript() error {
	defer app.workspace.Flush()

	if app.opts.ScriptPath == "" || app.script == nil {
		return nil
	}
	if err := app.script.RunFile(app.opts.ScriptPath); err != nil {
		return NewOperationError("run", app.opts.ScriptPath, err)
	}
	return nil
}

// Dump writes the current layout outline to out.
func (app *Application) Dump(out io.Writer) error {
	return app.workspace.Snapshot().Dump(out)
}

// Quit asks a running event loop to return. It may be called from any
// goroutine.
func (app *Application) Quit() {
	app.quit.Do(func() {
		close(app.done)
		if app.terminal != nil {
			app.terminal.Interrupt()
		}
	})
}

// Shutdown stops the event loop and releases every component. It is safe to
// call more than once but must not race with Run; other goroutines use Quit.
func (app *Application) Shutdown() {
	app.Quit()
	app.shutdown.Do(app.close)
}

// close releases components in reverse start order.
func (app *Application) close() {
	var errs []error

	if app.script != nil {
		app.script.Close()
	}
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			errs = append(errs, NewComponentError("watcher", "close", err))
		}
	}
	if app.subs != nil {
		app.subs.cleanup()
	}
	if app.detach != nil {
		app.detach()
	}
	if app.engine != nil {
		app.engine.Close()
	}
	if app.settings != nil {
		app.settings.Close()
	}
	if app.bus != nil {
		app.bus.Close()
	}

	if err := errors.Join(errs...); err != nil {
		app.logger.Warn("shutdown: %v", err)
	}
}

// IsRunning reports whether Run is in progress.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// EventBus returns the event bus.
func (app *Application) EventBus() event.Bus {
	return app.bus
}

// Settings returns the settings store.
func (app *Application) Settings() *config.Store {
	return app.settings
}

// Workspace returns the pane host.
func (app *Application) Workspace() *workspace.Workspace {
	return app.workspace
}

// Engine returns the link engine.
func (app *Application) Engine() *link.Engine {
	return app.engine
}

// Commands returns the command registry.
func (app *Application) Commands() *command.Registry {
	return app.commands
}

// Menu returns the tab-header context menu.
func (app *Application) Menu() *command.Menu {
	return app.menu
}

// defaultLogOutput is where logs go when Options.LogOutput is nil.
var defaultLogOutput io.Writer = os.Stderr
