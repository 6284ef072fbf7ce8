package app

import (
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

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string

	// configErr is a settings load failure reported once logging is up.
	configErr error
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 10),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogging,
		b.initEventBus,
		b.initWorkspace,
		b.initEngine,
		b.initCommands,
		b.initSubscriptions,
		b.initScript,
		b.initWatcher,
		b.initDocuments,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initConfig loads settings. A missing or malformed file falls back to
// defaults; the error is logged and shown once the workspace exists.
func (b *bootstrapper) initConfig() error {
	path := b.opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	store, err := config.Open(path)
	if err != nil {
		b.configErr = err
		store = config.NewStore()
	}
	b.app.settings = store
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLogging builds the logger from settings and Options.LogLevel.
func (b *bootstrapper) initLogging() error {
	s := b.app.settings.Settings()

	level := s.Log.Level
	if b.opts.LogLevel != "" {
		level = b.opts.LogLevel
	}
	out := b.opts.LogOutput
	if out == nil {
		out = defaultLogOutput
	}

	// The root logger passes everything; the global level filters so that
	// a settings change reaches loggers already handed to components.
	b.app.logger = logging.New(logging.Config{
		Level:   logging.LevelDebug,
		Output:  out,
		App:     "panelink",
		Console: s.Log.Format != "json",
	})
	logging.SetGlobalLevel(logging.ParseLevel(level))

	b.app.settings.SetLogger(b.app.logger)
	if b.configErr != nil {
		b.app.logger.Warn("settings not loaded, using defaults: %v", b.configErr)
	}
	return nil
}

// initEventBus initializes the event bus.
func (b *bootstrapper) initEventBus() error {
	logger := b.app.logger.WithComponent("bus")
	b.app.bus = event.NewBus(
		event.WithPanicHandler(func(_ any, err *event.PanicError) {
			logger.Error("%v", err)
		}),
		event.WithErrorHandler(func(_ any, err *event.HandlerError) {
			logger.Warn("%v", err)
		}),
	)
	b.initOrder = append(b.initOrder, "eventBus")
	return nil
}

// initWorkspace creates the pane host.
func (b *bootstrapper) initWorkspace() error {
	opts := []workspace.Option{
		workspace.WithBus(b.app.bus),
		workspace.WithLogger(b.app.logger),
	}
	if b.opts.newID != nil {
		opts = append(opts, workspace.WithIDGenerator(b.opts.newID))
	}
	b.app.workspace = workspace.New(opts...)
	b.app.workspace.SetNoticeHandler(b.app.showNotice)

	if b.configErr != nil {
		b.app.workspace.Notice("Settings file could not be read; using defaults.")
	}
	b.initOrder = append(b.initOrder, "workspace")
	return nil
}

// initEngine creates the link engine and subscribes it to the bus.
func (b *bootstrapper) initEngine() error {
	b.app.engine = link.New(b.app.workspace,
		link.WithLogger(b.app.logger),
		link.WithSettings(b.app.settings),
	)
	detach, err := b.app.engine.Attach(b.app.bus)
	if err != nil {
		return &InitError{Component: "link engine", Err: err}
	}
	b.app.detach = detach
	b.initOrder = append(b.initOrder, "engine")
	return nil
}

// initCommands registers the built-in commands, the tab-header menu and the
// key bindings.
func (b *bootstrapper) initCommands() error {
	registry := command.NewRegistry()
	if err := registry.RegisterAll(command.LinkCommands(
		b.app.engine, b.app.settings, config.SourceCommand, b.app.workspace,
	)); err != nil {
		return &InitError{Component: "commands", Err: err}
	}
	if err := registry.RegisterAll(command.LayoutCommands(b.app.workspace)); err != nil {
		return &InitError{Component: "commands", Err: err}
	}
	b.app.commands = registry

	menu := command.NewMenu(registry)
	menu.Add(command.OpenLinked, "")
	menu.Add(command.Unlink, "")
	menu.Add(command.ClosePane, "")
	b.app.menu = menu

	b.app.keymap = ui.DefaultKeymap()
	b.initOrder = append(b.initOrder, "commands")
	return nil
}

// initSubscriptions wires settings changes and menu requests through the bus.
func (b *bootstrapper) initSubscriptions() error {
	b.app.subs = newSubscriptionManager(b.app)
	if err := b.app.subs.setupSubscriptions(); err != nil {
		return &InitError{Component: "subscriptions", Err: err}
	}
	b.initOrder = append(b.initOrder, "subscriptions")
	return nil
}

// initScript creates the Lua runtime. The script itself runs in Run.
func (b *bootstrapper) initScript() error {
	b.app.script = lua.NewRuntime(lua.Env{
		Workspace: b.app.workspace,
		Commands:  b.app.commands,
		Links:     b.app.engine,
		Settings:  b.app.settings,
		Logger:    b.app.logger,
	})
	b.initOrder = append(b.initOrder, "script")
	return nil
}

// initWatcher starts live reload of the settings file. Watch failures are
// not fatal.
func (b *bootstrapper) initWatcher() error {
	path := b.app.settings.Path()
	if !b.opts.Watch || b.opts.Headless || path == "" {
		return nil
	}
	w, err := watcher.New(path)
	if err != nil {
		b.app.logger.Warn("not watching %s: %v", path, err)
		return nil
	}
	b.app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// initDocuments opens the startup files: the first in the focused pane, each
// further one in a new pane beside it.
func (b *bootstrapper) initDocuments() error {
	ws := b.app.workspace
	for i, f := range b.opts.Files {
		doc := pane.Document(f)
		if i == 0 {
			if err := ws.Open(doc); err != nil {
				b.app.logger.Warn("open %s: %v", f, err)
			}
			continue
		}
		id, ok := ws.ActivePane()
		if !ok {
			break
		}
		created, err := ws.Split(id, pane.Vertical)
		if err != nil {
			b.app.logger.Warn("open %s: %v", f, err)
			continue
		}
		if err := ws.Load(created, doc); err != nil {
			b.app.logger.Warn("open %s: %v", f, err)
		}
	}
	ws.Flush()
	return nil
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "config":
		if b.app.settings != nil {
			b.app.settings.Close()
		}
	case "eventBus":
		if b.app.bus != nil {
			b.app.bus.Close()
		}
	case "engine":
		if b.app.detach != nil {
			b.app.detach()
			b.app.detach = nil
		}
	case "subscriptions":
		if b.app.subs != nil {
			b.app.subs.cleanup()
		}
	case "script":
		if b.app.script != nil {
			b.app.script.Close()
			b.app.script = nil
		}
	case "watcher":
		if b.app.watcher != nil {
			_ = b.app.watcher.Close()
			b.app.watcher = nil
		}
	}
}
