package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/panelink/internal/command"
	"github.com/dshills/panelink/internal/logging"
	"github.com/dshills/panelink/internal/pane"
)

// ModuleName is the global table scripts use.
const ModuleName = "panelink"

// CommandSource marks commands registered by scripts.
const CommandSource = "script"

// Workspace is the layout a script drives.
type Workspace interface {
	Panes() []pane.ID
	ActivePane() (pane.ID, bool)
	Document(id pane.ID) (pane.Document, bool)
	Load(id pane.ID, doc pane.Document) error
	Split(id pane.ID, o pane.Orientation) (pane.ID, error)
	Focus(id pane.ID) error
	Close(id pane.ID) error
	Notice(msg string)
	Flush() int
}

// Links reports the current links.
type Links interface {
	Linked() []pane.ID
	Partner(id pane.ID) (pane.ID, bool)
}

// Settings accepts setting changes.
type Settings interface {
	Set(path string, value any, source string) error
}

// Env is what a Runtime exposes to scripts. Links and Settings may be nil.
type Env struct {
	Workspace Workspace
	Commands  *command.Registry
	Links     Links
	Settings  Settings
	Logger    *logging.Logger
}

// Runtime is a Lua state with the panelink module installed.
type Runtime struct {
	state    *State
	env      Env
	logger   *logging.Logger
	handlers *lua.LTable
	closed   bool
}

// handlersKey is the global holding script command handlers.
const handlersKey = "_panelink_handlers"

// NewRuntime creates a runtime for env.
func NewRuntime(env Env, opts ...StateOption) *Runtime {
	logger := env.Logger
	if logger == nil {
		logger = logging.Null()
	}
	r := &Runtime{
		state:  NewState(opts...),
		env:    env,
		logger: logger.WithComponent("lua"),
	}

	L := r.state.L
	r.handlers = L.NewTable()
	L.SetGlobal(handlersKey, r.handlers)

	r.state.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"open":     r.open,
		"split":    r.split,
		"focus":    r.focus,
		"close":    r.closePane,
		"run":      r.run,
		"command":  r.command,
		"set":      r.set,
		"panes":    r.panes,
		"active":   r.active,
		"document": r.document,
		"linked":   r.linked,
		"partner":  r.partner,
		"notice":   r.notice,
		"log":      r.log,
	})
	return r
}

// RunFile executes a script file.
func (r *Runtime) RunFile(path string) error {
	r.logger.Debug("running %s", path)
	return r.state.DoFile(path)
}

// RunString executes a script chunk.
func (r *Runtime) RunString(code string) error {
	return r.state.DoString(code)
}

// Close unregisters script commands and releases the state.
func (r *Runtime) Close() {
	if r.closed {
		return
	}
	r.closed = true
	if r.env.Commands != nil {
		r.env.Commands.UnregisterBySource(CommandSource)
	}
	r.state.Close()
}

// paneArg reads an optional pane id at n, defaulting to the active pane.
func (r *Runtime) paneArg(L *lua.LState, n int) pane.ID {
	if s, ok := L.Get(n).(lua.LString); ok && s != "" {
		return pane.ID(s)
	}
	id, ok := r.env.Workspace.ActivePane()
	if !ok {
		L.RaiseError("no active pane")
	}
	return id
}

func (r *Runtime) check(L *lua.LState, op string, err error) {
	if err != nil {
		L.RaiseError("%s: %v", op, err)
	}
}

// open(doc [, pane])
func (r *Runtime) open(L *lua.LState) int {
	doc := pane.Document(L.CheckString(1))
	id := r.paneArg(L, 2)
	r.check(L, "open", r.env.Workspace.Load(id, doc))
	r.env.Workspace.Flush()
	return 0
}

// split([pane] [, "vertical"|"horizontal"]) -> id
func (r *Runtime) split(L *lua.LState) int {
	id := r.paneArg(L, 1)
	o := pane.Vertical
	switch dir := L.OptString(2, "vertical"); dir {
	case "vertical":
	case "horizontal":
		o = pane.Horizontal
	default:
		L.ArgError(2, fmt.Sprintf("unknown direction %q", dir))
	}
	created, err := r.env.Workspace.Split(id, o)
	r.check(L, "split", err)
	L.Push(lua.LString(created))
	return 1
}

// focus(pane)
func (r *Runtime) focus(L *lua.LState) int {
	r.check(L, "focus", r.env.Workspace.Focus(pane.ID(L.CheckString(1))))
	return 0
}

// close(pane)
func (r *Runtime) closePane(L *lua.LState) int {
	r.check(L, "close", r.env.Workspace.Close(pane.ID(L.CheckString(1))))
	r.env.Workspace.Flush()
	return 0
}

// run(id [, args])
func (r *Runtime) run(L *lua.LState) int {
	id := L.CheckString(1)
	if r.env.Commands == nil {
		L.RaiseError("run: no commands available")
	}
	var args command.Args
	if tbl, ok := L.Get(2).(*lua.LTable); ok {
		args = tableToArgs(tbl)
	}
	r.check(L, "run", r.env.Commands.Execute(id, args))
	r.env.Workspace.Flush()
	return 0
}

// command{id=, title=, handler=}
func (r *Runtime) command(L *lua.LState) int {
	opts := L.CheckTable(1)
	id := lua.LVAsString(opts.RawGetString("id"))
	title := lua.LVAsString(opts.RawGetString("title"))
	handler := opts.RawGetString("handler")

	if id == "" {
		L.ArgError(1, "id is required")
	}
	if title == "" {
		L.ArgError(1, "title is required")
	}
	if handler.Type() != lua.LTFunction {
		L.ArgError(1, "handler must be a function")
	}
	if r.env.Commands == nil {
		L.RaiseError("command: no commands available")
	}

	r.handlers.RawSetString(id, handler)
	err := r.env.Commands.Register(&command.Command{
		ID:       id,
		Title:    title,
		Category: lua.LVAsString(opts.RawGetString("category")),
		Source:   CommandSource,
		Handler:  r.handlerFor(id),
	})
	r.check(L, "command", err)
	return 0
}

// handlerFor calls the Lua function registered for id.
func (r *Runtime) handlerFor(id string) command.Handler {
	return func(args command.Args) error {
		if r.closed {
			return ErrStateClosed
		}
		L := r.state.L
		fn := r.handlers.RawGetString(id)
		if fn.Type() != lua.LTFunction {
			return fmt.Errorf("handler not found for command %s", id)
		}
		L.Push(fn)
		L.Push(argsToTable(L, args))
		if err := L.PCall(1, 0, nil); err != nil {
			return fmt.Errorf("command %s handler error: %w", id, err)
		}
		return nil
	}
}

// set(path, value)
func (r *Runtime) set(L *lua.LState) int {
	path := L.CheckString(1)
	if r.env.Settings == nil {
		L.RaiseError("set: no settings available")
	}
	r.check(L, "set", r.env.Settings.Set(path, settingValue(L.CheckAny(2)), CommandSource))
	return 0
}

// panes() -> {id...}
func (r *Runtime) panes(L *lua.LState) int {
	L.Push(idsToTable(L, r.env.Workspace.Panes()))
	return 1
}

// active() -> id | nil
func (r *Runtime) active(L *lua.LState) int {
	if id, ok := r.env.Workspace.ActivePane(); ok {
		L.Push(lua.LString(id))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

// document(pane) -> doc | nil
func (r *Runtime) document(L *lua.LState) int {
	if doc, ok := r.env.Workspace.Document(pane.ID(L.CheckString(1))); ok {
		L.Push(lua.LString(doc))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

// linked() -> {id...}
func (r *Runtime) linked(L *lua.LState) int {
	var ids []pane.ID
	if r.env.Links != nil {
		ids = r.env.Links.Linked()
	}
	L.Push(idsToTable(L, ids))
	return 1
}

// partner(pane) -> id | nil
func (r *Runtime) partner(L *lua.LState) int {
	id := pane.ID(L.CheckString(1))
	if r.env.Links != nil {
		if p, ok := r.env.Links.Partner(id); ok {
			L.Push(lua.LString(p))
			return 1
		}
	}
	L.Push(lua.LNil)
	return 1
}

// notice(msg)
func (r *Runtime) notice(L *lua.LState) int {
	r.env.Workspace.Notice(L.CheckString(1))
	return 0
}

// log(msg)
func (r *Runtime) log(L *lua.LState) int {
	r.logger.Info("%s", L.CheckString(1))
	return 0
}
