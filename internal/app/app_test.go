package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/panelink/internal/command"
	"github.com/dshills/panelink/internal/config/watcher"
	"github.com/dshills/panelink/internal/event"
	"github.com/dshills/panelink/internal/event/events"
	"github.com/dshills/panelink/internal/pane"
	"github.com/dshills/panelink/internal/plugin/lua"
	"github.com/dshills/panelink/internal/ui"
)

// seqIDs returns a generator yielding n1, n2, ... so the main pane is n2,
// the left pane n4 and the right pane n6.
func seqIDs() func() pane.ID {
	n := 0
	return func() pane.ID {
		n++
		return pane.ID(fmt.Sprintf("n%d", n))
	}
}

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.ConfigPath == "" {
		opts.ConfigPath = filepath.Join(t.TempDir(), "settings.toml")
	}
	if opts.LogOutput == nil {
		opts.LogOutput = io.Discard
	}
	opts.newID = seqIDs()

	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(app.Shutdown)
	return app
}

// attachScreen gives app a simulation terminal and draws the first frame.
func attachScreen(t *testing.T, app *Application) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := ui.NewTerminalWithScreen(screen)
	if err := app.SetTerminal(term); err != nil {
		t.Fatal(err)
	}
	if err := term.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(term.Shutdown)
	screen.SetSize(100, 30)
	app.render()
	return screen
}

func writeScript(t *testing.T, code string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func key(k ui.Key, r rune) ui.Event {
	return ui.Event{Type: ui.EventKey, Key: k, Rune: r}
}

func click(b ui.MouseButton, x, y int) ui.Event {
	return ui.Event{Type: ui.EventMouse, Button: b, MouseX: x, MouseY: y}
}

func TestNewApplication(t *testing.T) {
	app := newTestApp(t, Options{})

	if app.EventBus() == nil || app.Settings() == nil || app.Workspace() == nil || app.Engine() == nil {
		t.Fatal("core components not initialized")
	}
	for _, id := range []string{command.OpenLinked, command.Unlink, command.ToggleSync, command.Split, command.OpenFile} {
		if !app.Commands().Has(id) {
			t.Errorf("command %s not registered", id)
		}
	}
	items := app.Menu().Items()
	if len(items) == 0 || items[0].Title != "Open in linked pane" {
		t.Errorf("menu items = %+v", items)
	}
	if app.IsRunning() {
		t.Error("expected IsRunning() to be false before Run()")
	}
}

func TestApplication_ShutdownIdempotent(t *testing.T) {
	app := newTestApp(t, Options{})

	app.Shutdown()
	app.Shutdown()
	app.Quit()
}

func TestRunWithoutTerminal(t *testing.T) {
	app := newTestApp(t, Options{})

	if err := app.Run(); !errors.Is(err, ErrNoTerminal) {
		t.Errorf("Run() = %v, want ErrNoTerminal", err)
	}
}

func TestHeadlessScriptLinksPanes(t *testing.T) {
	script := writeScript(t, `
panelink.open("a.md")
panelink.run("panelink.open-linked")
`)
	app := newTestApp(t, Options{Headless: true, ScriptPath: script})

	if err := app.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	var out bytes.Buffer
	if err := app.Dump(&out); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"main",
		"  * n2 a.md [linked]",
		"  - n7 a.md [linked]",
		"left",
		"  - n4 (empty)",
		"right",
		"  - n6 (empty)",
		"",
	}, "\n")
	if out.String() != want {
		t.Errorf("Dump() =\n%s\nwant\n%s", out.String(), want)
	}

	// Navigation in one linked pane follows into the other.
	ws := app.Workspace()
	if err := ws.Open("b.md"); err != nil {
		t.Fatal(err)
	}
	ws.Flush()
	if doc, _ := ws.Document("n7"); doc != "b.md" {
		t.Errorf("partner shows %q, want b.md", doc)
	}
}

func TestHeadlessScriptError(t *testing.T) {
	script := writeScript(t, `panelink.focus("nope")`)
	app := newTestApp(t, Options{Headless: true, ScriptPath: script})

	err := app.Run()
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Target != script {
		t.Fatalf("Run() = %v, want OperationError for %s", err, script)
	}
	var scriptErr *lua.ScriptError
	if !errors.As(err, &scriptErr) {
		t.Errorf("Run() = %v, want wrapped ScriptError", err)
	}
}

func TestStartupFiles(t *testing.T) {
	app := newTestApp(t, Options{Files: []string{"a.md", "b.md"}})
	ws := app.Workspace()

	if doc, _ := ws.Document("n2"); doc != "a.md" {
		t.Errorf("n2 shows %q, want a.md", doc)
	}
	if doc, _ := ws.Document("n7"); doc != "b.md" {
		t.Errorf("n7 shows %q, want b.md", doc)
	}
	if len(app.Engine().Linked()) != 0 {
		t.Error("startup files must not be linked")
	}
}

func TestToggleSyncPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	app := newTestApp(t, Options{ConfigPath: path})

	app.execute(command.ToggleSync, nil)

	if app.Settings().SyncEnabled() {
		t.Error("sync should be disabled")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("settings not saved: %v", err)
	}
	if !strings.Contains(string(data), "enabled = false") {
		t.Errorf("saved settings:\n%s", data)
	}
	notices := app.Workspace().Notices()
	if len(notices) == 0 || notices[len(notices)-1] != command.NoticeSyncOff {
		t.Errorf("notices = %v", notices)
	}
}

func TestMalformedSettingsFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("enabled = = true"), 0o644); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, Options{ConfigPath: path})

	if !app.Settings().SyncEnabled() {
		t.Error("defaults should enable sync")
	}
	if len(app.Workspace().Notices()) == 0 {
		t.Error("expected a notice about the settings file")
	}
}

func TestReloadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	app := newTestApp(t, Options{ConfigPath: path})

	var changed []events.ConfigChanged
	var reloaded []events.ConfigReloaded
	_, err := app.EventBus().Subscribe(events.TopicConfigChanged,
		event.AsHandler(func(_ context.Context, ev event.Event[events.ConfigChanged]) error {
			changed = append(changed, ev.Payload)
			return nil
		}))
	if err != nil {
		t.Fatal(err)
	}
	_, err = app.EventBus().Subscribe(events.TopicConfigReloaded,
		event.AsHandler(func(_ context.Context, ev event.Event[events.ConfigReloaded]) error {
			reloaded = append(reloaded, ev.Payload)
			return nil
		}))
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("enabled = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	app.reloadSettings(watcher.Event{Path: path, Op: watcher.OpWrite})

	if app.Settings().SyncEnabled() {
		t.Error("reload should disable sync")
	}
	if len(changed) != 1 || changed[0].Path != "enabled" || changed[0].NewValue != false {
		t.Errorf("config.changed events = %+v", changed)
	}
	if len(reloaded) != 1 || reloaded[0].Err != nil {
		t.Errorf("config.reloaded events = %+v", reloaded)
	}

	if err := os.WriteFile(path, []byte("enabled = = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	app.reloadSettings(watcher.Event{Path: path, Op: watcher.OpWrite})
	if app.Settings().SyncEnabled() {
		t.Error("a bad file must keep the previous settings")
	}
	if len(reloaded) != 2 || reloaded[1].Err == nil {
		t.Errorf("config.reloaded events = %+v", reloaded)
	}
}

func TestTabHeaderMenuLinksPane(t *testing.T) {
	app := newTestApp(t, Options{Files: []string{"a.md"}})
	attachScreen(t, app)

	// Main pane header spans x=21..78 on a 100-column screen.
	if err := app.handleEvent(click(ui.MouseRight, 30, 0)); err != nil {
		t.Fatal(err)
	}
	m := app.view.Menu
	if m == nil || m.Target != "n2" {
		t.Fatalf("menu = %+v", m)
	}
	if m.Items[0].Command != command.OpenLinked {
		t.Fatalf("first menu item = %+v", m.Items[0])
	}

	if err := app.handleEvent(key(ui.KeyEnter, 0)); err != nil {
		t.Fatal(err)
	}
	app.workspace.Flush()

	if app.view.Menu != nil {
		t.Error("menu should close after selection")
	}
	partner, ok := app.Engine().Partner("n2")
	if !ok {
		t.Fatal("n2 not linked")
	}
	if doc, _ := app.Workspace().Document(partner); doc != "a.md" {
		t.Errorf("partner shows %q, want a.md", doc)
	}
	if app.Workspace().Badge("n2") == "" || app.Workspace().Badge(partner) == "" {
		t.Error("linked panes should carry badges")
	}
}

func TestRightClickOutsideHeader(t *testing.T) {
	app := newTestApp(t, Options{})
	attachScreen(t, app)

	if err := app.handleEvent(click(ui.MouseRight, 30, 10)); err != nil {
		t.Fatal(err)
	}
	if app.view.Menu != nil {
		t.Error("body right-click should not open the menu")
	}
}

func TestMenuOnEmptyPaneShowsNotice(t *testing.T) {
	app := newTestApp(t, Options{})
	attachScreen(t, app)

	_ = app.handleEvent(click(ui.MouseRight, 30, 0))
	_ = app.handleEvent(key(ui.KeyEnter, 0))

	if _, ok := app.Engine().Partner("n2"); ok {
		t.Error("empty pane must not be linked")
	}
	if got := app.view.Status(); got == "" {
		t.Error("expected a notice on the status line")
	}
}

func TestKeys(t *testing.T) {
	app := newTestApp(t, Options{})
	attachScreen(t, app)

	// Tab moves focus to the left panel.
	if err := app.handleEvent(key(ui.KeyTab, 0)); err != nil {
		t.Fatal(err)
	}
	if id, _ := app.Workspace().ActivePane(); id != "n4" {
		t.Errorf("after tab active = %q, want n4", id)
	}

	// Left click focuses the clicked pane.
	if err := app.handleEvent(click(ui.MouseLeft, 40, 10)); err != nil {
		t.Fatal(err)
	}
	if id, _ := app.Workspace().ActivePane(); id != "n2" {
		t.Errorf("after click active = %q, want n2", id)
	}

	// o opens a prompt; the typed path opens in the focused pane.
	_ = app.handleEvent(key(ui.KeyRune, 'o'))
	if app.view.Prompt == nil {
		t.Fatal("prompt not opened")
	}
	for _, r := range "c.md" {
		_ = app.handleEvent(key(ui.KeyRune, r))
	}
	_ = app.handleEvent(key(ui.KeyEnter, 0))
	if app.view.Prompt != nil {
		t.Error("prompt should close on enter")
	}
	if doc, _ := app.Workspace().Document("n2"); doc != "c.md" {
		t.Errorf("n2 shows %q, want c.md", doc)
	}

	// ctrl+l links; ctrl+u unlinks.
	_ = app.handleEvent(key(ui.KeyCtrl, 'l'))
	if _, ok := app.Engine().Partner("n2"); !ok {
		t.Error("ctrl+l should link the focused pane")
	}
	_ = app.handleEvent(key(ui.KeyCtrl, 'u'))
	if _, ok := app.Engine().Partner("n2"); ok {
		t.Error("ctrl+u should unlink the focused pane")
	}

	if err := app.handleEvent(key(ui.KeyRune, 'q')); !errors.Is(err, ErrQuit) {
		t.Errorf("q = %v, want ErrQuit", err)
	}
}

func TestSidebarSettingRedraws(t *testing.T) {
	app := newTestApp(t, Options{})
	attachScreen(t, app)

	if n := len(app.view.Layout().Panes); n != 3 {
		t.Fatalf("got %d panes drawn, want 3", n)
	}
	if err := app.Settings().Set("ui.sidebars", false, "command"); err != nil {
		t.Fatal(err)
	}
	app.render()
	if n := len(app.view.Layout().Panes); n != 1 {
		t.Errorf("got %d panes drawn with sidebars off, want 1", n)
	}
}

func TestNoticeExpiry(t *testing.T) {
	app := newTestApp(t, Options{})
	attachScreen(t, app)

	app.Workspace().Notice("hello")
	if app.view.Status() != "hello" {
		t.Fatalf("status = %q", app.view.Status())
	}
	if app.expireNotice(time.Now()) {
		t.Error("notice expired early")
	}
	if !app.expireNotice(time.Now().Add(time.Minute)) {
		t.Error("notice should expire")
	}
	if app.view.Status() != "" {
		t.Errorf("status = %q after expiry", app.view.Status())
	}
}
