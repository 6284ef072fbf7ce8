package lua

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func TestStateDoString(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(`x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	num, ok := state.GetGlobal("x").(glua.LNumber)
	if !ok || float64(num) != 2 {
		t.Errorf("x = %v, want 2", state.GetGlobal("x"))
	}
}

func TestStateSyntaxError(t *testing.T) {
	state := NewState()
	defer state.Close()

	err := state.DoString(`invalid lua code !!!`)
	var serr *ScriptError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *ScriptError", err)
	}
}

func TestStateRestrictedLibraries(t *testing.T) {
	state := NewState()
	defer state.Close()

	err := state.DoString(`
		assert(io == nil, "io")
		assert(os == nil, "os")
		assert(debug == nil, "debug")
		assert(dofile == nil, "dofile")
		assert(string.upper("a") == "A")
		assert(math.max(1, 2) == 2)
		assert(#table.concat({"a", "b"}) == 2)
	`)
	if err != nil {
		t.Errorf("DoString() error = %v", err)
	}
}

func TestStateTimeout(t *testing.T) {
	state := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer state.Close()

	err := state.DoString(`while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("err = %v, want ErrExecutionTimeout", err)
	}

	// The state stays usable.
	if err := state.DoString(`y = 3`); err != nil {
		t.Errorf("DoString() after timeout error = %v", err)
	}
}

func TestStateDoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(path, []byte(`z = "ok"`), 0o644); err != nil {
		t.Fatal(err)
	}
	state := NewState()
	defer state.Close()

	if err := state.DoFile(path); err != nil {
		t.Fatal(err)
	}
	if state.GetGlobal("z").String() != "ok" {
		t.Errorf("z = %v", state.GetGlobal("z"))
	}
}

func TestStateClosed(t *testing.T) {
	state := NewState()
	state.Close()
	state.Close()

	if !state.IsClosed() {
		t.Error("IsClosed() = false")
	}
	if err := state.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("err = %v, want ErrStateClosed", err)
	}
	if state.GetGlobal("x") != glua.LNil {
		t.Error("GetGlobal on closed state should be nil")
	}
}
