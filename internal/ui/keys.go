package ui

import (
	"fmt"
	"strings"

	"github.com/dshills/panelink/internal/command"
)

// Application commands handled by the event loop rather than the registry.
const (
	CommandQuit       = "app.quit"
	CommandOpenPrompt = "app.open-prompt"
)

// Binding maps a key to a command.
type Binding struct {
	Keys    string
	Command string
	Args    command.Args
}

type keySpec struct {
	key Key
	r   rune
}

// Keymap resolves key events to bindings.
type Keymap struct {
	bindings map[keySpec]Binding
}

// NewKeymap creates an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[keySpec]Binding)}
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() *Keymap {
	km := NewKeymap()
	for _, b := range []Binding{
		{Keys: "ctrl+l", Command: command.OpenLinked},
		{Keys: "ctrl+u", Command: command.Unlink},
		{Keys: "ctrl+y", Command: command.ToggleSync},
		{Keys: "tab", Command: command.FocusNext},
		{Keys: "shift+tab", Command: command.FocusPrev},
		{Keys: "v", Command: command.Split, Args: command.Args{command.ArgDirection: "vertical"}},
		{Keys: "s", Command: command.Split, Args: command.Args{command.ArgDirection: "horizontal"}},
		{Keys: "x", Command: command.ClosePane},
		{Keys: "[", Command: command.ToggleLeft},
		{Keys: "]", Command: command.ToggleRight},
		{Keys: "o", Command: CommandOpenPrompt},
		{Keys: "q", Command: CommandQuit},
		{Keys: "ctrl+c", Command: CommandQuit},
	} {
		// Built-in key strings are valid.
		_ = km.Bind(b)
	}
	return km
}

// Bind adds or replaces a binding.
func (km *Keymap) Bind(b Binding) error {
	spec, err := parseKeys(b.Keys)
	if err != nil {
		return err
	}
	km.bindings[spec] = b
	return nil
}

// Lookup returns the binding for a key event.
func (km *Keymap) Lookup(ev Event) (Binding, bool) {
	if ev.Type != EventKey {
		return Binding{}, false
	}
	spec := keySpec{key: ev.Key}
	if ev.Key == KeyRune || ev.Key == KeyCtrl {
		spec.r = ev.Rune
	}
	b, ok := km.bindings[spec]
	return b, ok
}

// Bindings returns every binding, keyed by key string.
func (km *Keymap) Bindings() map[string]Binding {
	out := make(map[string]Binding, len(km.bindings))
	for _, b := range km.bindings {
		out[b.Keys] = b
	}
	return out
}

// parseKeys parses strings such as "ctrl+l", "tab" or "v".
func parseKeys(s string) (keySpec, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch lower {
	case "enter":
		return keySpec{key: KeyEnter}, nil
	case "esc", "escape":
		return keySpec{key: KeyEscape}, nil
	case "tab":
		return keySpec{key: KeyTab}, nil
	case "shift+tab", "backtab":
		return keySpec{key: KeyBacktab}, nil
	case "backspace":
		return keySpec{key: KeyBackspace}, nil
	case "up":
		return keySpec{key: KeyUp}, nil
	case "down":
		return keySpec{key: KeyDown}, nil
	}

	if rest, ok := strings.CutPrefix(lower, "ctrl+"); ok {
		if r := []rune(rest); len(r) == 1 && r[0] >= 'a' && r[0] <= 'z' {
			return keySpec{key: KeyCtrl, r: r[0]}, nil
		}
		return keySpec{}, fmt.Errorf("invalid key %q", s)
	}

	if r := []rune(strings.TrimSpace(s)); len(r) == 1 {
		return keySpec{key: KeyRune, r: r[0]}, nil
	}
	return keySpec{}, fmt.Errorf("invalid key %q", s)
}
