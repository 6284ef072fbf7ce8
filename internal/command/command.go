package command

import (
	"fmt"

	"github.com/dshills/panelink/internal/pane"
)

// ArgType defines the type of a command argument.
type ArgType uint8

const (
	// ArgString is a string argument.
	ArgString ArgType = iota

	// ArgBoolean is a boolean argument.
	ArgBoolean

	// ArgPane is a pane ID, given as a pane.ID or a string.
	ArgPane

	// ArgEnum is an enumeration argument with predefined options.
	ArgEnum
)

// String returns a string representation of the argument type.
func (t ArgType) String() string {
	switch t {
	case ArgString:
		return "string"
	case ArgBoolean:
		return "boolean"
	case ArgPane:
		return "pane"
	case ArgEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Arg defines a command argument.
type Arg struct {
	// Name is the argument identifier.
	Name string

	// Type is the argument type.
	Type ArgType

	// Required indicates if the argument must be provided.
	Required bool

	// Default is the default value if not provided.
	Default any

	// Options lists valid values for enum types.
	Options []string
}

// Validate checks if a value is valid for this argument.
func (a *Arg) Validate(value any) error {
	if value == nil {
		if a.Required {
			return fmt.Errorf("argument %q is required", a.Name)
		}
		return nil
	}

	switch a.Type {
	case ArgString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("argument %q must be a string", a.Name)
		}
	case ArgBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("argument %q must be a boolean", a.Name)
		}
	case ArgPane:
		switch value.(type) {
		case pane.ID, string:
		default:
			return fmt.Errorf("argument %q must be a pane id", a.Name)
		}
	case ArgEnum:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("argument %q must be a string", a.Name)
		}
		for _, opt := range a.Options {
			if opt == str {
				return nil
			}
		}
		return fmt.Errorf("argument %q must be one of: %v", a.Name, a.Options)
	}
	return nil
}

// Handler executes a command.
type Handler func(args Args) error

// Args are the arguments a command runs with.
type Args map[string]any

// Pane returns the pane argument called name.
func (a Args) Pane(name string) (pane.ID, bool) {
	switch v := a[name].(type) {
	case pane.ID:
		return v, v != ""
	case string:
		return pane.ID(v), v != ""
	}
	return "", false
}

// String returns the string argument called name.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Command is a registered command.
type Command struct {
	// ID is the unique command identifier (e.g., "panelink.open-linked").
	ID string

	// Title is the display name shown in menus.
	Title string

	// Category groups related commands (e.g., "Link", "Layout").
	Category string

	// Keybinding shows the keyboard shortcut (for display only).
	Keybinding string

	// Handler executes the command.
	Handler Handler

	// Args defines the command's arguments.
	Args []Arg

	// Source indicates where the command was registered.
	// e.g., "core", "script"
	Source string
}

// ValidateArgs validates the provided arguments against the command's definition.
func (c *Command) ValidateArgs(args Args) error {
	for i := range c.Args {
		arg := &c.Args[i]
		value, exists := args[arg.Name]
		if !exists {
			value = arg.Default
		}
		if err := arg.Validate(value); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the command. The caller's args map is not modified.
func (c *Command) Execute(args Args) error {
	if err := c.ValidateArgs(args); err != nil {
		return fmt.Errorf("command %q: %w", c.ID, err)
	}
	if c.Handler == nil {
		return fmt.Errorf("command %q has no handler", c.ID)
	}

	execArgs := make(Args, len(args)+len(c.Args))
	for k, v := range args {
		execArgs[k] = v
	}
	for i := range c.Args {
		arg := &c.Args[i]
		if _, exists := execArgs[arg.Name]; !exists && arg.Default != nil {
			execArgs[arg.Name] = arg.Default
		}
	}
	return c.Handler(execArgs)
}
