package command

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by the registry.
var (
	// ErrUnknownCommand indicates no command is registered under an ID.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidCommand indicates a command missing its ID or title.
	ErrInvalidCommand = errors.New("invalid command")
)

// UnknownCommandError is returned when running an unregistered ID.
type UnknownCommandError struct {
	ID          string
	Suggestions []string
}

// Error implements the error interface.
func (e *UnknownCommandError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown command: %s", e.ID)
	}
	return fmt.Sprintf("unknown command: %s (did you mean %s?)", e.ID, strings.Join(e.Suggestions, ", "))
}

// Is implements error matching for UnknownCommandError.
func (e *UnknownCommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}
