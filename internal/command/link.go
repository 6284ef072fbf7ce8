package command

import (
	"github.com/dshills/panelink/internal/pane"
)

// Link command IDs.
const (
	OpenLinked = "panelink.open-linked"
	Unlink     = "panelink.unlink"
	ToggleSync = "panelink.toggle-sync"
)

// Linker is the part of the link engine the commands drive.
type Linker interface {
	LinkActive() (pane.ID, error)
	LinkPane(id pane.ID) (pane.ID, error)
	Unlink(id pane.ID) bool
	UnlinkActive() bool
}

// SyncToggle flips the navigation sync setting.
type SyncToggle interface {
	ToggleEnabled(source string) (bool, error)
}

// Notice texts for the sync toggle.
const (
	NoticeSyncOn  = "Linked pane sync on."
	NoticeSyncOff = "Linked pane sync off."
)

// LinkCommands returns the linking commands. Each takes an optional "pane"
// argument and falls back to the active pane.
//
// Link failures the user can act on are already reported as notices by the
// engine, so open-linked does not return them.
func LinkCommands(l Linker, sync SyncToggle, source string, notify pane.Notifier) []*Command {
	paneArg := Arg{Name: ArgPaneName, Type: ArgPane}

	return []*Command{
		{
			ID:       OpenLinked,
			Title:    "Open in linked pane",
			Category: "Link",
			Args:     []Arg{paneArg},
			Source:   "core",
			Handler: func(args Args) error {
				if id, ok := args.Pane(ArgPaneName); ok {
					_, _ = l.LinkPane(id)
				} else {
					_, _ = l.LinkActive()
				}
				return nil
			},
		},
		{
			ID:       Unlink,
			Title:    "Unlink pane",
			Category: "Link",
			Args:     []Arg{paneArg},
			Source:   "core",
			Handler: func(args Args) error {
				if id, ok := args.Pane(ArgPaneName); ok {
					l.Unlink(id)
				} else {
					l.UnlinkActive()
				}
				return nil
			},
		},
		{
			ID:       ToggleSync,
			Title:    "Toggle linked pane sync",
			Category: "Link",
			Source:   "core",
			Handler: func(Args) error {
				enabled, err := sync.ToggleEnabled(source)
				if err != nil {
					return err
				}
				if notify != nil {
					if enabled {
						notify.Notice(NoticeSyncOn)
					} else {
						notify.Notice(NoticeSyncOff)
					}
				}
				return nil
			},
		},
	}
}
