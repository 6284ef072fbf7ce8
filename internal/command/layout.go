package command

import (
	"errors"
	"fmt"

	"github.com/dshills/panelink/internal/pane"
	"github.com/dshills/panelink/internal/workspace"
)

// Layout command IDs.
const (
	Split       = "layout.split"
	ClosePane   = "layout.close"
	FocusNext   = "layout.focus-next"
	FocusPrev   = "layout.focus-prev"
	ToggleLeft  = "layout.toggle-left"
	ToggleRight = "layout.toggle-right"
	MoveToArea  = "layout.move"
	OpenFile    = "file.open"
)

// Argument names used by the layout commands.
const (
	ArgDirection = "direction"
	ArgArea      = "area"
	ArgPath      = "path"
)

// Layout is the part of the workspace the layout commands drive.
type Layout interface {
	ActivePane() (pane.ID, bool)
	Split(id pane.ID, o pane.Orientation) (pane.ID, error)
	Close(id pane.ID) error
	MoveToArea(id pane.ID, to workspace.Area) error
	FocusNext()
	FocusPrev()
	ToggleArea(a workspace.Area) error
	Load(id pane.ID, doc pane.Document) error
	Open(doc pane.Document) error
	Flush() int
}

// errNoPane is returned when a command has no target pane.
var errNoPane = errors.New("no pane")

// LayoutCommands returns the pane layout and file commands.
func LayoutCommands(l Layout) []*Command {
	paneArg := Arg{Name: ArgPaneName, Type: ArgPane}

	target := func(args Args) (pane.ID, error) {
		if id, ok := args.Pane(ArgPaneName); ok {
			return id, nil
		}
		if id, ok := l.ActivePane(); ok {
			return id, nil
		}
		return "", errNoPane
	}

	return []*Command{
		{
			ID:       Split,
			Title:    "Split pane",
			Category: "Layout",
			Args: []Arg{
				paneArg,
				{Name: ArgDirection, Type: ArgEnum, Default: "vertical", Options: []string{"vertical", "horizontal"}},
			},
			Source: "core",
			Handler: func(args Args) error {
				id, err := target(args)
				if err != nil {
					return err
				}
				o := pane.Vertical
				if args.String(ArgDirection) == "horizontal" {
					o = pane.Horizontal
				}
				_, err = l.Split(id, o)
				return err
			},
		},
		{
			ID:       ClosePane,
			Title:    "Close pane",
			Category: "Layout",
			Args:     []Arg{paneArg},
			Source:   "core",
			Handler: func(args Args) error {
				id, err := target(args)
				if err != nil {
					return err
				}
				return l.Close(id)
			},
		},
		{
			ID:       FocusNext,
			Title:    "Focus next pane",
			Category: "Layout",
			Source:   "core",
			Handler: func(Args) error {
				l.FocusNext()
				return nil
			},
		},
		{
			ID:       FocusPrev,
			Title:    "Focus previous pane",
			Category: "Layout",
			Source:   "core",
			Handler: func(Args) error {
				l.FocusPrev()
				return nil
			},
		},
		{
			ID:       ToggleLeft,
			Title:    "Toggle left panel",
			Category: "Layout",
			Source:   "core",
			Handler: func(Args) error {
				return l.ToggleArea(workspace.AreaLeft)
			},
		},
		{
			ID:       ToggleRight,
			Title:    "Toggle right panel",
			Category: "Layout",
			Source:   "core",
			Handler: func(Args) error {
				return l.ToggleArea(workspace.AreaRight)
			},
		},
		{
			ID:       MoveToArea,
			Title:    "Move pane to area",
			Category: "Layout",
			Args: []Arg{
				paneArg,
				{Name: ArgArea, Type: ArgEnum, Required: true, Options: []string{"main", "left", "right"}},
			},
			Source: "core",
			Handler: func(args Args) error {
				id, err := target(args)
				if err != nil {
					return err
				}
				area, _ := workspace.ParseArea(args.String(ArgArea))
				return l.MoveToArea(id, area)
			},
		},
		{
			ID:       OpenFile,
			Title:    "Open file",
			Category: "File",
			Args: []Arg{
				paneArg,
				{Name: ArgPath, Type: ArgString, Required: true},
			},
			Source: "core",
			Handler: func(args Args) error {
				doc := pane.Document(args.String(ArgPath))
				if doc.IsZero() {
					return fmt.Errorf("%s: empty path", OpenFile)
				}
				var err error
				if id, ok := args.Pane(ArgPaneName); ok {
					err = l.Load(id, doc)
				} else {
					err = l.Open(doc)
				}
				if err != nil {
					return err
				}
				l.Flush()
				return nil
			},
		},
	}
}
