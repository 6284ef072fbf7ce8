package ui

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// EventType identifies the kind of terminal event.
type EventType int

const (
	// EventNone is an event the front end does not handle.
	EventNone EventType = iota
	// EventKey is a key press.
	EventKey
	// EventMouse is a mouse click.
	EventMouse
	// EventResize is a terminal size change.
	EventResize
	// EventClosed means the screen was shut down.
	EventClosed
)

// Key identifies non-character keys.
type Key int

// Keys.
const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyEscape
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyUp
	KeyDown
	// KeyCtrl is Ctrl plus the letter in Event.Rune.
	KeyCtrl
)

// MouseButton identifies the pressed mouse button.
type MouseButton int

// Mouse buttons.
const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseRight
)

// Event is a terminal event.
type Event struct {
	Type EventType

	Key  Key
	Rune rune

	MouseX, MouseY int
	Button         MouseButton

	Width, Height int
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case nil:
		return Event{Type: EventClosed}

	case *tcell.EventKey:
		key, r := convertKey(e)
		return Event{Type: EventKey, Key: key, Rune: r}

	case *tcell.EventMouse:
		x, y := e.Position()
		button := MouseNone
		switch {
		case e.Buttons()&tcell.ButtonPrimary != 0:
			button = MouseLeft
		case e.Buttons()&tcell.ButtonSecondary != 0:
			button = MouseRight
		}
		return Event{Type: EventMouse, MouseX: x, MouseY: y, Button: button}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	default:
		return Event{Type: EventNone}
	}
}

// convertKey converts a tcell key event.
func convertKey(e *tcell.EventKey) (Key, rune) {
	switch e.Key() {
	case tcell.KeyRune:
		r := e.Rune()
		if e.Modifiers()&tcell.ModCtrl != 0 && unicode.IsLetter(r) {
			return KeyCtrl, unicode.ToLower(r)
		}
		return KeyRune, r
	case tcell.KeyEnter:
		return KeyEnter, 0
	case tcell.KeyEscape:
		return KeyEscape, 0
	case tcell.KeyTab:
		return KeyTab, 0
	case tcell.KeyBacktab:
		return KeyBacktab, 0
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace, 0
	case tcell.KeyUp:
		return KeyUp, 0
	case tcell.KeyDown:
		return KeyDown, 0
	}
	if k := e.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return KeyCtrl, rune('a' + int(k-tcell.KeyCtrlA))
	}
	return KeyNone, 0
}
