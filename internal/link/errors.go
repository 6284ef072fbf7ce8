package link

import (
	"errors"

	"github.com/dshills/panelink/internal/pane"
)

// Link errors.
var (
	// ErrNoActiveDocument indicates the pane a link was requested for shows
	// no document.
	ErrNoActiveDocument = errors.New("no active document")

	// ErrNoPartnerAvailable indicates neither search nor creation produced a
	// pane to link with.
	ErrNoPartnerAvailable = errors.New("no partner available")

	// ErrStalePane indicates the targeted pane is no longer live.
	ErrStalePane = errors.New("stale pane reference")

	// ErrSelfLink indicates an attempt to link a pane with itself.
	ErrSelfLink = errors.New("pane cannot be linked to itself")
)

// LinkError records the operation and pane a link failure occurred for.
type LinkError struct {
	Op   string  // Operation name (e.g., "resolve", "propagate")
	Pane pane.ID // Pane the operation targeted
	Err  error   // Underlying error
}

func newLinkError(op string, id pane.ID, err error) *LinkError {
	return &LinkError{Op: op, Pane: id, Err: err}
}

func (e *LinkError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Op
	if e.Pane != "" {
		msg += " " + e.Pane.Short()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LinkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsUserFacing reports whether err should be shown to the user as a notice.
// Stale references degrade silently.
func IsUserFacing(err error) bool {
	return errors.Is(err, ErrNoActiveDocument) || errors.Is(err, ErrNoPartnerAvailable)
}

// NoticeFor returns the user-visible message for err, or "" when err is not
// user facing.
func NoticeFor(err error) string {
	switch {
	case errors.Is(err, ErrNoActiveDocument):
		return "No file is open in this pane."
	case errors.Is(err, ErrNoPartnerAvailable):
		return "No pane available to link with."
	default:
		return ""
	}
}
