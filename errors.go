package libemit

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidHandler is returned by registration methods when the listener cannot be invoked.
	ErrInvalidHandler = errors.New("listener must wrap a non-nil callback")
	// ErrRemoveListener may be returned by a callback to deregister itself once it has run.
	// It is never reported to the emitter's caller.
	ErrRemoveListener = errors.New("remove listener")
)

// ErrListenerFailed reports the callback error that aborted a dispatch pass.
type ErrListenerFailed struct {
	err      error
	event    string
	position int
}

func (e ErrListenerFailed) Error() string {
	return fmt.Sprintf("listener #%d for event %q failed: %s", e.position, e.event, e.err)
}

func (e ErrListenerFailed) Unwrap() error { return e.err }

// Event returns the id of the event being dispatched when the callback failed.
func (e ErrListenerFailed) Event() string { return e.event }

// Position returns the index of the failing listener within the dispatch snapshot.
func (e ErrListenerFailed) Position() int { return e.position }

func wrapErrorListenerFailed(err error, event string, position int) *ErrListenerFailed {
	if err == nil {
		return nil
	}
	return &ErrListenerFailed{
		err:      err,
		event:    event,
		position: position,
	}
}
