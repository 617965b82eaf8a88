package hook

import (
	"errors"
	"fmt"
)

// Dispatcher errors.
var (
	// ErrUnknownEvent is returned when registering against an event
	// outside the lifecycle enumeration.
	ErrUnknownEvent = errors.New("unknown lifecycle event")

	// ErrNilHandler is returned when registering a nil handler.
	ErrNilHandler = errors.New("hook handler is nil")
)

// CriticalError marks a handler error that must halt dispatch of the
// remaining handlers for the event.
type CriticalError struct {
	Err error
}

// Error implements the error interface.
func (e *CriticalError) Error() string {
	return fmt.Sprintf("critical: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *CriticalError) Unwrap() error {
	return e.Err
}

// Critical wraps err so that the dispatcher halts on it. A nil err
// returns nil.
func Critical(err error) error {
	if err == nil {
		return nil
	}
	return &CriticalError{Err: err}
}

// IsCritical reports whether err is, or wraps, a critical error.
func IsCritical(err error) bool {
	var ce *CriticalError
	return errors.As(err, &ce)
}

// HandlerError reports a handler failure that halted dispatch. It names
// the plugin and the event so callers can identify the offender.
type HandlerError struct {
	Plugin string
	Event  Event
	Err    error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("hook %s: plugin %q: %v", e.Event, e.Plugin, e.Err)
}

// Unwrap returns the underlying handler error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
