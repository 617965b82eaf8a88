package plugin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/docugen/docugen/internal/plugin/hook"
)

// Error kinds. Every failure surfaced by the registry wraps exactly one
// of these, so callers can branch with errors.Is.
var (
	// ErrValidation indicates a malformed descriptor.
	ErrValidation = errors.New("plugin validation failed")

	// ErrDependencyNotFound indicates a declared dependency is not
	// installed (single-install path).
	ErrDependencyNotFound = errors.New("plugin dependency not found")

	// ErrCyclicDependency indicates a dependency cycle in a batch.
	ErrCyclicDependency = errors.New("cyclic plugin dependency detected")

	// ErrDuplicate indicates the plugin name is already installed.
	ErrDuplicate = errors.New("plugin already installed")

	// ErrNotFound indicates an operation referenced an unknown plugin.
	ErrNotFound = errors.New("plugin not found")

	// ErrAlreadyEnabled indicates an enable of a live plugin.
	ErrAlreadyEnabled = errors.New("plugin already enabled")

	// ErrInit indicates the plugin's initializer failed.
	ErrInit = errors.New("plugin initialization failed")

	// ErrCleanup indicates the plugin's cleanup routine failed.
	ErrCleanup = errors.New("plugin cleanup failed")

	// ErrHook indicates a critical hook handler failure.
	ErrHook = errors.New("plugin hook execution failed")
)

// Error is the typed error for plugin operations. It carries the plugin
// name, the hook event when one is involved, the kind sentinel, and the
// underlying cause. errors.Is matches both Kind and Err.
type Error struct {
	Plugin string
	Hook   hook.Event
	Kind   error
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Plugin != "" {
		fmt.Fprintf(&b, "plugin %q: ", e.Plugin)
	}
	if e.Hook != "" {
		fmt.Fprintf(&b, "hook %s: ", e.Hook)
	}
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes the kind sentinel and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// newError builds a typed error for the plugin.
func newError(kind error, name string, cause error) *Error {
	return &Error{Plugin: name, Kind: kind, Err: cause}
}
