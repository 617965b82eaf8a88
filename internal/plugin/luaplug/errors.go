package luaplug

import "errors"

// Lua runtime errors.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNotLoaded is returned when calling into a plugin whose state
	// has not been initialized or has been cleaned up.
	ErrNotLoaded = errors.New("lua plugin is not loaded")

	// ErrHookFunctionMissing is returned at initialization when the
	// main script does not define a function the manifest declares.
	ErrHookFunctionMissing = errors.New("hook function not defined by plugin script")
)

// Manifest validation errors.
var (
	ErrMissingName     = errors.New("manifest: name is required")
	ErrInvalidName     = errors.New("manifest: name must be lowercase alphanumeric with hyphens")
	ErrMissingVersion  = errors.New("manifest: version is required")
	ErrInvalidVersion  = errors.New("manifest: version must be valid semver")
	ErrInvalidMain     = errors.New("manifest: main must be a .lua file")
	ErrUnknownHook     = errors.New("manifest: unrecognized hook event")
	ErrEmptyHookTarget = errors.New("manifest: hook function name is empty")
)
