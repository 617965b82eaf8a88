package luaplug

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/docugen/docugen/internal/plugin/hook"
)

// Host owns one plugin's Lua state across its enable/disable lifecycle.
// It is the registry Instance for Lua plugins: init loads the script,
// Cleanup closes the state, and hook handlers call through to the
// manifest-named global functions.
type Host struct {
	mu       sync.RWMutex
	manifest *Manifest
	state    *State
	bridge   *Bridge
}

// newHost creates an uninitialized host for the manifest.
func newHost(m *Manifest) *Host {
	return &Host{manifest: m}
}

// Name returns the plugin name.
func (h *Host) Name() string {
	return h.manifest.Name
}

// init loads the main script into a fresh Lua state, verifies every
// manifest-declared hook function is defined, and calls the optional
// setup(config) function. Called on install and on each re-enable.
func (h *Host) init(ctx context.Context, config map[string]any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	state := NewState()
	if err := state.DoFile(h.manifest.MainPath()); err != nil {
		state.Close()
		return fmt.Errorf("failed to load %s: %w", h.manifest.Main, err)
	}

	for event, fn := range h.manifest.Hooks {
		if !state.HasFunction(fn) {
			state.Close()
			return fmt.Errorf("%w: %q (hook %s)", ErrHookFunctionMissing, fn, event)
		}
	}

	bridge := NewBridge(state.L)
	if state.HasFunction("setup") {
		if _, err := state.Call("setup", bridge.ToLua(config)); err != nil {
			state.Close()
			return fmt.Errorf("setup failed: %w", err)
		}
	}

	h.state = state
	h.bridge = bridge
	return nil
}

// call invokes a global Lua function with bridged arguments and
// interprets the result per the plugin contract (see package doc).
func (h *Host) call(ctx context.Context, fn string, args ...any) (any, error) {
	h.mu.RLock()
	state, bridge := h.state, h.bridge
	h.mu.RUnlock()

	if state == nil {
		return nil, ErrNotLoaded
	}

	luaArgs := make([]lua.LValue, len(args))
	for i, arg := range args {
		luaArgs[i] = bridge.ToLua(arg)
	}

	results, err := state.Call(fn, luaArgs...)
	if err != nil {
		return nil, err
	}

	values := make([]any, len(results))
	for i, r := range results {
		values[i] = bridge.ToGo(r)
	}
	return interpretResult(values)
}

// interpretResult maps Lua return values to a handler outcome. A table
// with an "error" field reports failure; "critical" escalates it.
func interpretResult(values []any) (any, error) {
	if len(values) == 0 {
		return nil, nil
	}

	if tbl, ok := values[0].(map[string]any); ok {
		if msg, ok := tbl["error"].(string); ok && msg != "" {
			err := errors.New(msg)
			if critical, _ := tbl["critical"].(bool); critical {
				return nil, hook.Critical(err)
			}
			return nil, err
		}
	}

	if len(values) == 1 {
		return values[0], nil
	}
	return values, nil
}

// Cleanup calls the plugin's optional cleanup() function and closes the
// Lua state. Implements the registry's Cleaner interface.
func (h *Host) Cleanup(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == nil {
		return nil
	}

	var cleanupErr error
	if h.state.HasFunction("cleanup") {
		if _, err := h.state.Call("cleanup"); err != nil {
			cleanupErr = fmt.Errorf("cleanup failed: %w", err)
		}
	}

	h.state.Close()
	h.state = nil
	h.bridge = nil
	return cleanupErr
}

// Loaded reports whether the host currently has a live Lua state.
func (h *Host) Loaded() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state != nil
}
