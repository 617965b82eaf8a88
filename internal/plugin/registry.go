package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/docugen/docugen/internal/plugin/hook"
)

// entry is the registry's record for one installed plugin.
type entry struct {
	desc     *Descriptor
	instance Instance
	live     bool
}

// Status is the read-only view of one installed plugin.
type Status struct {
	Name         string
	Version      string
	Enabled      bool
	Hooks        []hook.Event
	Dependencies []string
}

// Registry owns the authoritative set of installed plugins and their
// live instances, and mediates install, uninstall, enable, disable, and
// hook dispatch.
type Registry struct {
	mu sync.RWMutex

	sources    []Source
	dispatcher *hook.Dispatcher

	// Installed plugins by name, plus initialization order for
	// deterministic iteration and reverse-order teardown.
	plugins   map[string]*entry
	loadOrder []string

	observers []Observer
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithSources sets the plugin sources consulted by LoadAll and Install.
func WithSources(sources ...Source) RegistryOption {
	return func(r *Registry) {
		r.sources = sources
	}
}

// NewRegistry creates an empty registry. The registry wires its own
// hook dispatcher so that per-handler outcomes surface as
// notifications.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		plugins: make(map[string]*entry),
	}
	r.dispatcher = hook.NewDispatcher(
		hook.WithExecutedFunc(func(plugin string, event hook.Event) {
			r.notify(Notification{Type: NotifyHookExecuted, Plugin: plugin, Hook: event})
		}),
		hook.WithErrorFunc(func(plugin string, event hook.Event, err error) {
			r.notify(Notification{Type: NotifyHookError, Plugin: plugin, Hook: event, Err: err})
		}),
	)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe adds an observer. Returns an unsubscribe function.
func (r *Registry) Subscribe(fn Observer) func() {
	if fn == nil {
		return func() {}
	}

	r.mu.Lock()
	r.observers = append(r.observers, fn)
	index := len(r.observers) - 1
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		// Nil the slot instead of shifting indices.
		if index < len(r.observers) {
			r.observers[index] = nil
		}
	}
}

// notify delivers a notification to all observers outside the lock,
// recovering panics.
func (r *Registry) notify(n Notification) {
	r.mu.RLock()
	observers := make([]Observer, len(r.observers))
	copy(observers, r.observers)
	r.mu.RUnlock()

	for _, fn := range observers {
		if fn == nil {
			continue
		}
		func() {
			defer func() { recover() }()
			fn(n)
		}()
	}
}

// LoadAll discovers candidates from every source, orders them by
// dependency across the whole batch, and installs each in order.
//
// Per-plugin failures (invalid descriptor, duplicate, failed
// initializer) are reported as load-error notifications and do not
// abort the rest of the batch. A source failure is likewise non-fatal.
// Only a dependency cycle fails the call, since no order exists.
func (r *Registry) LoadAll(ctx context.Context) error {
	var candidates []*Descriptor
	for _, src := range r.sources {
		descs, err := src.Discover(ctx)
		if err != nil {
			r.notify(Notification{Type: NotifyLoadError, Err: err})
			continue
		}
		candidates = append(candidates, descs...)
	}

	ordered, err := Order(candidates)
	if err != nil {
		return err
	}

	for _, d := range ordered {
		if err := r.install(ctx, d, nil, false); err != nil {
			r.notify(Notification{Type: NotifyLoadError, Plugin: d.Name, Err: err})
		}
	}
	return nil
}

// Install resolves a single plugin by name and installs it. Unlike
// LoadAll this path is strict: every declared dependency must already
// be installed, and any failure leaves the registry unchanged.
// The optional config overlays the descriptor's own config.
func (r *Registry) Install(ctx context.Context, name string, config map[string]any) error {
	desc, err := r.resolve(ctx, name)
	if err != nil {
		return err
	}
	return r.install(ctx, desc, config, true)
}

// resolve finds a descriptor by name across the sources, first hit wins.
func (r *Registry) resolve(ctx context.Context, name string) (*Descriptor, error) {
	for _, src := range r.sources {
		d, err := src.Resolve(ctx, name)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, newError(ErrNotFound, name, nil)
}

// install validates, initializes, and registers one plugin. strictDeps
// selects the single-install dependency check; bulk loading has already
// handled ordering and deliberately tolerates out-of-batch dependencies.
func (r *Registry) install(ctx context.Context, d *Descriptor, config map[string]any, strictDeps bool) error {
	if vs := d.Validate(); len(vs) > 0 {
		return newError(ErrValidation, d.Name, violationError(vs))
	}

	desc := d.Clone()

	r.mu.Lock()
	if _, exists := r.plugins[desc.Name]; exists {
		r.mu.Unlock()
		return newError(ErrDuplicate, desc.Name, nil)
	}
	if strictDeps {
		for _, dep := range desc.Dependencies {
			if _, ok := r.plugins[dep]; !ok {
				r.mu.Unlock()
				return newError(ErrDependencyNotFound, desc.Name, fmt.Errorf("requires %q", dep))
			}
		}
	}
	r.mu.Unlock()

	// Initialize outside the lock; initializers may perform I/O.
	instance, err := initialize(ctx, desc, config)
	if err != nil {
		werr := newError(ErrInit, desc.Name, err)
		r.notify(Notification{Type: NotifyInitError, Plugin: desc.Name, Err: err})
		return werr
	}

	r.mu.Lock()
	if _, exists := r.plugins[desc.Name]; exists {
		r.mu.Unlock()
		cleanupInstance(ctx, instance)
		return newError(ErrDuplicate, desc.Name, nil)
	}
	r.plugins[desc.Name] = &entry{desc: desc, instance: instance, live: true}
	r.loadOrder = append(r.loadOrder, desc.Name)
	r.mu.Unlock()

	r.registerHooks(desc)
	r.notify(Notification{Type: NotifyInstalled, Plugin: desc.Name})
	return nil
}

// initialize runs the descriptor's initializer with its effective
// config (descriptor config overlaid by the install-time config).
func initialize(ctx context.Context, d *Descriptor, override map[string]any) (Instance, error) {
	if d.Init == nil {
		return nil, nil
	}
	effective := make(map[string]any, len(d.Config)+len(override))
	for k, v := range d.Config {
		effective[k] = v
	}
	for k, v := range override {
		effective[k] = v
	}
	return d.Init(ctx, effective)
}

// registerHooks adds the descriptor's handlers to the dispatcher in
// pipeline order. Validation has already guaranteed recognized events
// and non-nil handlers.
func (r *Registry) registerHooks(d *Descriptor) {
	for _, event := range d.HookEvents() {
		_ = r.dispatcher.Register(d.Name, event, d.Hooks[event])
	}
}

// cleanupInstance invokes the instance's cleanup routine if it has one.
func cleanupInstance(ctx context.Context, instance Instance) error {
	if c, ok := instance.(Cleaner); ok {
		return c.Cleanup(ctx)
	}
	return nil
}

// Uninstall removes the plugin entirely: cleanup, hook pruning, and
// deletion of descriptor and instance. The plugin is removed even when
// its cleanup fails; the cleanup error is returned, wrapped with the
// plugin name.
func (r *Registry) Uninstall(ctx context.Context, name string) error {
	r.mu.Lock()
	e, exists := r.plugins[name]
	if !exists {
		r.mu.Unlock()
		return newError(ErrNotFound, name, nil)
	}
	delete(r.plugins, name)
	r.removeFromLoadOrder(name)
	r.mu.Unlock()

	var cleanupErr error
	if e.live {
		if err := cleanupInstance(ctx, e.instance); err != nil {
			cleanupErr = newError(ErrCleanup, name, err)
			r.notify(Notification{Type: NotifyCleanupError, Plugin: name, Err: err})
		}
	}

	r.dispatcher.RemovePlugin(name)
	r.notify(Notification{Type: NotifyUninstalled, Plugin: name})
	return cleanupErr
}

// Enable re-initializes a disabled plugin and re-registers its hooks.
// Enabling a live plugin is an error.
func (r *Registry) Enable(ctx context.Context, name string) error {
	r.mu.RLock()
	e, exists := r.plugins[name]
	var live bool
	if exists {
		live = e.live
	}
	r.mu.RUnlock()

	if !exists {
		return newError(ErrNotFound, name, nil)
	}
	if live {
		return newError(ErrAlreadyEnabled, name, nil)
	}

	instance, err := initialize(ctx, e.desc, nil)
	if err != nil {
		r.notify(Notification{Type: NotifyInitError, Plugin: name, Err: err})
		return newError(ErrInit, name, err)
	}

	r.mu.Lock()
	e.instance = instance
	e.live = true
	r.mu.Unlock()

	r.registerHooks(e.desc)
	r.notify(Notification{Type: NotifyEnabled, Plugin: name})
	return nil
}

// Disable tears down the plugin's instance and deregisters its hooks,
// keeping the descriptor so the plugin can be re-enabled without
// reinstallation. Disabling an already-disabled plugin is a no-op.
// Hooks are deregistered even when cleanup fails; the cleanup error is
// returned, wrapped with the plugin name.
func (r *Registry) Disable(ctx context.Context, name string) error {
	r.mu.Lock()
	e, exists := r.plugins[name]
	if !exists {
		r.mu.Unlock()
		return newError(ErrNotFound, name, nil)
	}
	if !e.live {
		r.mu.Unlock()
		return nil
	}
	instance := e.instance
	e.instance = nil
	e.live = false
	r.mu.Unlock()

	var cleanupErr error
	if err := cleanupInstance(ctx, instance); err != nil {
		cleanupErr = newError(ErrCleanup, name, err)
		r.notify(Notification{Type: NotifyCleanupError, Plugin: name, Err: err})
	}

	r.dispatcher.RemovePlugin(name)
	r.notify(Notification{Type: NotifyDisabled, Plugin: name})
	return cleanupErr
}

// Get returns the descriptor for an installed plugin.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.plugins[name]
	if !exists {
		return nil, false
	}
	return e.desc, true
}

// Installed returns descriptors of all installed plugins in
// initialization order.
func (r *Registry) Installed() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Descriptor, 0, len(r.loadOrder))
	for _, name := range r.loadOrder {
		if e, exists := r.plugins[name]; exists {
			out = append(out, e.desc)
		}
	}
	return out
}

// Status returns, for every installed plugin, whether it is enabled,
// its declared hook events, and its dependency list.
func (r *Registry) Status() map[string]Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Status, len(r.plugins))
	for name, e := range r.plugins {
		deps := make([]string, len(e.desc.Dependencies))
		copy(deps, e.desc.Dependencies)
		out[name] = Status{
			Name:         name,
			Version:      e.desc.Version,
			Enabled:      e.live,
			Hooks:        e.desc.HookEvents(),
			Dependencies: deps,
		}
	}
	return out
}

// Count returns the number of installed plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ExecuteHook fires a lifecycle event through the dispatcher. A critical
// handler failure is returned as a typed error naming the plugin, the
// hook, and the cause; ordinary handler failures are isolated in the
// result list.
func (r *Registry) ExecuteHook(ctx context.Context, event hook.Event, args ...any) ([]hook.Result, error) {
	results, err := r.dispatcher.Fire(ctx, event, args...)
	if err != nil {
		var he *hook.HandlerError
		if errors.As(err, &he) {
			return results, &Error{Plugin: he.Plugin, Hook: he.Event, Kind: ErrHook, Err: he.Err}
		}
		return results, err
	}
	return results, nil
}

// HasHook reports whether any handler is registered for the event.
func (r *Registry) HasHook(event hook.Event) bool {
	return r.dispatcher.Has(event)
}

// AvailableHooks returns the events with at least one registered
// handler.
func (r *Registry) AvailableHooks() []hook.Event {
	return r.dispatcher.Available()
}

// Dispatcher exposes the underlying hook dispatcher for components that
// fire events directly.
func (r *Registry) Dispatcher() *hook.Dispatcher {
	return r.dispatcher
}

// Cleanup tears down every live instance in reverse initialization
// order, tolerating and reporting individual failures, then clears all
// registry state. Intended for process shutdown. Returns the joined
// cleanup errors, if any.
func (r *Registry) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	names := make([]string, len(r.loadOrder))
	for i, name := range r.loadOrder {
		names[len(r.loadOrder)-1-i] = name
	}
	entries := r.plugins
	r.plugins = make(map[string]*entry)
	r.loadOrder = nil
	r.mu.Unlock()

	var errs []error
	for _, name := range names {
		e := entries[name]
		if e == nil || !e.live {
			continue
		}
		if err := cleanupInstance(ctx, e.instance); err != nil {
			r.notify(Notification{Type: NotifyCleanupError, Plugin: name, Err: err})
			errs = append(errs, newError(ErrCleanup, name, err))
		}
	}

	r.dispatcher.Reset()

	if len(errs) > 0 {
		return fmt.Errorf("failed to clean up %d plugin(s): %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// removeFromLoadOrder removes a name from the order slice.
// Must be called with mu held.
func (r *Registry) removeFromLoadOrder(name string) {
	for i, n := range r.loadOrder {
		if n == name {
			r.loadOrder = append(r.loadOrder[:i], r.loadOrder[i+1:]...)
			return
		}
	}
}
