package hook

import (
	"context"
	"fmt"
	"sync"
)

// Handler is a plugin's implementation of a lifecycle event. It receives
// the arguments the event was fired with and may return a value. An error
// is isolated per handler unless wrapped with Critical.
type Handler func(ctx context.Context, args ...any) (any, error)

// Result records the outcome of one handler invocation during a fire.
type Result struct {
	// Plugin is the name of the plugin that registered the handler.
	Plugin string

	// Event is the event that fired.
	Event Event

	// Value is the handler's return value on success.
	Value any

	// Err is the handler's error, nil on success.
	Err error
}

// registration is a (plugin, handler) pair in an event's ordered list.
type registration struct {
	plugin  string
	handler Handler
}

// Dispatcher maintains ordered handler lists per lifecycle event and
// executes them. Registration order is preserved: handlers fire in the
// order their plugins were initialized.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Event][]registration

	// Per-handler observation callbacks, invoked outside the lock.
	onExecuted func(plugin string, event Event)
	onError    func(plugin string, event Event, err error)
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithExecutedFunc sets a callback invoked after each successful handler.
func WithExecutedFunc(fn func(plugin string, event Event)) DispatcherOption {
	return func(d *Dispatcher) {
		d.onExecuted = fn
	}
}

// WithErrorFunc sets a callback invoked after each failed handler.
func WithErrorFunc(fn func(plugin string, event Event, err error)) DispatcherOption {
	return func(d *Dispatcher) {
		d.onError = fn
	}
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[Event][]registration),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register appends a handler to the event's list. Returns ErrUnknownEvent
// for events outside the lifecycle enumeration and ErrNilHandler for a
// nil handler.
func (d *Dispatcher) Register(plugin string, event Event, handler Handler) error {
	if !Recognized(event) {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	if handler == nil {
		return fmt.Errorf("%w: plugin %q, event %s", ErrNilHandler, plugin, event)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], registration{plugin: plugin, handler: handler})
	return nil
}

// RemovePlugin prunes every registration owned by the plugin from every
// event's list. Returns the number of registrations removed.
func (d *Dispatcher) RemovePlugin(plugin string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for event, regs := range d.handlers {
		kept := regs[:0]
		for _, reg := range regs {
			if reg.plugin == plugin {
				removed++
				continue
			}
			kept = append(kept, reg)
		}
		if len(kept) == 0 {
			delete(d.handlers, event)
		} else {
			d.handlers[event] = kept
		}
	}
	return removed
}

// Fire invokes every handler registered for the event, in registration
// order, with args. An event with no handlers is not an error.
//
// Each handler's outcome is recorded in the returned slice. An ordinary
// handler error is isolated: it is recorded, reported through the error
// callback, and dispatch continues. A critical error halts dispatch
// immediately and Fire returns a *HandlerError naming the plugin and
// event; results collected before the halt are still returned.
func (d *Dispatcher) Fire(ctx context.Context, event Event, args ...any) ([]Result, error) {
	d.mu.RLock()
	regs := make([]registration, len(d.handlers[event]))
	copy(regs, d.handlers[event])
	d.mu.RUnlock()

	results := make([]Result, 0, len(regs))
	for _, reg := range regs {
		value, err := d.invoke(ctx, reg, args)
		res := Result{Plugin: reg.plugin, Event: event, Value: value, Err: err}
		if err != nil {
			if d.onError != nil {
				d.onError(reg.plugin, event, err)
			}
			if IsCritical(err) {
				return results, &HandlerError{Plugin: reg.plugin, Event: event, Err: err}
			}
			results = append(results, res)
			continue
		}
		if d.onExecuted != nil {
			d.onExecuted(reg.plugin, event)
		}
		results = append(results, res)
	}
	return results, nil
}

// invoke runs a single handler with panic recovery.
func (d *Dispatcher) invoke(ctx context.Context, reg registration, args []any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return reg.handler(ctx, args...)
}

// Has reports whether at least one handler is registered for the event.
func (d *Dispatcher) Has(event Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[event]) > 0
}

// Available returns the events that currently have at least one handler,
// in pipeline order.
func (d *Dispatcher) Available() []Event {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Event, 0, len(d.handlers))
	for _, e := range events {
		if len(d.handlers[e]) > 0 {
			out = append(out, e)
		}
	}
	return out
}

// HandlerCount returns the number of handlers registered for the event.
func (d *Dispatcher) HandlerCount(event Event) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[event])
}

// Reset removes every registration.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = make(map[Event][]registration)
}
