package plugin

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/docugen/docugen/internal/plugin/hook"
)

// Instance is the opaque runtime object produced by a plugin's
// initializer. The registry owns it exclusively.
type Instance any

// Cleaner is the optional cleanup routine an Instance may expose. It is
// invoked on uninstall, disable, and registry teardown.
type Cleaner interface {
	Cleanup(ctx context.Context) error
}

// InitFunc creates a plugin's runtime instance from its effective
// configuration. A nil InitFunc is allowed; such plugins have no
// instance state.
type InitFunc func(ctx context.Context, config map[string]any) (Instance, error)

// Descriptor describes a plugin: identity, declared dependencies, hook
// handlers, and configuration.
type Descriptor struct {
	// Name uniquely identifies the plugin within a registry.
	Name string

	// Version is a semantic version string, informational only.
	Version string

	// Description is a short human-readable summary.
	Description string

	// Dependencies are plugin names that must initialize first.
	Dependencies []string

	// Hooks maps lifecycle events to this plugin's handlers.
	Hooks map[hook.Event]hook.Handler

	// Config is the payload passed to Init, possibly overridden at
	// install time.
	Config map[string]any

	// Init creates the runtime instance. Optional.
	Init InitFunc
}

// namePattern validates plugin names: lowercase alphanumeric with
// hyphens, no leading or trailing hyphen.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)

// semverPattern validates version strings (simplified semver).
var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// Violation describes one way a descriptor fails validation.
type Violation struct {
	// Field is the descriptor field at fault.
	Field string

	// Msg explains the failure.
	Msg string
}

// String formats the violation as "field: msg".
func (v Violation) String() string {
	return v.Field + ": " + v.Msg
}

// Validate checks the descriptor and returns every violation found
// rather than stopping at the first. An empty slice means valid.
func (d *Descriptor) Validate() []Violation {
	var vs []Violation

	if d.Name == "" {
		vs = append(vs, Violation{Field: "name", Msg: "required"})
	} else if !namePattern.MatchString(d.Name) {
		vs = append(vs, Violation{Field: "name", Msg: fmt.Sprintf("%q must be lowercase alphanumeric with hyphens", d.Name)})
	}

	if d.Version == "" {
		vs = append(vs, Violation{Field: "version", Msg: "required"})
	} else if !semverPattern.MatchString(d.Version) {
		vs = append(vs, Violation{Field: "version", Msg: fmt.Sprintf("%q is not valid semver", d.Version)})
	}

	for event, handler := range d.Hooks {
		if !hook.Recognized(event) {
			vs = append(vs, Violation{Field: "hooks", Msg: fmt.Sprintf("unrecognized event %q", event)})
		}
		if handler == nil {
			vs = append(vs, Violation{Field: "hooks", Msg: fmt.Sprintf("handler for %q is nil", event)})
		}
	}

	seen := make(map[string]bool, len(d.Dependencies))
	for _, dep := range d.Dependencies {
		switch {
		case dep == "":
			vs = append(vs, Violation{Field: "dependencies", Msg: "empty dependency name"})
		case dep == d.Name:
			vs = append(vs, Violation{Field: "dependencies", Msg: "plugin depends on itself"})
		case seen[dep]:
			vs = append(vs, Violation{Field: "dependencies", Msg: fmt.Sprintf("duplicate dependency %q", dep)})
		}
		seen[dep] = true
	}

	// Deterministic order for assertions and messages.
	sort.Slice(vs, func(i, j int) bool {
		if vs[i].Field != vs[j].Field {
			return vs[i].Field < vs[j].Field
		}
		return vs[i].Msg < vs[j].Msg
	})
	return vs
}

// HookEvents returns the events this descriptor handles, in pipeline
// order.
func (d *Descriptor) HookEvents() []hook.Event {
	out := make([]hook.Event, 0, len(d.Hooks))
	for _, e := range hook.Events() {
		if _, ok := d.Hooks[e]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Clone creates a copy of the descriptor with its own slices and maps.
// Handler and Init funcs are shared.
func (d *Descriptor) Clone() *Descriptor {
	clone := *d

	if d.Dependencies != nil {
		clone.Dependencies = make([]string, len(d.Dependencies))
		copy(clone.Dependencies, d.Dependencies)
	}
	if d.Hooks != nil {
		clone.Hooks = make(map[hook.Event]hook.Handler, len(d.Hooks))
		for k, v := range d.Hooks {
			clone.Hooks[k] = v
		}
	}
	if d.Config != nil {
		clone.Config = make(map[string]any, len(d.Config))
		for k, v := range d.Config {
			clone.Config[k] = v
		}
	}
	return &clone
}

// String returns "name vVersion".
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s v%s", d.Name, d.Version)
}

// violationError flattens a violation list into a single error for
// wrapping inside a typed Error.
type violationError []Violation

// Error implements the error interface.
func (ve violationError) Error() string {
	parts := make([]string, len(ve))
	for i, v := range ve {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%d violation(s): %v", len(ve), parts)
}
