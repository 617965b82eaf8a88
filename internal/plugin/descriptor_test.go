package plugin

import (
	"context"
	"strings"
	"testing"

	"github.com/docugen/docugen/internal/plugin/hook"
)

func noopHandler(ctx context.Context, args ...any) (any, error) {
	return nil, nil
}

func TestValidateValid(t *testing.T) {
	d := &Descriptor{
		Name:         "toc-builder",
		Version:      "1.2.0",
		Dependencies: []string{"outline-check"},
		Hooks: map[hook.Event]hook.Handler{
			hook.AfterGeneration: noopHandler,
		},
	}
	if vs := d.Validate(); len(vs) != 0 {
		t.Errorf("Validate() = %v, want no violations", vs)
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	d := &Descriptor{
		Name:    "Bad Name",
		Version: "one",
		Hooks: map[hook.Event]hook.Handler{
			hook.Event("no-such-event"): noopHandler,
			hook.BeforePublish:          nil,
		},
		Dependencies: []string{""},
	}
	vs := d.Validate()
	if len(vs) != 5 {
		t.Fatalf("Validate() returned %d violations, want 5: %v", len(vs), vs)
	}

	want := map[string]int{"name": 1, "version": 1, "hooks": 2, "dependencies": 1}
	got := make(map[string]int)
	for _, v := range vs {
		got[v.Field]++
	}
	for field, n := range want {
		if got[field] != n {
			t.Errorf("violations for %s = %d, want %d", field, got[field], n)
		}
	}
}

func TestValidateVersionAndName(t *testing.T) {
	tests := []struct {
		name    string
		version string
		valid   bool
	}{
		{"toc", "1.0.0", true},
		{"toc", "1.0.0-beta.1", true},
		{"a", "0.0.1", true},
		{"", "1.0.0", false},
		{"toc", "", false},
		{"-toc", "1.0.0", false},
		{"toc-", "1.0.0", false},
		{"TOC", "1.0.0", false},
		{"toc", "v1.0.0", false},
		{"toc", "1.0", false},
	}

	for _, tt := range tests {
		d := &Descriptor{Name: tt.name, Version: tt.version}
		vs := d.Validate()
		if valid := len(vs) == 0; valid != tt.valid {
			t.Errorf("Validate(%q, %q) violations = %v, want valid=%v", tt.name, tt.version, vs, tt.valid)
		}
	}
}

func TestValidateSelfDependency(t *testing.T) {
	d := &Descriptor{Name: "toc", Version: "1.0.0", Dependencies: []string{"toc"}}
	vs := d.Validate()
	if len(vs) != 1 || !strings.Contains(vs[0].Msg, "itself") {
		t.Errorf("Validate() = %v, want a self-dependency violation", vs)
	}
}

func TestHookEventsPipelineOrder(t *testing.T) {
	d := &Descriptor{
		Name:    "toc",
		Version: "1.0.0",
		Hooks: map[hook.Event]hook.Handler{
			hook.AfterPublish:     noopHandler,
			hook.BeforeGeneration: noopHandler,
			hook.AfterValidation:  noopHandler,
		},
	}
	got := d.HookEvents()
	want := []hook.Event{hook.BeforeGeneration, hook.AfterValidation, hook.AfterPublish}
	if len(got) != len(want) {
		t.Fatalf("HookEvents() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("HookEvents()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCloneIsolation(t *testing.T) {
	d := &Descriptor{
		Name:         "toc",
		Version:      "1.0.0",
		Dependencies: []string{"a"},
		Hooks:        map[hook.Event]hook.Handler{hook.AfterGeneration: noopHandler},
		Config:       map[string]any{"depth": 2},
	}

	clone := d.Clone()
	clone.Dependencies[0] = "changed"
	clone.Config["depth"] = 9
	delete(clone.Hooks, hook.AfterGeneration)

	if d.Dependencies[0] != "a" {
		t.Error("Clone shares the dependencies slice")
	}
	if d.Config["depth"] != 2 {
		t.Error("Clone shares the config map")
	}
	if d.Hooks[hook.AfterGeneration] == nil {
		t.Error("Clone shares the hooks map")
	}
}
