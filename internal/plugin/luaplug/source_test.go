package luaplug

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/docugen/docugen/internal/plugin"
	"github.com/docugen/docugen/internal/plugin/hook"
)

// createPlugin writes a plugin directory with a manifest and Lua script.
func createPlugin(t *testing.T, base, name, manifest, luaCode string) string {
	t.Helper()
	dir := filepath.Join(base, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "init.lua"), []byte(luaCode), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestDiscover(t *testing.T) {
	base := t.TempDir()
	createPlugin(t, base, "alpha", `{"name": "alpha", "version": "1.0.0"}`, "-- alpha")
	createPlugin(t, base, "beta", `{"name": "beta", "version": "1.0.0"}`, "-- beta")

	src := NewSource(base)
	descs, err := src.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(descs) != 2 || descs[0].Name != "alpha" || descs[1].Name != "beta" {
		t.Errorf("Discover() = %v, want [alpha beta]", descs)
	}
}

func TestDiscoverMissingPathNotAnError(t *testing.T) {
	src := NewSource(filepath.Join(t.TempDir(), "does-not-exist"))
	descs, err := src.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(descs) != 0 {
		t.Errorf("Discover() = %v, want empty", descs)
	}
	if len(src.Errors()) != 0 {
		t.Errorf("Errors() = %v, want none for a missing path", src.Errors())
	}
}

func TestDiscoverRecordsInvalidManifests(t *testing.T) {
	base := t.TempDir()
	createPlugin(t, base, "good", `{"name": "good", "version": "1.0.0"}`, "")
	createPlugin(t, base, "bad", `{not json`, "")

	src := NewSource(base)
	descs, err := src.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(descs) != 1 || descs[0].Name != "good" {
		t.Errorf("Discover() = %v, want [good]", descs)
	}
	if len(src.Errors()) != 1 {
		t.Errorf("Errors() = %v, want one entry for the bad manifest", src.Errors())
	}
}

func TestDiscoverFirstPathWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	createPlugin(t, first, "dup", `{"name": "dup", "version": "1.0.0", "description": "from first"}`, "")
	createPlugin(t, second, "dup", `{"name": "dup", "version": "2.0.0", "description": "from second"}`, "")

	src := NewSource(first, second)
	descs, err := src.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(descs) != 1 || descs[0].Version != "1.0.0" {
		t.Errorf("Discover() = %v, want the first path's dup v1.0.0", descs)
	}
}

func TestResolve(t *testing.T) {
	base := t.TempDir()
	createPlugin(t, base, "alpha", `{"name": "alpha", "version": "1.0.0"}`, "")

	src := NewSource(base)
	d, err := src.Resolve(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Name != "alpha" {
		t.Errorf("Resolve() = %v", d)
	}

	if _, err := src.Resolve(context.Background(), "ghost"); !errors.Is(err, plugin.ErrNotFound) {
		t.Errorf("Resolve(ghost) error = %v, want ErrNotFound", err)
	}
}

func TestLuaPluginLifecycle(t *testing.T) {
	base := t.TempDir()
	createPlugin(t, base, "annotator",
		`{
			"name": "annotator",
			"version": "1.0.0",
			"hooks": {"generation.after": "annotate"},
			"config": {"tag": "reviewed"}
		}`,
		`
		local tag = "untagged"

		function setup(config)
			tag = config.tag
		end

		function annotate(draft)
			return draft .. " [" .. tag .. "]"
		end

		function cleanup()
		end
		`)

	r := plugin.NewRegistry(plugin.WithSources(NewSource(base)))
	ctx := context.Background()

	if err := r.Install(ctx, "annotator", nil); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	results, err := r.ExecuteHook(ctx, hook.AfterGeneration, "draft text")
	if err != nil {
		t.Fatalf("ExecuteHook() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %v, want 1", results)
	}
	if results[0].Value != "draft text [reviewed]" {
		t.Errorf("hook value = %v, want annotated draft", results[0].Value)
	}

	if err := r.Uninstall(ctx, "annotator"); err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}
	if r.HasHook(hook.AfterGeneration) {
		t.Error("hook survives uninstall")
	}
}

func TestLuaPluginConfigOverride(t *testing.T) {
	base := t.TempDir()
	createPlugin(t, base, "annotator",
		`{
			"name": "annotator",
			"version": "1.0.0",
			"hooks": {"generation.after": "annotate"},
			"config": {"tag": "default"}
		}`,
		`
		local tag = nil
		function setup(config) tag = config.tag end
		function annotate() return tag end
		`)

	r := plugin.NewRegistry(plugin.WithSources(NewSource(base)))
	ctx := context.Background()

	if err := r.Install(ctx, "annotator", map[string]any{"tag": "override"}); err != nil {
		t.Fatal(err)
	}
	results, err := r.ExecuteHook(ctx, hook.AfterGeneration)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Value != "override" {
		t.Errorf("hook value = %v, want override", results[0].Value)
	}
}

func TestLuaPluginErrorTable(t *testing.T) {
	base := t.TempDir()
	createPlugin(t, base, "rejector",
		`{"name": "rejector", "version": "1.0.0", "hooks": {"publish.before": "reject"}}`,
		`function reject() return {error = "not approved", critical = true} end`)

	r := plugin.NewRegistry(plugin.WithSources(NewSource(base)))
	ctx := context.Background()

	if err := r.Install(ctx, "rejector", nil); err != nil {
		t.Fatal(err)
	}
	_, err := r.ExecuteHook(ctx, hook.BeforePublish)
	if !errors.Is(err, plugin.ErrHook) {
		t.Fatalf("ExecuteHook() error = %v, want critical ErrHook", err)
	}

	var perr *plugin.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T", err)
	}
	if perr.Plugin != "rejector" || perr.Hook != hook.BeforePublish {
		t.Errorf("typed error = %+v", perr)
	}
}

func TestLuaPluginNonCriticalError(t *testing.T) {
	base := t.TempDir()
	createPlugin(t, base, "warner",
		`{"name": "warner", "version": "1.0.0", "hooks": {"validation.after": "warn"}}`,
		`function warn() return {error = "soft warning"} end`)

	r := plugin.NewRegistry(plugin.WithSources(NewSource(base)))
	ctx := context.Background()

	if err := r.Install(ctx, "warner", nil); err != nil {
		t.Fatal(err)
	}
	results, err := r.ExecuteHook(ctx, hook.AfterValidation)
	if err != nil {
		t.Fatalf("ExecuteHook() error = %v, want nil for non-critical", err)
	}
	if len(results) != 1 || results[0].Err == nil {
		t.Errorf("results = %+v, want one isolated error", results)
	}
}

func TestLuaPluginMissingHookFunction(t *testing.T) {
	base := t.TempDir()
	createPlugin(t, base, "liar",
		`{"name": "liar", "version": "1.0.0", "hooks": {"generation.after": "does_not_exist"}}`,
		`-- defines nothing`)

	r := plugin.NewRegistry(plugin.WithSources(NewSource(base)))
	err := r.Install(context.Background(), "liar", nil)
	if !errors.Is(err, plugin.ErrInit) {
		t.Fatalf("Install() error = %v, want ErrInit", err)
	}
	if !errors.Is(err, ErrHookFunctionMissing) {
		t.Errorf("Install() error = %v, want wrapped ErrHookFunctionMissing", err)
	}
}

func TestLuaPluginDisableEnable(t *testing.T) {
	base := t.TempDir()
	createPlugin(t, base, "counter",
		`{"name": "counter", "version": "1.0.0", "hooks": {"generation.before": "bump"}}`,
		`
		local n = 0
		function bump() n = n + 1 return n end
		`)

	r := plugin.NewRegistry(plugin.WithSources(NewSource(base)))
	ctx := context.Background()

	if err := r.Install(ctx, "counter", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ExecuteHook(ctx, hook.BeforeGeneration); err != nil {
		t.Fatal(err)
	}

	if err := r.Disable(ctx, "counter"); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	if err := r.Enable(ctx, "counter"); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	// Re-enable rebuilds the Lua state, so the counter restarts.
	results, err := r.ExecuteHook(ctx, hook.BeforeGeneration)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Value != int64(1) {
		t.Errorf("hook value = %v, want 1 from a fresh state", results[0].Value)
	}
}
