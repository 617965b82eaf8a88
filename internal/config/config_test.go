package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "docugen.yaml", `
plugin_paths:
  - /opt/docugen/plugins
  - ./plugins
output_dir: /var/docs
provider:
  name: anthropic
  model: claude-sonnet-4-20250514
  max_tokens: 8192
watch: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.PluginPaths) != 2 || cfg.PluginPaths[0] != "/opt/docugen/plugins" {
		t.Errorf("PluginPaths = %v", cfg.PluginPaths)
	}
	if cfg.OutputDir != "/var/docs" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Provider.Name != "anthropic" || cfg.Provider.MaxTokens != 8192 {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if !cfg.Watch {
		t.Error("Watch = false, want true")
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "docugen.toml", `
plugin_paths = ["plugins"]
output_dir = "generated"

[provider]
name = "openai"
model = "gpt-4o"
max_tokens = 4096
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider.Name != "openai" || cfg.Provider.Model != "gpt-4o" {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if cfg.OutputDir != "generated" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestLoadUnknownExtension(t *testing.T) {
	path := writeFile(t, "docugen.ini", "output_dir = x")
	if _, err := Load(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("err = %v, want ErrFileNotFound", err)
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.OutputDir != want.OutputDir || cfg.Provider.Name != want.Provider.Name {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, want)
	}
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"DOCUGEN_PLUGIN_PATHS": "a, b,,c",
		"DOCUGEN_OUTPUT_DIR":   "/tmp/docs",
		"DOCUGEN_PROVIDER":     "gemini",
		"DOCUGEN_MODEL":        "gemini-1.5-pro",
		"DOCUGEN_MAX_TOKENS":   "2048",
		"DOCUGEN_WATCH":        "true",
	}

	cfg := Default()
	cfg.applyEnv(func(k string) string { return env[k] })

	if got := cfg.PluginPaths; len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("PluginPaths = %v", got)
	}
	if cfg.OutputDir != "/tmp/docs" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Provider.Name != "gemini" || cfg.Provider.Model != "gemini-1.5-pro" || cfg.Provider.MaxTokens != 2048 {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if !cfg.Watch {
		t.Error("Watch = false, want true")
	}
}

func TestEnvIgnoresBadValues(t *testing.T) {
	env := map[string]string{
		"DOCUGEN_MAX_TOKENS": "lots",
		"DOCUGEN_WATCH":      "maybe",
	}

	cfg := Default()
	cfg.Provider.MaxTokens = 100
	cfg.applyEnv(func(k string) string { return env[k] })

	if cfg.Provider.MaxTokens != 100 {
		t.Errorf("MaxTokens = %d, want 100", cfg.Provider.MaxTokens)
	}
	if cfg.Watch {
		t.Error("Watch = true, want false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty plugin paths", func(c *Config) { c.PluginPaths = nil }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"empty provider", func(c *Config) { c.Provider.Name = "" }},
		{"negative max tokens", func(c *Config) { c.Provider.MaxTokens = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, want nil", err)
	}
}
