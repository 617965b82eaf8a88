package luaplug

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/docugen/docugen/internal/plugin/hook"
)

// ManifestFile is the manifest file name inside a plugin directory.
const ManifestFile = "plugin.json"

// Manifest describes a Lua plugin: identity, entry point, declared
// dependencies, and the mapping from lifecycle events to the global Lua
// functions that handle them.
type Manifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Description  string            `json:"description"`
	Main         string            `json:"main"`         // relative path, default init.lua
	Dependencies []string          `json:"dependencies"` // required plugins
	Hooks        map[string]string `json:"hooks"`        // event name -> Lua function
	Config       map[string]any    `json:"config"`

	// path is the plugin directory, set at load time.
	path string
}

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	m.path = filepath.Dir(path)
	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifestFromDir loads the manifest from a plugin directory.
func LoadManifestFromDir(dir string) (*Manifest, error) {
	return LoadManifest(filepath.Join(dir, ManifestFile))
}

// applyDefaults fills optional fields.
func (m *Manifest) applyDefaults() {
	if m.Main == "" {
		m.Main = "init.lua"
	}
	if m.Version == "" {
		m.Version = "0.0.0"
	}
}

// Validate checks the manifest. Descriptor-level validation repeats the
// structural checks; this catches manifest problems early with manifest
// errors so discovery can report the offending file.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return ErrMissingName
	}
	if !namePattern.MatchString(m.Name) {
		return fmt.Errorf("%w: %s", ErrInvalidName, m.Name)
	}

	if m.Version == "" {
		return ErrMissingVersion
	}
	if !semverPattern.MatchString(m.Version) {
		return fmt.Errorf("%w: %s", ErrInvalidVersion, m.Version)
	}

	if filepath.Ext(m.Main) != ".lua" {
		return fmt.Errorf("%w: %s", ErrInvalidMain, m.Main)
	}

	for event, fn := range m.Hooks {
		if !hook.Recognized(hook.Event(event)) {
			return fmt.Errorf("%w: %s", ErrUnknownHook, event)
		}
		if fn == "" {
			return fmt.Errorf("%w: event %s", ErrEmptyHookTarget, event)
		}
	}
	return nil
}

// Path returns the plugin directory.
func (m *Manifest) Path() string {
	return m.path
}

// MainPath returns the full path to the main Lua script.
func (m *Manifest) MainPath() string {
	return filepath.Join(m.path, m.Main)
}

// String returns "name vVersion".
func (m *Manifest) String() string {
	return fmt.Sprintf("%s v%s", m.Name, m.Version)
}
