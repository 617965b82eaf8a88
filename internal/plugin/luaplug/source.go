package luaplug

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/docugen/docugen/internal/plugin"
	"github.com/docugen/docugen/internal/plugin/hook"
)

// Source discovers Lua plugins in a set of directories and serves them
// as registry descriptors. It implements plugin.Source.
//
// Each search path is scanned for subdirectories containing a
// plugin.json manifest. On a name collision the first search path wins.
// Directories with unreadable or invalid manifests are skipped and
// recorded; Errors() returns them after a Discover.
type Source struct {
	mu    sync.Mutex
	paths []string
	errs  []error
}

// NewSource creates a source over the given search paths.
func NewSource(paths ...string) *Source {
	return &Source{paths: paths}
}

// Paths returns the configured search paths.
func (s *Source) Paths() []string {
	return s.paths
}

// AddPath appends a search path.
func (s *Source) AddPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
}

// Discover implements plugin.Source. It returns every valid plugin
// found across the search paths, sorted by name. A missing search path
// is not an error; invalid plugin directories are recorded and skipped.
func (s *Source) Discover(ctx context.Context) ([]*plugin.Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errs = nil
	seen := make(map[string]bool)
	var descs []*plugin.Descriptor

	for _, base := range s.paths {
		entries, err := os.ReadDir(base)
		if err != nil {
			if !os.IsNotExist(err) {
				s.errs = append(s.errs, fmt.Errorf("plugin path %s: %w", base, err))
			}
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(base, entry.Name())
			if _, err := os.Stat(filepath.Join(dir, ManifestFile)); err != nil {
				continue // not a plugin directory
			}

			m, err := LoadManifestFromDir(dir)
			if err != nil {
				s.errs = append(s.errs, fmt.Errorf("plugin %s: %w", dir, err))
				continue
			}
			if seen[m.Name] {
				continue // first path wins
			}
			seen[m.Name] = true
			descs = append(descs, descriptor(m))
		}
	}

	sort.Slice(descs, func(i, j int) bool {
		return descs[i].Name < descs[j].Name
	})
	return descs, nil
}

// Resolve implements plugin.Source: it looks for a directory named
// after the plugin in each search path, first hit wins.
func (s *Source) Resolve(ctx context.Context, name string) (*plugin.Descriptor, error) {
	s.mu.Lock()
	paths := make([]string, len(s.paths))
	copy(paths, s.paths)
	s.mu.Unlock()

	for _, base := range paths {
		dir := filepath.Join(base, name)
		if _, err := os.Stat(filepath.Join(dir, ManifestFile)); err != nil {
			continue
		}
		m, err := LoadManifestFromDir(dir)
		if err != nil {
			return nil, &plugin.Error{Plugin: name, Kind: plugin.ErrValidation, Err: err}
		}
		return descriptor(m), nil
	}
	return nil, &plugin.Error{Plugin: name, Kind: plugin.ErrNotFound}
}

// Errors returns the problems recorded by the most recent Discover.
func (s *Source) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]error, len(s.errs))
	copy(out, s.errs)
	return out
}

// descriptor adapts a manifest into a registry descriptor backed by a
// Lua host. The host's state is created by Init and torn down by the
// registry through the Cleaner interface.
func descriptor(m *Manifest) *plugin.Descriptor {
	h := newHost(m)

	hooks := make(map[hook.Event]hook.Handler, len(m.Hooks))
	for event, fn := range m.Hooks {
		fn := fn
		hooks[hook.Event(event)] = func(ctx context.Context, args ...any) (any, error) {
			return h.call(ctx, fn, args...)
		}
	}

	return &plugin.Descriptor{
		Name:         m.Name,
		Version:      m.Version,
		Description:  m.Description,
		Dependencies: m.Dependencies,
		Hooks:        hooks,
		Config:       m.Config,
		Init: func(ctx context.Context, config map[string]any) (plugin.Instance, error) {
			if err := h.init(ctx, config); err != nil {
				return nil, err
			}
			return h, nil
		},
	}
}
