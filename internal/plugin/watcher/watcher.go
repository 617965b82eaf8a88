// Package watcher monitors plugin directories for changes so the host
// can re-run discovery. Events are debounced: rapid bursts (an editor
// save, a plugin being copied in) coalesce into one notification per
// affected directory.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 500 * time.Millisecond

// Event reports a change under one of the watched plugin directories.
type Event struct {
	// Dir is the watched directory the change occurred under.
	Dir string

	// Path is the file or directory that changed.
	Path string

	// Time is when the last change in the burst was seen.
	Time time.Time
}

// Watcher watches plugin search paths using fsnotify.
type Watcher struct {
	mu sync.Mutex

	fs       *fsnotify.Watcher
	dirs     []string
	debounce time.Duration

	events chan Event
	done   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher over the given plugin directories and starts
// its event loop. Directories that do not exist are skipped.
func New(dirs []string, opts ...Option) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:       fs,
		debounce: DefaultDebounce,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if err := fs.Add(abs); err != nil {
			continue // missing paths are not errors
		}
		w.dirs = append(w.dirs, abs)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Events returns the channel change notifications are delivered on.
// The channel is closed when the watcher is closed.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Dirs returns the directories actually being watched.
func (w *Watcher) Dirs() []string {
	out := make([]string, len(w.dirs))
	copy(out, w.dirs)
	return out
}

// Close stops the watcher and closes the event channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	close(w.events)
	return err
}

// loop coalesces raw fsnotify events into debounced per-directory
// notifications.
func (w *Watcher) loop() {
	defer w.wg.Done()

	pending := make(map[string]Event)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	flush := func() {
		for _, ev := range pending {
			select {
			case w.events <- ev:
			case <-w.done:
				return
			}
		}
		pending = make(map[string]Event)
	}

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			dir := w.owningDir(ev.Name)
			if dir == "" {
				continue
			}
			pending[dir] = Event{Dir: dir, Path: ev.Name, Time: time.Now()}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// fsnotify errors are transient; keep watching.

		case <-timer.C:
			flush()
		}
	}
}

// owningDir returns the watched directory containing path, or "".
func (w *Watcher) owningDir(path string) string {
	for _, dir := range w.dirs {
		if path == dir {
			return dir
		}
		if rel, err := filepath.Rel(dir, path); err == nil && rel != ".." && !filepath.IsAbs(rel) && rel != "." && !startsWithDotDot(rel) {
			return dir
		}
	}
	return ""
}

// startsWithDotDot reports whether rel escapes its base directory.
func startsWithDotDot(rel string) bool {
	return rel == ".." || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
