// Package watch re-triggers releases when the application source changes.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config controls what the watcher reacts to.
type Config struct {
	// ProjectDir is the root directory to watch.
	ProjectDir string

	// Patterns are base-name globs that trigger a rebuild.
	Patterns []string

	// IgnoreDirs are directory names skipped entirely. The pipeline's
	// own output directories must be here or every release would
	// trigger the next one.
	IgnoreDirs []string

	// IgnoreFiles are base names that never trigger, even when a
	// pattern matches them. The pipeline regenerates setup.py at the
	// project root on every run; watching it would make each release
	// schedule the next.
	IgnoreFiles []string

	// Debounce collapses bursts of events into a single trigger.
	Debounce time.Duration
}

// DefaultConfig watches Python sources, resources and the release config.
func DefaultConfig(projectDir string, outputDirs ...string) *Config {
	ignore := append([]string{".git", "__pycache__", ".venv", "venv"}, outputDirs...)
	return &Config{
		ProjectDir:  projectDir,
		Patterns:    []string{"*.py", "ship.yaml", "*.icns", "*.png"},
		IgnoreDirs:  ignore,
		IgnoreFiles: []string{"setup.py"},
		Debounce:    500 * time.Millisecond,
	}
}

// Watcher emits a single signal per debounced burst of source changes.
type Watcher struct {
	config  *Config
	watcher *fsnotify.Watcher
	trigger chan string
	errors  chan error
}

// New creates a watcher for the configured project directory.
func New(config *Config) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		config:  config,
		watcher: fsWatcher,
		trigger: make(chan string, 1),
		errors:  make(chan error, 10),
	}, nil
}

// Start begins watching. The returned channels stay valid until the
// context is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.config.ProjectDir); err != nil {
		return err
	}

	go w.loop(ctx)
	return nil
}

// Triggers returns the channel signalling a debounced source change.
// The value is the path of the last file that changed.
func (w *Watcher) Triggers() <-chan string {
	return w.trigger
}

// Errors returns the watcher error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		for _, name := range w.config.IgnoreDirs {
			if info.Name() == name {
				return filepath.SkipDir
			}
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer

	fire := func(path string) {
		select {
		case w.trigger <- path:
		default:
			// A trigger is already queued; the rebuild will pick up
			// this change too.
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			path := event.Name
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.config.Debounce, func() {
				fire(path)
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// relevant reports whether an event should trigger a rebuild.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	for _, part := range strings.Split(event.Name, string(filepath.Separator)) {
		for _, name := range w.config.IgnoreDirs {
			if part == name {
				return false
			}
		}
	}

	base := filepath.Base(event.Name)
	for _, name := range w.config.IgnoreFiles {
		if base == name {
			return false
		}
	}
	for _, pattern := range w.config.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
