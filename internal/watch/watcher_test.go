package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, root string) *Watcher {
	t.Helper()

	cfg := DefaultConfig(root, "build", "dist")
	cfg.Debounce = 50 * time.Millisecond

	watcher, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { watcher.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, watcher.Start(ctx))

	return watcher
}

func waitForTrigger(t *testing.T, w *Watcher) string {
	t.Helper()
	select {
	case path := <-w.Triggers():
		return path
	case <-time.After(2 * time.Second):
		t.Fatal("expected a rebuild trigger")
		return ""
	}
}

func assertNoTrigger(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case path := <-w.Triggers():
		t.Fatalf("unexpected rebuild trigger for %s", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestSourceChangeTriggersRebuild(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "storage_scanner")
	require.NoError(t, os.MkdirAll(pkgDir, 0755))

	watcher := newTestWatcher(t, root)

	sourceFile := filepath.Join(pkgDir, "scan.py")
	require.NoError(t, os.WriteFile(sourceFile, []byte("pass\n"), 0644))

	assert.Equal(t, sourceFile, waitForTrigger(t, watcher))
}

func TestGeneratedSetupPyDoesNotTriggerRebuild(t *testing.T) {
	root := t.TempDir()
	watcher := newTestWatcher(t, root)

	// The pipeline writes setup.py at the project root on every run; a
	// trigger here would make each release schedule the next one.
	require.NoError(t, os.WriteFile(filepath.Join(root, "setup.py"), []byte("from setuptools import setup\n"), 0644))

	assertNoTrigger(t, watcher)
}

func TestOutputDirChangesDoNotTriggerRebuild(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dist"), 0755))

	watcher := newTestWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "dist", "leftover.py"), []byte("pass\n"), 0644))

	assertNoTrigger(t, watcher)
}

func TestRelevantFiltering(t *testing.T) {
	cfg := DefaultConfig("/project", "build", "dist")
	w := &Watcher{config: cfg}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{
			name:  "python source",
			event: fsnotify.Event{Name: "/project/storage_scanner/scan.py", Op: fsnotify.Write},
			want:  true,
		},
		{
			name:  "release config",
			event: fsnotify.Event{Name: "/project/ship.yaml", Op: fsnotify.Write},
			want:  true,
		},
		{
			name:  "generated setup.py",
			event: fsnotify.Event{Name: "/project/setup.py", Op: fsnotify.Create},
			want:  false,
		},
		{
			name:  "file inside output dir",
			event: fsnotify.Event{Name: "/project/dist/NXT Scanner.app/Contents/Resources/site.py", Op: fsnotify.Create},
			want:  false,
		},
		{
			name:  "unrelated extension",
			event: fsnotify.Event{Name: "/project/notes.md", Op: fsnotify.Write},
			want:  false,
		},
		{
			name:  "chmod only",
			event: fsnotify.Event{Name: "/project/storage_scanner/scan.py", Op: fsnotify.Chmod},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}
