// Package workspace manages the pipeline's output directory tree.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Cleaner resets the build-output and final-output directories so every
// run starts from a clean state. Removal is irreversible; the cleaner owns
// the directory tree for the duration of a run.
type Cleaner struct {
	projectRoot string
	dirs        []string
}

// NewCleaner creates a cleaner for the given output directories,
// resolved relative to the project root.
func NewCleaner(projectRoot string, dirs ...string) *Cleaner {
	return &Cleaner{
		projectRoot: projectRoot,
		dirs:        dirs,
	}
}

// Clean removes the output directories if they exist. Running against an
// already-clean workspace is a no-op, not an error.
func (c *Cleaner) Clean() error {
	for _, dir := range c.dirs {
		path := filepath.Join(c.projectRoot, dir)

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}

// Dirs returns the absolute paths the cleaner manages.
func (c *Cleaner) Dirs() []string {
	paths := make([]string, 0, len(c.dirs))
	for _, dir := range c.dirs {
		paths = append(paths, filepath.Join(c.projectRoot, dir))
	}
	return paths
}

// Existing returns the managed directories that currently exist on disk.
func (c *Cleaner) Existing() []string {
	var present []string
	for _, path := range c.Dirs() {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			present = append(present, path)
		}
	}
	return present
}
