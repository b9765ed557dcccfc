// Package py2app wraps the py2app bundling toolchain.
package py2app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/nxtstudios/appship/pkg/xos"
)

// logTailLines bounds the diagnostic output surfaced to the operator.
// The full build trace lands in the log file, not on the console.
const logTailLines = 15

// Packager produces the .app bundle from a manifest and metadata.
type Packager struct {
	projectRoot string
	buildDir    string
	distDir     string
	python      string
	verbose     bool
}

// NewPackager creates a packager rooted at the application project.
// buildDir and distDir are relative to the project root.
func NewPackager(projectRoot, buildDir, distDir string, verbose bool) *Packager {
	return &Packager{
		projectRoot: projectRoot,
		buildDir:    buildDir,
		distDir:     distDir,
		python:      "python3",
		verbose:     verbose,
	}
}

// Package writes setup.py and runs py2app, returning the bundle path.
// The expected output directory is verified afterwards: py2app can exit
// zero and still produce nothing, and a silent partial build must not
// reach the signing stage.
func (p *Packager) Package(ctx context.Context, manifest Manifest, metadata Metadata) (string, error) {
	setupPy, err := RenderSetupPy(manifest, metadata)
	if err != nil {
		return "", err
	}

	setupPath := filepath.Join(p.projectRoot, "setup.py")
	if err := xos.WriteFile(setupPath, setupPy, 0644); err != nil {
		return "", fmt.Errorf("failed to write setup.py: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.python, "setup.py", "py2app",
		"--dist-dir", p.distDir,
		"--bdist-base", p.buildDir,
	)
	cmd.Dir = p.projectRoot

	var output bytes.Buffer
	if p.verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &output
		cmd.Stderr = &output
	}

	runErr := cmd.Run()

	// Keep the full trace on disk for diagnosis regardless of outcome.
	if output.Len() > 0 {
		logPath := filepath.Join(p.projectRoot, p.buildDir, "py2app.log")
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err == nil {
			_ = xos.WriteFile(logPath, output.Bytes(), 0644)
		}
	}

	if runErr != nil {
		return "", fmt.Errorf("py2app failed: %w\n%s", runErr, tailLines(output.String(), logTailLines))
	}

	bundlePath := filepath.Join(p.projectRoot, p.distDir, metadata.Name+".app")
	if _, err := os.Stat(bundlePath); err != nil {
		return "", fmt.Errorf("py2app exited cleanly but produced no bundle at %s\n%s",
			bundlePath, tailLines(output.String(), logTailLines))
	}

	if !p.verbose {
		tail := tailLines(output.String(), 5)
		if tail != "" {
			fmt.Println(tail)
		}
	}

	return bundlePath, nil
}

// tailLines returns the last n non-empty lines of s.
func tailLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	var kept []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, "\n")
}
