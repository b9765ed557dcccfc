// Package source resolves release metadata from the application source tree.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var (
	// versionPattern matches a module-level `__version__ = "1.4.2"` declaration.
	versionPattern = regexp.MustCompile(`(?m)^__version__\s*=\s*["']([^"']+)["']`)

	// semverPattern matches a dotted numeric version, e.g. "2.0.0" or "1.4".
	semverPattern = regexp.MustCompile(`^\d+(\.\d+)+$`)
)

// ResolveVersion extracts the authoritative version string from the
// version file of the application package. The value is read exactly once
// per run and propagated unchanged into every downstream artifact.
func ResolveVersion(projectRoot, versionFile string) (string, error) {
	path := filepath.Join(projectRoot, versionFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read version declaration %s: %w", versionFile, err)
	}

	matches := versionPattern.FindSubmatch(data)
	if matches == nil {
		return "", fmt.Errorf("no __version__ declaration found in %s", versionFile)
	}

	version := string(matches[1])
	if !semverPattern.MatchString(version) {
		return "", fmt.Errorf("version %q in %s is not a dotted numeric version", version, versionFile)
	}

	return version, nil
}
