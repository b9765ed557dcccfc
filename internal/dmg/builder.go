// Package dmg builds the distributable disk image around a signed bundle.
package dmg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Fixed presentation of the mounted volume. These are cosmetic contract:
// every release window looks identical, with the app icon on the left and
// the Applications drop link on the right.
const (
	windowPosX = 200
	windowPosY = 120
	windowW    = 600
	windowH    = 400
	iconSize   = 100
	appIconX   = 150
	appIconY   = 185
	dropLinkX  = 450
	dropLinkY  = 185
)

// Builder wraps the create-dmg tool.
type Builder struct {
	verbose bool
}

// NewBuilder creates a disk image builder.
func NewBuilder(verbose bool) *Builder {
	return &Builder{verbose: verbose}
}

// Build produces imagePath from the signed bundle at bundlePath.
// A pre-existing image of the same name is deleted first, so re-running a
// release for the same version overwrites instead of erroring.
func (b *Builder) Build(ctx context.Context, bundlePath, imagePath string) error {
	if _, err := os.Stat(bundlePath); err != nil {
		return fmt.Errorf("bundle not found at %s: %w", bundlePath, err)
	}

	if err := os.Remove(imagePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove previous image %s: %w", imagePath, err)
	}

	appName := filepath.Base(bundlePath)
	volumeName := strings.TrimSuffix(appName, ".app")

	cmd := exec.CommandContext(ctx, "create-dmg", buildArgs(appName, volumeName, bundlePath, imagePath)...)

	if b.verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("create-dmg failed: %w", err)
		}
		return nil
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("create-dmg failed: %w\n%s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

// buildArgs assembles the create-dmg argument list with the fixed layout.
func buildArgs(appName, volumeName, bundlePath, imagePath string) []string {
	return []string{
		"--volname", volumeName,
		"--window-pos", itoa(windowPosX), itoa(windowPosY),
		"--window-size", itoa(windowW), itoa(windowH),
		"--icon-size", itoa(iconSize),
		"--icon", appName, itoa(appIconX), itoa(appIconY),
		"--hide-extension", appName,
		"--app-drop-link", itoa(dropLinkX), itoa(dropLinkY),
		imagePath,
		bundlePath,
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
