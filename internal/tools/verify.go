// Package tools verifies the external toolchain the pipeline depends on.
package tools

import (
	"context"
	"fmt"
	"os/exec"
)

// ToolError represents a missing or broken external tool.
type ToolError struct {
	Tool    string
	Remedy  string
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}

// Installer abstracts a tool the verifier may install itself when absent.
type Installer interface {
	IsInstalled(ctx context.Context) bool
	Install(ctx context.Context) error
}

// Status describes one verified tool, for the doctor report.
type Status struct {
	Name    string
	Present bool
	Path    string
	Remedy  string
}

// requirement is a tool that must be on the command search path.
// The pipeline never installs these itself; the remedy names the
// operator's install command.
type requirement struct {
	binary string
	remedy string
}

var required = []requirement{
	{binary: "python3", remedy: "brew install python3"},
	{binary: "codesign", remedy: "xcode-select --install"},
	{binary: "create-dmg", remedy: "brew install create-dmg"},
}

// Verifier checks that every required external tool is available before
// the packager runs, so a missing tool fails here with a clear remedy
// instead of deep inside the bundler's own error output.
type Verifier struct {
	bundler  Installer
	lookPath func(string) (string, error)
}

// NewVerifier creates a verifier. The bundler is the auto-installable
// bundling toolchain; everything else must be pre-installed.
func NewVerifier(bundler Installer) *Verifier {
	return &Verifier{
		bundler:  bundler,
		lookPath: exec.LookPath,
	}
}

// Verify checks all required tools, installing the bundler if it is
// absent. Any unmet requirement aborts the run.
func (v *Verifier) Verify(ctx context.Context) error {
	for _, req := range required {
		if _, err := v.lookPath(req.binary); err != nil {
			return &ToolError{
				Tool:   req.binary,
				Remedy: req.remedy,
				Message: fmt.Sprintf(`%s is required but not found on PATH

Install it with:
  %s

Then re-run the release.`, req.binary, req.remedy),
			}
		}
	}

	if !v.bundler.IsInstalled(ctx) {
		if err := v.bundler.Install(ctx); err != nil {
			return fmt.Errorf("failed to install bundling tool: %w", err)
		}
	}

	return nil
}

// Report returns the presence of every tool without installing anything.
func (v *Verifier) Report(ctx context.Context) []Status {
	statuses := make([]Status, 0, len(required)+1)

	for _, req := range required {
		path, err := v.lookPath(req.binary)
		statuses = append(statuses, Status{
			Name:    req.binary,
			Present: err == nil,
			Path:    path,
			Remedy:  req.remedy,
		})
	}

	statuses = append(statuses, Status{
		Name:    "py2app",
		Present: v.bundler.IsInstalled(ctx),
		Remedy:  "python3 -m pip install py2app",
	})

	return statuses
}
