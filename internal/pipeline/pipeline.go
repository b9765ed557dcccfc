// Package pipeline orchestrates the six release stages: resolve version,
// clean, verify tools, package, sign, build the disk image. Control flows
// strictly forward; the first failure aborts the run.
package pipeline

import (
	"context"
	"fmt"

	"github.com/nxtstudios/appship/internal/config"
	"github.com/nxtstudios/appship/internal/py2app"
)

// State is the pipeline's position in the release state machine.
type State string

const (
	StateStart                State = "Start"
	StateVersionResolved      State = "VersionResolved"
	StateCleaned              State = "Cleaned"
	StateDependenciesVerified State = "DependenciesVerified"
	StatePackaged             State = "Packaged"
	StateSigned               State = "Signed"
	StateImageBuilt           State = "ImageBuilt"
	StateDone                 State = "Done"
	StateAborted              State = "Aborted"
)

// Packager abstracts the three external tool invocations so they can be
// swapped or mocked without touching the stage ordering.
type Packager interface {
	Package(ctx context.Context, manifest py2app.Manifest, metadata py2app.Metadata) (string, error)
	Sign(ctx context.Context, bundlePath string) error
	Imagize(ctx context.Context, bundlePath, imagePath string) error
}

// Cleaner resets the output directories.
type Cleaner interface {
	Clean() error
}

// Verifier checks the external toolchain.
type Verifier interface {
	Verify(ctx context.Context) error
}

// Deps are the pipeline's collaborators.
type Deps struct {
	ResolveVersion func() (string, error)
	Cleaner        Cleaner
	Verifier       Verifier
	Packager       Packager
}

// Result describes a finished run.
type Result struct {
	State      State
	Version    string
	BundlePath string
	ImagePath  string
}

// Pipeline runs one release. Single-threaded and strictly sequential:
// each stage's on-disk output is the next stage's required input. Runs
// are assumed not to overlap.
type Pipeline struct {
	projectRoot string
	config      *config.Config
	deps        Deps
	state       State
	quiet       bool
}

// New creates a pipeline with explicit collaborators.
func New(projectRoot string, cfg *config.Config, deps Deps) *Pipeline {
	return &Pipeline{
		projectRoot: projectRoot,
		config:      cfg,
		deps:        deps,
		state:       StateStart,
	}
}

// SetQuiet suppresses per-stage status lines.
func (p *Pipeline) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// State returns the pipeline's current state.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes all stages in order. Any stage failure moves the pipeline
// into the terminal Aborted state; there is no retry within a run.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	result := Result{State: StateAborted}

	// The version is resolved exactly once and passed by value from here
	// on, so a source tree change mid-run cannot split the artifacts.
	version, err := p.deps.ResolveVersion()
	if err != nil {
		return p.abort(result, fmt.Errorf("version resolution failed: %w", err))
	}
	result.Version = version
	p.transition(StateVersionResolved)
	p.status("🔖 Releasing %s %s", p.config.App.Name, version)

	if err := p.deps.Cleaner.Clean(); err != nil {
		return p.abort(result, fmt.Errorf("workspace clean failed: %w", err))
	}
	p.transition(StateCleaned)
	p.status("🧹 Workspace cleaned")

	if err := p.deps.Verifier.Verify(ctx); err != nil {
		return p.abort(result, err)
	}
	p.transition(StateDependenciesVerified)
	p.status("🔍 Toolchain verified")

	p.status("📦 Packaging bundle (this can take a while)...")
	bundlePath, err := p.deps.Packager.Package(ctx, p.manifest(), p.metadata(version))
	if err != nil {
		return p.abort(result, err)
	}
	result.BundlePath = bundlePath
	p.transition(StatePackaged)
	p.status("📦 Bundle at %s", bundlePath)

	if err := p.deps.Packager.Sign(ctx, bundlePath); err != nil {
		return p.abort(result, fmt.Errorf("signing failed: %w", err))
	}
	p.transition(StateSigned)
	p.status("🔏 Bundle signed (ad-hoc)")

	imagePath := p.config.ImagePath(p.projectRoot, version)
	if err := p.deps.Packager.Imagize(ctx, bundlePath, imagePath); err != nil {
		return p.abort(result, fmt.Errorf("disk image build failed: %w", err))
	}
	result.ImagePath = imagePath
	p.transition(StateImageBuilt)

	p.transition(StateDone)
	result.State = StateDone
	p.status("✅ Release ready: %s", imagePath)

	return result, nil
}

// manifest builds the packager input from the release configuration.
func (p *Pipeline) manifest() py2app.Manifest {
	return py2app.Manifest{
		EntryPoint: p.config.Bundle.EntryPoint,
		Packages:   p.config.Bundle.Packages,
		Includes:   p.config.Bundle.Includes,
		Resources:  p.config.Bundle.Resources,
		Excludes:   p.config.Bundle.Excludes,
		IconFile:   p.config.Bundle.IconFile,
	}
}

// metadata builds the bundle metadata for the resolved version.
// The app is a menu-bar agent: no Dock icon, no standard windows.
func (p *Pipeline) metadata(version string) py2app.Metadata {
	return py2app.Metadata{
		Name:           p.config.App.Name,
		Identifier:     p.config.App.BundleID,
		Version:        version,
		MinOSVersion:   p.config.App.MinOSVersion,
		MenuBarOnly:    true,
		HighResolution: true,
	}
}

func (p *Pipeline) transition(next State) {
	p.state = next
}

func (p *Pipeline) abort(result Result, err error) (Result, error) {
	p.state = StateAborted
	return result, err
}

func (p *Pipeline) status(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Printf(format+"\n", args...)
}
