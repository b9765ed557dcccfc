package pipeline

import (
	"context"

	"github.com/nxtstudios/appship/internal/codesign"
	"github.com/nxtstudios/appship/internal/config"
	"github.com/nxtstudios/appship/internal/dmg"
	"github.com/nxtstudios/appship/internal/py2app"
	"github.com/nxtstudios/appship/internal/source"
	"github.com/nxtstudios/appship/internal/tools"
	"github.com/nxtstudios/appship/internal/workspace"
)

// Toolchain is the production Packager: py2app for bundling, codesign
// for signing, create-dmg for the disk image.
type Toolchain struct {
	packager *py2app.Packager
	signer   *codesign.Signer
	imager   *dmg.Builder
}

// NewToolchain wires the real external tools for a project.
func NewToolchain(projectRoot string, cfg *config.Config, verbose bool) *Toolchain {
	return &Toolchain{
		packager: py2app.NewPackager(projectRoot, cfg.Output.BuildDir, cfg.Output.DistDir, verbose),
		signer:   codesign.NewSigner(),
		imager:   dmg.NewBuilder(verbose),
	}
}

func (t *Toolchain) Package(ctx context.Context, manifest py2app.Manifest, metadata py2app.Metadata) (string, error) {
	return t.packager.Package(ctx, manifest, metadata)
}

// Sign signs the bundle and verifies the result. An artifact that fails
// verification must never reach the disk-image stage.
func (t *Toolchain) Sign(ctx context.Context, bundlePath string) error {
	if err := t.signer.Sign(ctx, bundlePath); err != nil {
		return err
	}
	return t.signer.Verify(ctx, bundlePath)
}

func (t *Toolchain) Imagize(ctx context.Context, bundlePath, imagePath string) error {
	return t.imager.Build(ctx, bundlePath, imagePath)
}

// NewDefault assembles a pipeline with the real resolver, cleaner,
// verifier and toolchain for the given project.
func NewDefault(projectRoot string, cfg *config.Config, verbose bool) *Pipeline {
	return New(projectRoot, cfg, Deps{
		ResolveVersion: func() (string, error) {
			return source.ResolveVersion(projectRoot, cfg.App.VersionFile)
		},
		Cleaner:  workspace.NewCleaner(projectRoot, cfg.Output.BuildDir, cfg.Output.DistDir),
		Verifier: tools.NewVerifier(py2app.NewInstaller(verbose)),
		Packager: NewToolchain(projectRoot, cfg, verbose),
	})
}
