// Package codesign applies ad-hoc code signatures to application bundles.
package codesign

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// AdHocIdentity is the codesign pseudo-identity for ad-hoc signing.
// No developer certificate is involved; the signature satisfies local
// execution trust, which is all a direct download needs.
const AdHocIdentity = "-"

// Signer signs .app bundles in place.
type Signer struct {
	identity string
}

// NewSigner creates an ad-hoc signer.
func NewSigner() *Signer {
	return &Signer{identity: AdHocIdentity}
}

// Sign signs the bundle and everything nested inside it, replacing any
// prior signature. Gatekeeper rejects bundles whose nested executables
// carry inconsistent signatures, so --deep and --force are not optional.
func (s *Signer) Sign(ctx context.Context, bundlePath string) error {
	cmd := exec.CommandContext(ctx, "codesign", signArgs(s.identity, bundlePath)...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("codesign failed for %s: %w\n%s", bundlePath, err, strings.TrimSpace(string(output)))
	}

	return nil
}

// Verify checks that the bundle carries a valid signature, down to every
// nested component.
func (s *Signer) Verify(ctx context.Context, bundlePath string) error {
	cmd := exec.CommandContext(ctx, "codesign", verifyArgs(bundlePath)...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("signature verification failed for %s: %w\n%s", bundlePath, err, strings.TrimSpace(string(output)))
	}

	return nil
}

// signArgs assembles the codesign argument list for signing.
func signArgs(identity, bundlePath string) []string {
	return []string{
		"--force",
		"--deep",
		"--sign", identity,
		bundlePath,
	}
}

// verifyArgs assembles the codesign argument list for verification.
func verifyArgs(bundlePath string) []string {
	return []string{"--verify", "--deep", bundlePath}
}
