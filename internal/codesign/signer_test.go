package codesign

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSignerIsAdHoc(t *testing.T) {
	signer := NewSigner()

	assert.Equal(t, AdHocIdentity, signer.identity)
}

func TestSignArgs(t *testing.T) {
	args := signArgs(AdHocIdentity, "/project/dist/NXT Scanner.app")

	// --force replaces any prior signature; --deep covers every nested
	// executable so the bundle signs consistently.
	assert.Equal(t, []string{
		"--force",
		"--deep",
		"--sign", "-",
		"/project/dist/NXT Scanner.app",
	}, args)
}

func TestVerifyArgs(t *testing.T) {
	args := verifyArgs("/project/dist/NXT Scanner.app")

	assert.Equal(t, []string{"--verify", "--deep", "/project/dist/NXT Scanner.app"}, args)
}
