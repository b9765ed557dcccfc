package py2app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManifest() Manifest {
	return Manifest{
		EntryPoint: "run_app.py",
		Packages:   []string{"storage_scanner", "rumps"},
		Includes:   []string{"certifi"},
		Resources:  []string{"resources"},
		Excludes:   []string{"tkinter"},
		IconFile:   "resources/icon.icns",
	}
}

func testMetadata(version string) Metadata {
	return Metadata{
		Name:           "NXT Scanner",
		Identifier:     "com.nxtstudios.nxt-scanner",
		Version:        version,
		MinOSVersion:   "10.15",
		MenuBarOnly:    true,
		HighResolution: true,
	}
}

func TestRenderSetupPyEmbedsPlistKeys(t *testing.T) {
	out, err := RenderSetupPy(testManifest(), testMetadata("1.4.2"))
	require.NoError(t, err)

	setupPy := string(out)

	// Bit-exact Info.plist keys the OS expects.
	assert.Contains(t, setupPy, `"CFBundleName": "NXT Scanner"`)
	assert.Contains(t, setupPy, `"CFBundleDisplayName": "NXT Scanner"`)
	assert.Contains(t, setupPy, `"CFBundleIdentifier": "com.nxtstudios.nxt-scanner"`)
	assert.Contains(t, setupPy, `"CFBundleShortVersionString": "1.4.2"`)
	assert.Contains(t, setupPy, `"CFBundleVersion": "1.4.2"`)
	assert.Contains(t, setupPy, `"LSMinimumSystemVersion": "10.15"`)
	assert.Contains(t, setupPy, `"LSUIElement": True`)
	assert.Contains(t, setupPy, `"NSHighResolutionCapable": True`)
}

func TestRenderSetupPyEmbedsManifest(t *testing.T) {
	out, err := RenderSetupPy(testManifest(), testMetadata("1.4.2"))
	require.NoError(t, err)

	setupPy := string(out)

	assert.Contains(t, setupPy, `APP = ["run_app.py"]`)
	assert.Contains(t, setupPy, `"packages": ["storage_scanner", "rumps"]`)
	assert.Contains(t, setupPy, `"includes": ["certifi"]`)
	assert.Contains(t, setupPy, `"excludes": ["tkinter"]`)
	assert.Contains(t, setupPy, `DATA_FILES = ["resources"]`)
	assert.Contains(t, setupPy, `"iconfile": "resources/icon.icns"`)
}

func TestRenderSetupPyOmitsEmptySections(t *testing.T) {
	manifest := Manifest{
		EntryPoint: "run_app.py",
		Packages:   []string{"storage_scanner"},
	}

	out, err := RenderSetupPy(manifest, testMetadata("1.0.0"))
	require.NoError(t, err)

	setupPy := string(out)
	assert.NotContains(t, setupPy, `"includes"`)
	assert.NotContains(t, setupPy, `"excludes"`)
	assert.NotContains(t, setupPy, `"iconfile"`)
	assert.Contains(t, setupPy, "DATA_FILES = []")
}

func TestRenderSetupPyIsDeterministic(t *testing.T) {
	first, err := RenderSetupPy(testManifest(), testMetadata("2.0.0"))
	require.NoError(t, err)

	second, err := RenderSetupPy(testManifest(), testMetadata("2.0.0"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTailLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{
			name:  "shorter than limit",
			input: "one\ntwo",
			n:     5,
			want:  "one\ntwo",
		},
		{
			name:  "truncates to last n",
			input: "one\ntwo\nthree\nfour",
			n:     2,
			want:  "three\nfour",
		},
		{
			name:  "drops blank lines",
			input: "one\n\n\ntwo\n",
			n:     5,
			want:  "one\ntwo",
		},
		{
			name:  "empty input",
			input: "",
			n:     3,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tailLines(tt.input, tt.n))
		})
	}
}
