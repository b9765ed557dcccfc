package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "NXT Scanner", cfg.App.Name)
	assert.Equal(t, "com.nxtstudios.nxt-scanner", cfg.App.BundleID)
	assert.Equal(t, "storage_scanner/__init__.py", cfg.App.VersionFile)
	assert.Equal(t, "run_app.py", cfg.Bundle.EntryPoint)
	assert.Contains(t, cfg.Bundle.Packages, "storage_scanner")
	assert.Equal(t, "build", cfg.Output.BuildDir)
	assert.Equal(t, "dist", cfg.Output.DistDir)
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	root := t.TempDir()
	content := `
app:
  name: Example App
  bundle_id: com.example.app
  version_file: example/__init__.py
bundle:
  entry_point: main.py
  packages: [example]
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "Example App", cfg.App.Name)
	assert.Equal(t, "10.15", cfg.App.MinOSVersion)
	assert.Equal(t, "build", cfg.Output.BuildDir)
	assert.Equal(t, "dist", cfg.Output.DistDir)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing app name",
			content: `
app:
  bundle_id: com.example.app
  version_file: example/__init__.py
bundle:
  entry_point: main.py
  packages: [example]
`,
		},
		{
			name: "bundle id not reverse-DNS",
			content: `
app:
  name: Example
  bundle_id: example
  version_file: example/__init__.py
bundle:
  entry_point: main.py
  packages: [example]
`,
		},
		{
			name: "empty package list",
			content: `
app:
  name: Example
  bundle_id: com.example.app
  version_file: example/__init__.py
bundle:
  entry_point: main.py
  packages: []
`,
		},
		{
			name:    "malformed yaml",
			content: "app: [unclosed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(tt.content), 0644))

			_, err := Load(root)
			assert.Error(t, err)
		})
	}
}

func TestImagePathEmbedsVersionVerbatim(t *testing.T) {
	cfg := Default()

	path := cfg.ImagePath("/project", "2.0.0")
	assert.Equal(t, filepath.Join("/project", "dist", "NXT-Scanner-2.0.0.dmg"), path)
}

func TestImagePathHyphenatesAppName(t *testing.T) {
	cfg := Default()
	cfg.App.Name = "Some Other App"

	path := cfg.ImagePath("/project", "1.0.0")
	assert.Equal(t, filepath.Join("/project", "dist", "Some-Other-App-1.0.0.dmg"), path)
}

func TestBundlePath(t *testing.T) {
	cfg := Default()

	path := cfg.BundlePath("/project")
	assert.Equal(t, filepath.Join("/project", "dist", "NXT Scanner.app"), path)
}
