// Package config provides release configuration management for appship.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const ConfigFileName = "ship.yaml"

// Config represents the ship.yaml release configuration.
type Config struct {
	// App identity embedded into the bundle
	App AppConfig `yaml:"app"`

	// Bundle describes what the packager assembles
	Bundle BundleConfig `yaml:"bundle"`

	// Output directories for intermediate and final artifacts
	Output OutputConfig `yaml:"output,omitempty"`
}

// AppConfig holds the application identity.
type AppConfig struct {
	Name         string `yaml:"name"`
	BundleID     string `yaml:"bundle_id"`
	MinOSVersion string `yaml:"min_os_version,omitempty"`

	// VersionFile is the file carrying the __version__ declaration,
	// relative to the project root.
	VersionFile string `yaml:"version_file"`
}

// BundleConfig is the build manifest consumed by the packager.
type BundleConfig struct {
	EntryPoint string   `yaml:"entry_point"`
	Packages   []string `yaml:"packages"`
	Includes   []string `yaml:"includes,omitempty"`
	Resources  []string `yaml:"resources,omitempty"`
	Excludes   []string `yaml:"excludes,omitempty"`
	IconFile   string   `yaml:"icon,omitempty"`
}

// OutputConfig holds output directory settings.
type OutputConfig struct {
	BuildDir string `yaml:"build_dir,omitempty"`
	DistDir  string `yaml:"dist_dir,omitempty"`
}

// Load reads ship.yaml from the project root. A missing file is not an
// error: the pipeline falls back to the built-in NXT Scanner defaults so a
// bare `appship release` works inside the app repository.
func Load(projectRoot string) (*Config, error) {
	path := filepath.Join(projectRoot, ConfigFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		config := Default()
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Default returns the built-in NXT Scanner release configuration.
func Default() *Config {
	config := &Config{
		App: AppConfig{
			Name:        "NXT Scanner",
			BundleID:    "com.nxtstudios.nxt-scanner",
			VersionFile: "storage_scanner/__init__.py",
		},
		Bundle: BundleConfig{
			EntryPoint: "run_app.py",
			Packages:   []string{"storage_scanner", "rumps"},
			Resources:  []string{"resources"},
			Excludes:   []string{"tkinter", "pytest"},
			IconFile:   "resources/icon.icns",
		},
	}
	config.applyDefaults()
	return config
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if c.App.BundleID == "" {
		return fmt.Errorf("app.bundle_id is required")
	}

	if !strings.Contains(c.App.BundleID, ".") {
		return fmt.Errorf("app.bundle_id must be reverse-DNS style (e.g. com.example.app): %s", c.App.BundleID)
	}

	if c.App.VersionFile == "" {
		return fmt.Errorf("app.version_file is required")
	}

	if c.Bundle.EntryPoint == "" {
		return fmt.Errorf("bundle.entry_point is required")
	}

	if len(c.Bundle.Packages) == 0 {
		return fmt.Errorf("bundle.packages must list every runtime package; an omitted one fails at launch, not at build")
	}

	return nil
}

// applyDefaults sets default values for missing fields.
func (c *Config) applyDefaults() {
	if c.App.MinOSVersion == "" {
		c.App.MinOSVersion = "10.15"
	}
	if c.Output.BuildDir == "" {
		c.Output.BuildDir = "build"
	}
	if c.Output.DistDir == "" {
		c.Output.DistDir = "dist"
	}
}

// BundlePath returns the path of the .app the packager produces.
func (c *Config) BundlePath(projectRoot string) string {
	return filepath.Join(projectRoot, c.Output.DistDir, c.App.Name+".app")
}

// ImagePath returns the path of the release disk image for a version.
// The version string is embedded verbatim; no normalization, no "v"
// prefix. Spaces in the app name become hyphens so the artifact matches
// the name the app's self-updater downloads (NXT-Scanner-<version>.dmg).
func (c *Config) ImagePath(projectRoot, version string) string {
	artifactName := strings.ReplaceAll(c.App.Name, " ", "-")
	return filepath.Join(projectRoot, c.Output.DistDir, fmt.Sprintf("%s-%s.dmg", artifactName, version))
}
