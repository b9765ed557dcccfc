package py2app

import (
	"bytes"
	"fmt"
	"text/template"
)

// Manifest is the declared build input for the bundler: the entry point,
// every runtime package, and the resources shipped inside the bundle.
// The package list must be exhaustive; an omitted runtime dependency fails
// when the packaged app launches, not at build time.
type Manifest struct {
	EntryPoint string
	Packages   []string
	Includes   []string
	Resources  []string
	Excludes   []string
	IconFile   string
}

// Metadata carries the Info.plist fields embedded into the bundle.
// Constructed fresh each run from static configuration plus the resolved
// version; the version appears in both the short and full version fields.
type Metadata struct {
	Name           string
	Identifier     string
	Version        string
	MinOSVersion   string
	MenuBarOnly    bool
	HighResolution bool
}

// setupPyTemplate renders the py2app driver script. py2app reads its
// manifest from setup.py, so the pipeline writes one deterministically on
// every run instead of keeping a hand-maintained copy in the app repo.
var setupPyTemplate = template.Must(template.New("setup.py").Funcs(template.FuncMap{
	"pybool": func(b bool) string {
		if b {
			return "True"
		}
		return "False"
	},
	"pylist": func(items []string) string {
		var buf bytes.Buffer
		buf.WriteString("[")
		for i, item := range items {
			if i > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(&buf, "%q", item)
		}
		buf.WriteString("]")
		return buf.String()
	},
}).Parse(`# Generated by appship; overwritten on every release run. Do not edit.
from setuptools import setup

APP = ["{{ .Manifest.EntryPoint }}"]
DATA_FILES = {{ pylist .Manifest.Resources }}
OPTIONS = {
    "argv_emulation": False,
    "packages": {{ pylist .Manifest.Packages }},
{{- if .Manifest.Includes }}
    "includes": {{ pylist .Manifest.Includes }},
{{- end }}
{{- if .Manifest.Excludes }}
    "excludes": {{ pylist .Manifest.Excludes }},
{{- end }}
{{- if .Manifest.IconFile }}
    "iconfile": "{{ .Manifest.IconFile }}",
{{- end }}
    "plist": {
        "CFBundleName": "{{ .Metadata.Name }}",
        "CFBundleDisplayName": "{{ .Metadata.Name }}",
        "CFBundleIdentifier": "{{ .Metadata.Identifier }}",
        "CFBundleShortVersionString": "{{ .Metadata.Version }}",
        "CFBundleVersion": "{{ .Metadata.Version }}",
        "LSMinimumSystemVersion": "{{ .Metadata.MinOSVersion }}",
        "LSUIElement": {{ pybool .Metadata.MenuBarOnly }},
        "NSHighResolutionCapable": {{ pybool .Metadata.HighResolution }},
    },
}

setup(
    name="{{ .Metadata.Name }}",
    app=APP,
    data_files=DATA_FILES,
    options={"py2app": OPTIONS},
    setup_requires=["py2app"],
)
`))

// RenderSetupPy renders the setup.py content for a manifest and metadata.
func RenderSetupPy(manifest Manifest, metadata Metadata) ([]byte, error) {
	var buf bytes.Buffer
	err := setupPyTemplate.Execute(&buf, struct {
		Manifest Manifest
		Metadata Metadata
	}{manifest, metadata})
	if err != nil {
		return nil, fmt.Errorf("failed to render setup.py: %w", err)
	}
	return buf.Bytes(), nil
}
