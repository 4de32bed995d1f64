package pyext

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultManifestName is the manifest filename looked up when none is given.
const DefaultManifestName = "pyext.yaml"

// Manifest declares the extension modules of a project and the build
// defaults shared between them. It is the file equivalent of a package
// definition's ext_modules list:
//
//	python: /usr/bin/python3
//	output: ./src/apsi
//	package: ./src/apsi
//	extensions:
//	  - name: _pyapsi
//	    source: ./apsi-src
//
// Relative paths are resolved against the manifest's own directory.
type Manifest struct {
	Python     string           `yaml:"python,omitempty"`
	Output     string           `yaml:"output,omitempty"`
	Package    string           `yaml:"package,omitempty"`
	BuildDir   string           `yaml:"build_dir,omitempty"`
	Parallel   int              `yaml:"parallel,omitempty"`
	Extensions []ManifestTarget `yaml:"extensions"`

	baseDir string
}

// ManifestTarget declares one extension module.
type ManifestTarget struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path %s: %w", path, err)
	}
	m.baseDir = filepath.Dir(abs)

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.Extensions) == 0 {
		return fmt.Errorf("no extensions declared")
	}

	seen := make(map[string]struct{}, len(m.Extensions))
	for i, ext := range m.Extensions {
		if ext.Name == "" {
			return fmt.Errorf("extension %d has no name", i)
		}
		if ext.Source == "" {
			return fmt.Errorf("extension %q has no source directory", ext.Name)
		}
		// Target names double as build-directory names, so they must
		// be unique within a manifest.
		if _, dup := seen[ext.Name]; dup {
			return fmt.Errorf("duplicate extension name %q", ext.Name)
		}
		seen[ext.Name] = struct{}{}
	}

	if m.Parallel < 0 {
		return fmt.Errorf("parallel must not be negative, got %d", m.Parallel)
	}

	return nil
}

// Targets returns the declared extensions with source directories
// resolved against the manifest's directory.
func (m *Manifest) Targets() []ExtensionTarget {
	targets := make([]ExtensionTarget, 0, len(m.Extensions))
	for _, ext := range m.Extensions {
		targets = append(targets, ExtensionTarget{
			Name:      ext.Name,
			SourceDir: m.resolve(ext.Source),
		})
	}
	return targets
}

// OutputDir returns the resolved output directory, defaulting to the
// manifest's own directory so the loader finds modules next to the
// package sources.
func (m *Manifest) OutputDir() string {
	if m.Output == "" {
		return m.baseDir
	}
	return m.resolve(m.Output)
}

// PackageDir returns the resolved package directory, empty when unset.
func (m *Manifest) PackageDir() string {
	if m.Package == "" {
		return ""
	}
	return m.resolve(m.Package)
}

// BuildRoot returns the resolved build-directory root.
func (m *Manifest) BuildRoot() string {
	if m.BuildDir == "" {
		return m.resolve("build")
	}
	return m.resolve(m.BuildDir)
}

func (m *Manifest) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.baseDir, path)
}
