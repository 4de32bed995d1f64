package pyext

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// GenericBuilder provides a configurable builder for any toolchain that
// can compile a shared library loadable as a Python extension module.
//
// It exists so consumers can wire in build systems beyond CMake (meson,
// a bespoke Makefile, a vendor script) without writing a new Builder
// from scratch.
//
// # Example: meson
//
//	meson := NewGenericBuilder(&GenericBuilderConfig{
//	    Name:     "Meson",
//	    Patterns: []string{"meson.build"},
//	    Tools: []ToolRequirement{
//	        {Name: "meson", Purpose: "Meson build system"},
//	        {Name: "ninja", Purpose: "Ninja build tool"},
//	    },
//	    ConfigureCommand: []string{"meson", "setup", "{{builddir}}", "{{source}}"},
//	    BuildCommand:     []string{"meson", "compile", "-C", "{{builddir}}"},
//	    OutputPatterns:   []string{"{{name}}*.so", "{{name}}*.pyd"},
//	})
type GenericBuilder struct {
	name             string
	patterns         []string
	tools            []ToolRequirement
	configureCommand []string
	buildCommand     []string
	cleanCommand     []string
	outputPatterns   []string
}

// GenericBuilderConfig defines configuration for a GenericBuilder.
type GenericBuilderConfig struct {
	// Name is the human-readable builder name (e.g., "Meson")
	Name string

	// Patterns are build description filenames to match (e.g., "meson.build")
	Patterns []string

	// Tools are the required build tools
	Tools []ToolRequirement

	// ConfigureCommand is an optional command template run before the build.
	// Supported placeholders:
	//   {{source}}   - the target's source directory (absolute)
	//   {{builddir}} - the per-target build working directory
	//   {{output}}   - the configured output directory
	//   {{name}}     - the logical module name
	ConfigureCommand []string

	// BuildCommand is the command template to compile the module.
	// Same placeholders as ConfigureCommand.
	BuildCommand []string

	// CleanCommand is an optional command to clean build artifacts
	CleanCommand []string

	// OutputPatterns are glob patterns, relative to the output directory,
	// used to find built modules. Placeholders are expanded here too.
	OutputPatterns []string
}

// NewGenericBuilder creates a new GenericBuilder from configuration.
func NewGenericBuilder(config *GenericBuilderConfig) *GenericBuilder {
	return &GenericBuilder{
		name:             config.Name,
		patterns:         config.Patterns,
		tools:            config.Tools,
		configureCommand: config.ConfigureCommand,
		buildCommand:     config.BuildCommand,
		cleanCommand:     config.CleanCommand,
		outputPatterns:   config.OutputPatterns,
	}
}

// Name returns the builder name
func (b *GenericBuilder) Name() string {
	return b.name
}

// RequiredTools returns the tools needed for this builder
func (b *GenericBuilder) RequiredTools() []ToolRequirement {
	return b.tools
}

// CheckTools verifies that all required tools are available
func (b *GenericBuilder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// CanBuild checks if this builder can handle the build description file
func (b *GenericBuilder) CanBuild(descriptionFile string) bool {
	filename := strings.ToLower(filepath.Base(descriptionFile))

	for _, pattern := range b.patterns {
		if matched, _ := filepath.Match(strings.ToLower(pattern), filename); matched {
			return true
		}
	}

	return false
}

// Build compiles the module using the configured command templates
func (b *GenericBuilder) Build(ctx context.Context, config *BuildConfig, target ExtensionTarget) (*BuildResult, error) {
	return runCommonBuild(ctx, config, target, CommonBuildSteps{
		ConfigureFunc: b.runConfigure,
		BuildFunc:     b.runBuild,
		FindFunc:      b.findBuiltModules,
	})
}

// Clean runs the configured clean command, if any
func (b *GenericBuilder) Clean(ctx context.Context, config *BuildConfig, target ExtensionTarget) error {
	if len(b.cleanCommand) == 0 {
		return nil
	}

	command, err := b.expandCommand(b.cleanCommand, config, target)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = target.SourceDir
	return cmd.Run()
}

func (b *GenericBuilder) runConfigure(ctx context.Context, config *BuildConfig, target ExtensionTarget, result *BuildResult) error {
	if len(b.configureCommand) == 0 {
		return nil
	}
	return b.runCommand(ctx, b.configureCommand, config, target, result)
}

func (b *GenericBuilder) runBuild(ctx context.Context, config *BuildConfig, target ExtensionTarget, result *BuildResult) error {
	if len(b.buildCommand) == 0 {
		return fmt.Errorf("%s builder has no build command configured", b.name)
	}
	return b.runCommand(ctx, b.buildCommand, config, target, result)
}

func (b *GenericBuilder) runCommand(ctx context.Context, template []string, config *BuildConfig, target ExtensionTarget, result *BuildResult) error {
	command, err := b.expandCommand(template, config, target)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = target.SourceDir

	output, err := cmd.CombinedOutput()
	result.Output = append(result.Output, strings.Split(string(output), "\n")...)

	if config.Verbose {
		result.Output = append(result.Output,
			fmt.Sprintf("Running: %s", strings.Join(command, " ")),
			fmt.Sprintf("Working directory: %s", target.SourceDir))
	}

	if err != nil {
		return BuildError(b.name, result.Output, err)
	}

	return nil
}

func (b *GenericBuilder) findBuiltModules(config *BuildConfig, target ExtensionTarget) ([]string, error) {
	outDir, err := filepath.Abs(config.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory %s: %w", config.OutputDir, err)
	}

	var modules []string
	for _, pattern := range b.outputPatterns {
		expanded := b.expandPlaceholders(pattern, config, target)
		matches, err := filepath.Glob(filepath.Join(outDir, expanded))
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s in %s: %v", expanded, outDir, err)
		}
		modules = append(modules, matches...)
	}

	return finalizeExtensionModules(config, modules)
}

func (b *GenericBuilder) expandCommand(template []string, config *BuildConfig, target ExtensionTarget) ([]string, error) {
	if len(template) == 0 {
		return nil, fmt.Errorf("%s builder has an empty command template", b.name)
	}

	command := make([]string, len(template))
	for i, part := range template {
		command[i] = b.expandPlaceholders(part, config, target)
	}
	return command, nil
}

func (b *GenericBuilder) expandPlaceholders(s string, config *BuildConfig, target ExtensionTarget) string {
	sourceDir := target.SourceDir
	if abs, err := filepath.Abs(sourceDir); err == nil {
		sourceDir = abs
	}

	replacer := strings.NewReplacer(
		"{{source}}", sourceDir,
		"{{builddir}}", buildWorkDir(config, target),
		"{{output}}", config.OutputDir,
		"{{name}}", target.Name,
	)
	return replacer.Replace(s)
}
