package pyext

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// CMakeBuilder compiles extension modules from CMake-described sources.
//
// The build is a one-shot, all-or-nothing sequence: a configure
// invocation followed by a build invocation, both in a per-target build
// directory. Any non-zero exit aborts the build with the tool's output
// attached; there are no retries and the build directory is left intact
// for inspection.
type CMakeBuilder struct{}

// Name returns the builder name
func (b *CMakeBuilder) Name() string {
	return "CMake"
}

// CanBuild checks if this builder can handle the build description file
func (b *CMakeBuilder) CanBuild(descriptionFile string) bool {
	return MatchesPattern(descriptionFile, `CMakeLists\.txt$`)
}

// RequiredTools returns the tools needed for this builder
func (b *CMakeBuilder) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{Name: "cmake", Purpose: "CMake build system"},
		{Name: "ninja", Optional: true, Purpose: "Ninja build tool (faster than the platform default)"},
	}
}

// CheckTools verifies that all required tools are available
func (b *CMakeBuilder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// Build compiles the extension module using the cmake configure → build workflow
func (b *CMakeBuilder) Build(ctx context.Context, config *BuildConfig, target ExtensionTarget) (*BuildResult, error) {
	return runCommonBuild(ctx, config, target, CommonBuildSteps{
		ConfigureFunc: b.runConfigure,
		BuildFunc:     b.runBuild,
		FindFunc:      b.findBuiltModules,
	})
}

// Clean removes build artifacts for the target.
//
// Tries cmake's own clean target first and falls back to removing the
// per-target build directory.
func (b *CMakeBuilder) Clean(ctx context.Context, config *BuildConfig, target ExtensionTarget) error {
	workDir := buildWorkDir(config, target)
	if _, err := os.Stat(workDir); os.IsNotExist(err) {
		return nil
	}

	cleanCmd := exec.CommandContext(ctx, "cmake", "--build", ".", "--target", "clean")
	cleanCmd.Dir = workDir
	if err := cleanCmd.Run(); err != nil {
		return os.RemoveAll(workDir)
	}

	return nil
}

// configureArgs assembles the deterministic cmake configure argument list.
//
// The base arguments are always present and ordered: library output
// directory, Python executable, build type. Optional arguments follow in
// toolchain/prefix/pybind11 order and are appended only when their value
// is non-empty; passing an empty value downstream is a different (and
// wrong) condition than not passing it. Generator arguments come last.
func (b *CMakeBuilder) configureArgs(config *BuildConfig) ([]string, error) {
	outDir, err := filepath.Abs(config.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory %s: %w", config.OutputDir, err)
	}

	args := []string{
		fmt.Sprintf("-DCMAKE_LIBRARY_OUTPUT_DIRECTORY=%s", EnsureTrailingSeparator(outDir)),
		fmt.Sprintf("-DPYTHON_EXECUTABLE=%s", config.PythonPath),
		fmt.Sprintf("-DCMAKE_BUILD_TYPE=%s", config.ResolveBuildType()),
	}

	if config.Env.ToolchainFile != "" {
		args = append(args, fmt.Sprintf("-DCMAKE_TOOLCHAIN_FILE=%s", config.Env.ToolchainFile))
	}
	if config.Env.PrefixPath != "" {
		// Semicolon-joined prefix list, forwarded verbatim.
		args = append(args, fmt.Sprintf("-DCMAKE_PREFIX_PATH=%s", config.Env.PrefixPath))
	}
	if config.Env.Pybind11Dir != "" {
		args = append(args, fmt.Sprintf("-Dpybind11_DIR=%s", config.Env.Pybind11Dir))
	}

	generatorArgs, err := b.generatorArgs(config)
	if err != nil {
		return nil, err
	}
	args = append(args, generatorArgs...)

	args = append(args, config.BuildArgs...)

	return args, nil
}

// generatorArgs selects the generator arguments for the active compiler.
//
// With the default toolchain, ninja is preferred whenever no generator
// is requested or Ninja is requested explicitly; a missing ninja binary
// silently degrades to CMake's own generator selection. With MSVC, the
// generator platform for the host architecture is passed via -A.
func (b *CMakeBuilder) generatorArgs(config *BuildConfig) ([]string, error) {
	if config.Compiler == CompilerMSVC {
		platform, err := generatorPlatformFor(runtime.GOARCH)
		if err != nil {
			return nil, err
		}
		return []string{"-A", platform.String()}, nil
	}

	if config.Env.Generator != "" && config.Env.Generator != ninjaGenerator {
		return nil, nil
	}

	if path, ok := findNinja(); ok {
		return []string{
			"-G" + ninjaGenerator,
			fmt.Sprintf("-DCMAKE_MAKE_PROGRAM=%s", path),
		}, nil
	}

	// Not an error: cmake proceeds with its default generator.
	return nil, nil
}

// buildArgs assembles the arguments for the build invocation.
func (b *CMakeBuilder) buildArgs(config *BuildConfig) []string {
	args := []string{"--build", "."}

	if config.Parallel > 0 {
		args = append(args, "--parallel", strconv.Itoa(config.Parallel))
	}

	return args
}

// runConfigure executes cmake in configure mode for the target.
func (b *CMakeBuilder) runConfigure(ctx context.Context, config *BuildConfig, target ExtensionTarget, result *BuildResult) error {
	args, err := b.configureArgs(config)
	if err != nil {
		return err
	}

	sourceDir, err := filepath.Abs(target.SourceDir)
	if err != nil {
		return fmt.Errorf("failed to resolve source directory %s: %w", target.SourceDir, err)
	}

	workDir := buildWorkDir(config, target)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("failed to create build directory %s: %w", workDir, err)
	}

	cmdArgs := append([]string{sourceDir}, args...)
	cmd := exec.CommandContext(ctx, "cmake", cmdArgs...)
	cmd.Dir = workDir

	output, err := cmd.CombinedOutput()
	result.Output = append(result.Output, strings.Split(string(output), "\n")...)

	if config.Verbose {
		result.Output = append(result.Output,
			fmt.Sprintf("Running: cmake %s", strings.Join(cmdArgs, " ")),
			fmt.Sprintf("Working directory: %s", workDir))
	}

	if err != nil {
		return BuildError("CMake", result.Output, err)
	}

	return nil
}

// runBuild executes cmake in build mode for the target.
func (b *CMakeBuilder) runBuild(ctx context.Context, config *BuildConfig, target ExtensionTarget, result *BuildResult) error {
	args := b.buildArgs(config)

	workDir := buildWorkDir(config, target)
	cmd := exec.CommandContext(ctx, "cmake", args...)
	cmd.Dir = workDir

	output, err := cmd.CombinedOutput()
	result.Output = append(result.Output, strings.Split(string(output), "\n")...)

	if config.Verbose {
		result.Output = append(result.Output,
			fmt.Sprintf("Running: cmake %s", strings.Join(args, " ")),
			fmt.Sprintf("Working directory: %s", workDir))
	}

	if err != nil {
		return BuildError("CMake Build", result.Output, err)
	}

	return nil
}

// findBuiltModules locates the compiled module files in the output
// directory and finalizes them into the package directory if one is
// configured.
func (b *CMakeBuilder) findBuiltModules(config *BuildConfig, target ExtensionTarget) ([]string, error) {
	outDir, err := filepath.Abs(config.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory %s: %w", config.OutputDir, err)
	}

	var modules []string
	for _, pattern := range moduleGlobPatterns(target.Name) {
		matches, err := filepath.Glob(filepath.Join(outDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s in %s: %v", pattern, outDir, err)
		}
		modules = append(modules, matches...)
	}

	return finalizeExtensionModules(config, modules)
}
