package pyext

import "context"

// ExtensionTarget names one native extension module to build.
//
// Name is the logical module name the Python loader imports
// (e.g. "_pyapsi"). SourceDir is the directory containing the build
// description file (CMakeLists.txt for the CMake builder).
type ExtensionTarget struct {
	Name      string // Logical module name, e.g. "_pyapsi"
	SourceDir string // Directory containing the build description
}

// BuildResult contains the output and status of a build operation.
//
// After a build completes, this structure provides:
//   - Success status indicating if the build completed without errors
//   - Output lines captured from the build process (stdout/stderr)
//   - Modules list of compiled extension modules (.so/.pyd/.dylib)
//   - Error information if the build failed
type BuildResult struct {
	Success bool     // True if build completed successfully
	Output  []string // Lines of output from the build process
	Modules []string // Paths to built extension modules
	Error   error    // Error if build failed, nil otherwise
}

// BuildConfig contains configuration for the build process.
//
// A BuildConfig is constructed once per build invocation and is never
// shared between concurrent target builds. The builders read no
// environment variables themselves; everything externally supplied
// arrives through the Env snapshot.
//
// Paths:
//   - OutputDir: where the compiled module must land (the directory the
//     Python loader resolves the module from)
//   - BuildDir: root for per-target build working directories
//   - PackageDir: optional Python package directory to copy finished
//     modules into
//
// Toolchain:
//   - PythonPath: Python interpreter handed to CMake as PYTHON_EXECUTABLE
//   - Compiler: active compiler family (default toolchain or MSVC)
//   - Env: snapshot of the build-related environment variables
//
// Build behavior:
//   - Debug: tri-state debug flag; nil defers to the DEBUG environment
//     value, a set value always wins
//   - Parallel: parallel jobs forwarded to the build tool (0 = tool default)
//   - BuildArgs: extra arguments appended to the configure invocation
//   - Verbose: echo the exact commands into the result output
//   - StopOnFailure: stop after the first failed target
type BuildConfig struct {
	// Paths
	OutputDir  string // Destination directory for compiled modules
	BuildDir   string // Root for per-target build directories
	PackageDir string // Optional package dir to install modules into

	// Toolchain
	PythonPath string         // Python interpreter for PYTHON_EXECUTABLE
	Compiler   CompilerFamily // Active compiler family
	Env        EnvConfig      // Environment snapshot, taken at process entry

	// Build behavior
	Debug         *bool    // nil = unset, defer to Env.Debug
	Parallel      int      // Parallel jobs (0 = tool default)
	BuildArgs     []string // Extra configure arguments
	Verbose       bool     // Echo commands into result output
	StopOnFailure bool     // Stop after the first failed target
}

// CommonBuildSteps defines the standard 3-step build pattern shared by
// the builders.
//
// Native extension build systems follow a similar pattern:
//  1. Configure: generate build files for the target
//  2. Build: compile the extension module
//  3. Find: locate the compiled module files
//
// This structure lets builders implement the pattern consistently while
// customizing each step.
type CommonBuildSteps struct {
	// ConfigureFunc prepares the build (e.g. runs cmake in configure mode)
	ConfigureFunc func(ctx context.Context, config *BuildConfig, target ExtensionTarget, result *BuildResult) error

	// BuildFunc compiles the module (e.g. runs cmake --build)
	BuildFunc func(ctx context.Context, config *BuildConfig, target ExtensionTarget, result *BuildResult) error

	// FindFunc locates the compiled module files after the build completes
	FindFunc func(config *BuildConfig, target ExtensionTarget) ([]string, error)
}
