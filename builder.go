package pyext

import "context"

// Builder defines the interface that all extension builders must implement.
//
// Each builder is responsible for a specific build system (CMake, or a
// consumer-registered toolchain via GenericBuilder) and must implement
// these four methods to integrate with the BuilderFactory.
//
// # Builder Lifecycle
//
//  1. CanBuild() - factory calls this to find the right builder for a target
//  2. Build() - factory calls this to compile the extension module
//  3. Clean() - optional cleanup of build artifacts
//
// # Thread Safety
//
// Builder implementations should be stateless and thread-safe. The same
// builder instance may be used to build multiple targets, though each
// target gets its own build working directory and BuildConfig.
type Builder interface {
	// Name returns the human-readable name of this builder.
	//
	// This name is used in error messages and logs. Examples: "CMake".
	Name() string

	// CanBuild checks if this builder can handle the given build
	// description file.
	//
	// The descriptionFile parameter is typically just the filename
	// (e.g. "CMakeLists.txt") or a relative path below the target's
	// source directory.
	CanBuild(descriptionFile string) bool

	// Build compiles the extension module and returns the result.
	//
	// This method should:
	//  1. Configure the build (run the tool in configure mode)
	//  2. Compile the module
	//  3. Locate the compiled module files
	//
	// Returns:
	//   - BuildResult with Success=true and Modules list on success
	//   - BuildResult with Success=false and Error on failure
	Build(ctx context.Context, config *BuildConfig, target ExtensionTarget) (*BuildResult, error)

	// Clean removes build artifacts.
	//
	// This is optional - some builders may not support cleaning.
	// Returns nil if cleaning is not supported or completes successfully.
	Clean(ctx context.Context, config *BuildConfig, target ExtensionTarget) error
}
