package pyext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// BuilderFactory manages the registration and selection of extension builders.
//
// The factory maintains a registry of Builder implementations and provides
// methods to:
//   - Register new builders
//   - Find the appropriate builder for a target's build description
//   - Build multiple targets in sequence
//
// # Usage
//
// Create a factory with the standard builders:
//
//	factory := pyext.NewBuilderFactory()
//
// Or create an empty factory and register custom builders:
//
//	factory := &pyext.BuilderFactory{}
//	factory.Register(pyext.NewGenericBuilder(&mesonConfig))
//
// # Thread Safety
//
// BuilderFactory is NOT thread-safe for registration. Register all
// builders before concurrent use; afterwards read operations are safe.
type BuilderFactory struct {
	builders []Builder
}

// NewBuilderFactory creates a factory with the standard builders registered.
//
// CMake is the only standard builder: native Python extension modules in
// this toolchain are described by a CMakeLists.txt. Additional toolchains
// can be added through Register, typically as GenericBuilder instances.
func NewBuilderFactory() *BuilderFactory {
	factory := &BuilderFactory{}
	factory.Register(&CMakeBuilder{})
	return factory
}

// Register adds a new builder to the factory.
//
// Builders are checked in the order they are registered. If multiple
// builders can handle the same description file, the first registered
// builder wins.
//
// Not thread-safe. Register all builders before concurrent use.
func (f *BuilderFactory) Register(builder Builder) {
	f.builders = append(f.builders, builder)
}

// BuilderFor returns the appropriate builder for the given build
// description file.
//
// The descriptionFile can be a full path or just a filename; only the
// base filename is used for matching.
func (f *BuilderFactory) BuilderFor(descriptionFile string) (Builder, error) {
	filename := filepath.Base(descriptionFile)

	for _, builder := range f.builders {
		if builder.CanBuild(filename) {
			return builder, nil
		}
	}

	return nil, fmt.Errorf("no builder found for build description: %s", filename)
}

// BuilderForTarget inspects a target's source directory and returns the
// first registered builder that recognizes one of its files.
//
// The source directory itself must exist; whether its build description
// is complete is delegated to the build tool.
func (f *BuilderFactory) BuilderForTarget(target ExtensionTarget) (Builder, error) {
	entries, err := os.ReadDir(target.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory %s: %w", target.SourceDir, err)
	}

	for _, builder := range f.builders {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if builder.CanBuild(entry.Name()) {
				return builder, nil
			}
		}
	}

	return nil, fmt.Errorf("no builder found for %s: no recognized build description in %s", target.Name, target.SourceDir)
}

// ListBuilders returns a copy of all registered builders.
func (f *BuilderFactory) ListBuilders() []Builder {
	return append([]Builder{}, f.builders...)
}

// BuildAllExtensions builds all targets in sequence.
//
// Each target is processed in order:
//  1. Check for context cancellation
//  2. Find the appropriate builder
//  3. Build the target in its own build working directory
//  4. Collect the result
//  5. Stop on first failure if config.StopOnFailure is true
//
// Returns one BuildResult per processed target plus the first error
// encountered. Even when an error is returned the results slice holds
// partial results for the targets already processed.
func (f *BuilderFactory) BuildAllExtensions(ctx context.Context, config *BuildConfig, targets []ExtensionTarget) ([]*BuildResult, error) {
	if len(targets) == 0 {
		return nil, nil
	}

	var results []*BuildResult
	var firstError error

	for _, target := range targets {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if firstError == nil {
				firstError = ctxErr
			}
			results = append(results, &BuildResult{
				Success: false,
				Error:   ctxErr,
			})
			break
		}

		builder, err := f.BuilderForTarget(target)
		if err != nil {
			if firstError == nil {
				firstError = err
			}
			results = append(results, &BuildResult{
				Success: false,
				Error:   err,
			})
			if config.StopOnFailure {
				break
			}
			continue
		}

		result, err := builder.Build(ctx, config, target)
		if err != nil {
			if firstError == nil {
				firstError = err
			}
			if result == nil {
				result = &BuildResult{
					Success: false,
					Error:   err,
				}
			}
		}

		results = append(results, result)

		if !result.Success && config.StopOnFailure {
			break
		}
	}

	return results, firstError
}
