package pyext

import (
	"context"
	"path/filepath"
)

// buildWorkDir returns the build working directory for a target.
//
// Each target builds in its own subdirectory under config.BuildDir so
// that multiple targets never collide on intermediate build state.
func buildWorkDir(config *BuildConfig, target ExtensionTarget) string {
	root := config.BuildDir
	if root == "" {
		root = "build"
	}
	return filepath.Join(root, target.Name)
}

// runCommonBuild executes the standard 3-step build process.
//
//  1. Configure: run the build tool in configure mode
//  2. Build: compile the extension module
//  3. Find: locate the compiled module files
//
// If any step fails, processing stops, result.Error is set, and the
// result is returned with Success=false. The build step never runs
// after a failed configure step, and the build directory is left
// intact for post-mortem inspection.
func runCommonBuild(ctx context.Context, config *BuildConfig, target ExtensionTarget, steps CommonBuildSteps) (*BuildResult, error) {
	result := &BuildResult{
		Success: false,
		Output:  []string{},
	}

	// Step 1: Configure the build
	if err := steps.ConfigureFunc(ctx, config, target, result); err != nil {
		result.Error = err
		return result, err
	}

	// Step 2: Compile the module
	if err := steps.BuildFunc(ctx, config, target, result); err != nil {
		result.Error = err
		return result, err
	}

	// Step 3: Find the built module files
	modules, err := steps.FindFunc(config, target)
	if err != nil {
		result.Error = err
		return result, err
	}

	result.Modules = modules
	result.Success = true
	return result, nil
}
