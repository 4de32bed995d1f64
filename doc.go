// Package pyext provides native extension compilation support for Python
// packages.
//
// This package orchestrates the build of compiled Python extension modules
// (the .so/.pyd files a Python package loads at import time) from their
// native sources. The primary build system is CMake, which covers
// pybind11-based extensions wrapping native libraries.
//
// # Basic Usage
//
// Create a builder factory and use it to build extensions:
//
//	env, err := pyext.LoadEnv()
//	if err != nil {
//	    return err
//	}
//
//	config := &pyext.BuildConfig{
//	    OutputDir:  "./src/apsi",
//	    BuildDir:   "./build",
//	    PythonPath: pyext.DefaultPython(),
//	    Compiler:   pyext.DetectCompiler(),
//	    Env:        env,
//	}
//
//	targets := []pyext.ExtensionTarget{{Name: "_pyapsi", SourceDir: "./apsi-src"}}
//	results, err := pyext.NewBuilderFactory().BuildAllExtensions(ctx, config, targets)
//
// # Architecture
//
// The package uses a factory pattern with registered builders:
//
//	BuilderFactory
//	├── CMakeBuilder (CMakeLists.txt)
//	└── GenericBuilder (consumer-registered toolchains)
//
// Each builder implements the Builder interface and can:
//   - Detect if it can handle a target's build description
//   - Build the extension module with proper error handling
//   - Clean build artifacts
//
// # Configuration
//
// External build configuration arrives through a fixed set of environment
// variables (DEBUG, VCPKG_ROOT_DIR, CMAKE_TOOLCHAIN_FILE, CMAKE_PREFIX_PATH,
// PYBIND11_DIR, CMAKE_GENERATOR), snapshotted once by LoadEnv at process
// entry. The builders themselves never read the environment.
//
// # Build Model
//
// Builds are synchronous and one-shot: configure then build, each a
// blocking subprocess, with any non-zero exit aborting the whole build
// and surfacing the tool's output verbatim. The only concurrency is the
// parallelism degree forwarded to the build tool itself. Each target
// builds in its own working directory, so no state is shared between
// target builds.
//
// # Requirements
//
// Requires Go 1.25 or later and a cmake binary on PATH. A ninja binary
// is used automatically when present.
package pyext
