package pyext

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// BuildType selects the CMake build configuration.
type BuildType string

// The two supported build types.
const (
	BuildTypeDebug   BuildType = "Debug"
	BuildTypeRelease BuildType = "Release"
)

// CompilerFamily identifies the active compiler toolchain family.
//
// The CMake builder only distinguishes the platform default toolchain
// from MSVC, which needs an explicit generator-platform argument.
type CompilerFamily int

const (
	// CompilerDefault is the platform's default toolchain (gcc/clang).
	CompilerDefault CompilerFamily = iota

	// CompilerMSVC is the Visual Studio toolchain on Windows.
	CompilerMSVC
)

// Environment variable names forming the build configuration contract.
const (
	EnvDebug         = "DEBUG"
	EnvVcpkgRootDir  = "VCPKG_ROOT_DIR"
	EnvToolchainFile = "CMAKE_TOOLCHAIN_FILE"
	EnvPrefixPath    = "CMAKE_PREFIX_PATH"
	EnvPybind11Dir   = "PYBIND11_DIR"
	EnvGenerator     = "CMAKE_GENERATOR"
)

// EnvConfig is an explicit snapshot of the build-related environment,
// taken once at process entry. The builders never read the environment
// themselves; they consume this snapshot through BuildConfig.Env.
type EnvConfig struct {
	// Debug holds the DEBUG value (integer truthy); nil when unset.
	// It only applies when BuildConfig.Debug is unset.
	Debug *bool

	// ToolchainFile is CMAKE_TOOLCHAIN_FILE, or the vcpkg toolchain
	// derived from VCPKG_ROOT_DIR when CMAKE_TOOLCHAIN_FILE is unset.
	ToolchainFile string

	// PrefixPath is CMAKE_PREFIX_PATH, passed downstream verbatim.
	PrefixPath string

	// Pybind11Dir is PYBIND11_DIR, the binding generator's CMake
	// package directory.
	Pybind11Dir string

	// Generator is CMAKE_GENERATOR; empty selects the default-generator
	// auto-selection logic.
	Generator string
}

// LoadEnv reads the build configuration environment variables once and
// returns an immutable snapshot.
//
// A malformed DEBUG value (anything that does not parse as an integer)
// is a fatal configuration error.
func LoadEnv() (EnvConfig, error) {
	return loadEnvFrom(os.Getenv)
}

func loadEnvFrom(get func(string) string) (EnvConfig, error) {
	env := EnvConfig{
		ToolchainFile: get(EnvToolchainFile),
		PrefixPath:    get(EnvPrefixPath),
		Pybind11Dir:   get(EnvPybind11Dir),
		Generator:     get(EnvGenerator),
	}

	if raw := get(EnvDebug); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return EnvConfig{}, fmt.Errorf("%s must be an integer, got %q", EnvDebug, raw)
		}
		debug := n != 0
		env.Debug = &debug
	}

	// VCPKG_ROOT_DIR is only a fallback hint: it derives the standard
	// vcpkg toolchain file when no toolchain file is given explicitly.
	if env.ToolchainFile == "" {
		if root := get(EnvVcpkgRootDir); root != "" {
			env.ToolchainFile = filepath.Join(root, "scripts", "buildsystems", "vcpkg.cmake")
		}
	}

	return env, nil
}

// ResolveBuildType maps the debug flags onto the two-valued build type.
//
// The config's own Debug flag wins when set; otherwise the DEBUG
// environment value decides; otherwise the build is a release build.
func (c *BuildConfig) ResolveBuildType() BuildType {
	debug := false
	switch {
	case c.Debug != nil:
		debug = *c.Debug
	case c.Env.Debug != nil:
		debug = *c.Env.Debug
	}

	if debug {
		return BuildTypeDebug
	}
	return BuildTypeRelease
}

// DetectCompiler determines the active compiler family for this process.
//
// On Windows the Visual Studio toolchain is assumed unless CC points at
// another compiler. Everywhere else the platform default applies.
func DetectCompiler() CompilerFamily {
	if runtime.GOOS == "windows" && os.Getenv("CC") == "" {
		return CompilerMSVC
	}
	return CompilerDefault
}

// DefaultPython locates the Python interpreter to hand to CMake.
//
// Prefers python3, falls back to python, and returns "python3" verbatim
// when neither is on PATH so the downstream tool produces the error.
func DefaultPython() string {
	for _, name := range []string{"python3", "python"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return "python3"
}
