package pyext

import (
	"fmt"
	"os/exec"
)

// ninjaGenerator is the fast generator preferred over the platform
// default when it is available.
const ninjaGenerator = "Ninja"

// findNinja locates the ninja executable on PATH.
//
// Returns the resolved path and true when found. Absence is not an
// error: the caller falls back to CMake's own generator selection.
func findNinja() (string, bool) {
	path, err := exec.LookPath("ninja")
	if err != nil {
		return "", false
	}
	return path, true
}

// GeneratorPlatform is the architecture identifier handed to Visual
// Studio generators via CMake's -A option.
type GeneratorPlatform int

// Supported Visual Studio generator platforms.
const (
	PlatformWin32 GeneratorPlatform = iota
	PlatformX64
	PlatformARM
	PlatformARM64
)

// String returns the identifier CMake expects for -A.
func (p GeneratorPlatform) String() string {
	switch p {
	case PlatformWin32:
		return "Win32"
	case PlatformX64:
		return "x64"
	case PlatformARM:
		return "ARM"
	case PlatformARM64:
		return "ARM64"
	}
	return "unknown"
}

// generatorPlatformFor maps a Go architecture identifier onto the
// Visual Studio generator platform for that architecture.
func generatorPlatformFor(goarch string) (GeneratorPlatform, error) {
	switch goarch {
	case "386":
		return PlatformWin32, nil
	case "amd64":
		return PlatformX64, nil
	case "arm":
		return PlatformARM, nil
	case "arm64":
		return PlatformARM64, nil
	}
	return 0, fmt.Errorf("no Visual Studio generator platform for architecture %q", goarch)
}
