package pyext

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var nativeModuleExtensions = map[string]struct{}{
	".so":    {},
	".pyd":   {},
	".dylib": {},
}

// moduleGlobPatterns returns the glob patterns matching the compiled
// module files for a logical module name. The patterns cover both plain
// suffixes (_pyapsi.so) and versioned interpreter tags
// (_pyapsi.cpython-310-x86_64-linux-gnu.so).
func moduleGlobPatterns(name string) []string {
	var patterns []string
	for ext := range nativeModuleExtensions {
		patterns = append(patterns, name+"*"+ext)
	}
	sort.Strings(patterns)
	return patterns
}

// finalizeExtensionModules copies compiled native modules into the Python
// package directory and returns the canonical module paths.
//
// When no package directory is configured, the modules stay where CMake
// placed them (the output directory) and their paths are returned as-is.
// Re-finalizing over an existing copy overwrites it.
func finalizeExtensionModules(config *BuildConfig, built []string) ([]string, error) {
	if len(built) == 0 {
		return nil, nil
	}

	if config.PackageDir == "" {
		return built, nil
	}

	var installed []string
	for _, src := range built {
		if !isNativeModule(src) {
			continue
		}

		if info, err := os.Stat(src); err != nil || !info.Mode().IsRegular() {
			continue
		}

		dest := filepath.Join(config.PackageDir, filepath.Base(src))
		if err := copyFile(src, dest); err != nil {
			return nil, err
		}
		installed = append(installed, dest)
	}

	if len(installed) == 0 {
		return built, nil
	}

	return installed, nil
}

func isNativeModule(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := nativeModuleExtensions[ext]
	return ok
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dest, err)
	}

	return out.Close()
}
