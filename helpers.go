package pyext

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// MatchesPattern checks if a filename matches any of the given regex patterns.
//
// This is a helper for builder implementations to determine if they can
// handle a given build description file based on filename patterns.
// Invalid patterns are silently skipped.
//
// Example:
//
//	if MatchesPattern(filename, `CMakeLists\.txt$`) {
//	    // Handle CMake projects
//	}
func MatchesPattern(filename string, patterns ...string) bool {
	for _, pattern := range patterns {
		if matched, _ := regexp.MatchString(pattern, filename); matched {
			return true
		}
	}
	return false
}

// MatchesExtension checks if a filename has any of the given extensions.
//
// This is a case-insensitive check, useful for recognizing compiled
// extension modules (.so, .pyd, .dylib). Extensions may be given with
// or without the leading dot.
func MatchesExtension(filename string, extensions ...string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// EnsureTrailingSeparator normalizes a path to end with exactly one
// path separator.
//
// CMake treats CMAKE_LIBRARY_OUTPUT_DIRECTORY as a literal filename
// prefix unless it ends with a separator, so the normalization must be
// idempotent for inputs with or without a trailing separator.
func EnsureTrailingSeparator(path string) string {
	sep := string(os.PathSeparator)
	return strings.TrimRight(path, sep) + sep
}

// BuildError creates a standardized build error with output context.
//
// This helper formats build errors consistently across all builders,
// surfacing the captured tool output for post-mortem inspection.
//
// Format with error and output:
//
//	CMake build failed: exit status 1
//
//	Build output:
//	-- Configuring incomplete, errors occurred!
func BuildError(builder string, output []string, err error) error {
	outputStr := strings.Join(output, "\n")

	var prefix string
	if err != nil {
		prefix = fmt.Sprintf("%s build failed: %v", builder, err)
	} else {
		prefix = fmt.Sprintf("%s build failed", builder)
	}

	if outputStr != "" {
		return fmt.Errorf("%s\n\nBuild output:\n%s", prefix, outputStr)
	}

	return fmt.Errorf("%s", prefix)
}
