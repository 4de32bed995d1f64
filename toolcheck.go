package pyext

import (
	"fmt"
	"os/exec"
	"strings"
)

// ToolChecker is an optional interface for builders that require external tools.
//
// Builders can implement this interface to declare their tool dependencies
// and verify that required tools are available before attempting to build.
//
// This is an opt-in interface - builders that don't implement it work
// exactly as before.
//
// # Consumer Usage
//
// Check tools before building:
//
//	if checker, ok := builder.(ToolChecker); ok {
//	    if err := checker.CheckTools(); err != nil {
//	        return fmt.Errorf("build tools missing: %w", err)
//	    }
//	}
type ToolChecker interface {
	// RequiredTools returns the list of tools this builder needs.
	RequiredTools() []ToolRequirement

	// CheckTools verifies that all required tools are available.
	//
	// Returns nil if all required tools are found, or an error describing
	// which tools are missing. Optional tools don't cause errors if missing.
	CheckTools() error
}

// ToolRequirement describes a build tool dependency.
//
// This structure allows builders to declare:
//   - Required tools (must be available)
//   - Optional tools (nice to have, but not required)
//   - Alternative tools (any one of several tools can satisfy the requirement)
type ToolRequirement struct {
	// Name is the primary tool binary name (e.g., "cmake", "ninja").
	Name string

	// Alternatives are alternative tool names that can satisfy this
	// requirement. If any tool in Alternatives is found, the requirement
	// is satisfied. Example: []string{"python3", "python"}
	Alternatives []string

	// Optional indicates this tool is optional and won't cause an error
	// if missing. Missing the fast generator only means a slower build.
	Optional bool

	// Purpose is a human-readable description of why this tool is needed.
	Purpose string
}

// CheckToolAvailable checks if a tool is available in the system PATH.
func CheckToolAvailable(tool string) error {
	_, err := exec.LookPath(tool)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// CheckRequiredTools verifies all required tools are available.
//
// The primary tool name is checked first, then each alternative in
// order. Optional tools never cause an error. All missing required
// tools are reported in a single error.
func CheckRequiredTools(requirements []ToolRequirement) error {
	var missingTools []string

	for _, req := range requirements {
		found := CheckToolAvailable(req.Name) == nil

		if !found && len(req.Alternatives) > 0 {
			for _, alt := range req.Alternatives {
				if CheckToolAvailable(alt) == nil {
					found = true
					break
				}
			}
		}

		if !found && !req.Optional {
			if req.Purpose != "" {
				missingTools = append(missingTools, fmt.Sprintf("%s (%s)", req.Name, req.Purpose))
			} else {
				missingTools = append(missingTools, req.Name)
			}
		}
	}

	if len(missingTools) == 0 {
		return nil
	}

	if len(missingTools) == 1 {
		return fmt.Errorf("%s not found in PATH", missingTools[0])
	}

	return fmt.Errorf("missing required tools: %s", strings.Join(missingTools, ", "))
}
