// Package prerequisites provides utilities for checking required client tools.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string
}

// DefaultTools returns the tools every deployment needs.
func DefaultTools() []Tool {
	return []Tool{
		{
			Name:        "az",
			Required:    true,
			Description: "Required for creating and querying cloud resources",
			InstallURL:  "https://learn.microsoft.com/cli/azure/install-azure-cli",
		},
	}
}

// ContainerTools returns additional tools needed to build and push the
// application image.
func ContainerTools() []Tool {
	return []Tool{
		{
			Name:        "docker",
			Required:    true,
			Description: "Required for building and pushing the application image",
			InstallURL:  "https://docs.docker.com/get-docker/",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Finder resolves a binary name to its path.
type Finder func(name string) (string, error)

// Check verifies that the specified tools are available and records their
// versions.
func Check(tools []Tool) *CheckResults {
	return check(tools, exec.LookPath, getToolVersion)
}

// CheckWith verifies tools using find instead of the PATH. Versions are not
// collected.
func CheckWith(tools []Tool, find Finder) *CheckResults {
	return check(tools, find, nil)
}

func check(tools []Tool, find Finder, version func(string) string) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := find(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			if version != nil {
				// Best effort
				result.Version = version(tool.Name)
			}
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckDefault checks the default required tools.
func CheckDefault() *CheckResults {
	return Check(DefaultTools())
}

// CheckForContainer checks the tools needed for a container deployment.
func CheckForContainer() *CheckResults {
	return Check(ContainerDeploymentTools())
}

// ContainerDeploymentTools returns the default tools plus the container tools.
func ContainerDeploymentTools() []Tool {
	defaults := DefaultTools()
	container := ContainerTools()
	all := make([]Tool, 0, len(defaults)+len(container))
	all = append(all, defaults...)
	all = append(all, container...)
	return all
}

// getToolVersion attempts to get the version of a tool.
// Returns empty string if version cannot be determined.
func getToolVersion(name string) string {
	// Common version flags to try
	versionFlags := []string{"--version", "version"}

	for _, flag := range versionFlags {
		// #nosec G204 - name comes from trusted Tool definitions, not user input
		cmd := exec.Command(name, flag)
		output, err := cmd.Output()
		if err == nil {
			// Return first line of output, trimmed
			lines := strings.Split(string(output), "\n")
			if len(lines) > 0 {
				return strings.TrimSpace(lines[0])
			}
		}
	}

	return ""
}
