package resources

import (
	"github.com/imamik/visiondeploy/internal/provisioning"
	"github.com/imamik/visiondeploy/internal/util/prerequisites"
)

// ToolCheck verifies that the Azure CLI is installed before anything is
// sent to Azure.
type ToolCheck struct {
	// Find locates binaries. When nil the PATH is searched and tool
	// versions are reported.
	Find prerequisites.Finder
}

// NewToolCheck creates a tool check phase using find, or the PATH when nil.
func NewToolCheck(find prerequisites.Finder) *ToolCheck {
	return &ToolCheck{Find: find}
}

// Name implements the provisioning.Phase interface.
func (c *ToolCheck) Name() string {
	return "tools"
}

// Provision implements the provisioning.Phase interface.
func (c *ToolCheck) Provision(ctx *provisioning.Context) error {
	var results *prerequisites.CheckResults
	if c.Find == nil {
		results = prerequisites.CheckDefault()
	} else {
		results = prerequisites.CheckWith(prerequisites.DefaultTools(), c.Find)
	}
	return ReportTools(ctx, c.Name(), results)
}

// ReportTools logs every found tool and returns a PrerequisiteError when a
// required one is missing.
func ReportTools(ctx *provisioning.Context, phase string, results *prerequisites.CheckResults) error {
	for _, r := range results.Results {
		if !r.Found {
			continue
		}
		if r.Version != "" {
			ctx.Observer.Printf("[%s] %s found at %s (%s)", phase, r.Tool.Name, r.Path, r.Version)
		} else {
			ctx.Observer.Printf("[%s] %s found at %s", phase, r.Tool.Name, r.Path)
		}
	}
	if err := results.Error(); err != nil {
		return &provisioning.PrerequisiteError{Check: "tools", Hint: "install the missing tools and retry", Err: err}
	}
	return nil
}
