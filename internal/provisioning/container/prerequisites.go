package container

import (
	"fmt"
	"strings"

	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
	"github.com/imamik/visiondeploy/internal/provisioning/resources"
	"github.com/imamik/visiondeploy/internal/util/prerequisites"
)

// Prerequisites checks tools, login and the base storage account. It creates
// nothing.
type Prerequisites struct {
	// Find locates binaries. When nil the PATH is searched and tool
	// versions are reported.
	Find prerequisites.Finder
}

// Name implements the provisioning.Phase interface.
func (p *Prerequisites) Name() string {
	return "prerequisites"
}

// Provision implements the provisioning.Phase interface.
func (p *Prerequisites) Provision(ctx *provisioning.Context) error {
	var results *prerequisites.CheckResults
	if p.Find == nil {
		results = prerequisites.CheckForContainer()
	} else {
		results = prerequisites.CheckWith(prerequisites.ContainerDeploymentTools(), p.Find)
	}
	if err := resources.ReportTools(ctx, p.Name(), results); err != nil {
		return err
	}

	if _, err := ctx.Run(azure.CLIVersion(), azure.RunOptions{CaptureJSON: true}); err != nil {
		return &provisioning.PrerequisiteError{Check: "az", Hint: "reinstall the Azure CLI", Err: err}
	}
	res, err := ctx.Run(azure.DockerVersion(), azure.RunOptions{})
	if err != nil {
		return &provisioning.PrerequisiteError{Check: "docker", Hint: "make sure the docker daemon is running", Err: err}
	}
	ctx.Observer.Printf("[prerequisites] %s", firstLine(res.Text()))

	if _, err := ctx.Run(azure.AccountShow(), azure.RunOptions{CaptureJSON: true}); err != nil {
		return &provisioning.PrerequisiteError{Check: "az login", Hint: "run 'az login' first", Err: err}
	}

	storage := ctx.State.Names.Storage
	if _, err := ctx.Run(azure.StorageAccountShow(storage, ctx.ResourceGroup), azure.RunOptions{CaptureJSON: true}); err != nil {
		return &provisioning.PrerequisiteError{
			Check: "base resources",
			Hint:  "run 'visiondeploy deploy-resources' first",
			Err:   fmt.Errorf("storage account %s not found in %s: %w", storage, ctx.ResourceGroup, err),
		}
	}

	ctx.Observer.Status(provisioning.SeveritySuccess, "All prerequisites met")
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
