package destroy

import (
	"fmt"

	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
)

// Provisioner handles deployment destruction.
type Provisioner struct{}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "Destroy"
}

// Provision deletes the context's resource group and everything in it.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	group := ctx.ResourceGroup
	if group == "" {
		return fmt.Errorf("no resource group given")
	}
	ctx.Observer.Printf("[Destroy] Starting destruction of resource group: %s", group)

	if _, err := ctx.Run(azure.GroupShow(group), azure.RunOptions{CaptureJSON: true}); err != nil {
		if azure.IsNotFound(err) {
			ctx.Observer.Printf("[Destroy] Resource group %s does not exist, nothing to do", group)
			return nil
		}
		return fmt.Errorf("failed to look up resource group %s: %w", group, err)
	}

	provisioning.LogResourceDeleting(ctx.Observer, "destroy", "resource group", group)
	if _, err := ctx.Run(azure.GroupDelete(group), azure.RunOptions{}); err != nil {
		return fmt.Errorf("failed to delete resource group %s: %w", group, err)
	}

	ctx.Observer.Printf("[Destroy] Deletion of %s requested, it completes in the background", group)
	return nil
}

// CleanupHint is the command an operator can run to remove a partial
// deployment by hand.
func CleanupHint(group string) string {
	return fmt.Sprintf("az group delete --name %s --yes --no-wait", group)
}
