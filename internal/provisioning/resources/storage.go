package resources

import (
	"fmt"

	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
)

// CreateStorage creates the storage account and the input and results
// containers named in the deployment document, and returns the account's
// connection string. Containers are created without checking whether they
// already exist.
func CreateStorage(ctx *provisioning.Context, name string) (string, error) {
	containers, err := ctx.Document.Containers()
	if err != nil {
		return "", fmt.Errorf("failed to read container names: %w", err)
	}

	provisioning.LogResourceCreating(ctx.Observer, phase, "storage account", name)
	if _, err := ctx.Run(azure.StorageAccountCreate(name, ctx.ResourceGroup, ctx.Location), azure.RunOptions{CaptureJSON: true}); err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "storage account", name, err)
		return "", fmt.Errorf("failed to create storage account %s: %w", name, err)
	}

	connStr, err := ctx.Query(azure.StorageConnectionString(name, ctx.ResourceGroup))
	if err != nil {
		return "", fmt.Errorf("failed to read connection string of %s: %w", name, err)
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, "storage account", name)

	for _, container := range []string{containers.InputContainer, containers.ResultsContainer} {
		if _, err := ctx.Run(azure.StorageContainerCreate(container, connStr), azure.RunOptions{CaptureJSON: true}); err != nil {
			return "", fmt.Errorf("failed to create container %s: %w", container, err)
		}
		provisioning.LogResourceCreated(ctx.Observer, phase, "blob container", container)
	}

	return connStr, nil
}
