package resources

import (
	"fmt"

	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
)

const phase = "resources"

// Provisioner creates the group, storage account and vision service.
type Provisioner struct{}

// NewProvisioner creates a new resource provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	names := ctx.State.Names

	// 1. Resource group
	if err := CreateGroup(ctx, ctx.ResourceGroup, ctx.Location); err != nil {
		return err
	}
	if err := ctx.State.Advance(provisioning.StageGroupReady); err != nil {
		return err
	}

	// 2. Storage
	connStr, err := CreateStorage(ctx, names.Storage)
	if err != nil {
		return err
	}
	ctx.State.StorageConnectionString = connStr
	if err := ctx.State.Advance(provisioning.StageStorageReady); err != nil {
		return err
	}

	// 3. Vision
	vision, err := CreateVisionService(ctx, names.Vision)
	if err != nil {
		return err
	}
	ctx.State.VisionEndpoint = vision.Endpoint
	ctx.State.VisionKey = vision.Key
	return ctx.State.Advance(provisioning.StageVisionReady)
}

// CreateGroup creates the resource group or reuses an existing one.
func CreateGroup(ctx *provisioning.Context, name, location string) error {
	provisioning.LogResourceCreating(ctx.Observer, phase, "resource group", name)
	if _, err := ctx.Run(azure.GroupCreate(name, location), azure.RunOptions{CaptureJSON: true}); err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "resource group", name, err)
		if azure.IsAuthorizationFailure(err) {
			return fmt.Errorf("not authorized to create resource group %s: %w", name, err)
		}
		return fmt.Errorf("failed to create resource group %s: %w", name, err)
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, "resource group", name)
	return nil
}
