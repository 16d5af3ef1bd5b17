package orchestration

import (
	"context"
	"fmt"

	"github.com/imamik/visiondeploy/internal/config"
	"github.com/imamik/visiondeploy/internal/provisioning"
	"github.com/imamik/visiondeploy/internal/provisioning/container"
	"github.com/imamik/visiondeploy/internal/util/naming"
)

// ContainerRequest describes a container deployment.
type ContainerRequest struct {
	ConfigPath string
	// ResourceGroup and Location default to those of the base deployment.
	ResourceGroup string
	Location      string
	BuildContext  string
}

// ContainerResult is the outcome of a successful container deployment.
type ContainerResult struct {
	Names               naming.NameSet
	Image               string
	AppURL              string
	WorkloadPrincipalID string
	Document            config.Document
}

// DeployContainer deploys the analyzer on top of the base deployment
// recorded in the document at req.ConfigPath and records the result there.
func (d *Deployer) DeployContainer(ctx context.Context, req ContainerRequest) (*ContainerResult, error) {
	doc, err := config.Load(req.ConfigPath)
	if err != nil {
		return nil, err
	}
	base, err := container.LoadBase(doc)
	if err != nil {
		return nil, err
	}
	if req.ResourceGroup == "" {
		req.ResourceGroup = base.Info.ResourceGroup
	}
	if req.Location == "" {
		req.Location = base.Info.Location
	}
	if req.Location == "" {
		req.Location = DefaultLocation
	}
	if !base.SuffixMatched {
		provisioning.LogWarning(d.observer, "container", fmt.Sprintf(
			"could not recover the deployment suffix from %q, using new suffix %s", base.Names.Storage, base.Names.Suffix))
	}

	state := provisioning.NewState(base.Names)
	state.VaultURL = base.Info.KeyVaultURL
	if state.VaultURL == "" {
		state.VaultURL = provisioning.VaultURL(base.Names.Vault)
	}

	d.observer.Printf("Deploying container app to %s (%s), suffix %s", req.ResourceGroup, req.Location, base.Names.Suffix)

	pCtx := d.newContext(ctx, doc, req.ResourceGroup, req.Location, state)
	pipeline := provisioning.NewPipeline(
		&container.Prerequisites{Find: d.findTool},
		container.NewProvisioner(req.BuildContext),
	)
	if err := pipeline.Run(pCtx); err != nil {
		return nil, err
	}

	doc = config.Update(doc, config.SectionContainerDeployment, config.ContainerDeployment{
		RegistryName:     base.Names.Registry,
		ContainerAppName: base.Names.App,
		ContainerEnvName: base.Names.Environment,
		AppURL:           state.AppURL,
		DeploymentDate:   config.Timestamp(d.now()),
		ResourceGroup:    req.ResourceGroup,
		Location:         req.Location,
	})
	if err := config.Save(req.ConfigPath, doc); err != nil {
		return nil, err
	}
	d.observer.Status(provisioning.SeveritySuccess, "Deployment recorded in %s", req.ConfigPath)

	return &ContainerResult{
		Names:               base.Names,
		Image:               state.Image,
		AppURL:              state.AppURL,
		WorkloadPrincipalID: state.WorkloadPrincipalID,
		Document:            doc,
	}, nil
}
