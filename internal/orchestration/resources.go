package orchestration

import (
	"context"
	"fmt"

	"github.com/imamik/visiondeploy/internal/config"
	"github.com/imamik/visiondeploy/internal/provisioning"
	"github.com/imamik/visiondeploy/internal/provisioning/resources"
	"github.com/imamik/visiondeploy/internal/provisioning/vault"
	"github.com/imamik/visiondeploy/internal/secrets"
	"github.com/imamik/visiondeploy/internal/util/naming"
)

// DefaultLocation is used when no location is given.
const DefaultLocation = "eastus"

// ResourcesRequest describes a base-resource deployment.
type ResourcesRequest struct {
	ConfigPath    string
	ResourceGroup string
	Location      string
	// CredsFile receives the local credentials; empty skips writing it.
	CredsFile string
	// ImagesDir holds sample images to upload; empty skips the upload.
	ImagesDir string
	// SealTo lists age recipients. When set the credentials file is sealed
	// and written with a .age extension.
	SealTo []string
}

// ResourcesResult is the outcome of a successful base-resource deployment.
type ResourcesResult struct {
	Names     naming.NameSet
	VaultURL  string
	Secrets   secrets.Bundle
	CredsPath string
	Upload    *resources.UploadReport
	Document  config.Document
}

// DeployResources creates the base resources, stores their secrets and
// records the deployment in the document at req.ConfigPath. On failure the
// result is nil; resources created before the failure are left in place.
func (d *Deployer) DeployResources(ctx context.Context, req ResourcesRequest) (*ResourcesResult, error) {
	if req.Location == "" {
		req.Location = DefaultLocation
	}

	doc, err := config.Load(req.ConfigPath)
	if err != nil {
		return nil, err
	}
	convention, err := doc.NamingConvention()
	if err != nil {
		return nil, err
	}
	names, err := naming.GenerateNames(convention, naming.GenerateSuffix(naming.DefaultSuffixLength))
	if err != nil {
		return nil, fmt.Errorf("failed to generate resource names: %w", err)
	}

	d.observer.Printf("Deploying base resources to %s (%s), suffix %s", req.ResourceGroup, req.Location, names.Suffix)

	pCtx := d.newContext(ctx, doc, req.ResourceGroup, req.Location, provisioning.NewState(names))
	pipeline := provisioning.NewPipeline(
		provisioning.NewValidationPhase(),
		resources.NewToolCheck(d.findTool),
		resources.NewLoginCheck(),
		resources.NewProvisioner(),
		vault.Phase(),
	)
	if err := pipeline.Run(pCtx); err != nil {
		return nil, err
	}
	if err := pCtx.State.Advance(provisioning.StageDone); err != nil {
		return nil, err
	}

	state := pCtx.State
	bundle := secrets.NewBundle(state.StorageConnectionString, state.VisionEndpoint, state.VisionKey)
	result := &ResourcesResult{Names: names, VaultURL: state.VaultURL, Secrets: bundle}

	// Recorded before the local follow-up steps so deploy-container can
	// build on the resources even if those steps fail.
	doc = config.Update(doc, config.SectionDeploymentInfo, config.DeploymentInfo{
		ResourceGroup:  req.ResourceGroup,
		Location:       req.Location,
		KeyVaultURL:    state.VaultURL,
		ResourceNames:  names.BaseNames(),
		DeploymentDate: config.Timestamp(d.now()),
	})
	if err := config.Save(req.ConfigPath, doc); err != nil {
		return nil, err
	}
	result.Document = doc
	d.observer.Status(provisioning.SeveritySuccess, "Deployment recorded in %s", req.ConfigPath)

	if req.CredsFile != "" {
		path, err := writeCredentials(req.CredsFile, bundle, req.SealTo)
		if err != nil {
			return nil, fmt.Errorf("deployment recorded in %s, but writing credentials failed: %w", req.ConfigPath, err)
		}
		result.CredsPath = path
		d.observer.Status(provisioning.SeveritySuccess, "Credentials written to %s", path)
	}

	if req.ImagesDir != "" {
		containers, err := doc.Containers()
		if err != nil {
			return nil, err
		}
		report, err := resources.UploadImages(pCtx, req.ImagesDir, containers.InputContainer, state.StorageConnectionString)
		if err != nil {
			provisioning.LogWarning(d.observer, "upload", err.Error())
		}
		result.Upload = report
	}

	return result, nil
}

func writeCredentials(path string, bundle secrets.Bundle, sealTo []string) (string, error) {
	if len(sealTo) > 0 {
		path += secrets.SealedExt
		if err := secrets.WriteSealedFile(path, bundle, sealTo); err != nil {
			return "", err
		}
		return path, nil
	}
	if err := secrets.WriteFile(path, bundle); err != nil {
		return "", err
	}
	return path, nil
}
