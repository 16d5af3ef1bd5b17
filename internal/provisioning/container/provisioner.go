package container

import (
	"fmt"

	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
	"github.com/imamik/visiondeploy/internal/provisioning/vault"
)

const phase = "container"

// Image repository and tag pushed to the registry.
const (
	ImageRepository = "azure-ai-image-analyzer"
	ImageTag        = "latest"
)

// App sizing.
const (
	AppCPU         = "1.0"
	AppMemory      = "2.0Gi"
	AppMinReplicas = "0"
	AppMaxReplicas = "3"
	AppTargetPort  = "8000"
)

// Provisioner creates the registry, image, log workspace, environment and
// app, then grants the app's identity read access to the vault.
type Provisioner struct {
	// BuildContext is the docker build context directory.
	BuildContext string
}

// NewProvisioner creates a container provisioner building from dir.
func NewProvisioner(dir string) *Provisioner {
	if dir == "" {
		dir = "."
	}
	return &Provisioner{BuildContext: dir}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	// 1. Registry
	if err := p.CreateRegistry(ctx); err != nil {
		return err
	}

	// 2. Image
	if err := p.BuildAndPush(ctx); err != nil {
		return err
	}

	// 3. Logs and environment
	if err := p.CreateWorkspace(ctx); err != nil {
		return err
	}
	if err := p.CreateEnvironment(ctx); err != nil {
		return err
	}

	// 4. App
	if err := p.CreateApp(ctx); err != nil {
		return err
	}

	// 5. Workload identity
	return p.AssignIdentity(ctx)
}

// CreateRegistry creates the registry and records its login server.
func (p *Provisioner) CreateRegistry(ctx *provisioning.Context) error {
	name := ctx.State.Names.Registry
	provisioning.LogResourceCreating(ctx.Observer, phase, "container registry", name)
	if _, err := ctx.Run(azure.RegistryCreate(name, ctx.ResourceGroup, ctx.Location), azure.RunOptions{CaptureJSON: true}); err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "container registry", name, err)
		return fmt.Errorf("failed to create container registry %s: %w", name, err)
	}
	server, err := ctx.Query(azure.RegistryLoginServer(name, ctx.ResourceGroup))
	if err != nil {
		return fmt.Errorf("failed to read login server of %s: %w", name, err)
	}
	ctx.State.LoginServer = server
	provisioning.LogResourceCreated(ctx.Observer, phase, "container registry", server)
	return nil
}

// BuildAndPush logs in to the registry, builds the image and pushes it.
func (p *Provisioner) BuildAndPush(ctx *provisioning.Context) error {
	image := fmt.Sprintf("%s/%s:%s", ctx.State.LoginServer, ImageRepository, ImageTag)

	if _, err := ctx.Run(azure.RegistryLogin(ctx.State.Names.Registry), azure.RunOptions{}); err != nil {
		return fmt.Errorf("failed to log in to registry %s: %w", ctx.State.Names.Registry, err)
	}

	ctx.Observer.Printf("[%s] Building image %s...", phase, image)
	if _, err := ctx.Run(azure.ImageBuild(image, p.BuildContext), azure.RunOptions{Stream: true}); err != nil {
		return fmt.Errorf("failed to build image %s: %w", image, err)
	}

	ctx.Observer.Printf("[%s] Pushing image %s...", phase, image)
	if _, err := ctx.Run(azure.ImagePush(image), azure.RunOptions{Stream: true}); err != nil {
		return fmt.Errorf("failed to push image %s: %w", image, err)
	}

	ctx.State.Image = image
	ctx.Observer.Status(provisioning.SeveritySuccess, "Image pushed: %s", image)
	return nil
}

// CreateWorkspace creates the log workspace and reads its id and key.
func (p *Provisioner) CreateWorkspace(ctx *provisioning.Context) error {
	name := ctx.State.Names.Logs
	provisioning.LogResourceCreating(ctx.Observer, phase, "log workspace", name)
	if _, err := ctx.Run(azure.WorkspaceCreate(name, ctx.ResourceGroup, ctx.Location), azure.RunOptions{CaptureJSON: true}); err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "log workspace", name, err)
		return fmt.Errorf("failed to create log workspace %s: %w", name, err)
	}

	id, err := ctx.Query(azure.WorkspaceCustomerID(name, ctx.ResourceGroup))
	if err != nil {
		return fmt.Errorf("failed to read customer id of %s: %w", name, err)
	}
	key, err := ctx.Query(azure.WorkspaceSharedKey(name, ctx.ResourceGroup))
	if err != nil {
		return fmt.Errorf("failed to read shared key of %s: %w", name, err)
	}
	ctx.State.WorkspaceID = id
	ctx.State.WorkspaceKey = key
	provisioning.LogResourceCreated(ctx.Observer, phase, "log workspace", name)
	return nil
}

// CreateEnvironment creates the container app environment.
func (p *Provisioner) CreateEnvironment(ctx *provisioning.Context) error {
	name := ctx.State.Names.Environment
	provisioning.LogResourceCreating(ctx.Observer, phase, "app environment", name)
	op := azure.EnvironmentCreate(name, ctx.ResourceGroup, ctx.Location, ctx.State.WorkspaceID, ctx.State.WorkspaceKey)
	if _, err := ctx.Run(op, azure.RunOptions{CaptureJSON: true}); err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "app environment", name, err)
		return fmt.Errorf("failed to create app environment %s: %w", name, err)
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, "app environment", name)
	return nil
}

type registryCredentials struct {
	Username  string `json:"username"`
	Passwords []struct {
		Value string `json:"value"`
	} `json:"passwords"`
}

// CreateApp creates the container app and records its URL.
func (p *Provisioner) CreateApp(ctx *provisioning.Context) error {
	registry := ctx.State.Names.Registry
	res, err := ctx.Run(azure.RegistryCredentials(registry), azure.RunOptions{CaptureJSON: true})
	if err != nil {
		return fmt.Errorf("failed to read credentials of registry %s: %w", registry, err)
	}
	var creds registryCredentials
	if err := res.Decode(&creds); err != nil {
		return fmt.Errorf("failed to parse credentials of registry %s: %w", registry, err)
	}
	if creds.Username == "" || len(creds.Passwords) == 0 {
		return fmt.Errorf("registry %s returned no admin credentials", registry)
	}

	name := ctx.State.Names.App
	spec := azure.AppSpec{
		Name:             name,
		ResourceGroup:    ctx.ResourceGroup,
		Environment:      ctx.State.Names.Environment,
		Image:            ctx.State.Image,
		RegistryServer:   ctx.State.LoginServer,
		RegistryUser:     creds.Username,
		RegistryPassword: creds.Passwords[0].Value,
		Env: map[string]string{
			"CREDENTIAL_METHOD": "keyvault",
			"KEY_VAULT_URL":     ctx.State.VaultURL,
		},
		CPU:         AppCPU,
		Memory:      AppMemory,
		MinReplicas: AppMinReplicas,
		MaxReplicas: AppMaxReplicas,
		TargetPort:  AppTargetPort,
	}

	provisioning.LogResourceCreating(ctx.Observer, phase, "container app", name)
	if _, err := ctx.Run(azure.AppCreate(spec), azure.RunOptions{CaptureJSON: true}); err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "container app", name, err)
		return fmt.Errorf("failed to create container app %s: %w", name, err)
	}

	fqdn, err := ctx.Query(azure.AppFQDN(name, ctx.ResourceGroup))
	if err != nil {
		return fmt.Errorf("failed to read address of %s: %w", name, err)
	}
	ctx.State.AppURL = "https://" + fqdn
	provisioning.LogResourceCreated(ctx.Observer, phase, "container app", ctx.State.AppURL)
	return nil
}

// AssignIdentity enables the app's system-assigned identity and lets it read
// vault secrets.
func (p *Provisioner) AssignIdentity(ctx *provisioning.Context) error {
	name := ctx.State.Names.App
	res, err := ctx.Run(azure.AppIdentityAssign(name, ctx.ResourceGroup), azure.RunOptions{CaptureJSON: true})
	if err != nil {
		return fmt.Errorf("failed to assign identity to %s: %w", name, err)
	}
	principal := res.Field("principalId")
	if principal == "" {
		return fmt.Errorf("identity assignment for %s returned no principal id", name)
	}
	ctx.State.WorkloadPrincipalID = principal

	if err := vault.GrantSecretsUser(ctx, ctx.State.Names.Vault, principal); err != nil {
		return err
	}
	ctx.Observer.Status(provisioning.SeveritySuccess, "Managed identity can read secrets from %s", ctx.State.Names.Vault)
	return nil
}
