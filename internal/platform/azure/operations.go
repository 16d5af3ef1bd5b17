package azure

import (
	"sort"
	"strings"
)

// OperationID identifies a management-plane operation.
type OperationID string

const (
	OpCLIVersion    OperationID = "cli.version"
	OpDockerVersion OperationID = "docker.version"

	OpAccountShow       OperationID = "account.show"
	OpSubscriptionID    OperationID = "account.subscription-id"
	OpSignedInUserShow  OperationID = "ad.signed-in-user.show"
	OpSignedInUserID    OperationID = "ad.signed-in-user.id"
	OpSignedInUserUPN   OperationID = "ad.signed-in-user.upn"
	OpGroupCreate       OperationID = "group.create"
	OpGroupShow         OperationID = "group.show"
	OpGroupDelete       OperationID = "group.delete"
	OpRoleAssignCreate  OperationID = "role.assignment.create"
	OpStorageCreate     OperationID = "storage.account.create"
	OpStorageShow       OperationID = "storage.account.show"
	OpStorageConnString OperationID = "storage.account.connection-string"
	OpContainerCreate   OperationID = "storage.container.create"
	OpBlobUpload        OperationID = "storage.blob.upload"
	OpVisionCreate      OperationID = "cognitiveservices.account.create"
	OpVisionEndpoint    OperationID = "cognitiveservices.account.endpoint"
	OpVisionKey         OperationID = "cognitiveservices.account.key"
	OpVaultCreate       OperationID = "keyvault.create"
	OpVaultShow         OperationID = "keyvault.show"
	OpVaultSetPolicy    OperationID = "keyvault.set-policy"
	OpSecretSet         OperationID = "keyvault.secret.set"
	OpSecretList        OperationID = "keyvault.secret.list"
	OpRegistryCreate    OperationID = "acr.create"
	OpRegistryServer    OperationID = "acr.login-server"
	OpRegistryLogin     OperationID = "acr.login"
	OpRegistryCreds     OperationID = "acr.credential.show"
	OpImageBuild        OperationID = "docker.build"
	OpImagePush         OperationID = "docker.push"
	OpWorkspaceCreate   OperationID = "log-analytics.workspace.create"
	OpWorkspaceID       OperationID = "log-analytics.workspace.customer-id"
	OpWorkspaceKey      OperationID = "log-analytics.workspace.shared-key"
	OpEnvironmentCreate OperationID = "containerapp.env.create"
	OpAppCreate         OperationID = "containerapp.create"
	OpAppFQDN           OperationID = "containerapp.fqdn"
	OpAppIdentityAssign OperationID = "containerapp.identity.assign"
)

// Parameter names shared by several operations.
const (
	ParamName          = "name"
	ParamResourceGroup = "resource_group"
	ParamLocation      = "location"
)

// envParamPrefix marks container app environment variables in Params.
const envParamPrefix = "env."

// Operation is a single management-plane request.
type Operation struct {
	ID     OperationID
	Params map[string]string
}

// Param returns the named parameter, or "" if unset.
func (o Operation) Param(key string) string {
	return o.Params[key]
}

// EnvVars returns the container environment variables carried by the
// operation as sorted NAME=value pairs.
func (o Operation) EnvVars() []string {
	var out []string
	for k, v := range o.Params {
		if name, ok := strings.CutPrefix(k, envParamPrefix); ok {
			out = append(out, name+"="+v)
		}
	}
	sort.Strings(out)
	return out
}

func newOp(id OperationID, kv ...string) Operation {
	params := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		params[kv[i]] = kv[i+1]
	}
	return Operation{ID: id, Params: params}
}

func CLIVersion() Operation    { return newOp(OpCLIVersion) }
func DockerVersion() Operation { return newOp(OpDockerVersion) }
func AccountShow() Operation   { return newOp(OpAccountShow) }

func SubscriptionID() Operation   { return newOp(OpSubscriptionID) }
func SignedInUserShow() Operation { return newOp(OpSignedInUserShow) }
func SignedInUserID() Operation   { return newOp(OpSignedInUserID) }
func SignedInUserUPN() Operation  { return newOp(OpSignedInUserUPN) }

func GroupCreate(name, location string) Operation {
	return newOp(OpGroupCreate, ParamName, name, ParamLocation, location)
}

func GroupShow(name string) Operation {
	return newOp(OpGroupShow, ParamName, name)
}

// GroupDelete deletes a resource group without waiting for completion.
func GroupDelete(name string) Operation {
	return newOp(OpGroupDelete, ParamName, name)
}

// RoleAssignmentCreate grants role on scope to the principal object id.
func RoleAssignmentCreate(assignee, role, scope string) Operation {
	return newOp(OpRoleAssignCreate, "assignee", assignee, "role", role, "scope", scope)
}

func StorageAccountCreate(name, group, location string) Operation {
	return newOp(OpStorageCreate, ParamName, name, ParamResourceGroup, group, ParamLocation, location)
}

func StorageAccountShow(name, group string) Operation {
	return newOp(OpStorageShow, ParamName, name, ParamResourceGroup, group)
}

func StorageConnectionString(name, group string) Operation {
	return newOp(OpStorageConnString, ParamName, name, ParamResourceGroup, group)
}

func StorageContainerCreate(name, connectionString string) Operation {
	return newOp(OpContainerCreate, ParamName, name, "connection_string", connectionString)
}

// BlobUpload uploads file as blob into container, overwriting an existing blob.
func BlobUpload(container, file, blob, connectionString string) Operation {
	return newOp(OpBlobUpload, "container", container, "file", file, ParamName, blob, "connection_string", connectionString)
}

func VisionCreate(name, group, location string) Operation {
	return newOp(OpVisionCreate, ParamName, name, ParamResourceGroup, group, ParamLocation, location)
}

func VisionEndpoint(name, group string) Operation {
	return newOp(OpVisionEndpoint, ParamName, name, ParamResourceGroup, group)
}

func VisionKey(name, group string) Operation {
	return newOp(OpVisionKey, ParamName, name, ParamResourceGroup, group)
}

// VaultCreate creates a key vault with RBAC authorization enabled.
func VaultCreate(name, group, location string) Operation {
	return newOp(OpVaultCreate, ParamName, name, ParamResourceGroup, group, ParamLocation, location)
}

func VaultShow(name, group string) Operation {
	return newOp(OpVaultShow, ParamName, name, ParamResourceGroup, group)
}

// VaultSetPolicy grants get, list, set and delete on secrets to the user
// principal name.
func VaultSetPolicy(name, upn string) Operation {
	return newOp(OpVaultSetPolicy, ParamName, name, "upn", upn)
}

func SecretSet(vault, name, value string) Operation {
	return newOp(OpSecretSet, "vault", vault, ParamName, name, "value", value)
}

func SecretList(vault string) Operation {
	return newOp(OpSecretList, "vault", vault)
}

func RegistryCreate(name, group, location string) Operation {
	return newOp(OpRegistryCreate, ParamName, name, ParamResourceGroup, group, ParamLocation, location)
}

func RegistryLoginServer(name, group string) Operation {
	return newOp(OpRegistryServer, ParamName, name, ParamResourceGroup, group)
}

func RegistryLogin(name string) Operation {
	return newOp(OpRegistryLogin, ParamName, name)
}

func RegistryCredentials(name string) Operation {
	return newOp(OpRegistryCreds, ParamName, name)
}

// ImageBuild builds image from the Dockerfile in contextDir.
func ImageBuild(image, contextDir string) Operation {
	return newOp(OpImageBuild, "image", image, "context", contextDir)
}

func ImagePush(image string) Operation {
	return newOp(OpImagePush, "image", image)
}

func WorkspaceCreate(name, group, location string) Operation {
	return newOp(OpWorkspaceCreate, ParamName, name, ParamResourceGroup, group, ParamLocation, location)
}

func WorkspaceCustomerID(name, group string) Operation {
	return newOp(OpWorkspaceID, ParamName, name, ParamResourceGroup, group)
}

func WorkspaceSharedKey(name, group string) Operation {
	return newOp(OpWorkspaceKey, ParamName, name, ParamResourceGroup, group)
}

func EnvironmentCreate(name, group, location, workspaceID, workspaceKey string) Operation {
	return newOp(OpEnvironmentCreate,
		ParamName, name, ParamResourceGroup, group, ParamLocation, location,
		"workspace_id", workspaceID, "workspace_key", workspaceKey)
}

// AppSpec describes the container app to create.
type AppSpec struct {
	Name             string
	ResourceGroup    string
	Environment      string
	Image            string
	RegistryServer   string
	RegistryUser     string
	RegistryPassword string
	Env              map[string]string
	CPU              string
	Memory           string
	MinReplicas      string
	MaxReplicas      string
	TargetPort       string
}

// AppCreate creates a container app with external ingress.
func AppCreate(spec AppSpec) Operation {
	op := newOp(OpAppCreate,
		ParamName, spec.Name,
		ParamResourceGroup, spec.ResourceGroup,
		"environment", spec.Environment,
		"image", spec.Image,
		"registry_server", spec.RegistryServer,
		"registry_username", spec.RegistryUser,
		"registry_password", spec.RegistryPassword,
		"cpu", spec.CPU,
		"memory", spec.Memory,
		"min_replicas", spec.MinReplicas,
		"max_replicas", spec.MaxReplicas,
		"target_port", spec.TargetPort,
	)
	for k, v := range spec.Env {
		op.Params[envParamPrefix+k] = v
	}
	return op
}

func AppFQDN(name, group string) Operation {
	return newOp(OpAppFQDN, ParamName, name, ParamResourceGroup, group)
}

// AppIdentityAssign enables the system-assigned identity of a container app.
func AppIdentityAssign(name, group string) Operation {
	return newOp(OpAppIdentityAssign, ParamName, name, ParamResourceGroup, group)
}
