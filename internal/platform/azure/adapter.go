package azure

import "fmt"

// Adapter resolves an Operation to the program and arguments that perform it.
type Adapter interface {
	Command(op Operation) (name string, args []string, err error)
}

// CLIAdapter maps operations onto the az and docker command-line tools.
type CLIAdapter struct{}

// NewCLIAdapter creates the default adapter.
func NewCLIAdapter() *CLIAdapter {
	return &CLIAdapter{}
}

// Command implements Adapter.
func (CLIAdapter) Command(op Operation) (string, []string, error) {
	p := op.Param
	switch op.ID {
	case OpCLIVersion:
		return "az", []string{"version", "--output", "json"}, nil
	case OpDockerVersion:
		return "docker", []string{"--version"}, nil

	case OpAccountShow:
		return "az", asJSON("account", "show"), nil
	case OpSubscriptionID:
		return "az", asTSV("id", "account", "show"), nil
	case OpSignedInUserShow:
		return "az", asJSON("ad", "signed-in-user", "show"), nil
	case OpSignedInUserID:
		return "az", asTSV("id", "ad", "signed-in-user", "show"), nil
	case OpSignedInUserUPN:
		return "az", asTSV("userPrincipalName", "ad", "signed-in-user", "show"), nil

	case OpGroupCreate:
		return "az", asJSON("group", "create", "--name", p(ParamName), "--location", p(ParamLocation)), nil
	case OpGroupShow:
		return "az", asJSON("group", "show", "--name", p(ParamName)), nil
	case OpGroupDelete:
		return "az", []string{"group", "delete", "--name", p(ParamName), "--yes", "--no-wait"}, nil

	case OpRoleAssignCreate:
		return "az", asJSON("role", "assignment", "create",
			"--assignee", p("assignee"), "--role", p("role"), "--scope", p("scope")), nil

	case OpStorageCreate:
		return "az", asJSON("storage", "account", "create",
			"--name", p(ParamName), "--resource-group", p(ParamResourceGroup), "--location", p(ParamLocation),
			"--sku", "Standard_LRS", "--kind", "StorageV2"), nil
	case OpStorageShow:
		return "az", asJSON("storage", "account", "show",
			"--name", p(ParamName), "--resource-group", p(ParamResourceGroup)), nil
	case OpStorageConnString:
		return "az", asTSV("connectionString", "storage", "account", "show-connection-string",
			"--name", p(ParamName), "--resource-group", p(ParamResourceGroup)), nil
	case OpContainerCreate:
		return "az", asJSON("storage", "container", "create",
			"--name", p(ParamName), "--connection-string", p("connection_string")), nil
	case OpBlobUpload:
		return "az", asJSON("storage", "blob", "upload",
			"--container-name", p("container"), "--file", p("file"), "--name", p(ParamName),
			"--connection-string", p("connection_string"), "--overwrite"), nil

	case OpVisionCreate:
		return "az", asJSON("cognitiveservices", "account", "create",
			"--name", p(ParamName), "--resource-group", p(ParamResourceGroup), "--location", p(ParamLocation),
			"--kind", "ComputerVision", "--sku", "S1", "--yes"), nil
	case OpVisionEndpoint:
		return "az", asTSV("properties.endpoint", "cognitiveservices", "account", "show",
			"--name", p(ParamName), "--resource-group", p(ParamResourceGroup)), nil
	case OpVisionKey:
		return "az", asTSV("key1", "cognitiveservices", "account", "keys", "list",
			"--name", p(ParamName), "--resource-group", p(ParamResourceGroup)), nil

	case OpVaultCreate:
		return "az", asJSON("keyvault", "create",
			"--name", p(ParamName), "--resource-group", p(ParamResourceGroup), "--location", p(ParamLocation),
			"--enable-rbac-authorization", "true"), nil
	case OpVaultShow:
		return "az", asJSON("keyvault", "show", "--name", p(ParamName), "--resource-group", p(ParamResourceGroup)), nil
	case OpVaultSetPolicy:
		return "az", asJSON("keyvault", "set-policy", "--name", p(ParamName), "--upn", p("upn"),
			"--secret-permissions", "get", "list", "set", "delete"), nil
	case OpSecretSet:
		return "az", asJSON("keyvault", "secret", "set",
			"--vault-name", p("vault"), "--name", p(ParamName), "--value", p("value")), nil
	case OpSecretList:
		return "az", asJSON("keyvault", "secret", "list", "--vault-name", p("vault")), nil

	case OpRegistryCreate:
		return "az", asJSON("acr", "create",
			"--resource-group", p(ParamResourceGroup), "--name", p(ParamName), "--sku", "Basic",
			"--location", p(ParamLocation), "--admin-enabled", "true"), nil
	case OpRegistryServer:
		return "az", asTSV("loginServer", "acr", "show", "--name", p(ParamName), "--resource-group", p(ParamResourceGroup)), nil
	case OpRegistryLogin:
		return "az", []string{"acr", "login", "--name", p(ParamName)}, nil
	case OpRegistryCreds:
		return "az", asJSON("acr", "credential", "show", "--name", p(ParamName)), nil

	case OpImageBuild:
		return "docker", []string{"build", "-t", p("image"), p("context")}, nil
	case OpImagePush:
		return "docker", []string{"push", p("image")}, nil

	case OpWorkspaceCreate:
		return "az", asJSON("monitor", "log-analytics", "workspace", "create",
			"--resource-group", p(ParamResourceGroup), "--workspace-name", p(ParamName), "--location", p(ParamLocation)), nil
	case OpWorkspaceID:
		return "az", asTSV("customerId", "monitor", "log-analytics", "workspace", "show",
			"--resource-group", p(ParamResourceGroup), "--workspace-name", p(ParamName)), nil
	case OpWorkspaceKey:
		return "az", asTSV("primarySharedKey", "monitor", "log-analytics", "workspace", "get-shared-keys",
			"--resource-group", p(ParamResourceGroup), "--workspace-name", p(ParamName)), nil

	case OpEnvironmentCreate:
		return "az", asJSON("containerapp", "env", "create",
			"--name", p(ParamName), "--resource-group", p(ParamResourceGroup), "--location", p(ParamLocation),
			"--logs-workspace-id", p("workspace_id"), "--logs-workspace-key", p("workspace_key")), nil
	case OpAppCreate:
		args := []string{"containerapp", "create",
			"--name", p(ParamName), "--resource-group", p(ParamResourceGroup),
			"--environment", p("environment"), "--image", p("image"),
			"--registry-server", p("registry_server"),
			"--registry-username", p("registry_username"),
			"--registry-password", p("registry_password"),
		}
		if env := op.EnvVars(); len(env) > 0 {
			args = append(args, "--env-vars")
			args = append(args, env...)
		}
		args = append(args,
			"--cpu", p("cpu"), "--memory", p("memory"),
			"--min-replicas", p("min_replicas"), "--max-replicas", p("max_replicas"),
			"--ingress", "external", "--target-port", p("target_port"))
		return "az", asJSON(args...), nil
	case OpAppFQDN:
		return "az", asTSV("properties.configuration.ingress.fqdn", "containerapp", "show",
			"--name", p(ParamName), "--resource-group", p(ParamResourceGroup)), nil
	case OpAppIdentityAssign:
		return "az", asJSON("containerapp", "identity", "assign",
			"--name", p(ParamName), "--resource-group", p(ParamResourceGroup), "--system-assigned"), nil
	}
	return "", nil, fmt.Errorf("unsupported operation %q", op.ID)
}

func asJSON(args ...string) []string {
	return append(args, "--output", "json")
}

func asTSV(query string, args ...string) []string {
	return append(args, "--query", query, "--output", "tsv")
}
