package testing

import (
	"context"

	"github.com/imamik/visiondeploy/internal/platform/azure"
)

// Values returned by a successful AzureFixture.
const (
	FixtureSubscriptionID    = "00000000-0000-0000-0000-000000000001"
	FixtureUserID            = "11111111-1111-1111-1111-111111111111"
	FixtureUserUPN           = "operator@example.com"
	FixtureConnectionString  = "DefaultEndpointsProtocol=https;AccountName=fixture;AccountKey=Zml4dHVyZQ==;EndpointSuffix=core.windows.net"
	FixtureVisionKey         = "0123456789abcdef0123456789abcdef"
	FixtureWorkspaceID       = "22222222-2222-2222-2222-222222222222"
	FixtureWorkspaceKey      = "d29ya3NwYWNla2V5"
	FixtureRegistryPassword  = "registry-password"
	FixtureWorkloadPrincipal = "33333333-3333-3333-3333-333333333333"
	FixtureAppDomain         = "happyhill-1a2b3c4d.eastus.azurecontainerapps.io"
)

// AzureFixture provides a pre-configured mock runner for common test scenarios.
type AzureFixture struct {
	mock *azure.MockRunner
}

// NewAzureFixture creates a new fixture.
func NewAzureFixture() *AzureFixture {
	return &AzureFixture{mock: azure.NewMockRunner()}
}

// Mock returns the underlying MockRunner for custom configuration.
func (f *AzureFixture) Mock() *azure.MockRunner {
	return f.mock
}

// SuccessfulDeployment configures every base and container operation to
// succeed with realistic output. Returns the mock for chaining.
func (f *AzureFixture) SuccessfulDeployment() *azure.MockRunner {
	m := f.mock
	m.Returns(azure.OpCLIVersion, azure.JSONResult(map[string]string{"azure-cli": "2.67.0"}))
	m.Returns(azure.OpDockerVersion, azure.TextResult("Docker version 27.3.1, build ce12230"))
	m.Returns(azure.OpAccountShow, azure.JSONResult(map[string]any{
		"id":   FixtureSubscriptionID,
		"user": map[string]string{"name": FixtureUserUPN, "type": "user"},
	}))
	m.Returns(azure.OpSubscriptionID, azure.TextResult(FixtureSubscriptionID))
	m.Returns(azure.OpSignedInUserShow, azure.JSONResult(map[string]string{
		"id":                FixtureUserID,
		"userPrincipalName": FixtureUserUPN,
	}))
	m.Returns(azure.OpSignedInUserID, azure.TextResult(FixtureUserID))
	m.Returns(azure.OpSignedInUserUPN, azure.TextResult(FixtureUserUPN))

	m.On(azure.OpGroupCreate, nameEcho("provisioningState", "Succeeded"))
	m.On(azure.OpStorageCreate, nameEcho("kind", "StorageV2"))
	m.On(azure.OpStorageShow, nameEcho("kind", "StorageV2"))
	m.Returns(azure.OpStorageConnString, azure.TextResult(FixtureConnectionString))
	m.Returns(azure.OpContainerCreate, azure.JSONResult(map[string]bool{"created": true}))
	m.On(azure.OpVisionCreate, nameEcho("kind", "ComputerVision"))
	m.On(azure.OpVisionEndpoint, func(_ context.Context, op azure.Operation) (*azure.Result, error) {
		return azure.TextResult("https://" + op.Param(azure.ParamName) + ".cognitiveservices.azure.com/"), nil
	})
	m.Returns(azure.OpVisionKey, azure.TextResult(FixtureVisionKey))

	m.On(azure.OpVaultCreate, nameEcho("type", "Microsoft.KeyVault/vaults"))
	m.On(azure.OpVaultShow, nameEcho("type", "Microsoft.KeyVault/vaults"))
	m.Returns(azure.OpRoleAssignCreate, azure.JSONResult(map[string]string{"principalType": "User"}))
	m.Returns(azure.OpSecretList, azure.JSONResult([]any{}))
	m.On(azure.OpSecretSet, nameEcho("contentType", ""))

	m.On(azure.OpRegistryCreate, nameEcho("sku", "Basic"))
	m.On(azure.OpRegistryServer, func(_ context.Context, op azure.Operation) (*azure.Result, error) {
		return azure.TextResult(op.Param(azure.ParamName) + ".azurecr.io"), nil
	})
	m.On(azure.OpRegistryCreds, func(_ context.Context, op azure.Operation) (*azure.Result, error) {
		return azure.JSONResult(map[string]any{
			"username":  op.Param(azure.ParamName),
			"passwords": []map[string]string{{"name": "password", "value": FixtureRegistryPassword}},
		}), nil
	})
	m.On(azure.OpWorkspaceCreate, nameEcho("provisioningState", "Succeeded"))
	m.Returns(azure.OpWorkspaceID, azure.TextResult(FixtureWorkspaceID))
	m.Returns(azure.OpWorkspaceKey, azure.TextResult(FixtureWorkspaceKey))
	m.On(azure.OpEnvironmentCreate, nameEcho("provisioningState", "Succeeded"))
	m.On(azure.OpAppCreate, nameEcho("provisioningState", "Succeeded"))
	m.On(azure.OpAppFQDN, func(_ context.Context, op azure.Operation) (*azure.Result, error) {
		return azure.TextResult(op.Param(azure.ParamName) + "." + FixtureAppDomain), nil
	})
	m.Returns(azure.OpAppIdentityAssign, azure.JSONResult(map[string]string{
		"principalId": FixtureWorkloadPrincipal,
		"type":        "SystemAssigned",
	}))
	return m
}

// nameEcho answers with a JSON object carrying the operation's name and one
// extra field.
func nameEcho(key, value string) azure.HandlerFunc {
	return func(_ context.Context, op azure.Operation) (*azure.Result, error) {
		return azure.JSONResult(map[string]string{"name": op.Param(azure.ParamName), key: value}), nil
	}
}
