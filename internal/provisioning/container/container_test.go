package container

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/visiondeploy/internal/config"
	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
	testutil "github.com/imamik/visiondeploy/internal/testing"
	"github.com/imamik/visiondeploy/internal/util/naming"
)

func foundAll(name string) (string, error) { return "/usr/bin/" + name, nil }

func missing(tool string) func(string) (string, error) {
	return func(name string) (string, error) {
		if name == tool {
			return "", errors.New("not found")
		}
		return foundAll(name)
	}
}

func newTestContext(t *testing.T, runner azure.Runner) (*provisioning.Context, *provisioning.RecordingObserver) {
	t.Helper()
	doc := testutil.NewDocumentBuilder().WithBaseDeployment("rg-test", "eastus", "abc123").Build()
	base, err := LoadBase(doc)
	require.NoError(t, err)

	observer := provisioning.NewRecordingObserver()
	state := provisioning.NewState(base.Names)
	state.VaultURL = base.Info.KeyVaultURL
	return &provisioning.Context{
		Context:       testutil.TestContext(t),
		Runner:        runner,
		Document:      doc,
		State:         state,
		Observer:      observer,
		Timeouts:      &config.Timeouts{SettleDeadline: time.Minute},
		ResourceGroup: "rg-test",
		Location:      "eastus",
	}, observer
}

func TestLoadBase(t *testing.T) {
	t.Parallel()
	doc := testutil.NewDocumentBuilder().WithBaseDeployment("rg-test", "eastus", "0ca92c").Build()

	base, err := LoadBase(doc)
	require.NoError(t, err)

	assert.True(t, base.SuffixMatched)
	assert.Equal(t, "0ca92c", base.Names.Suffix)
	assert.Equal(t, "aianalyzer0ca92c", base.Names.Storage)
	assert.Equal(t, "ai-kv-0ca92c", base.Names.Vault)
	assert.Equal(t, "aianalyzerregistry0ca92c", base.Names.Registry)
	assert.Equal(t, "ai-analyzer-env-0ca92c", base.Names.Environment)
	assert.Equal(t, "ai-analyzer-app-0ca92c", base.Names.App)
	assert.Equal(t, "ai-analyzer-logs-0ca92c", base.Names.Logs)
}

func TestLoadBase_ForeignStorageNameGetsFreshSuffix(t *testing.T) {
	t.Parallel()
	doc := testutil.NewDocumentBuilder().WithDeploymentInfo(config.DeploymentInfo{
		ResourceGroup: "rg-test",
		ResourceNames: map[string]string{
			"storage_account": "legacystore01",
			"ai_vision":       "vision-legacy",
			"key_vault":       "kv-legacy",
		},
	}).Build()

	base, err := LoadBase(doc)
	require.NoError(t, err)

	assert.False(t, base.SuffixMatched)
	assert.Len(t, base.Names.Suffix, 6)
	assert.Equal(t, "legacystore01", base.Names.Storage)
	assert.Equal(t, "kv-legacy", base.Names.Vault)
	assert.Equal(t, "aianalyzerregistry"+base.Names.Suffix, base.Names.Registry)
}

func TestLoadBase_OverlongRecoveredSuffixGetsFreshSuffix(t *testing.T) {
	t.Parallel()
	doc := testutil.NewDocumentBuilder().
		WithNamingConvention(naming.Convention{StoragePrefix: "ai", VisionPrefix: "ai-vision", KeyVaultPrefix: "ai-kv"}).
		WithDeploymentInfo(config.DeploymentInfo{
			ResourceGroup: "rg-test",
			ResourceNames: map[string]string{
				"storage_account": "aianalyzer0ca92cxyz",
				"ai_vision":       "ai-vision-0ca92c",
				"key_vault":       "ai-kv-0ca92c",
			},
		}).Build()

	base, err := LoadBase(doc)
	require.NoError(t, err)

	assert.False(t, base.SuffixMatched)
	assert.Len(t, base.Names.Suffix, naming.DefaultSuffixLength)
	assert.Equal(t, "aianalyzer0ca92cxyz", base.Names.Storage)
	assert.Equal(t, "ai-analyzer-app-"+base.Names.Suffix, base.Names.App)
}

func TestLoadBase_MissingDeploymentInfo(t *testing.T) {
	t.Parallel()
	_, err := LoadBase(config.Default())
	require.Error(t, err)

	var preErr *provisioning.PrerequisiteError
	require.ErrorAs(t, err, &preErr)
	assert.Equal(t, "base deployment", preErr.Check)
}

func TestPrerequisites(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		find      func(string) (string, error)
		failing   azure.OperationID
		wantCheck string
	}{
		{name: "all met", find: foundAll},
		{
			name:      "docker missing",
			find:      missing("docker"),
			wantCheck: "tools",
		},
		{name: "daemon down", find: foundAll, failing: azure.OpDockerVersion, wantCheck: "docker"},
		{name: "not logged in", find: foundAll, failing: azure.OpAccountShow, wantCheck: "az login"},
		{name: "no storage", find: foundAll, failing: azure.OpStorageShow, wantCheck: "base resources"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			runner := testutil.NewAzureFixture().SuccessfulDeployment()
			if tt.failing != "" {
				runner.Fails(tt.failing, "error")
			}
			ctx, _ := newTestContext(t, runner)

			p := &Prerequisites{Find: tt.find}
			err := p.Provision(ctx)
			if tt.wantCheck == "" {
				require.NoError(t, err)
				assert.Equal(t, "aianalyzerabc123", runner.CallsFor(azure.OpStorageShow)[0].Param(azure.ParamName))
				return
			}
			var preErr *provisioning.PrerequisiteError
			require.ErrorAs(t, err, &preErr)
			assert.Equal(t, tt.wantCheck, preErr.Check)
			for _, id := range runner.IDs() {
				assert.NotContains(t, []azure.OperationID{azure.OpRegistryCreate, azure.OpGroupCreate}, id)
			}
		})
	}
}

func TestProvisioner_Provision(t *testing.T) {
	t.Parallel()
	runner := testutil.NewAzureFixture().SuccessfulDeployment()
	ctx, _ := newTestContext(t, runner)

	p := NewProvisioner("./app")
	assert.Equal(t, "container", p.Name())
	require.NoError(t, p.Provision(ctx))

	assert.Equal(t, []azure.OperationID{
		azure.OpRegistryCreate,
		azure.OpRegistryServer,
		azure.OpRegistryLogin,
		azure.OpImageBuild,
		azure.OpImagePush,
		azure.OpWorkspaceCreate,
		azure.OpWorkspaceID,
		azure.OpWorkspaceKey,
		azure.OpEnvironmentCreate,
		azure.OpRegistryCreds,
		azure.OpAppCreate,
		azure.OpAppFQDN,
		azure.OpAppIdentityAssign,
		azure.OpSubscriptionID,
		azure.OpRoleAssignCreate,
	}, runner.IDs())

	image := "aianalyzerregistryabc123.azurecr.io/azure-ai-image-analyzer:latest"
	assert.Equal(t, image, ctx.State.Image)
	assert.Equal(t, "./app", runner.CallsFor(azure.OpImageBuild)[0].Param("context"))
	assert.Equal(t, "https://ai-analyzer-app-abc123."+testutil.FixtureAppDomain, ctx.State.AppURL)
	assert.Equal(t, testutil.FixtureWorkloadPrincipal, ctx.State.WorkloadPrincipalID)

	app := runner.CallsFor(azure.OpAppCreate)[0]
	assert.Equal(t, image, app.Param("image"))
	assert.Equal(t, "ai-analyzer-env-abc123", app.Param("environment"))
	assert.Equal(t, testutil.FixtureRegistryPassword, app.Param("registry_password"))
	assert.Equal(t, "aianalyzerregistryabc123", app.Param("registry_username"))
	assert.Equal(t, "1.0", app.Param("cpu"))
	assert.Equal(t, "2.0Gi", app.Param("memory"))
	assert.Equal(t, "0", app.Param("min_replicas"))
	assert.Equal(t, "3", app.Param("max_replicas"))
	assert.Equal(t, "8000", app.Param("target_port"))
	assert.Equal(t, []string{
		"CREDENTIAL_METHOD=keyvault",
		"KEY_VAULT_URL=https://ai-kv-abc123.vault.azure.net/",
	}, app.EnvVars())

	env := runner.CallsFor(azure.OpEnvironmentCreate)[0]
	assert.Equal(t, testutil.FixtureWorkspaceID, env.Param("workspace_id"))
	assert.Equal(t, testutil.FixtureWorkspaceKey, env.Param("workspace_key"))

	grant := runner.CallsFor(azure.OpRoleAssignCreate)[0]
	assert.Equal(t, testutil.FixtureWorkloadPrincipal, grant.Param("assignee"))
	assert.Equal(t, "Key Vault Secrets User", grant.Param("role"))
	assert.Contains(t, grant.Param("scope"), "/vaults/ai-kv-abc123")
}

func TestProvisioner_BuildFailureStops(t *testing.T) {
	t.Parallel()
	runner := testutil.NewAzureFixture().SuccessfulDeployment()
	runner.Fails(azure.OpImageBuild, "no Dockerfile")
	ctx, _ := newTestContext(t, runner)

	err := NewProvisioner("").Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build image")
	assert.Zero(t, runner.CallCount(azure.OpImagePush))
	assert.Zero(t, runner.CallCount(azure.OpAppCreate))
	assert.Equal(t, ".", runner.CallsFor(azure.OpImageBuild)[0].Param("context"))
}

func TestProvisioner_MissingRegistryCredentials(t *testing.T) {
	t.Parallel()
	runner := testutil.NewAzureFixture().SuccessfulDeployment()
	runner.Returns(azure.OpRegistryCreds, azure.JSONResult(map[string]any{"username": "x", "passwords": []any{}}))
	ctx, _ := newTestContext(t, runner)

	err := NewProvisioner(".").Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no admin credentials")
	assert.Zero(t, runner.CallCount(azure.OpAppCreate))
}

func TestProvisioner_IdentityWithoutPrincipal(t *testing.T) {
	t.Parallel()
	runner := testutil.NewAzureFixture().SuccessfulDeployment()
	runner.Returns(azure.OpAppIdentityAssign, azure.JSONResult(map[string]string{"type": "SystemAssigned"}))
	ctx, _ := newTestContext(t, runner)

	err := NewProvisioner(".").Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no principal id")
	assert.Zero(t, runner.CallCount(azure.OpRoleAssignCreate))
}
