package orchestration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"filippo.io/age"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/visiondeploy/internal/config"
	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
	"github.com/imamik/visiondeploy/internal/secrets"
	testutil "github.com/imamik/visiondeploy/internal/testing"
)

func testTimeouts() *config.Timeouts {
	return &config.Timeouts{
		SettleVault:       10 * time.Second,
		SettleRBAC:        15 * time.Second,
		SettleDeadline:    2 * time.Minute,
		SecretRetryDelay:  10 * time.Second,
		SecretMaxAttempts: 3,
		Analysis:          5 * time.Second,
	}
}

func newTestDeployer(t *testing.T, runner azure.Runner) (*Deployer, *provisioning.RecordingObserver) {
	t.Helper()
	obs := provisioning.NewRecordingObserver()
	return NewDeployer(runner,
		WithObserver(obs),
		WithClock(testutil.NewSteppingClock(t, 5*time.Second)),
		WithTimeouts(testTimeouts()),
		WithToolFinder(foundTool),
	), obs
}

func writeDocument(t *testing.T, doc config.Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, config.Save(path, doc))
	return path
}

func TestNewDeployer_Defaults(t *testing.T) {
	d := NewDeployer(azure.NewMockRunner())
	assert.NotNil(t, d.observer)
	assert.NotNil(t, d.clock)
	assert.NotNil(t, d.timeouts)
	assert.Nil(t, d.findTool)
}

func TestDeployResources_DefaultLocation(t *testing.T) {
	runner := testutil.NewAzureFixture().SuccessfulDeployment()
	d, _ := newTestDeployer(t, runner)
	path := filepath.Join(t.TempDir(), "config.json")

	_, err := d.DeployResources(testutil.TestContext(t), ResourcesRequest{ConfigPath: path, ResourceGroup: "rg"})
	require.NoError(t, err)

	group := runner.CallsFor(azure.OpGroupCreate)
	require.Len(t, group, 1)
	assert.Equal(t, DefaultLocation, group[0].Param(azure.ParamLocation))
}

func TestDeployResources_PreservesUnknownSections(t *testing.T) {
	doc := testutil.NewDocumentBuilder().
		WithSection("custom_settings", map[string]any{"owner": "imaging-team"}).
		Build()
	path := writeDocument(t, doc)

	d, _ := newTestDeployer(t, testutil.NewAzureFixture().SuccessfulDeployment())
	result, err := d.DeployResources(testutil.TestContext(t), ResourcesRequest{ConfigPath: path, ResourceGroup: "rg"})
	require.NoError(t, err)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"owner": "imaging-team"}, loaded["custom_settings"])
	assert.Equal(t, doc[config.SectionAnalysisSettings], loaded[config.SectionAnalysisSettings])
	assert.Equal(t, result.Document, loaded)
}

func TestDeployResources_UploadsImages(t *testing.T) {
	runner := testutil.NewAzureFixture().SuccessfulDeployment()
	d, obs := newTestDeployer(t, runner)

	images := t.TempDir()
	for _, name := range []string{"a.jpg", "b.png", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(images, name), []byte("x"), 0o644))
	}

	result, err := d.DeployResources(testutil.TestContext(t), ResourcesRequest{
		ConfigPath:    filepath.Join(t.TempDir(), "config.json"),
		ResourceGroup: "rg",
		ImagesDir:     images,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Upload)
	assert.Equal(t, 2, result.Upload.Found)
	assert.Equal(t, 2, result.Upload.Uploaded)
	assert.Equal(t, 2, runner.CallCount(azure.OpBlobUpload))
	assert.Empty(t, result.CredsPath)
	assert.False(t, obs.HasStatus(provisioning.SeverityFailure, ""))
}

func TestDeployResources_UnreadableImagesDirStillRecords(t *testing.T) {
	runner := testutil.NewAzureFixture().SuccessfulDeployment()
	d, obs := newTestDeployer(t, runner)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	images := filepath.Join(dir, "images")
	require.NoError(t, os.WriteFile(images, []byte("not a directory"), 0o644))

	result, err := d.DeployResources(testutil.TestContext(t), ResourcesRequest{
		ConfigPath:    path,
		ResourceGroup: "rg",
		ImagesDir:     images,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Upload)
	assert.True(t, result.Upload.Skipped)
	assert.Equal(t, 3, runner.CallCount(azure.OpSecretSet))
	assert.True(t, obs.HasStatus(provisioning.SeverityWarning, "cannot list images"))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	info, err := loaded.DeploymentInfo()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, result.Names.BaseNames(), info.ResourceNames)
}

func TestDeployResources_CredentialsFailureKeepsRecord(t *testing.T) {
	d, _ := newTestDeployer(t, testutil.NewAzureFixture().SuccessfulDeployment())
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	_, err := d.DeployResources(testutil.TestContext(t), ResourcesRequest{
		ConfigPath:    path,
		ResourceGroup: "rg",
		CredsFile:     filepath.Join(dir, "missing", "creds.txt"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deployment recorded in")

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, loaded.Has(config.SectionDeploymentInfo))
}

func TestDeployResources_SealsCredentials(t *testing.T) {
	identity, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	d, _ := newTestDeployer(t, testutil.NewAzureFixture().SuccessfulDeployment())
	creds := filepath.Join(t.TempDir(), "creds.txt")

	result, err := d.DeployResources(testutil.TestContext(t), ResourcesRequest{
		ConfigPath:    filepath.Join(t.TempDir(), "config.json"),
		ResourceGroup: "rg",
		CredsFile:     creds,
		SealTo:        []string{identity.Recipient().String()},
	})
	require.NoError(t, err)

	assert.Equal(t, creds+secrets.SealedExt, result.CredsPath)
	assert.NoFileExists(t, creds)

	bundle, err := secrets.ReadSealedFile(result.CredsPath, identity.String())
	require.NoError(t, err)
	assert.Equal(t, result.Secrets, bundle)
}

func TestDeployResources_LoginFailure(t *testing.T) {
	runner := testutil.NewAzureFixture().SuccessfulDeployment()
	runner.Fails(azure.OpAccountShow, "Please run 'az login' to setup account.")
	d, _ := newTestDeployer(t, runner)
	path := filepath.Join(t.TempDir(), "config.json")

	result, err := d.DeployResources(testutil.TestContext(t), ResourcesRequest{ConfigPath: path, ResourceGroup: "rg"})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Zero(t, runner.CallCount(azure.OpGroupCreate))

	var preErr *provisioning.PrerequisiteError
	require.ErrorAs(t, err, &preErr)
	assert.Equal(t, "az login", preErr.Check)
}

func TestDeployResources_MissingCLI(t *testing.T) {
	runner := testutil.NewAzureFixture().SuccessfulDeployment()
	d := NewDeployer(runner,
		WithObserver(provisioning.NewRecordingObserver()),
		WithTimeouts(testTimeouts()),
		WithToolFinder(func(string) (string, error) { return "", os.ErrNotExist }),
	)
	path := filepath.Join(t.TempDir(), "config.json")

	result, err := d.DeployResources(testutil.TestContext(t), ResourcesRequest{ConfigPath: path, ResourceGroup: "rg"})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, runner.Calls())

	var preErr *provisioning.PrerequisiteError
	require.ErrorAs(t, err, &preErr)
	assert.Equal(t, "tools", preErr.Check)
}

func TestDeployResources_InvalidDocument(t *testing.T) {
	path := writeDocument(t, testutil.NewDocumentBuilder().Without(config.SectionContainers).Build())
	runner := azure.NewMockRunner()
	d, _ := newTestDeployer(t, runner)

	_, err := d.DeployResources(testutil.TestContext(t), ResourcesRequest{ConfigPath: path, ResourceGroup: "rg"})
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.SectionContainers, cfgErr.Section)
	assert.Empty(t, runner.Calls())
}

func TestDeployContainer_DefaultsFromBaseDeployment(t *testing.T) {
	path := writeDocument(t, testutil.NewDocumentBuilder().WithBaseDeployment("rg-base", "westeurope", "k3x9q2").Build())
	runner := testutil.NewAzureFixture().SuccessfulDeployment()
	d, obs := newTestDeployer(t, runner)

	result, err := d.DeployContainer(testutil.TestContext(t), ContainerRequest{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "k3x9q2", result.Names.Suffix)
	assert.Equal(t, testutil.FixtureWorkloadPrincipal, result.WorkloadPrincipalID)
	assert.Equal(t, "https://"+result.Names.App+"."+testutil.FixtureAppDomain, result.AppURL)
	assert.False(t, obs.HasStatus(provisioning.SeverityWarning, "could not recover"))

	registry := runner.CallsFor(azure.OpRegistryCreate)
	require.Len(t, registry, 1)
	assert.Equal(t, "rg-base", registry[0].Param(azure.ParamResourceGroup))
	assert.Equal(t, "westeurope", registry[0].Param(azure.ParamLocation))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	cd, err := loaded.ContainerDeployment()
	require.NoError(t, err)
	assert.Equal(t, "rg-base", cd.ResourceGroup)
	assert.Equal(t, result.AppURL, cd.AppURL)
	assert.Equal(t, result.Names.Environment, cd.ContainerEnvName)
}

func TestDeployContainer_ExplicitGroupWins(t *testing.T) {
	path := writeDocument(t, testutil.NewDocumentBuilder().WithBaseDeployment("rg-base", "westeurope", "k3x9q2").Build())
	runner := testutil.NewAzureFixture().SuccessfulDeployment()
	d, _ := newTestDeployer(t, runner)

	_, err := d.DeployContainer(testutil.TestContext(t), ContainerRequest{ConfigPath: path, ResourceGroup: "rg-other"})
	require.NoError(t, err)

	for _, op := range runner.CallsFor(azure.OpAppCreate) {
		assert.Equal(t, "rg-other", op.Param(azure.ParamResourceGroup))
	}
}

func TestDeployContainer_MissingDockerLeavesDocumentUntouched(t *testing.T) {
	doc := testutil.NewDocumentBuilder().WithBaseDeployment("rg-base", "eastus", "k3x9q2").Build()
	path := writeDocument(t, doc)
	runner := testutil.NewAzureFixture().SuccessfulDeployment()
	obs := provisioning.NewRecordingObserver()
	d := NewDeployer(runner,
		WithObserver(obs),
		WithTimeouts(testTimeouts()),
		WithToolFinder(func(name string) (string, error) {
			if name == "docker" {
				return "", os.ErrNotExist
			}
			return foundTool(name)
		}),
	)

	result, err := d.DeployContainer(testutil.TestContext(t), ContainerRequest{ConfigPath: path})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Zero(t, runner.CallCount(azure.OpRegistryCreate))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, loaded.Has(config.SectionContainerDeployment))
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		doc   config.Document
		stage string
	}{
		{"fresh", config.Default(), StageNotDeployed},
		{"resources", testutil.NewDocumentBuilder().WithBaseDeployment("rg", "eastus", "abc123").Build(), StageResourcesDeployed},
		{
			"container",
			testutil.NewDocumentBuilder().
				WithBaseDeployment("rg", "eastus", "abc123").
				WithSection(config.SectionContainerDeployment, config.ContainerDeployment{AppURL: "https://app"}).
				Build(),
			StageContainerDeployed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Summarize("config.json", tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.stage, st.Stage)
			assert.True(t, st.Sections[config.SectionNamingConvention])
			assert.Equal(t, tt.stage != StageNotDeployed, st.Sections[config.SectionDeploymentInfo])
		})
	}
}

func TestSummarize_MalformedSection(t *testing.T) {
	doc := testutil.NewDocumentBuilder().WithSection(config.SectionDeploymentInfo, "not an object").Build()
	_, err := Summarize("config.json", doc)
	require.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "message": "Analyzed 3 images"})
	}))
	defer srv.Close()

	doc := testutil.NewDocumentBuilder().
		WithSection(config.SectionContainerDeployment, config.ContainerDeployment{AppURL: srv.URL}).
		Build()
	d, obs := newTestDeployer(t, azure.NewMockRunner())

	resp, err := d.Analyze(testutil.TestContext(t), doc)
	require.NoError(t, err)
	assert.Equal(t, "/analyze", gotPath)
	assert.Equal(t, "Analyzed 3 images", resp.Message)
	assert.True(t, obs.HasStatus(provisioning.SeveritySuccess, "Analyzed 3 images"))
}

func TestAnalyze_HealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		health     http.HandlerFunc
		wantStatus provisioning.Severity
		wantLine   string
	}{
		{
			name: "healthy",
			health: func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "service": "Azure AI Image Analyzer"})
			},
			wantLine: "[analyze] Azure AI Image Analyzer is healthy",
		},
		{
			name: "unhealthy",
			health: func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "degraded"})
			},
			wantStatus: provisioning.SeverityWarning,
			wantLine:   `app reports status "degraded", triggering anyway`,
		},
		{
			name: "unreachable",
			health: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantStatus: provisioning.SeverityWarning,
			wantLine:   "triggering anyway",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var paths []string
			mux := http.NewServeMux()
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				paths = append(paths, r.URL.Path)
				tt.health(w, r)
			})
			mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
				paths = append(paths, r.URL.Path)
				_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "message": "done"})
			})
			srv := httptest.NewServer(mux)
			defer srv.Close()

			doc := testutil.NewDocumentBuilder().
				WithSection(config.SectionContainerDeployment, config.ContainerDeployment{AppURL: srv.URL}).
				Build()
			d, obs := newTestDeployer(t, azure.NewMockRunner())

			_, err := d.Analyze(testutil.TestContext(t), doc)
			require.NoError(t, err)
			assert.Equal(t, []string{"/health", "/analyze"}, paths)
			if tt.wantStatus != "" {
				assert.True(t, obs.HasStatus(tt.wantStatus, tt.wantLine))
			} else {
				assert.Contains(t, obs.Lines(), tt.wantLine)
			}
		})
	}
}

func TestAnalyze_RequiresContainerDeployment(t *testing.T) {
	d, _ := newTestDeployer(t, azure.NewMockRunner())

	_, err := d.Analyze(testutil.TestContext(t), config.Default())
	var preErr *provisioning.PrerequisiteError
	require.ErrorAs(t, err, &preErr)
	assert.Equal(t, "container deployment", preErr.Check)
}
