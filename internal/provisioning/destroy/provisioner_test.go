package destroy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
)

func TestProvisionerName(t *testing.T) {
	p := NewProvisioner()
	assert.Equal(t, "Destroy", p.Name())
}

func TestProvision(t *testing.T) {
	tests := []struct {
		name          string
		group         string
		setupMock     func(*azure.MockRunner)
		wantDelete    bool
		expectError   bool
		errorContains string
	}{
		{
			name:       "successful destroy",
			group:      "rg-test",
			setupMock:  func(*azure.MockRunner) {},
			wantDelete: true,
		},
		{
			name:  "group already gone",
			group: "rg-test",
			setupMock: func(m *azure.MockRunner) {
				m.Fails(azure.OpGroupShow, "(ResourceGroupNotFound) Resource group 'rg-test' could not be found.")
			},
		},
		{
			name:  "lookup fails",
			group: "rg-test",
			setupMock: func(m *azure.MockRunner) {
				m.Fails(azure.OpGroupShow, "(AuthorizationFailed)")
			},
			expectError:   true,
			errorContains: "failed to look up resource group rg-test",
		},
		{
			name:  "delete fails",
			group: "rg-test",
			setupMock: func(m *azure.MockRunner) {
				m.Fails(azure.OpGroupDelete, "ScopeLocked")
			},
			wantDelete:    true,
			expectError:   true,
			errorContains: "failed to delete resource group rg-test",
		},
		{
			name:          "no group",
			setupMock:     func(*azure.MockRunner) {},
			expectError:   true,
			errorContains: "no resource group",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := azure.NewMockRunner()
			tt.setupMock(runner)
			observer := provisioning.NewRecordingObserver()
			ctx := &provisioning.Context{
				Context:       context.Background(),
				Runner:        runner,
				State:         &provisioning.State{},
				Observer:      observer,
				ResourceGroup: tt.group,
			}

			err := NewProvisioner().Provision(ctx)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
			if tt.wantDelete {
				require.Equal(t, 1, runner.CallCount(azure.OpGroupDelete))
				assert.Equal(t, tt.group, runner.CallsFor(azure.OpGroupDelete)[0].Param(azure.ParamName))
			} else {
				assert.Zero(t, runner.CallCount(azure.OpGroupDelete))
			}
		})
	}
}

func TestCleanupHint(t *testing.T) {
	assert.Equal(t, "az group delete --name rg-test --yes --no-wait", CleanupHint("rg-test"))
}
