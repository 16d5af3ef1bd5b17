package provisioning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/imamik/visiondeploy/internal/config"
	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/util/naming"
)

func TestNewState(t *testing.T) {
	t.Parallel()
	names := naming.NameSet{Suffix: "abc123", Storage: "aianalyzerabc123"}
	state := NewState(names)

	require.NotNil(t, state)
	assert.Equal(t, StageInit, state.Stage)
	assert.Equal(t, "aianalyzerabc123", state.Names.Storage)
}

func TestState_Advance(t *testing.T) {
	t.Parallel()
	state := NewState(naming.NameSet{})

	for _, next := range []Stage{StageGroupReady, StageStorageReady, StageVisionReady, StageDone} {
		require.NoError(t, state.Advance(next))
		assert.Equal(t, next, state.Stage)
	}

	err := state.Advance(StageDone)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Done -> Done")
}

func TestState_AdvanceRejectsSkip(t *testing.T) {
	t.Parallel()
	state := NewState(naming.NameSet{})
	err := state.Advance(StageVisionReady)
	require.Error(t, err)
	assert.Equal(t, StageInit, state.Stage)
	assert.Equal(t, "Stage(9)", Stage(9).String())
}

func TestNewContext(t *testing.T) {
	t.Parallel()
	runner := azure.NewMockRunner()
	ctx := NewContext(context.Background(), runner, config.Default(), "rg-test", "eastus")

	require.NotNil(t, ctx)
	assert.Equal(t, "rg-test", ctx.ResourceGroup)
	assert.Equal(t, "eastus", ctx.Location)
	assert.NotNil(t, ctx.State)
	assert.NotNil(t, ctx.Observer)
	assert.NotNil(t, ctx.Timeouts)
	assert.NotNil(t, ctx.Clock)
	assert.Same(t, runner, ctx.Runner)
}

func TestContext_SubscriptionIDCached(t *testing.T) {
	t.Parallel()
	runner := azure.NewMockRunner().Returns(azure.OpSubscriptionID, azure.TextResult("sub-1"))
	ctx := NewContext(context.Background(), runner, config.Default(), "rg", "eastus")

	scope, err := ctx.VaultScope("ai-kv-abc123")
	require.NoError(t, err)
	assert.Equal(t, "/subscriptions/sub-1/resourceGroups/rg/providers/Microsoft.KeyVault/vaults/ai-kv-abc123", scope)

	_, err = ctx.SubscriptionID()
	require.NoError(t, err)
	assert.Equal(t, 1, runner.CallCount(azure.OpSubscriptionID))
}

func TestContext_QueryEmpty(t *testing.T) {
	t.Parallel()
	runner := azure.NewMockRunner().Returns(azure.OpSubscriptionID, azure.TextResult(""))
	ctx := NewContext(context.Background(), runner, config.Default(), "rg", "eastus")

	_, err := ctx.SubscriptionID()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned no value")
}

func TestVaultURL(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "https://ai-kv-abc123.vault.azure.net/", VaultURL("ai-kv-abc123"))
}

func TestErrors(t *testing.T) {
	t.Parallel()
	cause := errors.New("cause")

	perm := &PermissionError{Vault: "kv", Principal: "ops@example.com", Err: cause}
	assert.ErrorIs(t, perm, cause)
	assert.Contains(t, perm.Error(), "ops@example.com")

	sse := &SecretStorageError{Vault: "kv", Secret: "vision-key", Attempts: 3, Err: cause}
	assert.ErrorIs(t, sse, cause)
	assert.Contains(t, sse.Error(), `"vision-key"`)
	assert.Contains(t, sse.Error(), "after 3 attempts")

	pre := &PrerequisiteError{Check: "docker", Hint: "install Docker", Err: cause}
	assert.Equal(t, "prerequisite docker not met: cause (install Docker)", pre.Error())
	assert.ErrorIs(t, pre, cause)

	to := &TimeoutError{Operation: "analysis", Limit: 0, Err: context.DeadlineExceeded}
	assert.ErrorIs(t, to, context.DeadlineExceeded)
	assert.Contains(t, to.Error(), "analysis did not complete")
}

func TestContext_NewWaiter(t *testing.T) {
	t.Parallel()
	fc := testingclock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := &Context{
		Clock:    fc,
		Timeouts: &config.Timeouts{SettleDeadline: 90 * time.Second},
	}

	w := ctx.NewWaiter(5 * time.Second)

	assert.Equal(t, 5*time.Second, w.InitialInterval)
	assert.Equal(t, 90*time.Second, w.Deadline)
	assert.Same(t, fc, w.Clock)
}

func TestContext_LimitsDefaults(t *testing.T) {
	ctx := &Context{}
	limits := ctx.Limits()
	require.NotNil(t, limits)
	assert.Equal(t, 3, limits.SecretMaxAttempts)
	assert.Same(t, limits, ctx.Timeouts)
}
