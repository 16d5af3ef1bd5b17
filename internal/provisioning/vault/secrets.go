package vault

import (
	"errors"
	"fmt"
	"time"

	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
	"github.com/imamik/visiondeploy/internal/secrets"
	"github.com/imamik/visiondeploy/internal/util/retry"
)

// StoreSecret writes one secret, making up to maxAttempts attempts separated
// by the configured fixed delay. A missing vault is not retried. Failure
// returns a SecretStorageError.
func StoreSecret(ctx *provisioning.Context, vaultName, name, value string, maxAttempts int) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	attempts := 0
	err := retry.WithExponentialBackoff(ctx, func() error {
		attempts++
		_, err := ctx.Run(azure.SecretSet(vaultName, name, value), azure.RunOptions{CaptureJSON: true})
		if azure.IsNotFound(err) {
			return retry.Fatal(err)
		}
		return err
	},
		retry.WithAttempts(maxAttempts),
		retry.WithFixedDelay(ctx.Limits().SecretRetryDelay),
		retry.WithClock(ctx.Clock),
		retry.WithOnRetry(func(attempt int, delay time.Duration, err error) {
			ctx.Observer.Status(provisioning.SeverityWarning, "Storing secret %s failed (attempt %d/%d), retrying in %v", name, attempt, maxAttempts, delay)
		}),
	)
	if err != nil {
		cause := err
		var execErr *azure.ExecutionError
		if errors.As(err, &execErr) {
			cause = execErr
		}
		return &provisioning.SecretStorageError{Vault: vaultName, Secret: name, Attempts: attempts, Err: cause}
	}
	ctx.Observer.Status(provisioning.SeveritySuccess, "Stored secret %s", name)
	return nil
}

// StoreAll writes the bundle's secrets in order and stops at the first
// secret that cannot be stored.
func StoreAll(ctx *provisioning.Context, vaultName string, bundle secrets.Bundle) error {
	maxAttempts := ctx.Limits().SecretMaxAttempts
	for _, entry := range bundle.Entries() {
		if err := StoreSecret(ctx, vaultName, entry.Name, entry.Value, maxAttempts); err != nil {
			return err
		}
	}
	return nil
}

// Phase creates the vault, establishes access and stores the secrets
// collected by earlier phases.
func Phase() provisioning.Phase {
	return provisioning.PhaseFunc{PhaseName: phase, Fn: provisionVault}
}

func provisionVault(ctx *provisioning.Context) error {
	name := ctx.State.Names.Vault
	if name == "" {
		return fmt.Errorf("no key vault name generated")
	}
	access, err := EstablishVaultAccess(ctx, name)
	if err != nil {
		return err
	}
	ctx.Observer.Printf("[%s] Vault %s ready (access via %s)", phase, access.URL, access.Method)

	bundle := secrets.NewBundle(ctx.State.StorageConnectionString, ctx.State.VisionEndpoint, ctx.State.VisionKey)
	if err := bundle.Validate(); err != nil {
		return fmt.Errorf("cannot store secrets: %w", err)
	}
	return StoreAll(ctx, name, bundle)
}
