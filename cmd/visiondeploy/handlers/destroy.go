package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/visiondeploy/internal/provisioning"
	"github.com/imamik/visiondeploy/internal/provisioning/destroy"
)

// Provisioner interface for testing - matches provisioning.Phase.
type Provisioner interface {
	Provision(ctx *provisioning.Context) error
}

// newDestroyProvisioner creates a new destroy provisioner.
var newDestroyProvisioner = func() Provisioner {
	return destroy.NewProvisioner()
}

// Destroy deletes the resource group and everything in it. Unless assumeYes
// is set the operator is asked first, which requires an interactive terminal.
func Destroy(ctx context.Context, group string, assumeYes bool) error {
	if !assumeYes {
		if !isInteractive() {
			return fmt.Errorf("refusing to delete resource group %s without confirmation: pass --yes when not running in a terminal", group)
		}
		ok, err := confirmDestroy(ctx, group)
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			_, _ = fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	s := newSession()
	pCtx := provisioning.NewContext(ctx, s.runner, nil, group, "")
	pCtx.Observer = s.observer

	if err := newDestroyProvisioner().Provision(pCtx); err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}
	return nil
}
