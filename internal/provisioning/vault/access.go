package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
	"github.com/imamik/visiondeploy/internal/util/propagation"
)

const phase = "vault"

// Built-in role names.
const (
	RoleAdministrator = "Key Vault Administrator"
	RoleSecretsUser   = "Key Vault Secrets User"
)

// Method records how vault access was obtained.
type Method string

const (
	MethodRBAC         Method = "rbac"
	MethodAccessPolicy Method = "access-policy"
	MethodNone         Method = "none"
)

// Principal identifies the operator that receives vault access.
// A deferred principal is resolved right before the role assignment.
type Principal struct {
	ObjectID string
	UPN      string
	Deferred bool
}

func (p Principal) String() string {
	switch {
	case p.UPN != "":
		return p.UPN
	case p.ObjectID != "":
		return p.ObjectID
	}
	return "signed-in user"
}

// Access describes the outcome of EstablishVaultAccess.
type Access struct {
	URL       string
	Principal Principal
	Method    Method
	Settled   bool
}

// ResolvePrincipal returns the operator principal: the id cached by the
// login check if present, else a live signed-in-user lookup, else a
// deferred principal.
func ResolvePrincipal(ctx *provisioning.Context) Principal {
	if ctx.State.PrincipalID != "" {
		return Principal{ObjectID: ctx.State.PrincipalID, UPN: ctx.State.PrincipalUPN}
	}

	res, err := ctx.Run(azure.SignedInUserShow(), azure.RunOptions{CaptureJSON: true})
	if err == nil {
		id := res.Field("id")
		if id == "" {
			id = res.Field("objectId")
		}
		if id != "" {
			ctx.State.PrincipalID = id
			ctx.State.PrincipalUPN = res.Field("userPrincipalName")
			return Principal{ObjectID: id, UPN: ctx.State.PrincipalUPN}
		}
	}
	ctx.Observer.Printf("[%s] Signed-in user not resolved yet, deferring lookup to grant time", phase)
	return Principal{Deferred: true}
}

// EstablishVaultAccess creates the vault, grants the operator access and
// waits for the grant to become effective. Failing to grant access is logged
// and does not fail the call.
func EstablishVaultAccess(ctx *provisioning.Context, vaultName string) (*Access, error) {
	provisioning.LogResourceCreating(ctx.Observer, phase, "key vault", vaultName)
	if _, err := ctx.Run(azure.VaultCreate(vaultName, ctx.ResourceGroup, ctx.Location), azure.RunOptions{CaptureJSON: true}); err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "key vault", vaultName, err)
		return nil, fmt.Errorf("failed to create key vault %s: %w", vaultName, err)
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, "key vault", vaultName)

	if _, err := settle(ctx, "vault reachability", ctx.Limits().SettleVault, func(context.Context) error {
		_, err := ctx.Run(azure.VaultShow(vaultName, ctx.ResourceGroup), azure.RunOptions{CaptureJSON: true})
		return err
	}); err != nil {
		return nil, err
	}

	access := &Access{URL: provisioning.VaultURL(vaultName), Method: MethodNone}
	access.Principal = ResolvePrincipal(ctx)

	if err := grantOperator(ctx, vaultName, access); err != nil {
		var permErr *provisioning.PermissionError
		if !errors.As(err, &permErr) {
			return nil, err
		}
		provisioning.LogWarning(ctx.Observer, phase, permErr.Error())
		ctx.Observer.Printf("[%s] You may need to grant access manually: az keyvault set-policy --name %s --upn <your-upn> --secret-permissions get list set delete", phase, vaultName)
	}

	settled, err := settle(ctx, "vault authorization", ctx.Limits().SettleRBAC, func(context.Context) error {
		_, err := ctx.Run(azure.SecretList(vaultName), azure.RunOptions{CaptureJSON: true})
		return err
	})
	if err != nil {
		return nil, err
	}
	access.Settled = settled

	ctx.State.VaultURL = access.URL
	return access, nil
}

// grantOperator assigns the administrator role to the principal and falls
// back to an access policy exactly once. It returns a PermissionError when
// neither works.
func grantOperator(ctx *provisioning.Context, vaultName string, access *Access) error {
	scope, err := ctx.VaultScope(vaultName)
	if err != nil {
		return fmt.Errorf("failed to resolve vault scope: %w", err)
	}

	if access.Principal.Deferred {
		id, qerr := ctx.Query(azure.SignedInUserID())
		if qerr == nil {
			access.Principal.ObjectID = id
			access.Principal.Deferred = false
			ctx.State.PrincipalID = id
		} else {
			err = fmt.Errorf("failed to resolve signed-in user: %w", qerr)
		}
	}

	if err == nil {
		_, err = ctx.Run(azure.RoleAssignmentCreate(access.Principal.ObjectID, RoleAdministrator, scope), azure.RunOptions{CaptureJSON: true})
		if err == nil {
			access.Method = MethodRBAC
			ctx.Observer.Status(provisioning.SeveritySuccess, "Granted %s on %s to %s", RoleAdministrator, vaultName, access.Principal)
			return nil
		}
	}
	ctx.Observer.Status(provisioning.SeverityWarning, "Role assignment failed, trying access policy: %v", err)

	upn := access.Principal.UPN
	if upn == "" {
		var qerr error
		upn, qerr = ctx.Query(azure.SignedInUserUPN())
		if qerr != nil {
			return &provisioning.PermissionError{Vault: vaultName, Principal: access.Principal.String(), Err: errors.Join(err, qerr)}
		}
		access.Principal.UPN = upn
	}

	if _, perr := ctx.Run(azure.VaultSetPolicy(vaultName, upn), azure.RunOptions{CaptureJSON: true}); perr != nil {
		return &provisioning.PermissionError{Vault: vaultName, Principal: upn, Err: errors.Join(err, perr)}
	}
	access.Method = MethodAccessPolicy
	ctx.Observer.Status(provisioning.SeveritySuccess, "Granted secret permissions on %s to %s via access policy", vaultName, upn)
	return nil
}

// GrantSecretsUser lets a workload identity read secrets from the vault.
func GrantSecretsUser(ctx *provisioning.Context, vaultName, principalID string) error {
	scope, err := ctx.VaultScope(vaultName)
	if err != nil {
		return fmt.Errorf("failed to resolve vault scope: %w", err)
	}
	if _, err := ctx.Run(azure.RoleAssignmentCreate(principalID, RoleSecretsUser, scope), azure.RunOptions{CaptureJSON: true}); err != nil {
		return fmt.Errorf("failed to grant %s on %s: %w", RoleSecretsUser, vaultName, err)
	}
	return nil
}

// settle waits for check and reports whether it succeeded before the
// deadline. An unsettled wait is logged and is not an error.
func settle(ctx *provisioning.Context, what string, initial time.Duration, check propagation.Check) (bool, error) {
	res, err := ctx.NewWaiter(initial).Wait(ctx, check)
	if err != nil {
		return false, fmt.Errorf("%s: %w", what, err)
	}
	if !res.Settled {
		provisioning.LogWarning(ctx.Observer, phase, fmt.Sprintf("%s %s, continuing", what, res))
		return false, nil
	}
	ctx.Observer.Printf("[%s] %s %s", phase, what, res)
	return true, nil
}
