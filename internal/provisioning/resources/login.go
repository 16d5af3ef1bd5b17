package resources

import (
	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
)

// LoginCheck verifies that the CLI is signed in and caches the signed-in
// user so later phases can grant it access without another lookup.
type LoginCheck struct{}

// NewLoginCheck creates a new login check phase.
func NewLoginCheck() *LoginCheck {
	return &LoginCheck{}
}

// Name implements the provisioning.Phase interface.
func (l *LoginCheck) Name() string {
	return "login"
}

// Provision implements the provisioning.Phase interface.
func (l *LoginCheck) Provision(ctx *provisioning.Context) error {
	res, err := ctx.Run(azure.AccountShow(), azure.RunOptions{CaptureJSON: true})
	if err != nil {
		return &provisioning.PrerequisiteError{Check: "az login", Hint: "run 'az login' first", Err: err}
	}
	if sub := res.Field("id"); sub != "" {
		ctx.State.SubscriptionID = sub
	}

	user, _ := ctx.Run(azure.SignedInUserShow(), azure.RunOptions{CaptureJSON: true, IgnoreErrors: true})
	id := user.Field("id")
	if id == "" {
		id = user.Field("objectId")
	}
	if id == "" {
		ctx.Observer.Printf("[login] Could not read signed-in user, it will be looked up later")
		return nil
	}
	ctx.State.PrincipalID = id
	ctx.State.PrincipalUPN = user.Field("userPrincipalName")
	ctx.Observer.Status(provisioning.SeveritySuccess, "Signed in as %s", displayUser(ctx.State))
	return nil
}

func displayUser(s *provisioning.State) string {
	if s.PrincipalUPN != "" {
		return s.PrincipalUPN
	}
	return s.PrincipalID
}
