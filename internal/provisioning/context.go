package provisioning

import (
	"context"
	"fmt"
	"time"

	"k8s.io/utils/clock"

	"github.com/imamik/visiondeploy/internal/config"
	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/util/propagation"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Runner        azure.Runner
	Document      config.Document
	State         *State
	Observer      Observer
	Timeouts      *config.Timeouts
	Clock         clock.Clock
	ResourceGroup string
	Location      string
}

// NewContext creates a new provisioning context with a console observer,
// environment-derived timeouts and the real clock.
func NewContext(ctx context.Context, runner azure.Runner, doc config.Document, group, location string) *Context {
	return &Context{
		Context:       ctx,
		Runner:        runner,
		Document:      doc,
		State:         &State{},
		Observer:      NewConsoleObserver(nil, DefaultLogger()),
		Timeouts:      config.LoadTimeouts(),
		Clock:         clock.RealClock{},
		ResourceGroup: group,
		Location:      location,
	}
}

// Run executes op and returns its result.
func (c *Context) Run(op azure.Operation, opts azure.RunOptions) (*azure.Result, error) {
	return c.Runner.Run(c, op, opts)
}

// Query runs an operation that prints a single value and returns it.
// An empty value is an error.
func (c *Context) Query(op azure.Operation) (string, error) {
	res, err := c.Run(op, azure.RunOptions{CaptureJSON: true})
	if err != nil {
		return "", err
	}
	v := res.Text()
	if v == "" {
		return "", fmt.Errorf("operation %s returned no value", op.ID)
	}
	return v, nil
}

// Limits returns the context's timeouts, falling back to the environment.
func (c *Context) Limits() *config.Timeouts {
	if c.Timeouts == nil {
		c.Timeouts = config.LoadTimeouts()
	}
	return c.Timeouts
}

// NewWaiter returns a propagation waiter on the context's clock that starts
// polling at initial and gives up after the settle deadline.
func (c *Context) NewWaiter(initial time.Duration) *propagation.Waiter {
	w := propagation.NewWaiter(initial, c.Limits().SettleDeadline)
	if c.Clock != nil {
		w.Clock = c.Clock
	}
	return w
}

// SubscriptionID returns the active subscription, looking it up once.
func (c *Context) SubscriptionID() (string, error) {
	if c.State.SubscriptionID != "" {
		return c.State.SubscriptionID, nil
	}
	id, err := c.Query(azure.SubscriptionID())
	if err != nil {
		return "", fmt.Errorf("failed to read subscription id: %w", err)
	}
	c.State.SubscriptionID = id
	return id, nil
}

// VaultScope returns the role-assignment scope of the named vault in the
// context's resource group.
func (c *Context) VaultScope(vault string) (string, error) {
	sub, err := c.SubscriptionID()
	if err != nil {
		return "", err
	}
	return VaultScope(sub, c.ResourceGroup, vault), nil
}

// VaultScope formats the resource id of a key vault.
func VaultScope(subscription, group, vault string) string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.KeyVault/vaults/%s", subscription, group, vault)
}

// VaultURL returns the data-plane URL of the named vault.
func VaultURL(vault string) string {
	return fmt.Sprintf("https://%s.vault.azure.net/", vault)
}
