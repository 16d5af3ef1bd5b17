package orchestration

import (
	"context"
	"time"

	"k8s.io/utils/clock"

	"github.com/imamik/visiondeploy/internal/config"
	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
	"github.com/imamik/visiondeploy/internal/util/prerequisites"
)

// Deployer runs deployments against a management-plane runner.
type Deployer struct {
	runner   azure.Runner
	observer provisioning.Observer
	clock    clock.Clock
	timeouts *config.Timeouts
	findTool prerequisites.Finder
}

// Option configures a Deployer.
type Option func(*Deployer)

// WithObserver sets the observer that receives progress output.
func WithObserver(o provisioning.Observer) Option {
	return func(d *Deployer) { d.observer = o }
}

// WithClock sets the clock used for settling, retries and timestamps.
func WithClock(c clock.Clock) Option {
	return func(d *Deployer) { d.clock = c }
}

// WithTimeouts overrides the environment-derived timeouts.
func WithTimeouts(t *config.Timeouts) Option {
	return func(d *Deployer) { d.timeouts = t }
}

// WithToolFinder replaces the PATH lookup used by prerequisite checks.
func WithToolFinder(f prerequisites.Finder) Option {
	return func(d *Deployer) { d.findTool = f }
}

// NewDeployer creates a Deployer.
func NewDeployer(runner azure.Runner, opts ...Option) *Deployer {
	d := &Deployer{runner: runner}
	for _, opt := range opts {
		opt(d)
	}
	if d.observer == nil {
		d.observer = provisioning.NewConsoleObserver(nil, provisioning.DefaultLogger())
	}
	if d.clock == nil {
		d.clock = clock.RealClock{}
	}
	if d.timeouts == nil {
		d.timeouts = config.LoadTimeouts()
	}
	return d
}

// newContext builds the provisioning context for one run.
func (d *Deployer) newContext(ctx context.Context, doc config.Document, group, location string, state *provisioning.State) *provisioning.Context {
	return &provisioning.Context{
		Context:       ctx,
		Runner:        d.runner,
		Document:      doc,
		State:         state,
		Observer:      d.observer,
		Timeouts:      d.timeouts,
		Clock:         d.clock,
		ResourceGroup: group,
		Location:      location,
	}
}

func (d *Deployer) now() time.Time {
	return d.clock.Now()
}
