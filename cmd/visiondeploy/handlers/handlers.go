// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/go-logr/logr"

	"github.com/imamik/visiondeploy/internal/orchestration"
	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
	"github.com/imamik/visiondeploy/internal/provisioning/destroy"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newRunner creates the runner that executes az and docker operations.
	newRunner = func(log logr.Logger) azure.Runner {
		return azure.NewCLIRunner(log)
	}

	// newObserver creates the observer progress is reported to.
	newObserver = func(w io.Writer, log logr.Logger) provisioning.Observer {
		return provisioning.NewConsoleObserver(w, log)
	}

	// newDeployer creates the deployment orchestrator.
	newDeployer = func(runner azure.Runner, obs provisioning.Observer) *orchestration.Deployer {
		return orchestration.NewDeployer(runner, orchestration.WithObserver(obs))
	}

	// confirmDestroy asks the operator before a resource group is deleted.
	confirmDestroy = promptDestroy

	// isInteractive reports whether the operator can answer a prompt.
	isInteractive = func() bool {
		return provisioning.IsTerminal(os.Stdin) && provisioning.IsTerminal(os.Stdout)
	}

	// writeMetrics exports call metrics in the textfile format.
	writeMetrics = azure.WriteMetrics

	// stdout receives command output.
	stdout io.Writer = os.Stdout

	// stderr receives diagnostics.
	stderr io.Writer = os.Stderr
)

var verbosity int

// SetVerbosity sets the log verbosity used by subsequent handlers.
func SetVerbosity(v int) {
	verbosity = v
}

// session is the runner and observer shared by one command invocation.
type session struct {
	runner   azure.Runner
	observer provisioning.Observer
}

func newSession() session {
	log := provisioning.NewLogger(stderr, verbosity)
	return session{
		runner:   newRunner(log),
		observer: newObserver(stdout, log),
	}
}

// flushMetrics writes call metrics to path when one was given.
func (s session) flushMetrics(path string) {
	if path == "" {
		return
	}
	if err := writeMetrics(path); err != nil {
		provisioning.LogWarning(s.observer, "metrics", fmt.Sprintf("failed to write metrics to %s: %v", path, err))
		return
	}
	s.observer.Printf("Metrics written to %s", path)
}

// reportFailure prints the error and, when something may already exist in
// group, how to remove it.
func (s session) reportFailure(group string, err error) {
	s.observer.Status(provisioning.SeverityFailure, "Deployment failed: %v", err)

	var preErr *provisioning.PrerequisiteError
	if errors.As(err, &preErr) || group == "" {
		return
	}
	s.observer.Status(provisioning.SeverityInfo, "Resources created before the failure were left in place. To remove them run:")
	s.observer.Printf("  %s", destroy.CleanupHint(group))
}

func promptDestroy(ctx context.Context, group string) (bool, error) {
	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete resource group %s?", group)).
				Description("Every resource in the group is deleted. This cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	).RunWithContext(ctx)
	if err != nil {
		return false, err
	}
	return confirmed, nil
}
