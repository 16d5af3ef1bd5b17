package handlers

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/visiondeploy/internal/config"
	"github.com/imamik/visiondeploy/internal/orchestration"
	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
	testutil "github.com/imamik/visiondeploy/internal/testing"
)

// harness swaps the package factories for the duration of a test. Tests
// using it must not run in parallel.
type harness struct {
	runner   *azure.MockRunner
	observer *provisioning.RecordingObserver
	out      *bytes.Buffer
	metrics  []string
}

func newHarness(t *testing.T, runner *azure.MockRunner) *harness {
	t.Helper()
	h := &harness{
		runner:   runner,
		observer: provisioning.NewRecordingObserver(),
		out:      &bytes.Buffer{},
	}

	origRunner := newRunner
	origObserver := newObserver
	origDeployer := newDeployer
	origMetrics := writeMetrics
	origStdout := stdout
	origStderr := stderr
	t.Cleanup(func() {
		newRunner = origRunner
		newObserver = origObserver
		newDeployer = origDeployer
		writeMetrics = origMetrics
		stdout = origStdout
		stderr = origStderr
	})

	newRunner = func(logr.Logger) azure.Runner { return h.runner }
	newObserver = func(io.Writer, logr.Logger) provisioning.Observer { return h.observer }
	newDeployer = func(runner azure.Runner, obs provisioning.Observer) *orchestration.Deployer {
		return orchestration.NewDeployer(runner,
			orchestration.WithObserver(obs),
			orchestration.WithClock(testutil.NewSteppingClock(t, 5*time.Second)),
			orchestration.WithTimeouts(&config.Timeouts{
				SettleVault:       10 * time.Second,
				SettleRBAC:        15 * time.Second,
				SettleDeadline:    2 * time.Minute,
				SecretRetryDelay:  10 * time.Second,
				SecretMaxAttempts: 3,
				Analysis:          5 * time.Second,
			}),
			orchestration.WithToolFinder(func(name string) (string, error) { return "/usr/bin/" + name, nil }),
		)
	}
	writeMetrics = func(path string) error {
		h.metrics = append(h.metrics, path)
		return nil
	}
	stdout = h.out
	stderr = io.Discard
	return h
}
