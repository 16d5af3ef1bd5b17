package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/visiondeploy/internal/config"
	"github.com/imamik/visiondeploy/internal/platform/workload"
	"github.com/imamik/visiondeploy/internal/provisioning"
)

const healthTimeout = 10 * time.Second

// Analyze triggers a batch analysis in the container app recorded in doc.
// The app's health endpoint is checked first; an unhealthy or unreachable
// app is reported but the analysis is still attempted. The call is bounded
// by the analysis timeout.
func (d *Deployer) Analyze(ctx context.Context, doc config.Document) (*workload.Response, error) {
	cd, err := doc.ContainerDeployment()
	if err != nil {
		return nil, err
	}
	if cd == nil || cd.AppURL == "" {
		return nil, &provisioning.PrerequisiteError{
			Check: "container deployment",
			Hint:  "run 'visiondeploy deploy-container' first",
			Err:   fmt.Errorf("no app URL in %s", config.SectionContainerDeployment),
		}
	}

	client := workload.NewClient(d.timeouts.Analysis)
	d.checkHealth(ctx, client, cd.AppURL)

	d.observer.Printf("Triggering analysis at %s (timeout %v)...", cd.AppURL, d.timeouts.Analysis)
	resp, err := client.Trigger(ctx, cd.AppURL)
	if err != nil {
		return resp, err
	}
	d.observer.Status(provisioning.SeveritySuccess, "%s", resp.Message)
	return resp, nil
}

func (d *Deployer) checkHealth(ctx context.Context, client *workload.Client, appURL string) {
	healthCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	h, err := client.Health(healthCtx, appURL)
	if err != nil {
		provisioning.LogWarning(d.observer, "analyze", fmt.Sprintf("%v, triggering anyway", err))
		return
	}
	if h.Status != "healthy" {
		provisioning.LogWarning(d.observer, "analyze", fmt.Sprintf("app reports status %q, triggering anyway", h.Status))
		return
	}
	d.observer.Printf("[analyze] %s is healthy", serviceName(h, appURL))
}

func serviceName(h *workload.Health, appURL string) string {
	if h.Service != "" {
		return h.Service
	}
	return appURL
}
