package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/visiondeploy/internal/orchestration"
)

// ResourcesOptions are the inputs of the deploy-resources command.
type ResourcesOptions struct {
	ConfigPath    string
	ResourceGroup string
	Location      string
	CredsFile     string
	ImagesDir     string
	SealTo        []string
	MetricsFile   string
}

// ContainerOptions are the inputs of the deploy-container command.
type ContainerOptions struct {
	ConfigPath    string
	ResourceGroup string
	Location      string
	BuildContext  string
	MetricsFile   string
}

// DeployResources provisions the storage account, vision service and key
// vault, stores their secrets and records the deployment in the config file.
//
// On failure nothing is rolled back; the cleanup command is printed instead.
func DeployResources(ctx context.Context, opts ResourcesOptions) error {
	s := newSession()
	defer s.flushMetrics(opts.MetricsFile)

	result, err := newDeployer(s.runner, s.observer).DeployResources(ctx, orchestration.ResourcesRequest{
		ConfigPath:    opts.ConfigPath,
		ResourceGroup: opts.ResourceGroup,
		Location:      opts.Location,
		CredsFile:     opts.CredsFile,
		ImagesDir:     opts.ImagesDir,
		SealTo:        opts.SealTo,
	})
	if err != nil {
		s.reportFailure(opts.ResourceGroup, err)
		return fmt.Errorf("deploy-resources failed: %w", err)
	}

	printResourcesSummary(opts.ResourceGroup, result)
	return nil
}

// DeployContainer builds the analyzer image and deploys it as a container
// app next to the base resources recorded in the config file.
func DeployContainer(ctx context.Context, opts ContainerOptions) error {
	s := newSession()
	defer s.flushMetrics(opts.MetricsFile)

	result, err := newDeployer(s.runner, s.observer).DeployContainer(ctx, orchestration.ContainerRequest{
		ConfigPath:    opts.ConfigPath,
		ResourceGroup: opts.ResourceGroup,
		Location:      opts.Location,
		BuildContext:  opts.BuildContext,
	})
	if err != nil {
		s.reportFailure(opts.ResourceGroup, err)
		return fmt.Errorf("deploy-container failed: %w", err)
	}

	printContainerSummary(result)
	return nil
}

func printResourcesSummary(group string, r *orchestration.ResourcesResult) {
	_, _ = fmt.Fprintf(stdout, "\nBase resources deployed to %s\n", group)
	_, _ = fmt.Fprintf(stdout, "  Storage account: %s\n", r.Names.Storage)
	_, _ = fmt.Fprintf(stdout, "  Vision service:  %s\n", r.Names.Vision)
	_, _ = fmt.Fprintf(stdout, "  Key vault:       %s\n", r.Names.Vault)
	_, _ = fmt.Fprintf(stdout, "  Vault URL:       %s\n", r.VaultURL)
	if r.CredsPath != "" {
		_, _ = fmt.Fprintf(stdout, "  Credentials:     %s\n", r.CredsPath)
	}
	if r.Upload != nil && !r.Upload.Skipped {
		_, _ = fmt.Fprintf(stdout, "  Images uploaded: %d/%d\n", r.Upload.Uploaded, r.Upload.Found)
	}
	_, _ = fmt.Fprintln(stdout, "\nNext: visiondeploy deploy-container")
}

func printContainerSummary(r *orchestration.ContainerResult) {
	_, _ = fmt.Fprintln(stdout, "\nContainer app deployed")
	_, _ = fmt.Fprintf(stdout, "  Registry: %s\n", r.Names.Registry)
	_, _ = fmt.Fprintf(stdout, "  Image:    %s\n", r.Image)
	_, _ = fmt.Fprintf(stdout, "  App URL:  %s\n", r.AppURL)
	_, _ = fmt.Fprintln(stdout, "\nNext: visiondeploy analyze")
}
