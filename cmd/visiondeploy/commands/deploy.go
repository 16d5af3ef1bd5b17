package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/visiondeploy/cmd/visiondeploy/handlers"
	"github.com/imamik/visiondeploy/internal/orchestration"
)

// DeployResources returns the command that provisions the base resources.
func DeployResources() *cobra.Command {
	var opts handlers.ResourcesOptions

	cmd := &cobra.Command{
		Use:   "deploy-resources",
		Short: "Create storage, vision service and key vault",
		Long: `Create the base resources of the image analyzer.

This command creates, in order:
  - The resource group
  - A storage account with the input and results containers
  - A Computer Vision service
  - A key vault holding the storage connection string and vision credentials

Resource names share one random suffix and follow the naming_convention
section of the config file. On success the deployment is recorded in the
deployment_info section and the credentials are written to a local file.

Nothing is rolled back on failure. The command prints how to delete the
resource group instead.

Examples:
  # Deploy to a new resource group in eastus
  visiondeploy deploy-resources -g rg-vision

  # Seal the local credentials file with age
  visiondeploy deploy-resources -g rg-vision --seal-to age1...`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.DeployResources(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ResourceGroup, "resource-group", "g", "", "Resource group to deploy into (required)")
	cmd.Flags().StringVarP(&opts.Location, "location", "l", orchestration.DefaultLocation, "Azure region")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", defaultConfigPath, "Path to the deployment config file")
	cmd.Flags().StringVar(&opts.CredsFile, "creds-file", "creds.txt", "Local credentials file (empty to skip)")
	cmd.Flags().StringVar(&opts.ImagesDir, "images-dir", "images", "Directory of sample images to upload (empty to skip)")
	cmd.Flags().StringSliceVar(&opts.SealTo, "seal-to", nil, "Age recipients to seal the credentials file to")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write call metrics to this file in Prometheus text format")
	_ = cmd.MarkFlagRequired("resource-group")

	return cmd
}

// DeployContainer returns the command that deploys the analyzer container app.
func DeployContainer() *cobra.Command {
	var opts handlers.ContainerOptions

	cmd := &cobra.Command{
		Use:   "deploy-container",
		Short: "Build the analyzer image and deploy it as a container app",
		Long: `Build the analyzer image and run it as an Azure Container App.

Requires a previous deploy-resources run: the base resource names and the
key vault URL are read from the deployment_info section of the config file,
and the new resources reuse their suffix.

This command creates a container registry, builds and pushes the image,
creates a Log Analytics workspace and a Container Apps environment, deploys
the app and grants its managed identity read access to the key vault.

Examples:
  # Deploy next to the recorded base resources
  visiondeploy deploy-container -g rg-vision

  # Build from another directory
  visiondeploy deploy-container -g rg-vision --build-context ./analyzer`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.DeployContainer(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ResourceGroup, "resource-group", "g", "", "Resource group to deploy into (required)")
	cmd.Flags().StringVarP(&opts.Location, "location", "l", "", "Azure region (default: the one recorded by deploy-resources, else eastus)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", defaultConfigPath, "Path to the deployment config file")
	cmd.Flags().StringVar(&opts.BuildContext, "build-context", ".", "Docker build context of the analyzer image")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write call metrics to this file in Prometheus text format")
	_ = cmd.MarkFlagRequired("resource-group")

	return cmd
}
