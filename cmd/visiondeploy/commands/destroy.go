package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/visiondeploy/cmd/visiondeploy/handlers"
)

// Destroy returns the destroy command.
func Destroy() *cobra.Command {
	var (
		group     string
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete the resource group and all resources in it",
		Long: `Destroy deletes the resource group and everything it contains:
  - Storage account and blobs
  - Computer Vision service
  - Key vault and secrets
  - Container registry, environment and app

Deletion runs in the background. The config file is not changed.

Example:
  visiondeploy destroy -g rg-vision

WARNING: This operation is irreversible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), group, assumeYes)
		},
	}

	cmd.Flags().StringVarP(&group, "resource-group", "g", "", "Resource group to delete (required)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("resource-group")

	return cmd
}
