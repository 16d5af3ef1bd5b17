package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/visiondeploy/cmd/visiondeploy/handlers"
)

// Analyze returns the command that triggers a batch analysis.
func Analyze() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a batch analysis in the deployed container app",
		Long: `Ask the deployed analyzer to process the images in the input container.

The app URL is read from the container_deployment section of the config
file. The call waits for the analysis to finish, up to the limit set by
VISIONDEPLOY_TIMEOUT_ANALYSIS (default 15m).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Analyze(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to the deployment config file")

	return cmd
}
