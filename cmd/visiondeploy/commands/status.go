package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/visiondeploy/cmd/visiondeploy/handlers"
)

// Status returns the command that summarizes the deployment document.
func Status() *cobra.Command {
	var (
		configPath string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what the config file records about the deployment",
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Status(configPath, output)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to the deployment config file")
	cmd.Flags().StringVarP(&output, "output", "o", handlers.FormatText, "Output format: text, json or yaml")

	return cmd
}
