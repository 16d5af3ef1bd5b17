// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/visiondeploy/cmd/visiondeploy/handlers"
)

// defaultConfigPath is the deployment document used when -c is not given.
const defaultConfigPath = "config.json"

// Root returns the root command for the visiondeploy CLI.
func Root() *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:           "visiondeploy",
		Short:         "Deploy the image analyzer to Azure",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			handlers.SetVerbosity(verbosity)
		},
	}

	cmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "Log verbosity (1 logs every az/docker call)")

	cmd.AddCommand(DeployResources())
	cmd.AddCommand(DeployContainer())
	cmd.AddCommand(Analyze())
	cmd.AddCommand(Status())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
