// Package main is the entry point for the visiondeploy CLI.
//
// visiondeploy provisions the Azure resources behind the image analyzer:
// a storage account, a vision service and a key vault holding their
// secrets, and then the container app that runs the analyzer against them.
//
// Commands: deploy-resources, deploy-container, analyze, status, destroy.
//
// For detailed usage information, run:
//
//	visiondeploy --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/visiondeploy/cmd/visiondeploy/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
