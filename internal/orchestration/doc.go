// Package orchestration provides high-level workflow coordination for a
// deployment.
//
// This package orchestrates the deployment by delegating to specialized
// provisioners in the internal/provisioning subpackages. It defines the
// execution order, carries state between phases and persists the outcome to
// the deployment document.
//
// # Workflow
//
// DeployResources creates the base resources:
//  1. Validation - Resource group and location checks
//  2. Login - Signed-in account and user lookup
//  3. Resources - Resource group, storage account and containers, vision service
//  4. Vault - Key vault, operator access, secrets
//
// It then writes the local credentials file, uploads sample images and
// records deployment_info.
//
// DeployContainer builds on a recorded base deployment:
//  1. Prerequisites - Tools, login and base storage account
//  2. Container - Registry, image, log workspace, environment, app, identity
//
// It then records container_deployment.
//
// # Usage
//
//	d := orchestration.NewDeployer(azure.NewCLIRunner(log))
//	result, err := d.DeployResources(ctx, orchestration.ResourcesRequest{
//	    ConfigPath:    "config.json",
//	    ResourceGroup: "rg-analyzer",
//	    Location:      "eastus",
//	})
//
// Nothing is rolled back on failure.
package orchestration
