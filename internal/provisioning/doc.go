// Package provisioning provides shared types and the phase runner for Azure
// deployments.
//
// # Subpackages
//
//   - resources/: resource group, storage account and containers, vision service
//   - vault/: key vault creation, access grants with fallback, secret propagation
//   - container/: registry, image, log workspace, container app and workload identity
//   - destroy/: resource group teardown
//
// # Core Types
//
// Context carries the runner, deployment document, state, observer and
// timeouts. Phase defines a provisioning step with Name() and Provision()
// methods. State accumulates results from each phase (names, connection
// strings, vault URL, app URL) and tracks the base deployment's stage.
package provisioning
