// Package resources creates the base resources of a deployment: the resource
// group, the storage account with its blob containers and the vision service.
//
// Creation is strictly ordered. Each step records its outputs on the shared
// provisioning state and advances the deployment stage; the first failure
// stops the run without removing anything already created.
package resources
