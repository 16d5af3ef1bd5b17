// Package workload triggers the batch analysis running in the deployed
// container app and checks its health.
package workload
