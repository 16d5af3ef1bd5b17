// Package destroy removes a deployment by deleting its resource group.
//
// Deletion is requested without waiting for completion; the group and every
// resource in it disappear asynchronously.
package destroy
