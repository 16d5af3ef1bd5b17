// Package vault creates the key vault of a deployment, grants the operator
// access to it and writes the deployment secrets.
//
// Access is granted through an RBAC role assignment. If that fails, a legacy
// access policy keyed by the operator's user principal name is tried once.
// When both fail the run continues with a warning; the secret writes that
// follow are retried and surface the real failure if access never arrives.
//
// Role assignments take time to propagate. Instead of sleeping a fixed
// interval, the vault is polled with cheap reads until it answers or the
// settle deadline passes.
package vault
