// Package naming derives convention-based Azure resource names.
//
// One random suffix is generated per deployment run and appended to every
// resource name, so resources created by the base deployment and by the
// later container deployment can be correlated by eye. Names are checked
// against the per-resource charset and length limits before any resource
// is created.
package naming
