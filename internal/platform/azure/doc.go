// Package azure runs Azure management-plane operations through the az and
// docker command-line tools.
//
// Each call is a typed [Operation] (an identifier plus named parameters). An
// [Adapter] turns it into an argv, and a [Runner] executes it, normalizes JSON
// or plain-text output and maps a nonzero exit to [*ExecutionError]. The
// runner never retries; retry belongs to the caller.
//
// Every call is counted in the package [Registry]. Secret-bearing arguments
// are redacted before a command line is logged.
package azure
