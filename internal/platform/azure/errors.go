package azure

import (
	"errors"
	"fmt"
	"strings"
)

// ExecutionError reports an operation that exited nonzero. Stderr is kept
// for diagnostics but is never part of Error(), since it may carry tenant
// and subscription identifiers.
type ExecutionError struct {
	Operation OperationID
	ExitCode  int
	Stderr    string
	Err       error
}

func (e *ExecutionError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("operation %s could not be started", e.Operation)
	}
	return fmt.Sprintf("operation %s failed with exit code %d", e.Operation, e.ExitCode)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IsAuthorizationFailure reports whether err is an ExecutionError whose
// output indicates the caller lacks permission.
func IsAuthorizationFailure(err error) bool {
	return stderrContains(err, "AuthorizationFailed", "does not have authorization", "Forbidden")
}

// IsNotFound reports whether err is an ExecutionError for a missing resource.
func IsNotFound(err error) bool {
	return stderrContains(err, "ResourceNotFound", "ResourceGroupNotFound", "could not be found", "was not found")
}

func stderrContains(err error, markers ...string) bool {
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		return false
	}
	for _, m := range markers {
		if strings.Contains(execErr.Stderr, m) {
			return true
		}
	}
	return false
}
