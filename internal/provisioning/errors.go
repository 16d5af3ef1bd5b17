package provisioning

import (
	"fmt"
	"time"
)

// PermissionError reports that neither the role assignment nor the access
// policy could grant the principal access to a vault. Callers log it and
// continue.
type PermissionError struct {
	Vault     string
	Principal string
	Err       error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("could not grant %s access to vault %s: %v", e.Principal, e.Vault, e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// SecretStorageError reports a secret that could not be written within the
// allowed attempts. It aborts the remaining secret batch.
type SecretStorageError struct {
	Vault    string
	Secret   string
	Attempts int
	Err      error
}

func (e *SecretStorageError) Error() string {
	return fmt.Sprintf("failed to store secret %q in vault %s after %d attempts: %v", e.Secret, e.Vault, e.Attempts, e.Err)
}

func (e *SecretStorageError) Unwrap() error { return e.Err }

// PrerequisiteError reports a missing tool, login or upstream resource.
// It is returned before anything is created.
type PrerequisiteError struct {
	Check string
	Hint  string
	Err   error
}

func (e *PrerequisiteError) Error() string {
	msg := fmt.Sprintf("prerequisite %s not met", e.Check)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *PrerequisiteError) Unwrap() error { return e.Err }

// TimeoutError reports a bounded call that exceeded its ceiling.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
	Err       error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s did not complete within %v", e.Operation, e.Limit)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
