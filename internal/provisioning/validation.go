package provisioning

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents an input validation error or warning.
type ValidationError struct {
	Field    string // Input that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}

// ValidationPhase implements the Phase interface for pre-flight validation.
// It makes no management-plane calls.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	allErrors := validate(ctx)

	var errs []ValidationError
	for _, ve := range allErrors {
		if ve.IsError() {
			errs = append(errs, ve)
		} else {
			LogWarning(ctx.Observer, "validation", ve.Message)
		}
	}

	if len(errs) > 0 {
		var errMsgs []string
		for _, e := range errs {
			errMsgs = append(errMsgs, e.Error())
		}
		return fmt.Errorf("input validation failed:\n  %s", strings.Join(errMsgs, "\n  "))
	}

	ctx.Observer.Status(SeveritySuccess, "Inputs valid for resource group %s in %s", ctx.ResourceGroup, ctx.Location)
	return nil
}

var (
	groupNamePattern = regexp.MustCompile(`^[-\w.()]+$`)
	locationPattern  = regexp.MustCompile(`^[a-z0-9]+$`)
)

// validate runs all validation checks and returns any errors or warnings.
func validate(ctx *Context) []ValidationError {
	var out []ValidationError
	out = append(out, validateResourceGroup(ctx.ResourceGroup)...)
	out = append(out, validateLocation(ctx.Location)...)
	if ctx.State != nil && ctx.State.Names.Suffix != "" {
		if err := ctx.State.Names.Validate(); err != nil {
			out = append(out, ValidationError{Field: "naming_convention", Message: err.Error(), Severity: "error"})
		}
	}
	return out
}

func validateResourceGroup(name string) []ValidationError {
	switch {
	case name == "":
		return []ValidationError{{Field: "resource_group", Message: "resource group is required", Severity: "error"}}
	case len(name) > 90:
		return []ValidationError{{Field: "resource_group", Message: fmt.Sprintf("resource group %q exceeds 90 characters", name), Severity: "error"}}
	case !groupNamePattern.MatchString(name):
		return []ValidationError{{Field: "resource_group", Message: fmt.Sprintf("resource group %q may only contain letters, digits, '-', '_', '.', '(' and ')'", name), Severity: "error"}}
	case strings.HasSuffix(name, "."):
		return []ValidationError{{Field: "resource_group", Message: fmt.Sprintf("resource group %q must not end with a period", name), Severity: "error"}}
	}
	return nil
}

func validateLocation(location string) []ValidationError {
	if location == "" {
		return []ValidationError{{Field: "location", Message: "location is required", Severity: "error"}}
	}
	if !locationPattern.MatchString(location) {
		return []ValidationError{{
			Field:    "location",
			Message:  fmt.Sprintf("location %q does not look like an Azure region name such as eastus", location),
			Severity: "warning",
		}}
	}
	return nil
}
