package sql

import (
	"errors"
	"fmt"
)

// Sentinel errors for query lowering.
var (
	// ErrUnsupportedOperator indicates an operator the target dialect has
	// no native rendering for. The plan is valid; the dialect choice is
	// not. Never downgraded to an approximation.
	ErrUnsupportedOperator = errors.New("repogen: operator unsupported by dialect")
	// ErrCrossTenantDenied indicates a cross-tenant emit for an entity
	// whose policy does not allow one.
	ErrCrossTenantDenied = errors.New("repogen: cross-tenant query not allowed")
)

// Error is a query lowering error for one plan on one dialect.
type Error struct {
	Dialect string
	Entity  string
	Method  string
	Detail  string
	Reason  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: dialect %q entity %q method %q: %s",
			e.Reason, e.Dialect, e.Entity, e.Method, e.Detail)
	}
	return fmt.Sprintf("%s: dialect %q entity %q method %q",
		e.Reason, e.Dialect, e.Entity, e.Method)
}

// Unwrap returns the sentinel reason, so errors.Is matches the failure mode.
func (e *Error) Unwrap() error {
	return e.Reason
}

// IsError reports whether err is a lowering Error.
func IsError(err error) bool {
	var emitErr *Error
	return errors.As(err, &emitErr)
}
