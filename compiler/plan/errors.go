package plan

import (
	"errors"
	"fmt"
)

// Sentinel errors for the plan-level failure modes. A token stream can be
// well-formed and still not describe a buildable plan; these classify why.
var (
	// ErrNoPredicates indicates a By clause with no predicates after it.
	ErrNoPredicates = errors.New("repogen: no predicates after By")
	// ErrDuplicateOrderKey indicates the same property appears twice in an
	// ordering clause.
	ErrDuplicateOrderKey = errors.New("repogen: duplicate order key")
	// ErrDuplicateLimiter indicates more than one First/Top limiter.
	ErrDuplicateLimiter = errors.New("repogen: duplicate limiter")
	// ErrDanglingCombinator indicates an And/Or with no right-hand
	// predicate.
	ErrDanglingCombinator = errors.New("repogen: combinator without a right-hand predicate")
	// ErrOperatorKind indicates a pattern operator applied to a property
	// whose kind cannot hold text.
	ErrOperatorKind = errors.New("repogen: operator requires a textual property")
)

// Error is a plan construction error for one entity method.
type Error struct {
	Entity string
	Method string
	Detail string
	Reason error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: entity %q method %q: %s", e.Reason, e.Entity, e.Method, e.Detail)
	}
	return fmt.Sprintf("%s: entity %q method %q", e.Reason, e.Entity, e.Method)
}

// Unwrap returns the sentinel reason, so errors.Is matches the failure mode.
func (e *Error) Unwrap() error {
	return e.Reason
}

// IsError reports whether err is a plan Error.
func IsError(err error) bool {
	var planErr *Error
	return errors.As(err, &planErr)
}
