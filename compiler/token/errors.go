package token

import (
	"errors"
	"fmt"
)

// Sentinel errors for the tokenization failure modes. All of them classify
// a malformed or unrecognized method-name shape; the remediation is to fix
// the declaration, never to retry.
var (
	// ErrEmptyMethod indicates an empty method name.
	ErrEmptyMethod = errors.New("repogen: empty method name")
	// ErrUnknownSubject indicates the name does not start with a known
	// subject keyword.
	ErrUnknownSubject = errors.New("repogen: unknown subject keyword")
	// ErrMissingBy indicates the required By separator is absent.
	ErrMissingBy = errors.New("repogen: missing By separator")
	// ErrUnknownProperty indicates a segment matched no entity property.
	ErrUnknownProperty = errors.New("repogen: unknown property")
	// ErrUnknownOperator indicates an operator spelling outside the
	// alias table.
	ErrUnknownOperator = errors.New("repogen: unknown operator")
	// ErrBadLimiter indicates a malformed First/Top count.
	ErrBadLimiter = errors.New("repogen: malformed limiter count")
	// ErrTrailingInput indicates leftover text after the method suffix.
	ErrTrailingInput = errors.New("repogen: unexpected trailing input")
)

// Error is a tokenization error: the method name, the offending segment and
// the failure mode it matched.
type Error struct {
	Method  string
	Segment string
	Reason  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("%s: method %q segment %q", e.Reason, e.Method, e.Segment)
	}
	return fmt.Sprintf("%s: method %q", e.Reason, e.Method)
}

// Unwrap returns the sentinel reason, so errors.Is matches the failure mode.
func (e *Error) Unwrap() error {
	return e.Reason
}

// IsError reports whether err is a tokenization Error.
func IsError(err error) bool {
	var tokErr *Error
	return errors.As(err, &tokErr)
}
