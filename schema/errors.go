package schema

import (
	"errors"
	"strings"
)

// ErrInvalidMetadata indicates that entity metadata failed validation.
var ErrInvalidMetadata = errors.New("repogen: invalid entity metadata")

// ConfigError reports invalid entity metadata. It is raised once, at
// metadata-construction time, before any method signature is parsed; the
// remediation is always to fix the declaration, so there is no retry path.
type ConfigError struct {
	Entity   string // entity type name
	Property string // property name, if applicable
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("repogen: metadata error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Property != "" {
		b.WriteString(" property ")
		b.WriteString(e.Property)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidMetadata
}

// NewConfigError creates a new ConfigError.
func NewConfigError(entity, property, message string, cause error) *ConfigError {
	return &ConfigError{
		Entity:   entity,
		Property: property,
		Message:  message,
		Cause:    cause,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}
