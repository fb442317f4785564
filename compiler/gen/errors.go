package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/repogen/compiler/plan"
	"github.com/syssam/repogen/compiler/token"
	sqlgen "github.com/syssam/repogen/dialect/sql"
	"github.com/syssam/repogen/schema"
)

// A DiagnosticKind classifies which stage of the compile pipeline a method
// failed in.
type DiagnosticKind int

const (
	// DiagTokenization is a malformed method name.
	DiagTokenization DiagnosticKind = iota
	// DiagPlan is a well-formed name that describes no valid plan.
	DiagPlan
	// DiagConfig is invalid entity or generation metadata.
	DiagConfig
	// DiagEmit is a plan the target dialect cannot lower.
	DiagEmit
	// DiagInternal is everything else.
	DiagInternal
)

var diagnosticNames = [...]string{
	DiagTokenization: "tokenization",
	DiagPlan:         "plan",
	DiagConfig:       "config",
	DiagEmit:         "emit",
	DiagInternal:     "internal",
}

// String returns the kind name.
func (k DiagnosticKind) String() string {
	if k < 0 || int(k) >= len(diagnosticNames) {
		return "internal"
	}
	return diagnosticNames[k]
}

// A Diagnostic is one method that failed to generate. Failures are isolated
// at method granularity: a diagnostic never stops the other methods of the
// same repository from generating.
type Diagnostic struct {
	Repository string
	Method     string
	Kind       DiagnosticKind
	Err        error
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s.%s: %s error: %v", d.Repository, d.Method, d.Kind, d.Err)
}

// Unwrap returns the underlying pipeline error.
func (d Diagnostic) Unwrap() error {
	return d.Err
}

// classify maps a pipeline error to its diagnostic kind.
func classify(err error) DiagnosticKind {
	switch {
	case token.IsError(err):
		return DiagTokenization
	case plan.IsError(err):
		return DiagPlan
	case schema.IsConfigError(err):
		return DiagConfig
	case sqlgen.IsError(err):
		return DiagEmit
	}
	return DiagInternal
}

// Diagnostics is the collected failures of one generation run.
type Diagnostics []Diagnostic

// Error implements the error interface.
func (ds Diagnostics) Error() string {
	msgs := make([]string, len(ds))
	for i, d := range ds {
		msgs[i] = d.Error()
	}
	return fmt.Sprintf("repogen: %d method(s) failed:\n\t%s", len(ds), strings.Join(msgs, "\n\t"))
}
