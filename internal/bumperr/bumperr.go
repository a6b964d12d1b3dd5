// Package bumperr defines the error kinds surfaced by the bump pipeline.
// Every fatal path in the pipeline reduces to exactly one of these kinds so
// the CLI can print a single human-readable message and exit non-zero.
// Errors support wrapping via Unwrap so errors.Is/As work as expected.
package bumperr

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindUsage is a conflicting or missing override combination.
	KindUsage Kind = iota + 1
	// KindResolution is a fetch or archive-validation failure.
	KindResolution
	// KindPlan is a replacement rule constructed with no match value.
	KindPlan
	// KindApply is one or more rules unmatched against the current text.
	KindApply
	// KindRegression is a new version not strictly greater than the old.
	KindRegression
	// KindDuplicate is an open proposal already covering this declaration.
	KindDuplicate
	// KindHostAuth is an authentication failure against the code host.
	KindHostAuth
	// KindHostAPI is any other code-host API failure.
	KindHostAPI
	// KindRateLimit is a code-host rate-limit rejection.
	KindRateLimit
	// KindAudit is an external audit reporting failure on the new text.
	KindAudit
	// KindForkNotReady is a fork that never became visible within the
	// readiness deadline.
	KindForkNotReady
)

// String returns a short label for the kind, used in verbose logging.
func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindResolution:
		return "resolution"
	case KindPlan:
		return "plan"
	case KindApply:
		return "apply"
	case KindRegression:
		return "regression"
	case KindDuplicate:
		return "duplicate"
	case KindHostAuth:
		return "host-auth"
	case KindHostAPI:
		return "host-api"
	case KindRateLimit:
		return "rate-limit"
	case KindAudit:
		return "audit"
	case KindForkNotReady:
		return "fork-not-ready"
	default:
		return "unknown"
	}
}

// Error is a pipeline failure with a classified kind.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

// Kind returns the failure classification.
func (e *Error) Kind() Kind { return e.kind }

// Unwrap enables errors.Is/As to traverse the underlying cause.
func (e *Error) Unwrap() error { return e.cause }

// New creates an Error with a message.
func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

// Newf is a formatted variant.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that wraps an underlying cause.
func Wrap(kind Kind, msg string, cause error) error {
	if cause == nil {
		return New(kind, msg)
	}
	return &Error{kind: kind, msg: msg, cause: cause}
}

// IsKind reports whether err (or anything it wraps) is an Error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.kind == kind
	}
	return false
}

// KindOf extracts the kind from any error, returning 0 when the error is
// not a pipeline error.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.kind
	}
	return 0
}
