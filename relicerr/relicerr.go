// Package relicerr implements the core's error-handling design (spec §7):
// a fixed set of error kinds wrapped with enough context to locate the
// failing operation, without any internal layer suppressing or retrying a
// failure beyond the two bounded retries §4.7 itself allows for (the
// Montgomery corrective subtraction and the rdcs quotient loop, both
// implemented inline in package fp).
//
// Wrapping rides on github.com/pkg/errors — the one ecosystem error-
// wrapping library present anywhere in the retrieved corpus
// (github.com/xtaci/kcptun wraps its dial/listen failures with it) — rather
// than a hand-rolled %w chain.
package relicerr

import "github.com/pkg/errors"

// Kind enumerates the error kinds of spec §7. Kind is not itself an error
// type — callers get a *Error, whose Kind() method returns one of these —
// matching the spec's instruction to model "kinds, not types".
type Kind int

const (
	// OutOfMemory: an arena or heap allocation failed; any resources
	// already acquired for the failing operation have been released.
	OutOfMemory Kind = iota
	// PrecisionExceeded: a value was requested at a precision above the
	// compiled-in maximum (e.g. a BigInt that would not fit FP_DIGS).
	PrecisionExceeded
	// InvalidInput: inversion/division of zero, or a point that fails
	// its on-curve check.
	InvalidInput
	// NoValidConfig: a variant was invoked in a configuration that does
	// not support it (LODAH on a supersingular binary curve, τ-NAF
	// right-to-left in mixed-coordinate strip mode, ...).
	NoValidConfig
	// Internal: an unreachable-state assertion; should never occur in
	// correct code, and indicates a bug in this library rather than in
	// the caller.
	Internal
)

func (k Kind) String() string {
	switch k {
	case OutOfMemory:
		return "OutOfMemory"
	case PrecisionExceeded:
		return "PrecisionExceeded"
	case InvalidInput:
		return "InvalidInput"
	case NoValidConfig:
		return "NoValidConfig"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is the core's error value: a Kind plus the wrapped cause chain
// pkg/errors builds (stack trace attached at the New/Wrap call site).
type Error struct {
	kind  Kind
	cause error
}

func (e *Error) Error() string { return e.kind.String() + ": " + e.cause.Error() }

// Unwrap exposes the wrapped cause to errors.Is/As and to
// github.com/pkg/errors.Cause.
func (e *Error) Unwrap() error { return e.cause }

// Kind returns the error's kind.
func (e *Error) Kind() Kind { return e.kind }

// New creates a Kind-tagged error from a message.
func New(kind Kind, msg string) error {
	return &Error{kind: kind, cause: errors.New(msg)}
}

// Wrapf creates a Kind-tagged error wrapping an existing cause with
// additional context, preserving the original error in the Unwrap/Cause
// chain.
func Wrapf(kind Kind, cause error, format string, args ...interface{}) error {
	return &Error{kind: kind, cause: errors.Wrapf(cause, format, args...)}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.kind == kind
	}
	return false
}
