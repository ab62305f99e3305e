// Package naverr defines the error taxonomy shared by every wayfinder package.
//
// All failures are reported as *Error values carrying a Kind. Callers match a
// whole class of failures with errors.Is against the Err* sentinels or with
// the IsX helpers:
//
//	if _, err := r.MoveTo("detail", data, nil); naverr.IsArgument(err) {
//	    // fix the data and retry
//	}
package naverr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	KindConfiguration    Kind = iota + 1 // duplicate ids, missing home, missing screen source
	KindNavigation                       // unknown destination, pop on a single-entry stack
	KindArgument                         // required value missing, value type mismatch
	KindTransactionUsage                 // mutate before Begin, tag collisions
	KindAnimationState                   // play without a bound target
	KindOutOfRange                       // backstack depth larger than the stack
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNavigation:
		return "navigation"
	case KindArgument:
		return "argument"
	case KindTransactionUsage:
		return "transaction usage"
	case KindAnimationState:
		return "animation state"
	case KindOutOfRange:
		return "out of range"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per Kind. Every *Error matches the sentinel of its kind.
var (
	ErrConfiguration    = errors.New("configuration error")
	ErrNavigation       = errors.New("navigation error")
	ErrArgument         = errors.New("argument error")
	ErrTransactionUsage = errors.New("transaction usage error")
	ErrAnimationState   = errors.New("animation state error")
	ErrOutOfRange       = errors.New("out of range")
)

// Error is the concrete error type returned by wayfinder.
type Error struct {
	Kind    Kind
	Op      string // Operation that failed (e.g., "register_destination", "accept")
	Subject string // Id, tag or slot name the failure is about
	Err     error  // Underlying error, may be nil
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("wayfinder: %s: %s", e.Op, e.Kind)
	if e.Subject != "" {
		msg += fmt.Sprintf(" %q", e.Subject)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindNavigation:
		return ErrNavigation
	case KindArgument:
		return ErrArgument
	case KindTransactionUsage:
		return ErrTransactionUsage
	case KindAnimationState:
		return ErrAnimationState
	case KindOutOfRange:
		return ErrOutOfRange
	}
	return nil
}

// New creates an error of the given kind.
func New(kind Kind, op, subject string, err error) *Error {
	return &Error{Kind: kind, Op: op, Subject: subject, Err: err}
}

// Configuration creates a configuration error with a formatted reason.
func Configuration(op, subject, format string, args ...any) *Error {
	return New(KindConfiguration, op, subject, fmt.Errorf(format, args...))
}

// Navigation creates a navigation error with a formatted reason.
func Navigation(op, subject, format string, args ...any) *Error {
	return New(KindNavigation, op, subject, fmt.Errorf(format, args...))
}

// Argument creates an argument error with a formatted reason.
func Argument(op, subject, format string, args ...any) *Error {
	return New(KindArgument, op, subject, fmt.Errorf(format, args...))
}

// TransactionUsage creates a transaction usage error with a formatted reason.
func TransactionUsage(op, subject, format string, args ...any) *Error {
	return New(KindTransactionUsage, op, subject, fmt.Errorf(format, args...))
}

// AnimationState creates an animation state error with a formatted reason.
func AnimationState(op, subject, format string, args ...any) *Error {
	return New(KindAnimationState, op, subject, fmt.Errorf(format, args...))
}

// OutOfRange creates an out of range error for a depth request.
func OutOfRange(op string, depth, size int) *Error {
	return New(KindOutOfRange, op, "", fmt.Errorf("depth %d, size %d", depth, size))
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsConfiguration(err error) bool    { return errors.Is(err, ErrConfiguration) }
func IsNavigation(err error) bool       { return errors.Is(err, ErrNavigation) }
func IsArgument(err error) bool         { return errors.Is(err, ErrArgument) }
func IsTransactionUsage(err error) bool { return errors.Is(err, ErrTransactionUsage) }
func IsAnimationState(err error) bool   { return errors.Is(err, ErrAnimationState) }
func IsOutOfRange(err error) bool       { return errors.Is(err, ErrOutOfRange) }
