// Package errors provides error handling for geckocaps.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Marking errors with a WebDriver status without touching the message
//
// Every error that leaves the capabilities resolver carries one of the
// WebDriver status sentinels below. The message is what the remote client
// sees, so constructors keep it verbatim and attach the status with Mark:
//
//	return errors.NewInvalidArgumentf("%s is not a string", key)
//
//	if errors.Is(err, errors.ErrInvalidArgument) {
//	    // malformed client request
//	}
//
//	status := errors.Status(err) // "invalid argument"
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// WebDriver error statuses produced while resolving a new session.
// Use these with errors.Is() for type-safe error checking.
var (
	// ErrInvalidArgument indicates a malformed client request: wrong JSON
	// shape, unrecognised option or conflicting configuration sources
	ErrInvalidArgument = New("invalid argument")

	// ErrSessionNotCreated indicates the environment could not satisfy the
	// request, e.g. the browser version could not be determined
	ErrSessionNotCreated = New("session not created")

	// ErrUnknownError indicates malformed auxiliary data such as an
	// undecodable profile archive
	ErrUnknownError = New("unknown error")
)

// WebDriver status strings as sent on the wire
const (
	StatusInvalidArgument   = "invalid argument"
	StatusSessionNotCreated = "session not created"
	StatusUnknownError      = "unknown error"
)

// Status returns the WebDriver error status for err.
// Errors not marked with one of the sentinels map to "unknown error".
func Status(err error) string {
	switch {
	case err == nil:
		return ""
	case Is(err, ErrInvalidArgument):
		return StatusInvalidArgument
	case Is(err, ErrSessionNotCreated):
		return StatusSessionNotCreated
	default:
		return StatusUnknownError
	}
}

// IsInvalidArgument checks if an error is or wraps ErrInvalidArgument
func IsInvalidArgument(err error) bool {
	return err != nil && Is(err, ErrInvalidArgument)
}

// IsSessionNotCreated checks if an error is or wraps ErrSessionNotCreated
func IsSessionNotCreated(err error) bool {
	return err != nil && Is(err, ErrSessionNotCreated)
}

// IsUnknownError checks if an error is or wraps ErrUnknownError
func IsUnknownError(err error) bool {
	return err != nil && Is(err, ErrUnknownError)
}

// NewInvalidArgument creates an invalid-argument error with msg as its message
func NewInvalidArgument(msg string) error {
	return Mark(New(msg), ErrInvalidArgument)
}

// NewInvalidArgumentf creates an invalid-argument error with a formatted message
func NewInvalidArgumentf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidArgument)
}

// NewSessionNotCreatedf creates a session-not-created error with a formatted message
func NewSessionNotCreatedf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrSessionNotCreated)
}

// NewUnknownErrorf creates an unknown error with a formatted message
func NewUnknownErrorf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrUnknownError)
}

// WrapSessionNotCreated wraps an environment failure as session-not-created.
// The cause message is embedded so the client sees why.
func WrapSessionNotCreated(err error, context string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, context), ErrSessionNotCreated)
}

// WrapUnknownError wraps an unexpected failure as an unknown error
func WrapUnknownError(err error, context string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, context), ErrUnknownError)
}
