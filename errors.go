package astarnn

import (
	"errors"
	"fmt"
)

// ErrCode identifies the taxonomy of errors the core can raise. The numbering
// is part of the public contract: Ok must be 0 and Unknown must be 7 for
// binary compatibility with the reference implementation this library is
// modeled on.
type ErrCode int

const (
	Ok ErrCode = iota
	MemFail
	InvalidDim
	InvalidNumShells
	InvalidPackingRadius
	InCallback
	InsufficientBuffers
	Unknown
)

func (c ErrCode) String() string {
	switch c {
	case Ok:
		return "Ok"
	case MemFail:
		return "MemFail"
	case InvalidDim:
		return "InvalidDim"
	case InvalidNumShells:
		return "InvalidNumShells"
	case InvalidPackingRadius:
		return "InvalidPackingRadius"
	case InCallback:
		return "InCallback"
	case InsufficientBuffers:
		return "InsufficientBuffers"
	case Unknown:
		return "Unknown"
	default:
		return "<unknown error code>"
	}
}

// Error is the error type the public operations of this package return for
// every failure the package itself detects. It always carries one of the
// ErrCode taxonomy values. Errors from a query rate limiter (for example a
// cancelled context) and from unmapping an mmap arena in Close are returned
// unwrapped.
//
// The original cause (if any) can be retrieved with errors.Unwrap.
type Error struct {
	Code    ErrCode
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("astarnn: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("astarnn: %s", e.Code)
}

func (e *Error) Unwrap() error { return e.cause }

func newError(code ErrCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func wrapError(code ErrCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// errInvalidDim reports n <= 0.
func errInvalidDim(n int) *Error {
	return newError(InvalidDim, fmt.Sprintf("dimension must be positive, got %d", n))
}

// errInvalidNumShells reports numShells < 0 or numShells > MaxNumShells.
func errInvalidNumShells(numShells int) *Error {
	return newError(InvalidNumShells, fmt.Sprintf("num_shells must be in [0, %d], got %d", MaxNumShells(), numShells))
}

// errInvalidPackingRadius reports rho <= 0.
func errInvalidPackingRadius(rho float64) *Error {
	return newError(InvalidPackingRadius, fmt.Sprintf("packing radius must be positive, got %v", rho))
}

// errInCallback wraps a callback failure so it surfaces unchanged through
// errors.Is / errors.As while still carrying the InCallback taxonomy code.
func errInCallback(cause error) *Error {
	return wrapError(InCallback, "callback returned an error", cause)
}

// propagateCallbackError implements the downstream-propagation rule: a
// callback failure that already carries a known taxonomy code propagates
// verbatim, and only a callback error outside the taxonomy gets wrapped as
// InCallback.
func propagateCallbackError(cerr error) error {
	var aerr *Error
	if errors.As(cerr, &aerr) {
		return aerr
	}
	return errInCallback(cerr)
}

// errUnknown wraps an internal consistency-check failure: a bug in the core,
// never a user error.
func errUnknown(message string) *Error {
	return newError(Unknown, message)
}
