package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested object was not found or has no body.
	ErrNotFound = errors.New("storage: object not found")

	// ErrAccessDenied indicates the backend refused the request.
	ErrAccessDenied = errors.New("storage: access denied")

	// ErrInvalidRoot indicates a storage root not of the form scheme://bucket/prefix.
	ErrInvalidRoot = errors.New("storage: invalid storage root")

	// ErrTooLarge indicates an object exceeded the configured read limit.
	ErrTooLarge = errors.New("storage: object exceeds size limit")

	// ErrNotSupported indicates no provider is registered for a scheme.
	ErrNotSupported = errors.New("storage: provider not supported")
)

// Error adds operation context to a storage failure.
type Error struct {
	Op       string
	Path     string
	Provider Provider
	Err      error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage %s: %s failed for %s: %v", e.Provider, e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("storage %s: %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with the operation and path that produced it.
func NewError(op, path string, provider Provider, err error) error {
	return &Error{Op: op, Path: path, Provider: provider, Err: err}
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAccessDenied reports whether err is, or wraps, ErrAccessDenied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsTooLarge reports whether err is, or wraps, ErrTooLarge.
func IsTooLarge(err error) bool {
	return errors.Is(err, ErrTooLarge)
}
