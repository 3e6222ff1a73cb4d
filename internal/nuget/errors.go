package nuget

import (
	"errors"
	"fmt"
)

// Error kinds returned by registry operations. Every anticipated failure
// unwraps to exactly one of these, so callers branch with errors.Is.
var (
	ErrAPI             = errors.New("registry error")
	ErrAuthRequired    = errors.New("authentication required")
	ErrRateLimited     = errors.New("rate limited")
	ErrParse           = errors.New("malformed response")
	ErrNetwork         = errors.New("network error")
	ErrPackageNotFound = errors.New("package not found")
	ErrVersionNotFound = errors.New("version not found")
	ErrNotFound        = errors.New("not found")
	ErrInvalidSource   = errors.New("invalid source")
)

// RegistryError carries structured detail alongside the error kind.
type RegistryError struct {
	Kind       error
	Message    string
	Status     int            // HTTP status, when one was received
	RetryAfter int            // seconds, from a 429 Retry-After header
	Hint       string         // remediation guidance for the user
	Details    map[string]any // raw diagnostic detail
}

func (e *RegistryError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	}
	return e.Kind.Error()
}

func (e *RegistryError) Unwrap() error {
	return e.Kind
}

// NewRegistryError creates a registry error of the given kind.
func NewRegistryError(kind error, message string) *RegistryError {
	return &RegistryError{
		Kind:    kind,
		Message: message,
		Details: make(map[string]any),
	}
}

// AsRegistryError extracts a *RegistryError from an error chain.
func AsRegistryError(err error) (*RegistryError, bool) {
	var re *RegistryError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
