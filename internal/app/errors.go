package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrClosed indicates use of a shut down application.
	ErrClosed = errors.New("app: shut down")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("app: initializing %s: %v", e.Component, e.Err)
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error { return e.Err }
