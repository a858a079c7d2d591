package script

import "errors"

var (
	// ErrClosed is returned when a closed script is used.
	ErrClosed = errors.New("script: closed")

	// ErrMissingHandle is returned when a script defines no handle function.
	ErrMissingHandle = errors.New("script: handle function not defined")
)
