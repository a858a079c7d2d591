package capture

import "errors"

// Capture errors.
var (
	// ErrPointerOutOfRange indicates a pointer id outside [0, MaxPointers).
	ErrPointerOutOfRange = errors.New("capture: pointer id out of range")

	// ErrExclusiveClaim indicates the primary pointer is exclusively
	// claimed by a subsystem that does not use capture.
	ErrExclusiveClaim = errors.New("capture: primary pointer exclusively claimed")
)
