package dispatcher

import "errors"

// ExitFrame is the escape signal. A default action returns it during
// layout processing to abandon the current frame. Drain keeps processing
// the remainder of its queue and returns the signal when it is done.
type ExitFrame struct {
	// Reason describes why the frame was abandoned.
	Reason string
}

// Error implements error.
func (e *ExitFrame) Error() string {
	if e.Reason == "" {
		return "dispatcher: exit frame"
	}
	return "dispatcher: exit frame: " + e.Reason
}

// IsExitFrame reports whether err carries an escape signal.
func IsExitFrame(err error) bool {
	var ef *ExitFrame
	return errors.As(err, &ef)
}

// escapeOf returns the escape signal carried by err. Joined errors never
// count as an escape, since they also carry a failure that must surface.
func escapeOf(err error) *ExitFrame {
	if err == nil {
		return nil
	}
	if _, joined := err.(interface{ Unwrap() []error }); joined {
		return nil
	}
	var ef *ExitFrame
	if errors.As(err, &ef) {
		return ef
	}
	return nil
}
