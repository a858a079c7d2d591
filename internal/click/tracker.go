package click

import (
	"time"

	"gioui.org/f32"
)

// tracker tracks click patterns for double/triple click detection.
type tracker struct {
	// Configuration
	maxTime     time.Duration
	maxDistance float32

	// Last click state
	lastPos   f32.Point
	lastTime  time.Time
	lastCount int
}

// newTracker creates a new click tracker.
func newTracker(maxTime time.Duration, maxDistance float32) *tracker {
	return &tracker{
		maxTime:     maxTime,
		maxDistance: maxDistance,
	}
}

// record records a press and returns the streak count (1, 2, or 3).
// The count wraps back to 1 after 3.
// If timestamp is zero, uses time.Now() as fallback.
func (t *tracker) record(pos f32.Point, timestamp time.Time) int {
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	if t.isPartOfSequence(pos, timestamp) {
		t.lastCount++
		if t.lastCount > 3 {
			t.lastCount = 1
		}
	} else {
		t.lastCount = 1
	}

	t.lastPos = pos
	t.lastTime = timestamp

	return t.lastCount
}

// isPartOfSequence checks if a press continues the current streak.
func (t *tracker) isPartOfSequence(pos f32.Point, timestamp time.Time) bool {
	if t.lastCount == 0 || t.lastTime.IsZero() {
		return false
	}

	// Negative elapsed time means clock skew: start a new sequence
	elapsed := timestamp.Sub(t.lastTime)
	if elapsed < 0 || elapsed > t.maxTime {
		return false
	}

	return manhattan(pos, t.lastPos) <= t.maxDistance
}

// reset clears the click tracking state.
func (t *tracker) reset() {
	t.lastCount = 0
	t.lastTime = time.Time{}
	t.lastPos = f32.Point{}
}

func manhattan(a, b f32.Point) float32 {
	d := a.Sub(b)
	if d.X < 0 {
		d.X = -d.X
	}
	if d.Y < 0 {
		d.Y = -d.Y
	}
	return d.X + d.Y
}

// Type represents the kind of click detected.
type Type uint8

const (
	// Single is a single click.
	Single Type = 1
	// Double is a double click.
	Double Type = 2
	// Triple is a triple click.
	Triple Type = 3
)

// String returns a string representation of the click type.
func (c Type) String() string {
	switch c {
	case Single:
		return "single"
	case Double:
		return "double"
	case Triple:
		return "triple"
	default:
		return "unknown"
	}
}
