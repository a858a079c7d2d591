// Package capture tracks which element owns each pointer.
//
// Capture and release calls only change the pending holder. Commit
// reconciles the committed holder with the pending one and announces the
// change with exactly one pair of transition events, however many capture
// and release calls happened in between.
package capture

import (
	"errors"
	"fmt"

	"github.com/dshills/eventgate/internal/event"
)

// MaxPointers is the number of pointer ids tracked.
const MaxPointers = 32

// Sender delivers a synthesized transition event to a surface.
type Sender func(e event.Event, s event.Surface) error

// Logger receives contract violation warnings.
type Logger interface {
	Warn(msg string, args ...any)
}

// Table is the per-pointer capture state of one dispatcher.
type Table struct {
	primary int
	send    Sender
	claim   func() bool
	logger  Logger

	pending   [MaxPointers]event.Target
	committed [MaxPointers]event.Target
	compat    [MaxPointers]bool
}

// NewTable creates a capture table. primary is the pointer whose
// transitions also produce legacy mouse capture events. A nil send
// propagates transition events synchronously.
func NewTable(primary int, send Sender) *Table {
	t := &Table{primary: primary, send: send}
	t.Reset()
	return t
}

// SetExclusiveClaim sets the predicate that blocks capture of the primary
// pointer while it returns true.
func (t *Table) SetExclusiveClaim(claim func() bool) { t.claim = claim }

// SetLogger sets the logger for rejected requests.
func (t *Table) SetLogger(l Logger) { t.logger = l }

// PrimaryPointerID returns the primary pointer id.
func (t *Table) PrimaryPointerID() int { return t.primary }

func valid(id int) bool { return id >= 0 && id < MaxPointers }

func (t *Table) warn(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Warn(msg, args...)
	}
}

// Capture makes target the pending holder of pointer id. It fails when
// the id is out of range or the primary pointer is exclusively claimed.
func (t *Table) Capture(target event.Target, id int) error {
	if !valid(id) {
		t.warn("capture: pointer %d out of range", id)
		return ErrPointerOutOfRange
	}
	if id == t.primary && t.claim != nil && t.claim() {
		t.warn("capture: %s cannot capture pointer %d while it is exclusively claimed",
			event.TargetName(target), id)
		return ErrExclusiveClaim
	}
	t.pending[id] = target
	return nil
}

// Release clears the pending holder of pointer id.
func (t *Table) Release(id int) {
	if valid(id) {
		t.pending[id] = nil
	}
}

// ReleaseFrom clears the pending holder of pointer id if it is target.
func (t *Table) ReleaseFrom(target event.Target, id int) {
	if valid(id) && t.pending[id] == target {
		t.pending[id] = nil
	}
}

// ReleaseAll clears every pending capture held by target.
func (t *Table) ReleaseAll(target event.Target) {
	for i := range t.pending {
		if t.pending[i] == target {
			t.pending[i] = nil
		}
	}
}

// HasCapture reports whether target is the pending holder of pointer id.
func (t *Table) HasCapture(target event.Target, id int) bool {
	return valid(id) && target != nil && t.pending[id] == target
}

// Pending returns the pending holder of pointer id.
func (t *Table) Pending(id int) event.Target {
	if !valid(id) {
		return nil
	}
	return t.pending[id]
}

// Committed returns the element currently receiving pointer id's events.
func (t *Table) Committed(id int) event.Target {
	if !valid(id) {
		return nil
	}
	return t.committed[id]
}

// Commit announces a pending capture change on surface s. The previous
// holder gets a lost-capture event naming the new holder, then the new
// holder gets a got-capture event naming the previous one.
func (t *Table) Commit(s event.Surface, id int) error {
	if !valid(id) {
		return ErrPointerOutOfRange
	}
	prev, next := t.committed[id], t.pending[id]
	if prev == next {
		return nil
	}

	var errs []error
	if prev != nil {
		errs = append(errs, t.transition(s, event.LostPointerCapture, prev, next, id))
		if id == t.primary {
			errs = append(errs, t.transition(s, event.MouseCaptureOut, prev, next, id))
		}
	}
	if next != nil {
		errs = append(errs, t.transition(s, event.GotPointerCapture, next, prev, id))
		if id == t.primary {
			errs = append(errs, t.transition(s, event.MouseCapture, next, prev, id))
		}
	}
	t.committed[id] = next
	return errors.Join(errs...)
}

func (t *Table) transition(s event.Surface, typ event.TypeID, target, related event.Target, id int) error {
	e := event.GetCaptureEvent(typ, target, related, id)
	defer e.Dispose()
	if t.send == nil {
		event.Propagate(e)
		return nil
	}
	if err := t.send(e, s); err != nil {
		return fmt.Errorf("capture: send %s: %w", typ, err)
	}
	return nil
}

// ActivateCompat allows compatibility mouse events for pointer id.
func (t *Table) ActivateCompat(id int) {
	if valid(id) {
		t.compat[id] = true
	}
}

// SuppressCompat stops compatibility mouse events for pointer id until
// ActivateCompat is called.
func (t *Table) SuppressCompat(id int) {
	if valid(id) {
		t.compat[id] = false
	}
}

// CompatActive reports whether compatibility events are allowed for id.
func (t *Table) CompatActive(id int) bool {
	return valid(id) && t.compat[id]
}

// ShouldSynthesizeCompat reports whether e comes from a primary pointer
// whose compatibility events are not suppressed.
func (t *Table) ShouldSynthesizeCompat(e event.Event) bool {
	ps, ok := e.(event.PointerSource)
	if !ok {
		return false
	}
	id, primary := ps.Pointer()
	return primary && t.CompatActive(id)
}

// Reset restores the initial state: no holders and compatibility allowed.
func (t *Table) Reset() {
	for i := 0; i < MaxPointers; i++ {
		t.pending[i] = nil
		t.committed[i] = nil
		t.compat[i] = true
	}
}
