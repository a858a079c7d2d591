package dispatcher

// Gate is a scoped acquisition of a dispatcher's gate. While any gate is
// held, queued dispatches are deferred. Two gates over the same dispatcher
// compare equal.
//
// Pair every AcquireGate with a deferred or explicit Release:
//
//	g := d.AcquireGate()
//	defer g.Release()
type Gate struct {
	d *Dispatcher
}

// AcquireGate closes the gate.
func (d *Dispatcher) AcquireGate() Gate {
	d.gate++
	return Gate{d: d}
}

// Release opens the gate acquired by g. The release that brings the
// counter to zero drains the queue and returns the drain's error.
func (g Gate) Release() error {
	if g.d == nil {
		return nil
	}
	return g.d.ReleaseGate()
}

// Dispatcher returns the dispatcher the gate belongs to.
func (g Gate) Dispatcher() *Dispatcher { return g.d }

// abandon opens the gate without draining. Used while a panic unwinds.
// Events deferred behind a gate that is now open are released unprocessed,
// so nothing waits in the queue while the gate reads zero.
func (g Gate) abandon() {
	d := g.d
	if d == nil || d.gate == 0 {
		return
	}
	d.gate--
	if d.gate == 0 && d.q.Length() > 0 {
		d.logger.Warn("dispatcher: dropping %d deferred events after a panic", d.q.Length())
		discard(d.q)
	}
}

// ReleaseGate decrements the gate counter, draining when it reaches zero.
// An unmatched release is refused.
func (d *Dispatcher) ReleaseGate() error {
	if d.gate == 0 {
		d.violation("dispatcher: gate release without matching acquire")
		return ErrUnmatchedRelease
	}
	d.gate--
	if d.gate == 0 {
		return d.Drain()
	}
	return nil
}

// GateCount returns the current gate counter.
func (d *Dispatcher) GateCount() int { return d.gate }
