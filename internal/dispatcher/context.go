package dispatcher

import "github.com/eapache/queue"

// dispatchContext is a saved gate counter and queue.
type dispatchContext struct {
	gate int
	q    *queue.Queue
}

// PushContext starts an isolated dispatch scope, typically for a modal
// surface. The current queue is drained first, then the gate counter and
// queue are saved and replaced by an open gate and an empty queue.
//
// An escape signal raised by that drain does not stop the push: the queue
// is still emptied, the scope is pushed, and the signal is returned. Any
// other drain error aborts the push and no scope is pushed.
func (d *Dispatcher) PushContext() error {
	var exit *ExitFrame
	for d.q.Length() > 0 {
		err := d.Drain()
		if err == nil {
			continue
		}
		ef := escapeOf(err)
		if ef == nil {
			return err
		}
		if exit == nil {
			exit = ef
		}
	}
	d.contexts = append(d.contexts, dispatchContext{gate: d.gate, q: d.q})
	d.gate = 0
	d.q = getQueue()
	d.logger.Debug("dispatcher: pushed context, depth=%d", len(d.contexts))
	if exit != nil {
		return exit
	}
	return nil
}

// PopContext restores the scope saved by the matching PushContext. The
// current scope must have an open gate and an empty queue.
func (d *Dispatcher) PopContext() error {
	if len(d.contexts) == 0 {
		d.violation("dispatcher: pop without a pushed context")
		return ErrNoContext
	}
	if d.gate != 0 || d.q.Length() != 0 {
		d.violation("dispatcher: pop with gate=%d queued=%d", d.gate, d.q.Length())
		return ErrContextNotDrained
	}

	top := d.contexts[len(d.contexts)-1]
	d.contexts = d.contexts[:len(d.contexts)-1]
	putQueue(d.q)
	d.gate = top.gate
	d.q = top.q
	d.logger.Debug("dispatcher: popped context, depth=%d", len(d.contexts))
	return nil
}

// ContextDepth returns the number of pushed contexts.
func (d *Dispatcher) ContextDepth() int { return len(d.contexts) }
