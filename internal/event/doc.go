// Package event defines the units of work routed by the dispatcher.
//
// Every event embeds Base, which carries the propagation state the
// dispatcher and its strategies mutate while routing: the target and its
// propagation path, the current phase, and the stop / prevent flags.
//
// # Type tags
//
// Each event kind is identified by a TypeID obtained from RegisterType at
// package initialization. Strategies compare TypeIDs instead of using type
// switches when only the kind matters:
//
//	if e.TypeID() == event.PointerDown {
//	    ...
//	}
//
// # Lifecycle
//
// Events are usually checked out of a process-wide Pool. A checked-out event
// starts with a reference count of one. The dispatcher calls Acquire when it
// defers an event into its queue and Dispose once the deferred processing
// completes, so the producer can Dispose its own reference as soon as
// Dispatch returns:
//
//	e := event.GetPointerEvent(event.PointerDown)
//	defer e.Dispose()
//	e.PointerID = 0
//	err := d.Dispatch(e, surface, dispatcher.Queued)
//
// When the count reaches zero the event returns to its pool and must not be
// used again.
//
// # Propagation
//
// Propagate walks a Path in three phases: trickle-down from the root to the
// target's parent, at-target for every target element, and bubble-up from
// the parent back to the root. StopPropagation ends the walk after the
// current element; StopImmediatePropagation additionally tells the current
// element to skip its remaining listeners.
package event
