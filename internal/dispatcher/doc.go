// Package dispatcher sequences events and routes them to their destination.
//
// The dispatcher is the single entry point for every event in the UI:
// pointer and keyboard input from a backend, commands, and events raised
// by UI logic while it handles other events.
//
// # Gate and Queue
//
// The dispatcher holds a gate counter and a FIFO queue of (event, surface)
// records. While the gate reads zero, Dispatch routes an event right away.
// While it is closed, events are appended to the queue, and the release
// that brings the counter back to zero drains it:
//
//	g := d.AcquireGate()
//	d.Dispatch(a, surface, dispatcher.Queued) // deferred
//	d.Dispatch(b, surface, dispatcher.Queued) // deferred
//	err := g.Release()                        // a, then b
//
// Immediate mode bypasses the gate entirely. It is meant for events that
// must be seen before anything queued, such as geometry changes.
//
// # Ordering
//
// Drain swaps the live queue for a fresh one before processing. Each
// processed event holds the gate while it is routed, so the events it
// raises land in the fresh queue and are drained, recursively, as soon as
// that event finishes. An event A that raises B and C is therefore
// delivered as A, B, C before any event that was queued ahead of A's
// processing.
//
// # Processing
//
// When an event is processed:
//
//  1. The event's own PreDispatch runs, if it has one
//  2. Pre-dispatch hooks run (a hook may stop dispatch)
//  3. The strategy chain runs until a strategy consumes the event
//  4. The surface runs its default action for each target
//  5. The event's PostDispatch and the post-dispatch hooks run
//  6. The click detector sees the fully processed event
//  7. Events raised meanwhile are drained
//
// # Contexts
//
// PushContext drains the current queue and installs an empty one with the
// gate open, isolating a modal scope. PopContext restores the previous
// scope once the inner one is drained.
//
// # Escape Signal
//
// A default action may return an *ExitFrame to abort the current frame.
// Drain remembers the first one, keeps processing the rest of its queue,
// and returns the signal afterwards.
//
// # Thread Safety
//
// A Dispatcher is not safe for concurrent use. It belongs to the goroutine
// that owns its surfaces; backends hand events to that goroutine.
package dispatcher
