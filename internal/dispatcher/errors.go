package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrEventReleased indicates the event's last reference was already disposed.
	ErrEventReleased = errors.New("dispatcher: event already released")

	// ErrAlreadyQueued indicates the event is still waiting in a queue.
	ErrAlreadyQueued = errors.New("dispatcher: event already queued")

	// ErrUnmatchedRelease indicates a gate release without a matching acquire.
	ErrUnmatchedRelease = errors.New("dispatcher: gate released more often than acquired")

	// ErrNoContext indicates PopContext was called with no pushed context.
	ErrNoContext = errors.New("dispatcher: no dispatch context to pop")

	// ErrContextNotDrained indicates the current context still holds a
	// closed gate or queued events.
	ErrContextNotDrained = errors.New("dispatcher: dispatch context not drained")

	// ErrDrainTooDeep indicates nested drains exceeded Config.MaxDrainDepth.
	ErrDrainTooDeep = errors.New("dispatcher: nested drain depth exceeded")

	// ErrNoSharedDispatcher indicates the shared dispatcher is not initialized.
	ErrNoSharedDispatcher = errors.New("dispatcher: shared dispatcher not initialized")
)
