package event

import "gioui.org/f32"

// Surface is the destination an event is dispatched to, typically a panel.
type Surface interface {
	// ExecuteDefaultAction runs the surface's default behaviour for e at
	// e's current target. Returning an error aborts processing of e.
	ExecuteDefaultAction(e Event) error
}

// PreDispatcher is implemented by events that prepare themselves before
// the strategy chain runs.
type PreDispatcher interface {
	PreDispatch(s Surface)
}

// PostDispatcher is implemented by events that clean up after the default
// actions ran.
type PostDispatcher interface {
	PostDispatch(s Surface)
}

// PointerPositionRecorder is implemented by surfaces that remember the
// last known position of each pointer.
type PointerPositionRecorder interface {
	SavePointerPosition(pointerID int, pos f32.Point)
}

// FocusProvider is implemented by surfaces with keyboard focus.
type FocusProvider interface {
	FocusedElement() Target
}
