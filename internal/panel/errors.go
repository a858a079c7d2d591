package panel

import "errors"

// Panel errors.
var (
	// ErrDetached indicates the element is not attached to a panel.
	ErrDetached = errors.New("panel: element not attached")

	// ErrNotFocusable indicates focus was requested for an element that
	// cannot take it.
	ErrNotFocusable = errors.New("panel: element not focusable")
)
