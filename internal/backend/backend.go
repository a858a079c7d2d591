// Package backend translates device input into engine events.
//
// Terminal adapts tcell screen events and Gio adapts gio pointer events.
// Both hand their events to a Sink, normally a *panel.Panel. Producers run
// on the dispatcher's goroutine.
package backend

import (
	"gioui.org/io/pointer"

	"github.com/dshills/eventgate/internal/dispatcher"
	"github.com/dshills/eventgate/internal/event"
)

// Sink receives translated events.
type Sink interface {
	// Dispatch delivers e in queued mode.
	Dispatch(e event.Event) error
	// DispatchImmediate delivers e bypassing the gate.
	DispatchImmediate(e event.Event) error
}

// Logger is the logging interface used by producers.
type Logger = dispatcher.Logger

// Button indices reported in PointerEvent.Button.
const (
	ButtonPrimary   = 0
	ButtonTertiary  = 1
	ButtonSecondary = 2
)

var buttonOrder = []struct {
	mask  pointer.Buttons
	index int
}{
	{pointer.ButtonPrimary, ButtonPrimary},
	{pointer.ButtonTertiary, ButtonTertiary},
	{pointer.ButtonSecondary, ButtonSecondary},
}

// buttonTransitions lists the buttons pressed and released between two
// button states.
func buttonTransitions(prev, next pointer.Buttons) (pressed, released []int) {
	for _, b := range buttonOrder {
		was, is := prev.Contain(b.mask), next.Contain(b.mask)
		switch {
		case is && !was:
			pressed = append(pressed, b.index)
		case was && !is:
			released = append(released, b.index)
		}
	}
	return pressed, released
}

// send dispatches a pooled event and returns it to its pool.
func send(s Sink, e event.Event, immediate bool) error {
	defer e.EventBase().Dispose()
	if immediate {
		return s.DispatchImmediate(e)
	}
	return s.Dispatch(e)
}
