package strategy

import "github.com/dshills/eventgate/internal/event"

// Focus routes events without a target to the focused element, or to the
// surface root when nothing has focus.
type Focus struct {
	name  string
	match func(e event.Event) bool
}

// NewKeyboard routes keyboard events.
func NewKeyboard() *Focus {
	return &Focus{
		name: "keyboard",
		match: func(e event.Event) bool {
			_, ok := e.(*event.KeyEvent)
			return ok
		},
	}
}

// NewCommand routes command events.
func NewCommand() *Focus {
	return &Focus{
		name: "command",
		match: func(e event.Event) bool {
			_, ok := e.(*event.CommandEvent)
			return ok
		},
	}
}

// Name returns the strategy name.
func (f *Focus) Name() string { return f.name }

// CanHandle implements dispatcher.Strategy.
func (f *Focus) CanHandle(e event.Event) bool { return f.match(e) }

// Handle implements dispatcher.Strategy.
func (f *Focus) Handle(e event.Event, s event.Surface) error {
	b := e.EventBase()
	if b.Target() == nil {
		var t event.Target
		if fp, ok := s.(event.FocusProvider); ok {
			t = fp.FocusedElement()
		}
		if t == nil {
			t = root(s)
		}
		if t == nil {
			return nil
		}
		b.SetTarget(t)
	}
	event.Propagate(e)
	b.StopDispatch()
	return nil
}
