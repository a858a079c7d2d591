package strategy

import "github.com/dshills/eventgate/internal/event"

// Default propagates any event along the path from the root to its
// target. Untargeted pointer events are hit-tested; other untargeted
// events go to the surface root.
type Default struct{}

// NewDefault creates the catch-all strategy.
func NewDefault() *Default { return &Default{} }

// CanHandle implements dispatcher.Strategy.
func (*Default) CanHandle(event.Event) bool { return true }

// Handle implements dispatcher.Strategy.
func (*Default) Handle(e event.Event, s event.Surface) error {
	b := e.EventBase()
	if b.Target() == nil {
		var t event.Target
		if pos, ok := position(e); ok {
			if p, ok := s.(Picker); ok {
				t = p.Pick(pos)
			}
		} else {
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
