package strategy

import "github.com/dshills/eventgate/internal/event"

// PointerCapture commits pending capture changes for the event's pointer
// and delivers the event to the capturing element, at-target only.
// Events without a capturing element pass through untouched.
type PointerCapture struct{}

// NewPointerCapture creates the pointer capture strategy.
func NewPointerCapture() *PointerCapture { return &PointerCapture{} }

// CanHandle implements dispatcher.Strategy.
func (*PointerCapture) CanHandle(e event.Event) bool {
	_, ok := e.(event.PointerSource)
	return ok
}

// Handle implements dispatcher.Strategy.
func (*PointerCapture) Handle(e event.Event, s event.Surface) error {
	host, ok := s.(CaptureHost)
	if !ok {
		return nil
	}
	id, _ := e.(event.PointerSource).Pointer()
	tbl := host.PointerState()
	if err := tbl.Commit(s, id); err != nil {
		return err
	}

	holder := tbl.Committed(id)
	if holder == nil {
		return nil
	}
	if a, ok := s.(attachmentChecker); ok && !a.TargetAttached(holder) {
		tbl.Release(id)
		return nil
	}

	b := e.EventBase()
	if t := b.Target(); t != nil && t != holder {
		return nil
	}
	b.Retarget(holder)
	b.SetPath(event.TargetOnlyPath(holder))
	event.Propagate(e)
	b.StopDispatch()
	return nil
}
