package strategy

import (
	"github.com/dshills/eventgate/internal/dispatcher"
	"github.com/dshills/eventgate/internal/dispatcher/hook"
	"github.com/dshills/eventgate/internal/event"
)

// MouseCompat synthesizes MouseDown, MouseMove and MouseUp after primary
// pointer events. Preventing the default of a PointerDown suppresses
// synthesis for that pointer until its PointerUp or PointerCancel.
type MouseCompat struct {
	d      *dispatcher.Dispatcher
	logger hook.Logger
}

// NewMouseCompat creates the hook for dispatcher d.
func NewMouseCompat(d *dispatcher.Dispatcher, logger hook.Logger) *MouseCompat {
	return &MouseCompat{d: d, logger: logger}
}

// Name implements hook.Hook.
func (*MouseCompat) Name() string { return "mouse-compat" }

// Priority implements hook.Hook.
func (*MouseCompat) Priority() int { return hook.PriorityCompat }

// PostDispatch implements hook.PostDispatchHook.
func (m *MouseCompat) PostDispatch(e event.Event, info *hook.Info) {
	p, ok := e.(*event.PointerEvent)
	if !ok {
		return
	}
	tbl := m.d.PointerState()
	t := p.TypeID()

	if t == event.PointerDown && p.IsDefaultPrevented() {
		tbl.SuppressCompat(p.PointerID)
		return
	}

	if tbl.ShouldSynthesizeCompat(p) {
		if me, ok := event.MouseEventFrom(p); ok {
			if leaf := p.LeafTarget(); leaf != nil {
				me.SetTarget(leaf)
			}
			if err := m.d.Dispatch(me, info.Surface, dispatcher.Queued); err != nil && m.logger != nil {
				m.logger.Warn("mouse-compat: dispatch %s: %v", me.TypeID(), err)
			}
			me.Dispose()
		}
	}

	if t == event.PointerUp || t == event.PointerCancel {
		tbl.ActivateCompat(p.PointerID)
	}
}
