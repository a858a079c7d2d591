package strategy

import (
	"gioui.org/f32"

	"github.com/dshills/eventgate/internal/dispatcher/capture"
	"github.com/dshills/eventgate/internal/event"
)

// CaptureHost is implemented by surfaces that expose their capture table.
type CaptureHost interface {
	PointerState() *capture.Table
}

// Picker is implemented by surfaces that can hit-test a position.
type Picker interface {
	Pick(pos f32.Point) event.Target
}

// Rooted is implemented by surfaces with a root element.
type Rooted interface {
	RootTarget() event.Target
}

// attachmentChecker is implemented by surfaces that know their elements.
type attachmentChecker interface {
	TargetAttached(t event.Target) bool
}

// position returns the position carried by pointer-like events.
func position(e event.Event) (f32.Point, bool) {
	switch ev := e.(type) {
	case *event.PointerEvent:
		return ev.Position, true
	case *event.MouseEvent:
		return ev.Position, true
	case *event.ClickEvent:
		return ev.Position, true
	}
	return f32.Point{}, false
}

func root(s event.Surface) event.Target {
	if r, ok := s.(Rooted); ok {
		return r.RootTarget()
	}
	return nil
}
