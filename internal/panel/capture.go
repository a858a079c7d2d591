package panel

import "github.com/dshills/eventgate/internal/event"

// HasPointerCapture reports whether el holds the capture of pointer id.
func HasPointerCapture(el *Element, id int) bool {
	if el == nil || el.panel == nil {
		return false
	}
	return el.panel.PointerState().HasCapture(el, id)
}

// CapturePointer routes pointer id's events to el from the next commit on.
func CapturePointer(el *Element, id int) error {
	if el == nil || el.panel == nil {
		return ErrDetached
	}
	return el.panel.PointerState().Capture(el, id)
}

// ReleasePointer releases el's capture of pointer id, if it holds it.
func ReleasePointer(el *Element, id int) {
	if el == nil || el.panel == nil {
		return
	}
	el.panel.PointerState().ReleaseFrom(el, id)
}

// GetCapturingElement returns the pending holder of pointer id, or nil.
func GetCapturingElement(p *Panel, id int) event.Target {
	return p.PointerState().Pending(id)
}

// ReleasePanelPointer releases pointer id whoever holds it.
func ReleasePanelPointer(p *Panel, id int) {
	p.PointerState().Release(id)
}

// ActivateCompatibilityMouseEvents allows mouse events to be synthesized
// for pointer id again.
func ActivateCompatibilityMouseEvents(p *Panel, id int) {
	p.PointerState().ActivateCompat(id)
}

// PreventCompatibilityMouseEvents stops synthesized mouse events for
// pointer id.
func PreventCompatibilityMouseEvents(p *Panel, id int) {
	p.PointerState().SuppressCompat(id)
}

// ShouldSendCompatibilityMouseEvents reports whether e should be followed
// by a synthesized mouse event.
func ShouldSendCompatibilityMouseEvents(p *Panel, e event.Event) bool {
	return p.PointerState().ShouldSynthesizeCompat(e)
}

// ProcessPointerCapture commits pending capture changes of pointer id.
func ProcessPointerCapture(p *Panel, id int) error {
	return p.PointerState().Commit(p, id)
}
