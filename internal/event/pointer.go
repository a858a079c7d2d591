package event

import (
	"gioui.org/f32"
	"gioui.org/io/pointer"
)

// Pointer event types.
var (
	PointerDown   = RegisterType("PointerDown")
	PointerMove   = RegisterType("PointerMove")
	PointerUp     = RegisterType("PointerUp")
	PointerCancel = RegisterType("PointerCancel")

	// Compatibility mouse events synthesized from primary pointers.
	MouseDown = RegisterType("MouseDown")
	MouseMove = RegisterType("MouseMove")
	MouseUp   = RegisterType("MouseUp")
)

// MousePointerID is the pointer id reserved for the mouse.
const MousePointerID = 0

// Pointer types.
const (
	PointerTypeMouse = "mouse"
	PointerTypeTouch = "touch"
	PointerTypePen   = "pen"
)

// Modifiers is a set of keyboard modifiers held during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Contain reports whether all of m2 are held.
func (m Modifiers) Contain(m2 Modifiers) bool { return m&m2 == m2 }

// PointerSource is implemented by events that originate from a pointer.
type PointerSource interface {
	Event
	Pointer() (id int, primary bool)
}

// PointerEvent is a device-independent pointer event.
type PointerEvent struct {
	Base

	PointerID   int
	PointerType string
	IsPrimary   bool

	// Button is the button whose state changed, or -1.
	Button    int
	Buttons   pointer.Buttons
	Position  f32.Point
	Modifiers Modifiers

	// ClickCount is the streak count reported by the click detector.
	ClickCount int
}

var pointerPool = NewPool(
	func() *PointerEvent { return &PointerEvent{} },
	func(e *PointerEvent) { *e = PointerEvent{} },
)

// GetPointerEvent checks out a pointer event of type t.
func GetPointerEvent(t TypeID) *PointerEvent {
	e := pointerPool.Get()
	flags := FlagBubbles | FlagTricklesDown
	e.Init(t, flags)
	e.Button = -1
	e.PointerType = PointerTypeMouse
	e.IsPrimary = true
	return e
}

// PointerPool exposes the pointer event pool, mainly for leak checks.
func PointerPool() *Pool[*PointerEvent] { return pointerPool }

// Pointer implements PointerSource.
func (e *PointerEvent) Pointer() (int, bool) { return e.PointerID, e.IsPrimary }

// PreDispatch records the pointer position on the surface.
func (e *PointerEvent) PreDispatch(s Surface) {
	if r, ok := s.(PointerPositionRecorder); ok {
		r.SavePointerPosition(e.PointerID, e.Position)
	}
}

// MouseEvent is a legacy mouse event synthesized from a primary pointer.
type MouseEvent struct {
	Base

	Button     int
	Buttons    pointer.Buttons
	Position   f32.Point
	Modifiers  Modifiers
	ClickCount int
}

var mousePool = NewPool(
	func() *MouseEvent { return &MouseEvent{} },
	func(e *MouseEvent) { *e = MouseEvent{} },
)

// GetMouseEvent checks out a mouse event of type t.
func GetMouseEvent(t TypeID) *MouseEvent {
	e := mousePool.Get()
	e.Init(t, FlagBubbles|FlagTricklesDown)
	e.Button = -1
	return e
}

// MousePool exposes the mouse event pool.
func MousePool() *Pool[*MouseEvent] { return mousePool }

// Pointer implements PointerSource. Mouse events always come from the mouse.
func (e *MouseEvent) Pointer() (int, bool) { return MousePointerID, true }

// CompatType returns the mouse event type synthesized for a pointer event
// type, and false if there is none.
func CompatType(t TypeID) (TypeID, bool) {
	switch t {
	case PointerDown:
		return MouseDown, true
	case PointerMove:
		return MouseMove, true
	case PointerUp:
		return MouseUp, true
	}
	return 0, false
}

// MouseEventFrom checks out the compatibility mouse event for p.
func MouseEventFrom(p *PointerEvent) (*MouseEvent, bool) {
	t, ok := CompatType(p.TypeID())
	if !ok {
		return nil, false
	}
	m := GetMouseEvent(t)
	m.Button = p.Button
	m.Buttons = p.Buttons
	m.Position = p.Position
	m.Modifiers = p.Modifiers
	m.ClickCount = p.ClickCount
	return m, true
}
