package event

import "gioui.org/f32"

// Other event types.
var (
	FocusIn  = RegisterType("FocusIn")
	FocusOut = RegisterType("FocusOut")
	Click    = RegisterType("Click")

	// Repaint is a redraw notification. Dispatchers drop it on arrival.
	Repaint = RegisterType("Repaint")

	// GeometryChanged reports a new surface size. Producers send it in
	// immediate mode so layout sees it before anything queued.
	GeometryChanged = RegisterType("GeometryChanged")
)

// FocusEvent reports a focus transition.
type FocusEvent struct {
	Base

	// RelatedTarget is the element losing focus for FocusIn, and the one
	// gaining it for FocusOut.
	RelatedTarget Target
}

var focusPool = NewPool(
	func() *FocusEvent { return &FocusEvent{} },
	func(e *FocusEvent) { *e = FocusEvent{} },
)

// GetFocusEvent checks out a focus event. Focus events trickle down but do
// not bubble.
func GetFocusEvent(t TypeID, target, related Target) *FocusEvent {
	e := focusPool.Get()
	e.Init(t, FlagTricklesDown)
	e.SetTarget(target)
	e.RelatedTarget = related
	return e
}

// FocusPool exposes the focus event pool.
func FocusPool() *Pool[*FocusEvent] { return focusPool }

// ClickEvent is produced by the click detector after a press and release
// over the same element.
type ClickEvent struct {
	Base

	PointerID  int
	Position   f32.Point
	ClickCount int
}

var clickPool = NewPool(
	func() *ClickEvent { return &ClickEvent{} },
	func(e *ClickEvent) { *e = ClickEvent{} },
)

// GetClickEvent checks out a click event.
func GetClickEvent(target Target, pointerID int, pos f32.Point, count int) *ClickEvent {
	e := clickPool.Get()
	e.Init(Click, FlagBubbles|FlagTricklesDown)
	e.SetTarget(target)
	e.PointerID = pointerID
	e.Position = pos
	e.ClickCount = count
	return e
}

// ClickPool exposes the click event pool.
func ClickPool() *Pool[*ClickEvent] { return clickPool }

// Pointer implements PointerSource.
func (e *ClickEvent) Pointer() (int, bool) { return e.PointerID, e.PointerID == MousePointerID }

// RepaintEvent asks for a redraw. It is never delivered.
type RepaintEvent struct {
	Base
}

// NewRepaintEvent creates a repaint notification.
func NewRepaintEvent() *RepaintEvent {
	e := &RepaintEvent{}
	e.Init(Repaint, 0)
	return e
}

// GeometryEvent carries a surface size change.
type GeometryEvent struct {
	Base

	Width, Height int
}

// NewGeometryEvent creates a geometry change for a surface of the given size.
func NewGeometryEvent(width, height int) *GeometryEvent {
	e := &GeometryEvent{Width: width, Height: height}
	e.Init(GeometryChanged, 0)
	return e
}

// CustomEvent is a synthetic event raised by UI logic.
type CustomEvent struct {
	Base

	Name string
	Data any
}

// Custom is the type of CustomEvent.
var Custom = RegisterType("Custom")

// NewCustomEvent creates an unpooled custom event targeting target.
func NewCustomEvent(name string, target Target, data any) *CustomEvent {
	e := &CustomEvent{Name: name, Data: data}
	e.Init(Custom, FlagBubbles|FlagTricklesDown)
	e.SetTarget(target)
	return e
}
