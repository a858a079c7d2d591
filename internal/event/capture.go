package event

// Capture transition types.
var (
	GotPointerCapture  = RegisterType("GotPointerCapture")
	LostPointerCapture = RegisterType("LostPointerCapture")

	// Legacy variants sent for the mouse pointer only.
	MouseCapture    = RegisterType("MouseCapture")
	MouseCaptureOut = RegisterType("MouseCaptureOut")
)

// CaptureEvent announces that a target gained or lost a pointer capture.
type CaptureEvent struct {
	Base

	PointerID int

	// RelatedTarget is the other side of the transition: the new holder for
	// a lost capture, the previous holder for a gained one.
	RelatedTarget Target
}

var capturePool = NewPool(
	func() *CaptureEvent { return &CaptureEvent{} },
	func(e *CaptureEvent) { *e = CaptureEvent{} },
)

// GetCaptureEvent checks out a capture event. Capture events do not bubble.
func GetCaptureEvent(t TypeID, target, related Target, pointerID int) *CaptureEvent {
	e := capturePool.Get()
	e.Init(t, FlagTricklesDown)
	e.SetTarget(target)
	e.RelatedTarget = related
	e.PointerID = pointerID
	return e
}

// CapturePool exposes the capture event pool.
func CapturePool() *Pool[*CaptureEvent] { return capturePool }
