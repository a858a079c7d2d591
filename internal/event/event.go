package event

import (
	"fmt"
	"sync"
	"time"
)

// TypeID is a stable tag identifying an event kind.
type TypeID uint32

var (
	typeMu    sync.RWMutex
	typeNames = []string{"<invalid>"}
)

// RegisterType allocates a new TypeID for the named event kind.
// Call it from package-level variable declarations.
func RegisterType(name string) TypeID {
	typeMu.Lock()
	defer typeMu.Unlock()
	typeNames = append(typeNames, name)
	return TypeID(len(typeNames) - 1)
}

// String returns the name the type was registered with.
func (t TypeID) String() string {
	typeMu.RLock()
	defer typeMu.RUnlock()
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("TypeID(%d)", uint32(t))
}

// LookupType returns the TypeID registered under name.
func LookupType(name string) (TypeID, bool) {
	typeMu.RLock()
	defer typeMu.RUnlock()
	for i := 1; i < len(typeNames); i++ {
		if typeNames[i] == name {
			return TypeID(i), true
		}
	}
	return 0, false
}

// Phase is the propagation phase an event is currently in.
type Phase uint8

const (
	// PhaseNone means the event is not being propagated.
	PhaseNone Phase = iota
	// PhaseTrickleDown walks from the root towards the target.
	PhaseTrickleDown
	// PhaseAtTarget delivers to the target elements.
	PhaseAtTarget
	// PhaseBubbleUp walks from the target back to the root.
	PhaseBubbleUp
)

// String returns a string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseTrickleDown:
		return "trickle-down"
	case PhaseAtTarget:
		return "at-target"
	case PhaseBubbleUp:
		return "bubble-up"
	default:
		return "none"
	}
}

// Flags describe how an event kind propagates.
type Flags uint8

const (
	// FlagBubbles enables the bubble-up phase.
	FlagBubbles Flags = 1 << iota
	// FlagTricklesDown enables the trickle-down phase.
	FlagTricklesDown
)

// Target receives events while they propagate.
type Target interface {
	HandleEvent(e Event)
}

// Node is a Target that knows its parent. BuildPath uses it.
type Node interface {
	Target
	ParentTarget() Target
}

// Named is implemented by targets that have a display name.
type Named interface {
	Name() string
}

// Event is the unit of work routed by the dispatcher.
type Event interface {
	// TypeID returns the event's type tag.
	TypeID() TypeID
	// EventBase returns the mutable propagation state.
	EventBase() *Base
}

// Base holds the propagation and lifecycle state shared by all events.
// Embed it in concrete event types.
type Base struct {
	typeID TypeID
	flags  Flags

	target        Target
	leafTarget    Target
	currentTarget Target
	path          *Path
	phase         Phase

	propagationStopped bool
	immediateStopped   bool
	defaultPrevented   bool
	dispatchStopped    bool

	received    bool
	dispatching bool
	queued      bool

	refCount int32
	release  func()

	timestamp time.Time
}

// Init prepares the base for a fresh use. It keeps any pool binding.
func (b *Base) Init(t TypeID, flags Flags) {
	release := b.release
	*b = Base{
		typeID:    t,
		flags:     flags,
		refCount:  1,
		release:   release,
		timestamp: time.Now(),
	}
}

// TypeID implements Event.
func (b *Base) TypeID() TypeID { return b.typeID }

// EventBase implements Event.
func (b *Base) EventBase() *Base { return b }

// Timestamp returns when the event was initialized.
func (b *Base) Timestamp() time.Time { return b.timestamp }

// Bubbles reports whether the event has a bubble-up phase.
func (b *Base) Bubbles() bool { return b.flags&FlagBubbles != 0 }

// TricklesDown reports whether the event has a trickle-down phase.
func (b *Base) TricklesDown() bool { return b.flags&FlagTricklesDown != 0 }

// Target returns the element currently considered the event's target.
func (b *Base) Target() Target { return b.target }

// SetTarget sets the target. The first target set also becomes the leaf target.
func (b *Base) SetTarget(t Target) {
	b.target = t
	if b.leafTarget == nil {
		b.leafTarget = t
	}
}

// Retarget replaces both the target and the leaf target.
func (b *Base) Retarget(t Target) {
	b.target = t
	b.leafTarget = t
}

// LeafTarget returns the original, innermost target.
func (b *Base) LeafTarget() Target { return b.leafTarget }

// RestoreLeafTarget resets the reported target to the leaf target.
func (b *Base) RestoreLeafTarget() { b.target = b.leafTarget }

// CurrentTarget returns the element currently handling the event.
func (b *Base) CurrentTarget() Target { return b.currentTarget }

// SetCurrentTarget sets the element currently handling the event.
func (b *Base) SetCurrentTarget(t Target) { b.currentTarget = t }

// Path returns the propagation path, or nil if none was built.
func (b *Base) Path() *Path { return b.path }

// SetPath sets the propagation path.
func (b *Base) SetPath(p *Path) { b.path = p }

// Phase returns the current propagation phase.
func (b *Base) Phase() Phase { return b.phase }

// SetPhase sets the current propagation phase.
func (b *Base) SetPhase(p Phase) { b.phase = p }

// StopPropagation prevents delivery to further elements.
func (b *Base) StopPropagation() { b.propagationStopped = true }

// StopImmediatePropagation also prevents the remaining listeners of the
// current element from running.
func (b *Base) StopImmediatePropagation() {
	b.propagationStopped = true
	b.immediateStopped = true
}

// IsPropagationStopped reports whether StopPropagation was called.
func (b *Base) IsPropagationStopped() bool { return b.propagationStopped }

// IsImmediatePropagationStopped reports whether StopImmediatePropagation was called.
func (b *Base) IsImmediatePropagationStopped() bool { return b.immediateStopped }

// PreventDefault suppresses the default actions of the event.
func (b *Base) PreventDefault() { b.defaultPrevented = true }

// IsDefaultPrevented reports whether PreventDefault was called.
func (b *Base) IsDefaultPrevented() bool { return b.defaultPrevented }

// StopDispatch tells the strategy chain that the event was fully consumed.
func (b *Base) StopDispatch() { b.dispatchStopped = true }

// IsDispatchStopped reports whether StopDispatch was called.
func (b *Base) IsDispatchStopped() bool { return b.dispatchStopped }

// MarkReceivedByDispatcher records that a dispatcher accepted the event.
func (b *Base) MarkReceivedByDispatcher() { b.received = true }

// ReceivedByDispatcher reports whether a dispatcher accepted the event.
func (b *Base) ReceivedByDispatcher() bool { return b.received }

// Dispatching reports whether the event is being processed right now.
func (b *Base) Dispatching() bool { return b.dispatching }

// SetDispatching is used by the dispatcher around processing.
func (b *Base) SetDispatching(v bool) { b.dispatching = v }

// Queued reports whether the event sits in a dispatcher queue.
func (b *Base) Queued() bool { return b.queued }

// SetQueued is used by the dispatcher when it enqueues and dequeues.
func (b *Base) SetQueued(v bool) { b.queued = v }

// Acquire adds a reference. Balance every Acquire with a Dispose.
func (b *Base) Acquire() { b.refCount++ }

// RefCount returns the number of outstanding references.
func (b *Base) RefCount() int { return int(b.refCount) }

// Released reports whether the last reference was disposed.
func (b *Base) Released() bool { return b.refCount <= 0 }

// Dispose drops a reference. The last one returns the event to its pool.
func (b *Base) Dispose() {
	if b.refCount <= 0 {
		return
	}
	b.refCount--
	if b.refCount == 0 && b.release != nil {
		b.path = nil
		b.target = nil
		b.leafTarget = nil
		b.currentTarget = nil
		b.release()
	}
}

func (b *Base) bind(release func()) { b.release = release }

// TargetName returns the name of t if it has one.
func TargetName(t Target) string {
	if t == nil {
		return ""
	}
	if n, ok := t.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", t)
}
