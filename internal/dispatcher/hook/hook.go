package hook

import (
	"github.com/dshills/eventgate/internal/event"
)

// Info describes the dispatcher state around the event being processed.
type Info struct {
	// DispatcherID identifies the dispatcher instance.
	DispatcherID string

	// Surface is the event's destination.
	Surface event.Surface

	// Seq is the processing sequence number, starting at 1.
	Seq uint64

	// DrainDepth is the number of nested drains active.
	DrainDepth int

	// ContextDepth is the number of pushed dispatch contexts.
	ContextDepth int

	// Gate is the gate count while the event is processed.
	Gate int
}

// Hook is the base interface for all dispatch hooks.
type Hook interface {
	// Name returns a unique identifier for this hook.
	Name() string

	// Priority returns the hook priority.
	// Higher values run first for pre-hooks, last for post-hooks.
	Priority() int
}

// PreDispatchHook is called before the strategy chain runs.
type PreDispatchHook interface {
	Hook

	// PreDispatch may inspect or mark the event.
	// Returns false to stop dispatch.
	PreDispatch(e event.Event, info *Info) bool
}

// PostDispatchHook is called after the default actions ran.
type PostDispatchHook interface {
	Hook

	PostDispatch(e event.Event, info *Info)
}

// PreDispatchFunc wraps a function as a PreDispatchHook.
type PreDispatchFunc struct {
	name     string
	priority int
	fn       func(e event.Event, info *Info) bool
}

// NewPreDispatchFunc creates a new PreDispatchFunc hook.
func NewPreDispatchFunc(name string, priority int, fn func(e event.Event, info *Info) bool) *PreDispatchFunc {
	return &PreDispatchFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *PreDispatchFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *PreDispatchFunc) Priority() int { return f.priority }

// PreDispatch implements PreDispatchHook.
func (f *PreDispatchFunc) PreDispatch(e event.Event, info *Info) bool {
	if f.fn == nil {
		return true
	}
	return f.fn(e, info)
}

// PostDispatchFunc wraps a function as a PostDispatchHook.
type PostDispatchFunc struct {
	name     string
	priority int
	fn       func(e event.Event, info *Info)
}

// NewPostDispatchFunc creates a new PostDispatchFunc hook.
func NewPostDispatchFunc(name string, priority int, fn func(e event.Event, info *Info)) *PostDispatchFunc {
	return &PostDispatchFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *PostDispatchFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *PostDispatchFunc) Priority() int { return f.priority }

// PostDispatch implements PostDispatchHook.
func (f *PostDispatchFunc) PostDispatch(e event.Event, info *Info) {
	if f.fn != nil {
		f.fn(e, info)
	}
}

// CombinedHook implements both PreDispatchHook and PostDispatchHook.
type CombinedHook interface {
	PreDispatchHook
	PostDispatchHook
}
