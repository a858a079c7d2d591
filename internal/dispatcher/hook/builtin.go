package hook

import (
	"sync"
	"time"

	"github.com/dshills/eventgate/internal/event"
)

// Standard hook priorities.
const (
	PriorityAudit      = 1000 // Runs first (pre) / last (post)
	PriorityValidation = 800  // Filter before routing
	PriorityCompat     = 500  // Synthesize compatibility events
)

// Logger is the interface for logging hooks.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// AuditHook logs every processed event.
type AuditHook struct {
	logger Logger
}

// NewAuditHook creates an audit hook with the given logger.
func NewAuditHook(logger Logger) *AuditHook {
	return &AuditHook{logger: logger}
}

// Name implements Hook.
func (h *AuditHook) Name() string { return "audit" }

// Priority implements Hook.
func (h *AuditHook) Priority() int { return PriorityAudit }

// PreDispatch logs the event being processed.
func (h *AuditHook) PreDispatch(e event.Event, info *Info) bool {
	if h.logger != nil {
		b := e.EventBase()
		h.logger.Debug("dispatch start: %s target=%s seq=%d depth=%d",
			e.TypeID(), event.TargetName(b.Target()), info.Seq, info.DrainDepth)
	}
	return true
}

// PostDispatch logs the propagation outcome.
func (h *AuditHook) PostDispatch(e event.Event, info *Info) {
	if h.logger == nil {
		return
	}
	b := e.EventBase()
	h.logger.Debug("dispatch complete: %s seq=%d stopped=%t prevented=%t",
		e.TypeID(), info.Seq, b.IsPropagationStopped(), b.IsDefaultPrevented())
}

// FilterHook stops dispatch of events the predicate rejects.
type FilterHook struct {
	name     string
	priority int
	allow    func(e event.Event) bool
}

// NewFilterHook creates a filter hook.
func NewFilterHook(name string, priority int, allow func(e event.Event) bool) *FilterHook {
	return &FilterHook{name: name, priority: priority, allow: allow}
}

// Name implements Hook.
func (h *FilterHook) Name() string { return h.name }

// Priority implements Hook.
func (h *FilterHook) Priority() int { return h.priority }

// PreDispatch implements PreDispatchHook.
func (h *FilterHook) PreDispatch(e event.Event, info *Info) bool {
	if h.allow == nil {
		return true
	}
	return h.allow(e)
}

// TimingHook measures how long routing of each event takes, excluding
// the nested drain that follows it.
type TimingHook struct {
	mu       sync.Mutex
	starts   map[uint64]time.Time
	callback func(t event.TypeID, d time.Duration)
}

// NewTimingHook creates a timing hook.
func NewTimingHook(callback func(t event.TypeID, d time.Duration)) *TimingHook {
	return &TimingHook{
		starts:   make(map[uint64]time.Time),
		callback: callback,
	}
}

// Name implements Hook.
func (h *TimingHook) Name() string { return "timing" }

// Priority implements Hook.
func (h *TimingHook) Priority() int { return PriorityAudit }

// PreDispatch records the start time.
func (h *TimingHook) PreDispatch(e event.Event, info *Info) bool {
	h.mu.Lock()
	h.starts[info.Seq] = time.Now()
	h.mu.Unlock()
	return true
}

// PostDispatch reports the elapsed time.
func (h *TimingHook) PostDispatch(e event.Event, info *Info) {
	h.mu.Lock()
	start, ok := h.starts[info.Seq]
	delete(h.starts, info.Seq)
	h.mu.Unlock()

	if ok && h.callback != nil {
		h.callback(e.TypeID(), time.Since(start))
	}
}
