// Package hook provides extensible pre/post dispatch hooks for the dispatcher.
//
// Hooks observe every event the dispatcher processes. Pre-dispatch hooks run
// after the event's own PreDispatch and before the strategy chain. A hook
// returning false rejects the event: it is marked dispatch-stopped and
// default-prevented, so neither the chain nor the default actions see it.
// Post-dispatch hooks run after the event's PostDispatch, rejected or not.
//
// # Priority System
//
// Hooks are ordered by priority:
//
//   - Pre-hooks: Higher priority runs first
//   - Post-hooks: Lower priority runs first, higher runs last
//
// Standard priority constants are provided:
//
//	PriorityAudit      = 1000 // Logging, tracing
//	PriorityValidation = 800  // Filters that stop dispatch
//	PriorityCompat     = 500  // Compatibility event synthesis
//
// # Hook Manager
//
//	manager := hook.NewManager()
//	manager.Register(hook.NewAuditHook(logger))
//	manager.RegisterPre(hook.NewFilterHook("no-hover", hook.PriorityValidation, func(e event.Event) bool {
//	    return e.TypeID() != event.PointerMove
//	}))
//
// # Thread Safety
//
// None. A Manager is owned by one dispatcher and is registered to and run
// from that dispatcher's goroutine. A hook may unregister hooks while
// running; the change applies from the next event.
package hook
