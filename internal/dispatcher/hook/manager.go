package hook

import (
	"slices"

	"github.com/dshills/eventgate/internal/event"
)

// list is a named, priority-ordered set of hooks. Registering a name
// that is already present replaces that hook. Hooks of equal priority
// keep their registration order.
type list[H Hook] struct {
	hooks []H
	// descending orders higher priorities first.
	descending bool
}

func (l *list[H]) add(h H) {
	if i := l.index(h.Name()); i >= 0 {
		l.hooks[i] = h
	} else {
		l.hooks = append(l.hooks, h)
	}
	slices.SortStableFunc(l.hooks, func(a, b H) int {
		if l.descending {
			return b.Priority() - a.Priority()
		}
		return a.Priority() - b.Priority()
	})
}

func (l *list[H]) remove(name string) bool {
	i := l.index(name)
	if i < 0 {
		return false
	}
	l.hooks = slices.Delete(l.hooks, i, i+1)
	return true
}

func (l *list[H]) index(name string) int {
	return slices.IndexFunc(l.hooks, func(h H) bool { return h.Name() == name })
}

func (l *list[H]) names() []string {
	out := make([]string, len(l.hooks))
	for i, h := range l.hooks {
		out[i] = h.Name()
	}
	return out
}

// snapshot lets a hook unregister itself or others while the list runs.
func (l *list[H]) snapshot() []H { return slices.Clone(l.hooks) }

// Manager holds the pre- and post-dispatch hooks of one dispatcher.
// Pre-hooks run from the highest priority down so validation sees the
// event before anything else; post-hooks run from the lowest up so the
// highest priority hook observes the final state.
//
// A Manager belongs to the goroutine driving its dispatcher.
type Manager struct {
	pre  list[PreDispatchHook]
	post list[PostDispatchHook]
}

// NewManager creates an empty hook manager.
func NewManager() *Manager {
	return &Manager{pre: list[PreDispatchHook]{descending: true}}
}

// RegisterPre adds or replaces a pre-dispatch hook.
func (m *Manager) RegisterPre(h PreDispatchHook) { m.pre.add(h) }

// RegisterPost adds or replaces a post-dispatch hook.
func (m *Manager) RegisterPost(h PostDispatchHook) { m.post.add(h) }

// Register adds h to every list whose interface it implements.
func (m *Manager) Register(h Hook) {
	if pre, ok := h.(PreDispatchHook); ok {
		m.pre.add(pre)
	}
	if post, ok := h.(PostDispatchHook); ok {
		m.post.add(post)
	}
}

// UnregisterPre removes the named pre-dispatch hook.
func (m *Manager) UnregisterPre(name string) bool { return m.pre.remove(name) }

// UnregisterPost removes the named post-dispatch hook.
func (m *Manager) UnregisterPost(name string) bool { return m.post.remove(name) }

// Unregister removes the named hook from both lists.
func (m *Manager) Unregister(name string) bool {
	pre := m.pre.remove(name)
	post := m.post.remove(name)
	return pre || post
}

// RunPreDispatch runs the pre-dispatch hooks and reports false as soon as
// one of them rejects the event. Later hooks do not run.
func (m *Manager) RunPreDispatch(e event.Event, info *Info) bool {
	for _, h := range m.pre.snapshot() {
		if !h.PreDispatch(e, info) {
			return false
		}
	}
	return true
}

// RunPostDispatch runs every post-dispatch hook.
func (m *Manager) RunPostDispatch(e event.Event, info *Info) {
	for _, h := range m.post.snapshot() {
		h.PostDispatch(e, info)
	}
}

// PreHookCount returns the number of pre-dispatch hooks.
func (m *Manager) PreHookCount() int { return len(m.pre.hooks) }

// PostHookCount returns the number of post-dispatch hooks.
func (m *Manager) PostHookCount() int { return len(m.post.hooks) }

// PreHookNames returns the pre-dispatch hook names in run order.
func (m *Manager) PreHookNames() []string { return m.pre.names() }

// PostHookNames returns the post-dispatch hook names in run order.
func (m *Manager) PostHookNames() []string { return m.post.names() }

// Empty reports whether no hooks are registered.
func (m *Manager) Empty() bool {
	return len(m.pre.hooks) == 0 && len(m.post.hooks) == 0
}

// Clear removes all hooks.
func (m *Manager) Clear() {
	m.pre.hooks = nil
	m.post.hooks = nil
}
