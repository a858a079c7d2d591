package event

// Path is the route an event propagates along.
type Path struct {
	// Ancestors lists the target's ancestors, root first.
	Ancestors []Target

	// Targets lists the elements that receive the event at-target,
	// usually only the leaf.
	Targets []Target
}

// BuildPath builds the path from the root down to leaf by following
// ParentTarget links. A leaf that is not a Node gets a target-only path.
func BuildPath(leaf Target) *Path {
	p := &Path{}
	if leaf == nil {
		return p
	}
	p.Targets = []Target{leaf}

	n, ok := leaf.(Node)
	if !ok {
		return p
	}
	for parent := n.ParentTarget(); parent != nil; {
		p.Ancestors = append(p.Ancestors, parent)
		pn, ok := parent.(Node)
		if !ok {
			break
		}
		parent = pn.ParentTarget()
	}
	for i, j := 0, len(p.Ancestors)-1; i < j; i, j = i+1, j-1 {
		p.Ancestors[i], p.Ancestors[j] = p.Ancestors[j], p.Ancestors[i]
	}
	return p
}

// TargetOnlyPath returns a path that delivers to t at-target only.
func TargetOnlyPath(t Target) *Path {
	return &Path{Targets: []Target{t}}
}

// Propagate delivers e along its path. If no path was set, one is built
// from the event's target. The target is restored to the leaf afterwards.
func Propagate(e Event) {
	b := e.EventBase()
	if b.target == nil && b.path == nil {
		return
	}
	if b.path == nil {
		b.path = BuildPath(b.target)
	}
	p := b.path

	defer func() {
		b.phase = PhaseNone
		b.currentTarget = nil
		b.target = b.leafTarget
	}()

	if b.TricklesDown() {
		b.phase = PhaseTrickleDown
		for _, t := range p.Ancestors {
			if b.propagationStopped {
				return
			}
			b.currentTarget = t
			t.HandleEvent(e)
		}
	}

	b.phase = PhaseAtTarget
	for _, t := range p.Targets {
		if b.propagationStopped {
			return
		}
		b.target = t
		b.currentTarget = t
		t.HandleEvent(e)
	}
	b.target = b.leafTarget

	if b.Bubbles() {
		b.phase = PhaseBubbleUp
		for i := len(p.Ancestors) - 1; i >= 0; i-- {
			if b.propagationStopped {
				return
			}
			b.currentTarget = p.Ancestors[i]
			p.Ancestors[i].HandleEvent(e)
		}
	}
}
