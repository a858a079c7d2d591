package panel

import (
	"gioui.org/f32"

	"github.com/dshills/eventgate/internal/event"
)

type listener struct {
	fn      func(e event.Event)
	trickle bool
}

// Element is a node of a panel's visual tree.
type Element struct {
	name     string
	parent   *Element
	children []*Element
	panel    *Panel

	// Bounds is the element's area in panel coordinates.
	Bounds f32.Rectangle

	// Focusable elements take focus when pressed.
	Focusable bool

	listeners     map[event.TypeID][]listener
	defaultAction func(e event.Event) error
}

// NewElement creates a detached element.
func NewElement(name string, bounds f32.Rectangle) *Element {
	return &Element{
		name:      name,
		Bounds:    bounds,
		listeners: make(map[event.TypeID][]listener),
	}
}

// Name implements event.Named.
func (el *Element) Name() string { return el.name }

// Parent returns the parent element, or nil for a root or detached element.
func (el *Element) Parent() *Element { return el.parent }

// ParentTarget implements event.Node.
func (el *Element) ParentTarget() event.Target {
	if el.parent == nil {
		return nil
	}
	return el.parent
}

// Children returns the child elements in paint order.
func (el *Element) Children() []*Element { return el.children }

// Panel returns the panel the element is attached to, or nil.
func (el *Element) Panel() *Panel { return el.panel }

// Add appends child, detaching it from any previous parent.
func (el *Element) Add(child *Element) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = el
	el.children = append(el.children, child)
	child.attach(el.panel)
}

// Remove detaches child. Captures and focus held inside it are released.
func (el *Element) Remove(child *Element) {
	for i, c := range el.children {
		if c != child {
			continue
		}
		el.children = append(el.children[:i], el.children[i+1:]...)
		if p := child.panel; p != nil {
			child.walk(p.detached)
		}
		child.parent = nil
		child.attach(nil)
		return
	}
}

func (el *Element) attach(p *Panel) {
	el.walk(func(e *Element) { e.panel = p })
}

func (el *Element) walk(fn func(e *Element)) {
	fn(el)
	for _, c := range el.children {
		c.walk(fn)
	}
}

// On registers fn for events of type t at the target and while bubbling.
func (el *Element) On(t event.TypeID, fn func(e event.Event)) {
	el.listeners[t] = append(el.listeners[t], listener{fn: fn})
}

// OnTrickleDown registers fn for events of type t at the target and while
// trickling down.
func (el *Element) OnTrickleDown(t event.TypeID, fn func(e event.Event)) {
	el.listeners[t] = append(el.listeners[t], listener{fn: fn, trickle: true})
}

// SetDefaultAction sets the element's default behaviour. It runs after
// propagation unless the event's default was prevented. An error aborts
// processing of the event.
func (el *Element) SetDefaultAction(fn func(e event.Event) error) {
	el.defaultAction = fn
}

// HandleEvent implements event.Target.
func (el *Element) HandleEvent(e event.Event) {
	b := e.EventBase()
	for _, l := range el.listeners[e.TypeID()] {
		if b.IsImmediatePropagationStopped() {
			return
		}
		switch b.Phase() {
		case event.PhaseTrickleDown:
			if !l.trickle {
				continue
			}
		case event.PhaseBubbleUp:
			if l.trickle {
				continue
			}
		}
		l.fn(e)
	}
}

// SendEvent dispatches e with this element as its target.
func (el *Element) SendEvent(e event.Event) error {
	if el.panel == nil {
		return ErrDetached
	}
	e.EventBase().SetTarget(el)
	return el.panel.Dispatch(e)
}

// Contains reports whether pos lies inside the element's bounds.
func (el *Element) Contains(pos f32.Point) bool {
	r := el.Bounds
	return pos.X >= r.Min.X && pos.X < r.Max.X && pos.Y >= r.Min.Y && pos.Y < r.Max.Y
}

// String returns the element's name.
func (el *Element) String() string { return el.name }
