// Package panel provides the destination surface events are dispatched to:
// a tree of elements with focus, pointer picking, and default actions.
package panel

import (
	"gioui.org/f32"

	"github.com/dshills/eventgate/internal/dispatcher"
	"github.com/dshills/eventgate/internal/dispatcher/capture"
	"github.com/dshills/eventgate/internal/event"
)

// Panel is the root surface of an element tree. It implements
// event.Surface and the optional surface interfaces used by strategies.
type Panel struct {
	d       *dispatcher.Dispatcher
	root    *Element
	focused *Element

	positions map[int]f32.Point
}

// New creates a panel whose root element covers bounds. Events are
// dispatched through d.
func New(name string, bounds f32.Rectangle, d *dispatcher.Dispatcher) *Panel {
	p := &Panel{
		d:         d,
		positions: make(map[int]f32.Point),
	}
	p.root = NewElement(name, bounds)
	p.root.attach(p)
	return p
}

// Root returns the root element.
func (p *Panel) Root() *Element { return p.root }

// RootTarget returns the root element as an event target.
func (p *Panel) RootTarget() event.Target { return p.root }

// Dispatcher returns the panel's dispatcher.
func (p *Panel) Dispatcher() *dispatcher.Dispatcher { return p.d }

// PointerState returns the capture table of the panel's dispatcher.
func (p *Panel) PointerState() *capture.Table { return p.d.PointerState() }

// Dispatch hands e to the dispatcher in queued mode.
func (p *Panel) Dispatch(e event.Event) error {
	return p.d.Dispatch(e, p, dispatcher.Queued)
}

// DispatchImmediate hands e to the dispatcher in immediate mode.
func (p *Panel) DispatchImmediate(e event.Event) error {
	return p.d.Dispatch(e, p, dispatcher.Immediate)
}

// ExecuteDefaultAction implements event.Surface. The target element's
// default action runs first, then the panel's own: pressing a focusable
// element focuses it, and a geometry change resizes the root. Nothing
// runs for a default-prevented event.
func (p *Panel) ExecuteDefaultAction(e event.Event) error {
	b := e.EventBase()
	if b.IsDefaultPrevented() {
		return nil
	}
	el, _ := b.Target().(*Element)

	if el != nil && el.defaultAction != nil {
		if err := el.defaultAction(e); err != nil {
			return err
		}
	}

	switch ev := e.(type) {
	case *event.PointerEvent:
		if ev.TypeID() == event.PointerDown && el != nil && el.panel == p {
			if f := focusableAncestor(el); f != nil {
				return p.Focus(f)
			}
		}
	case *event.GeometryEvent:
		if el == nil || el == p.root {
			p.root.Bounds.Max = f32.Point{
				X: p.root.Bounds.Min.X + float32(ev.Width),
				Y: p.root.Bounds.Min.Y + float32(ev.Height),
			}
		}
	}
	return nil
}

func focusableAncestor(el *Element) *Element {
	for ; el != nil; el = el.parent {
		if el.Focusable {
			return el
		}
	}
	return nil
}

// FocusedElement implements event.FocusProvider.
func (p *Panel) FocusedElement() event.Target {
	if p.focused == nil {
		return nil
	}
	return p.focused
}

// Focused returns the focused element, or nil.
func (p *Panel) Focused() *Element { return p.focused }

// Focus moves focus to el. The element losing focus receives FocusOut,
// then el receives FocusIn; each names the other as related target.
func (p *Panel) Focus(el *Element) error {
	if el != nil {
		if el.panel != p {
			return ErrDetached
		}
		if !el.Focusable {
			return ErrNotFocusable
		}
	}
	if el == p.focused {
		return nil
	}

	old := p.focused
	p.focused = el

	var oldT, newT event.Target
	if old != nil {
		oldT = old
	}
	if el != nil {
		newT = el
	}

	if old != nil {
		out := event.GetFocusEvent(event.FocusOut, old, newT)
		err := p.Dispatch(out)
		out.Dispose()
		if err != nil {
			return err
		}
	}
	if el != nil {
		in := event.GetFocusEvent(event.FocusIn, el, oldT)
		err := p.Dispatch(in)
		in.Dispose()
		if err != nil {
			return err
		}
	}
	return nil
}

// Blur removes focus from the focused element.
func (p *Panel) Blur() error { return p.Focus(nil) }

// SavePointerPosition implements event.PointerPositionRecorder.
func (p *Panel) SavePointerPosition(pointerID int, pos f32.Point) {
	p.positions[pointerID] = pos
}

// PointerPosition returns the last recorded position of a pointer.
func (p *Panel) PointerPosition(pointerID int) (f32.Point, bool) {
	pos, ok := p.positions[pointerID]
	return pos, ok
}

// Pick returns the topmost element containing pos, or nil.
func (p *Panel) Pick(pos f32.Point) event.Target {
	if el := pick(p.root, pos); el != nil {
		return el
	}
	return nil
}

// PickElement is Pick returning the concrete element.
func (p *Panel) PickElement(pos f32.Point) *Element {
	return pick(p.root, pos)
}

func pick(el *Element, pos f32.Point) *Element {
	if !el.Contains(pos) {
		return nil
	}
	for i := len(el.children) - 1; i >= 0; i-- {
		if hit := pick(el.children[i], pos); hit != nil {
			return hit
		}
	}
	return el
}

// TargetAttached reports whether t is an element of this panel.
func (p *Panel) TargetAttached(t event.Target) bool {
	el, ok := t.(*Element)
	return ok && el.panel == p
}

// Find returns the first element with the given name, depth first.
func (p *Panel) Find(name string) *Element {
	var found *Element
	p.root.walk(func(el *Element) {
		if found == nil && el.name == name {
			found = el
		}
	})
	return found
}

// detached runs for every element leaving the tree.
func (p *Panel) detached(el *Element) {
	p.d.PointerState().ReleaseAll(el)
	if p.focused == el {
		p.focused = nil
	}
}
