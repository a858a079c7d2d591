package backend

import (
	"gioui.org/io/key"
	"gioui.org/io/pointer"

	"github.com/dshills/eventgate/internal/dispatcher/capture"
	"github.com/dshills/eventgate/internal/event"
)

// Gio translates gio pointer events.
//
// The mouse uses event.MousePointerID. Touch contacts are mapped onto the
// remaining capture slots; the first contact down while no other touch is
// active is the primary touch pointer until it lifts.
type Gio struct {
	sink Sink

	pressed map[pointer.ID]pointer.Buttons
	touches map[pointer.ID]int
	primary pointer.ID
	hasPrim bool
}

// NewGio creates a gio producer delivering to sink.
func NewGio(sink Sink) *Gio {
	return &Gio{
		sink:    sink,
		pressed: make(map[pointer.ID]pointer.Buttons),
		touches: make(map[pointer.ID]int),
	}
}

// Translate converts one gio pointer event and dispatches the result.
// Enter, Leave and Scroll produce nothing.
func (g *Gio) Translate(e pointer.Event) error {
	switch e.Kind {
	case pointer.Press:
		prev := g.pressed[e.PointerID]
		g.pressed[e.PointerID] = e.Buttons
		button := -1
		if pressed, _ := buttonTransitions(prev, e.Buttons); len(pressed) > 0 {
			button = pressed[0]
		}
		if e.Source == pointer.Touch {
			button = ButtonPrimary
		}
		return g.send(event.PointerDown, e, button)

	case pointer.Release:
		prev := g.pressed[e.PointerID]
		button := -1
		if _, released := buttonTransitions(prev, e.Buttons); len(released) > 0 {
			button = released[0]
		}
		if e.Source == pointer.Touch {
			button = ButtonPrimary
		}
		err := g.send(event.PointerUp, e, button)
		g.lift(e)
		return err

	case pointer.Move, pointer.Drag:
		return g.send(event.PointerMove, e, -1)

	case pointer.Cancel:
		return g.cancelAll(e)
	}
	return nil
}

// cancelAll cancels every active pointer; gio cancels all at once.
func (g *Gio) cancelAll(e pointer.Event) error {
	var firstErr error
	for id := range g.pressed {
		c := e
		c.PointerID = id
		if _, touch := g.touches[id]; touch {
			c.Source = pointer.Touch
		} else {
			c.Source = pointer.Mouse
		}
		if err := g.send(event.PointerCancel, c, -1); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	g.pressed = make(map[pointer.ID]pointer.Buttons)
	g.touches = make(map[pointer.ID]int)
	g.hasPrim = false
	return firstErr
}

func (g *Gio) lift(e pointer.Event) {
	if e.Source == pointer.Touch || e.Buttons == 0 {
		delete(g.pressed, e.PointerID)
	} else {
		g.pressed[e.PointerID] = e.Buttons
	}
	if e.Source == pointer.Touch {
		delete(g.touches, e.PointerID)
		if g.hasPrim && g.primary == e.PointerID {
			g.hasPrim = false
		}
	}
}

func (g *Gio) send(typ event.TypeID, e pointer.Event, button int) error {
	p := event.GetPointerEvent(typ)
	p.Button = button
	p.Buttons = e.Buttons
	p.Position = e.Position
	p.Modifiers = convertGioMod(e.Modifiers)

	if e.Source == pointer.Touch {
		p.PointerType = event.PointerTypeTouch
		p.PointerID = g.touchSlot(e.PointerID)
		if typ == event.PointerDown && !g.hasPrim && len(g.touches) == 1 {
			g.primary, g.hasPrim = e.PointerID, true
		}
		p.IsPrimary = g.hasPrim && g.primary == e.PointerID
	} else {
		p.PointerType = event.PointerTypeMouse
		p.PointerID = event.MousePointerID
		p.IsPrimary = true
	}
	return send(g.sink, p, false)
}

// touchSlot assigns a capture slot to a touch contact.
func (g *Gio) touchSlot(id pointer.ID) int {
	if slot, ok := g.touches[id]; ok {
		return slot
	}
	used := make(map[int]bool, len(g.touches))
	for _, s := range g.touches {
		used[s] = true
	}
	slot := 1
	for used[slot] && slot < capture.MaxPointers-1 {
		slot++
	}
	g.touches[id] = slot
	return slot
}

func convertGioMod(m key.Modifiers) event.Modifiers {
	var mods event.Modifiers
	if m.Contain(key.ModShift) {
		mods |= event.ModShift
	}
	if m.Contain(key.ModCtrl) {
		mods |= event.ModCtrl
	}
	if m.Contain(key.ModAlt) {
		mods |= event.ModAlt
	}
	if m.Contain(key.ModCommand) || m.Contain(key.ModSuper) {
		mods |= event.ModMeta
	}
	return mods
}
