package app

import (
	"gioui.org/f32"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/eventgate/internal/dispatcher"
	"github.com/dshills/eventgate/internal/event"
	"github.com/dshills/eventgate/internal/panel"
)

// demo is a small window: a toolbar with three buttons, an editor and a
// status line. It reports what it observes through app.note.
type demo struct {
	app *Application
	p   *panel.Panel

	toolbar *panel.Element
	buttons []*panel.Element
	editor  *panel.Element
	status  *panel.Element

	line      string
	lines     int
	dragStart f32.Point
}

func cellRect(x0, y0, x1, y1 int) f32.Rectangle {
	return f32.Rectangle{
		Min: f32.Point{X: float32(x0), Y: float32(y0)},
		Max: f32.Point{X: float32(x1), Y: float32(y1)},
	}
}

func buildDemo(app *Application, w, h int) (*panel.Panel, *demo) {
	p := panel.New("window", cellRect(0, 0, w, h), app.d)
	dm := &demo{app: app, p: p}

	dm.toolbar = panel.NewElement("toolbar", f32.Rectangle{})
	for _, name := range []string{"open", "save", "quit"} {
		b := panel.NewElement(name, f32.Rectangle{})
		b.Focusable = true
		dm.buttons = append(dm.buttons, b)
		dm.toolbar.Add(b)
	}
	dm.editor = panel.NewElement("editor", f32.Rectangle{})
	dm.editor.Focusable = true
	dm.status = panel.NewElement("status", f32.Rectangle{})

	root := p.Root()
	root.Add(dm.toolbar)
	root.Add(dm.editor)
	root.Add(dm.status)
	dm.layout(w, h)
	dm.wire()
	return p, dm
}

// layout places the children for a window of w by h cells.
func (dm *demo) layout(w, h int) {
	dm.toolbar.Bounds = cellRect(0, 0, w, 3)
	for i, b := range dm.buttons {
		x := 1 + i*11
		b.Bounds = cellRect(x, 0, x+10, 3)
	}
	dm.editor.Bounds = cellRect(0, 3, w, h-1)
	dm.status.Bounds = cellRect(0, h-1, w, h)
}

func (dm *demo) focusables() []*panel.Element {
	return append(append([]*panel.Element(nil), dm.buttons...), dm.editor)
}

func (dm *demo) wire() {
	note := dm.app.note
	root := dm.p.Root()

	for _, el := range dm.focusables() {
		el.On(event.FocusIn, func(event.Event) { note("focus -> %s", el.Name()) })
	}
	for _, b := range dm.buttons {
		b.On(event.Click, func(e event.Event) {
			note("clicked %s (count %d)", b.Name(), e.(*event.ClickEvent).ClickCount)
		})
	}

	dm.editor.On(event.PointerDown, func(e event.Event) {
		p := e.(*event.PointerEvent)
		dm.dragStart = p.Position
		if err := panel.CapturePointer(dm.editor, p.PointerID); err != nil {
			note("editor: capture refused: %v", err)
		}
	})
	dm.editor.On(event.PointerUp, func(e event.Event) {
		p := e.(*event.PointerEvent)
		if !panel.HasPointerCapture(dm.editor, p.PointerID) {
			return
		}
		panel.ReleasePointer(dm.editor, p.PointerID)
		if p.Position != dm.dragStart {
			note("editor: drag (%g,%g) -> (%g,%g)", dm.dragStart.X, dm.dragStart.Y, p.Position.X, p.Position.Y)
		}
	})
	dm.editor.On(event.Click, func(e event.Event) {
		if e.(*event.ClickEvent).ClickCount == 2 {
			note("editor: select word")
		}
	})
	dm.editor.On(event.KeyDown, dm.editorKey)

	root.On(event.ExecuteCommand, func(e event.Event) {
		c := e.(*event.CommandEvent)
		note("command %s (focus %s)", c.Command, event.TargetName(dm.p.FocusedElement()))
	})
	root.On(event.GeometryChanged, func(e event.Event) {
		g := e.(*event.GeometryEvent)
		dm.layout(g.Width, g.Height)
		note("resized to %dx%d", g.Width, g.Height)
	})
	root.On(event.Custom, func(e event.Event) {
		c := e.(*event.CustomEvent)
		note("custom %s at %s", c.Name, event.TargetName(e.EventBase().Target()))
	})

	for _, el := range []*panel.Element{root, dm.toolbar, dm.buttons[0], dm.buttons[1], dm.editor, dm.status} {
		el.SetDefaultAction(dm.globalKeys)
	}
	dm.buttons[2].SetDefaultAction(func(e event.Event) error {
		if e.TypeID() == event.Click {
			return &dispatcher.ExitFrame{Reason: "quit button"}
		}
		return dm.globalKeys(e)
	})
}

func (dm *demo) editorKey(e event.Event) {
	k := e.(*event.KeyEvent)
	switch {
	case k.Modifiers.Contain(event.ModCtrl):
		return
	case k.IsCharacter():
		dm.line += k.Text
	case k.Key == tcell.KeyBackspace || k.Key == tcell.KeyBackspace2:
		dm.line = dropLastGrapheme(dm.line)
	case k.Key == tcell.KeyEnter:
		dm.lines++
		dm.app.note("editor line %d: %s", dm.lines, dm.line)
		dm.line = ""
	default:
		return
	}
	e.EventBase().StopPropagation()
}

// globalKeys handles window-wide shortcuts from any element's default
// action: Escape and Ctrl-Q quit, Tab cycles focus, Ctrl-S saves.
func (dm *demo) globalKeys(e event.Event) error {
	k, ok := e.(*event.KeyEvent)
	if !ok || e.TypeID() != event.KeyDown {
		return nil
	}
	switch {
	case k.Key == tcell.KeyEscape || ctrl(k, tcell.KeyCtrlQ, "q"):
		return &dispatcher.ExitFrame{Reason: "quit key"}
	case k.Key == tcell.KeyTab:
		return dm.p.Focus(dm.nextFocus())
	case ctrl(k, tcell.KeyCtrlS, "s"):
		c := event.GetCommandEvent(event.ExecuteCommand, "save")
		defer c.Dispose()
		return dm.p.Dispatch(c)
	}
	return nil
}

// ctrl matches a control chord in either of the forms terminals report
// it: the legacy control key, or the letter with the Ctrl modifier.
func ctrl(k *event.KeyEvent, legacy tcell.Key, letter string) bool {
	if k.Key == legacy {
		return true
	}
	return k.Key == tcell.KeyRune && k.Text == letter && k.Modifiers.Contain(event.ModCtrl)
}

func (dm *demo) nextFocus() *panel.Element {
	all := dm.focusables()
	cur := dm.p.Focused()
	for i, el := range all {
		if el == cur {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func dropLastGrapheme(s string) string {
	last := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		start, _ := g.Positions()
		last = start
	}
	return s[:last]
}
