package backend_test

import (
	"fmt"
	"reflect"
	"testing"

	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/eventgate/internal/backend"
	"github.com/dshills/eventgate/internal/dispatcher"
	"github.com/dshills/eventgate/internal/event"
	"github.com/dshills/eventgate/internal/panel"
	"github.com/dshills/eventgate/internal/strategy"
)

type recordSink struct {
	events    []string
	immediate []string
}

func describe(e event.Event) string {
	switch ev := e.(type) {
	case *event.PointerEvent:
		return fmt.Sprintf("%s id=%d b=%d primary=%t %s (%g,%g)",
			ev.TypeID(), ev.PointerID, ev.Button, ev.IsPrimary, ev.PointerType, ev.Position.X, ev.Position.Y)
	case *event.KeyEvent:
		if ev.IsCharacter() {
			return fmt.Sprintf("%s %q", ev.TypeID(), ev.Text)
		}
		return fmt.Sprintf("%s key=%d mods=%d", ev.TypeID(), ev.Key, ev.Modifiers)
	case *event.GeometryEvent:
		return fmt.Sprintf("%s %dx%d", ev.TypeID(), ev.Width, ev.Height)
	}
	return e.TypeID().String()
}

func (s *recordSink) Dispatch(e event.Event) error {
	s.events = append(s.events, describe(e))
	return nil
}

func (s *recordSink) DispatchImmediate(e event.Event) error {
	s.immediate = append(s.immediate, describe(e))
	return nil
}

func expectEvents(t *testing.T, got []string, expected ...string) {
	t.Helper()
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("got %q\nexpected %q", got, expected)
	}
}

func TestTerminalKeys(t *testing.T) {
	sink := &recordSink{}
	term := backend.NewTerminal(sink, nil)

	term.Translate(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))
	term.Translate(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModCtrl))

	expectEvents(t, sink.events,
		`KeyDown "a"`,
		fmt.Sprintf("KeyDown key=%d mods=%d", tcell.KeyEnter, event.ModCtrl),
	)
}

func TestTerminalMouse(t *testing.T) {
	sink := &recordSink{}
	term := backend.NewTerminal(sink, nil)

	term.Translate(tcell.NewEventMouse(1, 1, tcell.ButtonNone, tcell.ModNone))
	term.Translate(tcell.NewEventMouse(1, 1, tcell.ButtonNone, tcell.ModNone))
	term.Translate(tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone))
	term.Translate(tcell.NewEventMouse(3, 1, tcell.Button1, tcell.ModNone))
	term.Translate(tcell.NewEventMouse(3, 1, tcell.Button1|tcell.Button2, tcell.ModNone))
	term.Translate(tcell.NewEventMouse(3, 1, tcell.ButtonNone, tcell.ModNone))

	expectEvents(t, sink.events,
		"PointerMove id=0 b=-1 primary=true mouse (1,1)",
		"PointerDown id=0 b=0 primary=true mouse (1,1)",
		"PointerMove id=0 b=-1 primary=true mouse (3,1)",
		"PointerDown id=0 b=2 primary=true mouse (3,1)",
		"PointerUp id=0 b=0 primary=true mouse (3,1)",
		"PointerUp id=0 b=2 primary=true mouse (3,1)",
	)
}

func TestTerminalFocusLossCancels(t *testing.T) {
	sink := &recordSink{}
	term := backend.NewTerminal(sink, nil)

	term.Translate(tcell.NewEventMouse(2, 2, tcell.Button1, tcell.ModNone))
	term.Translate(tcell.NewEventFocus(false))
	term.Translate(tcell.NewEventFocus(false))

	expectEvents(t, sink.events,
		"PointerDown id=0 b=0 primary=true mouse (2,2)",
		"PointerCancel id=0 b=-1 primary=true mouse (2,2)",
	)
}

func TestTerminalPasteGraphemes(t *testing.T) {
	sink := &recordSink{}
	term := backend.NewTerminal(sink, nil)

	term.Translate(tcell.NewEventPaste(true))
	for _, r := range "éx" {
		term.Translate(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	term.Translate(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if len(sink.events) != 0 {
		t.Fatalf("paste content must be held until the end mark, got %v", sink.events)
	}
	term.Translate(tcell.NewEventPaste(false))

	expectEvents(t, sink.events,
		"KeyDown \"é\"",
		`KeyDown "x"`,
		fmt.Sprintf("KeyDown key=%d mods=0", tcell.KeyEnter),
	)
}

func TestTerminalResizeIsImmediate(t *testing.T) {
	sink := &recordSink{}
	term := backend.NewTerminal(sink, nil)

	term.Translate(tcell.NewEventResize(80, 24))

	if len(sink.events) != 0 {
		t.Errorf("resize must bypass the queue, got %v", sink.events)
	}
	expectEvents(t, sink.immediate, "GeometryChanged 80x24")
}

func TestTerminalReturnsEventsToPools(t *testing.T) {
	sink := &recordSink{}
	term := backend.NewTerminal(sink, nil)
	pointers, keys := event.PointerPool().Live(), event.KeyPool().Live()

	term.Translate(tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone))
	term.Translate(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone))

	if event.PointerPool().Live() != pointers || event.KeyPool().Live() != keys {
		t.Error("translated events leaked from their pools")
	}
}

func pe(kind pointer.Kind, src pointer.Source, id pointer.ID, buttons pointer.Buttons, x, y float32) pointer.Event {
	return pointer.Event{
		Kind:      kind,
		Source:    src,
		PointerID: id,
		Buttons:   buttons,
		Position:  f32.Point{X: x, Y: y},
	}
}

func TestGioMouse(t *testing.T) {
	sink := &recordSink{}
	g := backend.NewGio(sink)

	g.Translate(pe(pointer.Move, pointer.Mouse, 0, 0, 1, 1))
	g.Translate(pe(pointer.Press, pointer.Mouse, 0, pointer.ButtonSecondary, 1, 1))
	g.Translate(pe(pointer.Drag, pointer.Mouse, 0, pointer.ButtonSecondary, 2, 1))
	g.Translate(pe(pointer.Release, pointer.Mouse, 0, 0, 2, 1))
	g.Translate(pe(pointer.Scroll, pointer.Mouse, 0, 0, 2, 1))
	g.Translate(pe(pointer.Enter, pointer.Mouse, 0, 0, 2, 1))

	expectEvents(t, sink.events,
		"PointerMove id=0 b=-1 primary=true mouse (1,1)",
		"PointerDown id=0 b=2 primary=true mouse (1,1)",
		"PointerMove id=0 b=-1 primary=true mouse (2,1)",
		"PointerUp id=0 b=2 primary=true mouse (2,1)",
	)
}

func TestGioTouchPrimary(t *testing.T) {
	sink := &recordSink{}
	g := backend.NewGio(sink)

	g.Translate(pe(pointer.Press, pointer.Touch, 7, 0, 1, 1))
	g.Translate(pe(pointer.Press, pointer.Touch, 9, 0, 5, 5))
	g.Translate(pe(pointer.Release, pointer.Touch, 7, 0, 1, 1))
	g.Translate(pe(pointer.Drag, pointer.Touch, 9, 0, 6, 5))
	g.Translate(pe(pointer.Press, pointer.Touch, 4, 0, 2, 2))

	expectEvents(t, sink.events,
		"PointerDown id=1 b=0 primary=true touch (1,1)",
		"PointerDown id=2 b=0 primary=false touch (5,5)",
		"PointerUp id=1 b=0 primary=true touch (1,1)",
		"PointerMove id=2 b=-1 primary=false touch (6,5)",
		"PointerDown id=1 b=0 primary=false touch (2,2)",
	)
}

func TestGioCancel(t *testing.T) {
	sink := &recordSink{}
	g := backend.NewGio(sink)

	g.Translate(pe(pointer.Press, pointer.Touch, 3, 0, 1, 1))
	g.Translate(pointer.Event{Kind: pointer.Cancel})
	g.Translate(pointer.Event{Kind: pointer.Cancel})

	expectEvents(t, sink.events,
		"PointerDown id=1 b=0 primary=true touch (1,1)",
		"PointerCancel id=1 b=-1 primary=true touch (0,0)",
	)
}

func TestGioModifiers(t *testing.T) {
	var got event.Modifiers
	sink := &modSink{fn: func(m event.Modifiers) { got = m }}
	g := backend.NewGio(sink)

	e := pe(pointer.Move, pointer.Mouse, 0, 0, 0, 0)
	e.Modifiers = key.ModShift | key.ModCommand
	g.Translate(e)

	if got != event.ModShift|event.ModMeta {
		t.Errorf("unexpected modifiers %b", got)
	}
}

type modSink struct {
	fn func(event.Modifiers)
}

func (s *modSink) Dispatch(e event.Event) error {
	s.fn(e.(*event.PointerEvent).Modifiers)
	return nil
}

func (s *modSink) DispatchImmediate(e event.Event) error { return s.Dispatch(e) }

func TestTerminalRunStopsOnEscape(t *testing.T) {
	d := dispatcher.NewWithDefaults(dispatcher.WithStrategies(
		strategy.NewKeyboard(),
		strategy.NewDefault(),
	))
	p := panel.New("root", f32.Rectangle{Max: f32.Point{X: 80, Y: 24}}, d)

	var typed []string
	p.Root().SetDefaultAction(func(e event.Event) error {
		k, ok := e.(*event.KeyEvent)
		if !ok {
			return nil
		}
		if k.Text == "q" {
			return &dispatcher.ExitFrame{Reason: "quit"}
		}
		typed = append(typed, k.Text)
		return nil
	})

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer screen.Fini()
	for _, r := range "hiq" {
		if err := screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)); err != nil {
			t.Fatalf("post: %v", err)
		}
	}

	err := backend.NewTerminal(p, nil).Run(screen)
	if !dispatcher.IsExitFrame(err) {
		t.Fatalf("expected escape signal, got %v", err)
	}
	if !reflect.DeepEqual(typed, []string{"h", "i"}) {
		t.Errorf("unexpected keys %v", typed)
	}
}
