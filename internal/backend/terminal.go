package backend

import (
	"strings"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/eventgate/internal/dispatcher"
	"github.com/dshills/eventgate/internal/event"
)

// Terminal translates tcell events.
//
// Key presses become KeyDown events; terminals report no releases.
// Mouse reports carry the full button state, so presses and releases are
// derived by diffing it against the previous report. A bracketed paste is
// collected and delivered as one KeyDown per grapheme cluster. Resizes are
// delivered immediately as GeometryChanged.
type Terminal struct {
	sink   Sink
	logger Logger

	buttons  pointer.Buttons
	position f32.Point

	pasting bool
	paste   strings.Builder

	afterEvent func()
}

// NewTerminal creates a terminal producer delivering to sink.
func NewTerminal(sink Sink, logger Logger) *Terminal {
	return &Terminal{sink: sink, logger: logger}
}

// Translate converts one tcell event and dispatches the result.
func (t *Terminal) Translate(ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return t.key(e)
	case *tcell.EventMouse:
		return t.mouse(e)
	case *tcell.EventResize:
		w, h := e.Size()
		return send(t.sink, event.NewGeometryEvent(w, h), true)
	case *tcell.EventPaste:
		return t.pasteMark(e.Start())
	case *tcell.EventFocus:
		if !e.Focused {
			return t.cancel()
		}
	}
	return nil
}

func (t *Terminal) key(e *tcell.EventKey) error {
	if t.pasting {
		switch e.Key() {
		case tcell.KeyRune:
			t.paste.WriteRune(e.Rune())
		case tcell.KeyEnter:
			t.paste.WriteByte('\n')
		case tcell.KeyTab:
			t.paste.WriteByte('\t')
		}
		return nil
	}

	k := event.GetKeyEvent(event.KeyDown)
	k.Key = e.Key()
	k.Modifiers = convertTcellMod(e.Modifiers())
	if e.Key() == tcell.KeyRune {
		k.Text = string(e.Rune())
	}
	return send(t.sink, k, false)
}

func (t *Terminal) pasteMark(start bool) error {
	if start {
		t.pasting = true
		t.paste.Reset()
		return nil
	}
	if !t.pasting {
		return nil
	}
	t.pasting = false
	text := t.paste.String()
	t.paste.Reset()
	return t.sendText(text)
}

func (t *Terminal) sendText(text string) error {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Str()
		k := event.GetKeyEvent(event.KeyDown)
		switch cluster {
		case "\n", "\r\n":
			k.Key = tcell.KeyEnter
		case "\t":
			k.Key = tcell.KeyTab
		default:
			k.Key = tcell.KeyRune
			k.Text = cluster
		}
		if err := send(t.sink, k, false); err != nil {
			return err
		}
	}
	return nil
}

func (t *Terminal) mouse(e *tcell.EventMouse) error {
	x, y := e.Position()
	pos := f32.Point{X: float32(x), Y: float32(y)}
	mods := convertTcellMod(e.Modifiers())
	next := convertTcellButtons(e.Buttons())

	pressed, released := buttonTransitions(t.buttons, next)
	moved := pos != t.position
	t.position = pos

	if len(pressed) == 0 && len(released) == 0 {
		if !moved {
			return nil
		}
		return t.pointer(event.PointerMove, -1, next, pos, mods)
	}

	// Releases first so a chord change reads as up then down.
	state := t.buttons
	for _, b := range released {
		state &^= maskOf(b)
		if err := t.pointer(event.PointerUp, b, state, pos, mods); err != nil {
			t.buttons = next
			return err
		}
	}
	for _, b := range pressed {
		state |= maskOf(b)
		if err := t.pointer(event.PointerDown, b, state, pos, mods); err != nil {
			t.buttons = next
			return err
		}
	}
	t.buttons = next
	return nil
}

// cancel aborts an in-progress press, as when the terminal loses focus.
func (t *Terminal) cancel() error {
	if t.buttons == 0 {
		return nil
	}
	t.buttons = 0
	return t.pointer(event.PointerCancel, -1, 0, t.position, 0)
}

func (t *Terminal) pointer(typ event.TypeID, button int, buttons pointer.Buttons, pos f32.Point, mods event.Modifiers) error {
	p := event.GetPointerEvent(typ)
	p.PointerID = event.MousePointerID
	p.Button = button
	p.Buttons = buttons
	p.Position = pos
	p.Modifiers = mods
	return send(t.sink, p, false)
}

// SetAfterEvent registers fn to run after each event Run translates,
// typically to redraw the screen.
func (t *Terminal) SetAfterEvent(fn func()) { t.afterEvent = fn }

// Run polls screen until it is finalized or a handler raises the escape
// signal, which Run returns. Other dispatch errors are logged.
func (t *Terminal) Run(screen tcell.Screen) error {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := t.Translate(ev); err != nil {
			if dispatcher.IsExitFrame(err) {
				return err
			}
			if t.logger != nil {
				t.logger.Error("terminal: %v", err)
			}
		}
		if t.afterEvent != nil {
			t.afterEvent()
		}
	}
}

func maskOf(index int) pointer.Buttons {
	for _, b := range buttonOrder {
		if b.index == index {
			return b.mask
		}
	}
	return 0
}

func convertTcellButtons(m tcell.ButtonMask) pointer.Buttons {
	var b pointer.Buttons
	if m&tcell.Button1 != 0 {
		b |= pointer.ButtonPrimary
	}
	if m&tcell.Button2 != 0 {
		b |= pointer.ButtonSecondary
	}
	if m&tcell.Button3 != 0 {
		b |= pointer.ButtonTertiary
	}
	return b
}

func convertTcellMod(m tcell.ModMask) event.Modifiers {
	var mods event.Modifiers
	if m&tcell.ModShift != 0 {
		mods |= event.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= event.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= event.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= event.ModMeta
	}
	return mods
}
