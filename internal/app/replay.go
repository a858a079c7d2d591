package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/eventgate/internal/dispatcher"
)

// DemoScript returns a scripted session for a w by h window: a resize,
// a double click on the open button, a drag inside the editor, some
// typing and a paste, the save shortcut, a focus change and Escape.
func DemoScript(w, h int) []tcell.Event {
	click := func(x, y int) []tcell.Event {
		return []tcell.Event{
			tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone),
			tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone),
		}
	}
	key := func(k tcell.Key, r rune, m tcell.ModMask) tcell.Event {
		return tcell.NewEventKey(k, r, m)
	}
	text := func(s string) []tcell.Event {
		var out []tcell.Event
		for _, r := range s {
			out = append(out, key(tcell.KeyRune, r, tcell.ModNone))
		}
		return out
	}

	var evs []tcell.Event
	evs = append(evs, tcell.NewEventResize(w, h))
	evs = append(evs, click(3, 1)...)
	evs = append(evs, click(3, 1)...)
	evs = append(evs,
		tcell.NewEventMouse(5, 10, tcell.Button1, tcell.ModNone),
		tcell.NewEventMouse(12, 11, tcell.Button1, tcell.ModNone),
		tcell.NewEventMouse(20, 12, tcell.Button1, tcell.ModNone),
		tcell.NewEventMouse(20, 12, tcell.ButtonNone, tcell.ModNone),
	)
	evs = append(evs, text("hi")...)
	evs = append(evs, key(tcell.KeyEnter, '\r', tcell.ModNone))
	evs = append(evs, tcell.NewEventPaste(true))
	evs = append(evs, text("ok👍")...)
	evs = append(evs, key(tcell.KeyEnter, '\r', tcell.ModNone))
	evs = append(evs, tcell.NewEventPaste(false))
	evs = append(evs, text("ab")...)
	evs = append(evs,
		key(tcell.KeyBackspace2, 0, tcell.ModNone),
		key(tcell.KeyEnter, '\r', tcell.ModNone),
		key(tcell.KeyCtrlS, 0, tcell.ModCtrl),
		key(tcell.KeyTab, 0, tcell.ModNone),
		key(tcell.KeyEscape, 0, tcell.ModNone),
	)
	return evs
}

// Replay feeds events through the terminal producer as if they had been
// typed. It stops at the first escape signal, which counts as a normal
// exit. Other dispatch errors are logged and replay continues.
func (app *Application) Replay(events []tcell.Event) error {
	if app.closed {
		return ErrClosed
	}
	for _, ev := range events {
		err := app.terminal.Translate(ev)
		if err == nil {
			continue
		}
		if dispatcher.IsExitFrame(err) {
			app.note("exit: %v", err)
			return nil
		}
		app.logger.Error("replay: %v", err)
	}
	return nil
}
