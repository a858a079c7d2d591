package app

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/eventgate/internal/dispatcher"
	"github.com/dshills/eventgate/internal/panel"
)

// RunTerminal takes over the terminal and dispatches its input until a
// quit key or the quit button raises the escape signal.
func (app *Application) RunTerminal() error {
	if app.closed {
		return ErrClosed
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.EnablePaste()

	app.draw(screen)
	app.terminal.SetAfterEvent(func() { app.draw(screen) })
	defer app.terminal.SetAfterEvent(nil)

	err = app.terminal.Run(screen)
	if dispatcher.IsExitFrame(err) {
		return nil
	}
	return err
}

// draw renders the element boxes, the editor line and the tail of the
// transcript. The focused element's label is drawn in reverse video.
func (app *Application) draw(screen tcell.Screen) {
	screen.Clear()
	dm := app.demo
	focused := app.panel.Focused()

	var walk func(el *panel.Element)
	walk = func(el *panel.Element) {
		if el != app.panel.Root() && el != dm.status {
			style := tcell.StyleDefault
			if el == focused {
				style = style.Reverse(true)
			}
			drawBox(screen, el, style)
		}
		for _, c := range el.Children() {
			walk(c)
		}
	}
	walk(app.panel.Root())

	r := dm.editor.Bounds
	x0, y0 := int(r.Min.X)+1, int(r.Min.Y)+1
	width := int(r.Max.X) - x0 - 1
	putString(screen, x0, y0, width, "> "+dm.line, tcell.StyleDefault.Bold(true))

	rows := int(r.Max.Y) - y0 - 2
	lines := app.transcript
	if rows < 0 {
		rows = 0
	}
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	for i, line := range lines {
		putString(screen, x0, y0+1+i, width, line, tcell.StyleDefault.Dim(true))
	}

	if n := len(app.transcript); n > 0 {
		s := dm.status.Bounds
		putString(screen, int(s.Min.X), int(s.Min.Y), int(s.Max.X-s.Min.X), app.transcript[n-1], tcell.StyleDefault)
	}
	if focused != nil {
		s := dm.status.Bounds
		name := "[" + focused.Name() + "]"
		putString(screen, int(s.Max.X)-uniseg.StringWidth(name), int(s.Min.Y), uniseg.StringWidth(name), name, tcell.StyleDefault.Reverse(true))
	}
	screen.Show()
}

func drawBox(screen tcell.Screen, el *panel.Element, label tcell.Style) {
	r := el.Bounds
	x0, y0, x1, y1 := int(r.Min.X), int(r.Min.Y), int(r.Max.X)-1, int(r.Max.Y)-1
	if x1 <= x0 || y1 <= y0 {
		return
	}
	for x := x0 + 1; x < x1; x++ {
		screen.SetContent(x, y0, tcell.RuneHLine, nil, tcell.StyleDefault)
		screen.SetContent(x, y1, tcell.RuneHLine, nil, tcell.StyleDefault)
	}
	for y := y0 + 1; y < y1; y++ {
		screen.SetContent(x0, y, tcell.RuneVLine, nil, tcell.StyleDefault)
		screen.SetContent(x1, y, tcell.RuneVLine, nil, tcell.StyleDefault)
	}
	screen.SetContent(x0, y0, tcell.RuneULCorner, nil, tcell.StyleDefault)
	screen.SetContent(x1, y0, tcell.RuneURCorner, nil, tcell.StyleDefault)
	screen.SetContent(x0, y1, tcell.RuneLLCorner, nil, tcell.StyleDefault)
	screen.SetContent(x1, y1, tcell.RuneLRCorner, nil, tcell.StyleDefault)
	putString(screen, x0+1, y0, x1-x0-1, el.Name(), label)
}

// putString draws s from (x, y) one grapheme cluster at a time and stops
// before a cluster would cross width cells.
func putString(screen tcell.Screen, x, y, width int, s string, style tcell.Style) int {
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if w == 0 {
			continue
		}
		if used+w > width {
			break
		}
		runes := g.Runes()
		screen.SetContent(x+used, y, runes[0], runes[1:], style)
		used += w
	}
	return used
}
