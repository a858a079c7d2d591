package event

import "github.com/gdamore/tcell/v2"

// Keyboard event types.
var (
	KeyDown = RegisterType("KeyDown")
	KeyUp   = RegisterType("KeyUp")
)

// KeyEvent is a keyboard event. Key uses tcell's key codes; printable input
// arrives as tcell.KeyRune with Text holding one grapheme cluster.
type KeyEvent struct {
	Base

	Key       tcell.Key
	Text      string
	Modifiers Modifiers
}

var keyPool = NewPool(
	func() *KeyEvent { return &KeyEvent{} },
	func(e *KeyEvent) { *e = KeyEvent{} },
)

// GetKeyEvent checks out a keyboard event of type t.
func GetKeyEvent(t TypeID) *KeyEvent {
	e := keyPool.Get()
	e.Init(t, FlagBubbles|FlagTricklesDown)
	return e
}

// KeyPool exposes the keyboard event pool.
func KeyPool() *Pool[*KeyEvent] { return keyPool }

// IsCharacter reports whether the event carries text input.
func (e *KeyEvent) IsCharacter() bool {
	return e.Key == tcell.KeyRune && e.Text != ""
}
