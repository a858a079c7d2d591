package dispatcher

// Mode selects how Dispatch treats a closed gate.
type Mode uint8

const (
	// Queued defers the event while the gate is closed.
	Queued Mode = iota

	// Immediate routes the event synchronously regardless of the gate.
	Immediate
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	if m == Immediate {
		return "immediate"
	}
	return "queued"
}
