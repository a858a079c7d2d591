package event

// Command event types.
var (
	ValidateCommand = RegisterType("ValidateCommand")
	ExecuteCommand  = RegisterType("ExecuteCommand")
)

// CommandEvent asks the focused element to validate or run a named command
// such as "copy" or "selectAll".
type CommandEvent struct {
	Base

	Command string
}

var commandPool = NewPool(
	func() *CommandEvent { return &CommandEvent{} },
	func(e *CommandEvent) { *e = CommandEvent{} },
)

// GetCommandEvent checks out a command event.
func GetCommandEvent(t TypeID, command string) *CommandEvent {
	e := commandPool.Get()
	e.Init(t, FlagBubbles|FlagTricklesDown)
	e.Command = command
	return e
}

// CommandPool exposes the command event pool.
func CommandPool() *Pool[*CommandEvent] { return commandPool }
