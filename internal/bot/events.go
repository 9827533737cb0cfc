package bot

// Event is one incoming platform event. The set is closed: CommandReceived,
// ControlPressed and InlineQueried.
type Event interface {
	event()
}

// CommandReceived is a command message, usually sent as a reply.
type CommandReceived struct {
	Name string
	Args string
	// Message is the command message itself.
	Message MessageRef
	// From is nil when the host hides the sender (e.g. channel posts).
	From *User
	// ReplyTo is the message the command replies to, if any.
	ReplyTo *Message
}

// ControlPressed is a press on a reaction control.
type ControlPressed struct {
	PressID string
	From    User
	Payload string
	// Message is nil when the host does not deliver the pressed message.
	Message *Message
}

// InlineQueried is an inline query typed in any chat.
type InlineQueried struct {
	QueryID string
	From    User
	Query   string
}

func (CommandReceived) event() {}
func (ControlPressed) event()  {}
func (InlineQueried) event()   {}
