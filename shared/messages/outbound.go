package messages

// Outbound is a command the client sends to the server.
type Outbound interface {
	outbound()
	// Cmd returns the wire tag of the command.
	Cmd() string
}

// Login is sent once, immediately after the transport opens.
type Login struct {
	UserID int
}

// Move reports the predicted position of the local entity.
type Move struct {
	X, Y int
}

func (Login) outbound() {}
func (Move) outbound()  {}

func (Login) Cmd() string { return CmdLogin }
func (Move) Cmd() string  { return CmdMove }
