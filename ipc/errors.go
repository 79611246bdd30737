package ipc

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection is returned when the initial connection to the player fails.
	ErrConnection = errors.New("ipc: connection failed")

	// ErrNotConnected is returned when a message is sent without a live transport.
	ErrNotConnected = errors.New("ipc: not connected")

	// ErrConnectionClosed fails every request still pending when the transport drops.
	ErrConnectionClosed = errors.New("ipc: connection closed")

	// ErrTimeout is returned when the player does not answer a command in time.
	ErrTimeout = errors.New("ipc: command timed out")

	// ErrProtocol marks an inbound line that could not be decoded.
	ErrProtocol = errors.New("ipc: protocol error")
)

// CommandError is returned when the player answers a command with an error string other than "success".
type CommandError struct {
	Command string
	// Message is the error string supplied by the player, verbatim.
	Message string
}

func (e *CommandError) Error() string {
	if e.Command == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Command, e.Message)
}

// IsCommandError reports whether err carries a player-side command failure.
func IsCommandError(err error) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr)
}
