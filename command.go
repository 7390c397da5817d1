package stomp

import (
	"strings"

	"github.com/pkg/errors"
)

// Command is a STOMP protocol verb.
type Command int

// Client commands.
const (
	SEND Command = iota
	SUBSCRIBE
	UNSUBSCRIBE
	BEGIN
	COMMIT
	ABORT
	ACK
	NACK
	DISCONNECT
	CONNECT
	STOMP
)

// Server commands.
const (
	CONNECTED Command = iota + STOMP + 1
	MESSAGE
	RECEIPT
	ERROR
)

var commandNames = [...]string{
	SEND:        "SEND",
	SUBSCRIBE:   "SUBSCRIBE",
	UNSUBSCRIBE: "UNSUBSCRIBE",
	BEGIN:       "BEGIN",
	COMMIT:      "COMMIT",
	ABORT:       "ABORT",
	ACK:         "ACK",
	NACK:        "NACK",
	DISCONNECT:  "DISCONNECT",
	CONNECT:     "CONNECT",
	STOMP:       "STOMP",
	CONNECTED:   "CONNECTED",
	MESSAGE:     "MESSAGE",
	RECEIPT:     "RECEIPT",
	ERROR:       "ERROR",
}

// String returns the canonical upper-case wire name of the command.
func (c Command) String() string {
	if !c.valid() {
		return "UNKNOWN"
	}
	return commandNames[c]
}

// IsServer reports whether the command is only sent by a broker.
func (c Command) IsServer() bool {
	return c >= CONNECTED && c <= ERROR
}

func (c Command) valid() bool {
	return c >= 0 && int(c) < len(commandNames)
}

// ParseCommand maps a command line to its Command, ignoring case.
// Unknown text returns ErrUnknownCommand.
func ParseCommand(s string) (Command, error) {
	name := strings.ToUpper(s)
	for c, n := range commandNames {
		if n == name {
			return Command(c), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownCommand, "%q", s)
}
