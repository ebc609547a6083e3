package game

import (
	"encoding/json"
	"errors"
)

// User-visible failures. Their text is sent to the client verbatim.
var (
	ErrRoomNotFound = errors.New("Room not found!")
	ErrRoomFull     = errors.New("Room is full!")
)

// ErrStopped is returned by Submit once the controller has shut down.
var ErrStopped = errors.New("game: controller stopped")

// Transport delivers outbound messages. Implementations must encode msg
// before returning: the controller mutates rooms right after a send.
type Transport interface {
	// Enter adds a connection to a room's broadcast group.
	Enter(connID, roomID string)
	Emit(connID string, msg any)
	Broadcast(roomID string, msg any)
	// Dissolve empties a room's broadcast group.
	Dissolve(roomID string)
}

// TypeDisconnect marks an Event raised by the transport when a connection
// goes away. It is never accepted from clients.
const TypeDisconnect = "disconnect"

// Event is one inbound frame, or a disconnect, tagged with the connection
// that produced it.
type Event struct {
	ConnID string
	Type   string
	Data   json.RawMessage
}
