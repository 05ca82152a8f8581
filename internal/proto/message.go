package proto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Envelope wraps every frame in both directions.
type Envelope struct {
	Opcode string          `json:"opcode"`
	Data   json.RawMessage `json:"data,omitempty"`
}

const (
	// server -> client
	OpcodeHandshake   = "Handshake"
	OpcodeEchoMessage = "EchoMessage"

	// client -> server
	OpcodePersona     = "Persona"
	OpcodeJoinRoom    = "JoinRoom"
	OpcodeSendMessage = "SendMessage"
	OpcodeCreateRoom  = "CreateRoom"
)

// NewEnvelope marshals payload into a ready-to-send envelope.
func NewEnvelope(opcode string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Opcode: opcode, Data: data}, nil
}

// Handshake is the first frame sent on every accepted connection.
type Handshake struct {
	SessionID         uuid.UUID     `json:"session_id"`
	HeartbeatInterval int           `json:"heartbeat_interval"`
	ActiveConnections int           `json:"active_connections"`
	PublicRooms       []RoomSummary `json:"public_rooms"`
}

// RoomSummary is one entry of the ordered public-room list.
type RoomSummary struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Index              int    `json:"index"`
	CurrentConnections int    `json:"current_connections"`
	MaxConnections     int    `json:"max_connections"`
}

// EchoMessage forwards a room broadcast to a subscriber. Drawing is set only
// on system notices.
type EchoMessage struct {
	Persona MessagePersona `json:"persona"`
	Message string         `json:"message"`
	Drawing string         `json:"drawing,omitempty"`
}

// MessagePersona is the resolved sender identity inside an EchoMessage.
type MessagePersona struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

// PersonaUpdate is a client request to change its display identity. Absent
// fields leave the current value untouched.
type PersonaUpdate struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// JoinRoom asks to join the room with the given code.
type JoinRoom struct {
	ID string `json:"id"`
}

// SendMessage carries a chat message into the current room.
type SendMessage struct {
	Message string `json:"message"`
}
