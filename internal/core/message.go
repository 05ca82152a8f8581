package core

import (
	"fmt"

	"github.com/google/uuid"
)

// System notices use the reserved nil persona id so clients can tell them
// apart from user messages.
const (
	SystemPersonaName  = "System"
	SystemPersonaColor = "0xEDA728FF"
)

// MessagePersona is the resolved sender snapshot carried inside a broadcast.
type MessagePersona struct {
	ID    uuid.UUID
	Name  string
	Color string
}

// RoomMessage is one broadcast unit fanned out to a room's subscribers.
// Drawing is set only on system-generated join/leave/invite notices.
type RoomMessage struct {
	Persona MessagePersona
	Text    string
	Drawing string
}

func systemMessage(text, drawing string) RoomMessage {
	return RoomMessage{
		Persona: MessagePersona{
			ID:    uuid.Nil,
			Name:  SystemPersonaName,
			Color: SystemPersonaColor,
		},
		Text:    text,
		Drawing: drawing,
	}
}

// JoinNotice announces a persona entering a room.
func JoinNotice(name string) RoomMessage {
	return systemMessage(fmt.Sprintf("%s joined the room", name), drawingJoin)
}

// LeaveNotice announces a persona leaving a room.
func LeaveNotice(name string) RoomMessage {
	return systemMessage(fmt.Sprintf("%s left the room", name), drawingLeave)
}

// InviteNotice carries a freshly created private room's code so the creator
// can share it.
func InviteNotice(id RoomID) RoomMessage {
	return systemMessage(fmt.Sprintf("share this code to invite others: %s", id), drawingInvite)
}
