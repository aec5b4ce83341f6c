/*
Package chat contains the core logic for ephemeral chat rooms: connection and room
registries, room lifecycle with self-destruct timers, and event fan-out to clients.

This file defines the wire-level command and event vocabulary. Every frame exchanged
with a client is a JSON envelope of the form {"type": ..., "payload": ...}.
*/
package chat

import "encoding/json"

// CommandType identifies an inbound client command.
type CommandType string

const (
	CmdSetUsername CommandType = "setUsername"
	CmdCreateRoom  CommandType = "createRoom"
	CmdJoinRoom    CommandType = "joinRoom"
	CmdChatMessage CommandType = "chatMessage"
	CmdLeaveRoom   CommandType = "leaveRoom"
)

// EventType identifies an outbound server event.
type EventType string

const (
	EventRoomCreated EventType = "roomCreated"
	EventRoomsList   EventType = "roomsList"
	EventJoinedRoom  EventType = "joinedRoom"
	EventUserJoined  EventType = "userJoined"
	EventUserLeft    EventType = "userLeft"
	EventChatMessage EventType = "chatMessage"
	EventRoomExpired EventType = "roomExpired"
	EventError       EventType = "error"
)

// InboundFrame is the envelope of a client command. The payload shape depends on
// the command type: a bare JSON string for setUsername/joinRoom/leaveRoom, an
// object for createRoom and chatMessage.
type InboundFrame struct {
	Type    CommandType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event is the envelope of a server-to-client event.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// CreateRoomPayload is the inbound payload of the createRoom command.
// Duration is the room lifetime in whole minutes.
type CreateRoomPayload struct {
	RoomName string `json:"roomName"`
	Duration int    `json:"duration" validate:"min=1,max=60"`
}

// ChatMessagePayload is the inbound payload of the chatMessage command. Username
// is optional; when empty the server resolves the sender's registered display name.
type ChatMessagePayload struct {
	RoomID   string `json:"roomId"`
	Message  string `json:"message"`
	Username string `json:"username,omitempty"`
}

// RoomCreatedPayload confirms room creation to the creator only.
type RoomCreatedPayload struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
}

// JoinedRoomPayload confirms a successful join to the joining connection.
// TimeLeft is the whole seconds remaining until the room self-destructs.
type JoinedRoomPayload struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
	TimeLeft int64  `json:"timeLeft"`
}

// NoticePayload carries a human-readable notice (userJoined, userLeft, roomExpired).
type NoticePayload struct {
	Message string `json:"message"`
}

// ChatEventPayload is the outbound chat message delivered to every current member
// of the room, sender included. Timestamp is Unix milliseconds, server-stamped.
type ChatEventPayload struct {
	Message   string `json:"message"`
	SenderID  string `json:"senderId"`
	Username  string `json:"username"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorPayload is delivered to the offending connection only.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
