package gateway

import "encoding/json"

// Inbound frame types accepted from clients.
const (
	frameIdentify       = "identify"
	frameCreateRoom     = "create_room"
	frameJoinRoom       = "join_room"
	frameSendMessage    = "send_message"
	framePrivateMessage = "private_message"
	frameTyping         = "typing"
	frameToggleReaction = "toggle_reaction"
)

// inboundFrame is the wire envelope received from clients.
type inboundFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type identifyPayload struct {
	Username string `json:"username"`
}

type createRoomPayload struct {
	Name string `json:"name"`
}

type joinRoomPayload struct {
	RoomID string `json:"room_id"`
}

type sendMessagePayload struct {
	RoomID  string `json:"room_id"`
	Content string `json:"content"`
}

type privateMessagePayload struct {
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
}

type typingPayload struct {
	RoomID   string `json:"room_id"`
	IsTyping bool   `json:"is_typing"`
}

type toggleReactionPayload struct {
	RoomID    string `json:"room_id"`
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}

// joinedRoomReply confirms a room subscription to one connection.
type joinedRoomReply struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
}

// connectedReply tells a fresh connection its assigned id.
type connectedReply struct {
	ID string `json:"id"`
}

// ErrorResponse is the REST error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
