package broadcast

import "encoding/json"

// Frame is the wire envelope for everything sent to WebSocket clients.
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Frame types sent to clients.
const (
	FrameConnected        = "connected"
	FrameUserList         = "user_list"
	FrameUserJoined       = "user_joined"
	FrameUserLeft         = "user_left"
	FrameRoomList         = "room_list"
	FrameJoinedRoom       = "joined_room"
	FrameRoomBackfill     = "room_backfill"
	FrameMessage          = "message"
	FrameReactionsUpdated = "reactions_updated"
	FrameTypingUsers      = "typing_users"
	FrameError            = "error"
)

// NewFrame builds a frame with a JSON-encoded payload.
func NewFrame(frameType string, payload any) (Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: frameType, Payload: data}, nil
}

// ErrorFrame builds an error notice frame.
func ErrorFrame(message string) Frame {
	return Frame{Type: FrameError, Error: message}
}
