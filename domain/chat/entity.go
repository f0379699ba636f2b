package chat

import "time"

// Room represents a named chat channel.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents a chat message. Public messages live in exactly one
// room's history; private messages are delivered and never stored. The
// Reactions map (emoji -> reacting connection ids) is the only part of a
// message that mutates after creation.
type Message struct {
	ID          string              `json:"id"`
	RoomID      string              `json:"room_id,omitempty"`
	SenderID    string              `json:"sender_id"`
	Sender      string              `json:"sender"`
	Content     string              `json:"content"`
	Timestamp   time.Time           `json:"timestamp"`
	IsPrivate   bool                `json:"is_private,omitempty"`
	RecipientID string              `json:"recipient_id,omitempty"`
	Reactions   map[string][]string `json:"reactions"`
}

// User represents an identified connection.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
