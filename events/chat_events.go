package events

import (
	"time"

	domain "github.com/example/realtime-chat-demo/domain/chat"
	"github.com/go-monolith/mono/pkg/helper"
)

// Presence actions carried by PresenceChangedEvent.
const (
	PresenceJoined = "joined"
	PresenceLeft   = "left"
)

// PresenceChangedEvent is emitted whenever the set of identified
// connections changes. Users always carries the full list in join order.
type PresenceChangedEvent struct {
	Action    string        `json:"action"`
	User      domain.User   `json:"user"`
	Users     []domain.User `json:"users"`
	Timestamp time.Time     `json:"timestamp"`
}

// RoomCreatedEvent is emitted when a room is created. Rooms carries the
// full directory in creation order, default room first.
type RoomCreatedEvent struct {
	Room      domain.Room   `json:"room"`
	Rooms     []domain.Room `json:"rooms"`
	Timestamp time.Time     `json:"timestamp"`
}

// MessagePostedEvent is emitted when a public message is appended to a
// room's history.
type MessagePostedEvent struct {
	RoomID  string         `json:"room_id"`
	Message domain.Message `json:"message"`
}

// ReactionsUpdatedEvent is emitted after a reaction toggle, carrying the
// message's full updated reaction map.
type ReactionsUpdatedEvent struct {
	RoomID    string              `json:"room_id"`
	MessageID string              `json:"message_id"`
	Reactions map[string][]string `json:"reactions"`
}

// TypingChangedEvent is emitted whenever a room's typing set changes.
// Usernames is the display-name list in signal order.
type TypingChangedEvent struct {
	RoomID    string   `json:"room_id"`
	Usernames []string `json:"usernames"`
}

// Event definitions for the chat domain.
var (
	PresenceChangedV1 = helper.EventDefinition[PresenceChangedEvent](
		"presence",
		"PresenceChanged",
		"v1",
	)

	TypingChangedV1 = helper.EventDefinition[TypingChangedEvent](
		"presence",
		"TypingChanged",
		"v1",
	)

	RoomCreatedV1 = helper.EventDefinition[RoomCreatedEvent](
		"chat",
		"RoomCreated",
		"v1",
	)

	MessagePostedV1 = helper.EventDefinition[MessagePostedEvent](
		"chat",
		"MessagePosted",
		"v1",
	)

	ReactionsUpdatedV1 = helper.EventDefinition[ReactionsUpdatedEvent](
		"chat",
		"ReactionsUpdated",
		"v1",
	)
)
