package gateway

import (
	"strings"

	domain "github.com/example/realtime-chat-demo/domain/chat"
	"github.com/example/realtime-chat-demo/modules/broadcast"
	"github.com/example/realtime-chat-demo/modules/chat"
	"github.com/go-monolith/mono/pkg/types"
)

// presenceService is the slice of the presence module a session uses.
type presenceService interface {
	Join(connID, displayName string) error
	Leave(connID string) (string, bool)
	SetTyping(roomID, connID, username string, isTyping bool)
	ClearTyping(connID string)
}

// chatService is the slice of the chat module a session uses.
type chatService interface {
	CreateRoom(name string) (*domain.Room, error)
	Room(roomID string) (*domain.Room, bool)
	ListRooms() []domain.Room
	History(roomID string, limit int) []domain.Message
	Send(connID, roomID, text string) (*domain.Message, error)
	SendPrivate(connID, recipientID, text string) (*domain.Message, error)
	ToggleReaction(connID, roomID, messageID, emoji string) (map[string][]string, bool)
}

// frameSender is the slice of the hub a session uses: direct frames and
// room subscription changes. Scoped fan-out never goes through here; it
// flows from the domain modules over the event bus.
type frameSender interface {
	SendTo(clientID string, frame broadcast.Frame)
	JoinRoom(clientID, roomID string)
}

// session drives one connection through its lifecycle:
// connected -> identified (default room) -> identified (room R)* -> gone.
// A connection's frames are handled sequentially by its read loop, so
// session state needs no locking.
type session struct {
	id         string
	username   string
	roomID     string
	identified bool

	presence presenceService
	chat     chatService
	sender   frameSender
	limiter  *rateLimiter
	logger   types.Logger
}

func newSession(id string, presence presenceService, chat chatService, sender frameSender, logger types.Logger) *session {
	return &session{
		id:       id,
		presence: presence,
		chat:     chat,
		sender:   sender,
		limiter:  newRateLimiter(burstSize, messagesPerSecond),
		logger:   logger,
	}
}

// identify attaches a display name, places the connection in the default
// room, and replies with the room list and a join confirmation. The
// presence broadcast itself is triggered by the registry mutation.
func (s *session) identify(username string) {
	if err := s.presence.Join(s.id, username); err != nil {
		s.sendError(err.Error())
		return
	}
	s.identified = true
	// The registry trims on join; keep the session's copy identical so
	// typing lists render the same name presence shows.
	s.username = strings.TrimSpace(username)

	s.sender.JoinRoom(s.id, chat.DefaultRoomID)
	s.roomID = chat.DefaultRoomID

	s.reply(broadcast.FrameRoomList, s.chat.ListRooms())
	s.reply(broadcast.FrameJoinedRoom, joinedRoomReply{RoomID: chat.DefaultRoomID, Name: chat.DefaultRoomName})
}

// createRoom creates a room; the room-list broadcast to everyone follows
// from the directory mutation.
func (s *session) createRoom(name string) {
	if _, err := s.chat.CreateRoom(name); err != nil {
		s.sendError(err.Error())
	}
}

// joinRoom re-subscribes the connection to another room and backfills
// its recent history. An unknown room is a silent no-op, checked before
// any subscription change.
func (s *session) joinRoom(roomID string) {
	room, ok := s.chat.Room(roomID)
	if !ok {
		return
	}

	s.sender.JoinRoom(s.id, roomID)
	s.roomID = roomID

	s.reply(broadcast.FrameJoinedRoom, joinedRoomReply{RoomID: room.ID, Name: room.Name})
	s.reply(broadcast.FrameRoomBackfill, s.chat.History(roomID, 0))
}

// sendMessage routes a public message. Fan-out to the room happens via
// the posted event; only validation failures come back here.
func (s *session) sendMessage(roomID, content string) {
	if !s.limiter.allow() {
		s.sendError("Rate limit exceeded, please slow down")
		return
	}
	if roomID == "" {
		roomID = chat.DefaultRoomID
	}
	if _, err := s.chat.Send(s.id, roomID, content); err != nil {
		s.sendError(err.Error())
	}
}

// sendPrivate relays a private message to exactly the recipient and the
// sender. No recipient existence check: delivery to a departed peer is
// the transport's silent no-op.
func (s *session) sendPrivate(recipientID, content string) {
	if !s.limiter.allow() {
		s.sendError("Rate limit exceeded, please slow down")
		return
	}
	msg, err := s.chat.SendPrivate(s.id, recipientID, content)
	if err != nil {
		s.sendError(err.Error())
		return
	}

	frame, ferr := broadcast.NewFrame(broadcast.FrameMessage, msg)
	if ferr != nil {
		s.logger.Error("Failed to encode private message", "error", ferr)
		return
	}
	s.sender.SendTo(recipientID, frame)
	if recipientID != s.id {
		s.sender.SendTo(s.id, frame)
	}
}

// setTyping reflects the last typing signal for this connection. Ignored
// until the connection identifies, since the typing list renders display
// names.
func (s *session) setTyping(roomID string, isTyping bool) {
	if !s.identified {
		return
	}
	if roomID == "" {
		roomID = chat.DefaultRoomID
	}
	s.presence.SetTyping(roomID, s.id, s.username, isTyping)
}

// toggleReaction toggles this connection's reaction on a stored message.
// Unknown room or message fails silently; the updated map reaches the
// room via the reactions event.
func (s *session) toggleReaction(roomID, messageID, emoji string) {
	if roomID == "" {
		roomID = chat.DefaultRoomID
	}
	s.chat.ToggleReaction(s.id, roomID, messageID, emoji)
}

// close cascades disconnect cleanup: presence removal and typing removal
// across every room that held an entry. Both are no-ops for connections
// that never identified.
func (s *session) close() {
	s.presence.Leave(s.id)
	s.presence.ClearTyping(s.id)
	s.identified = false
}

func (s *session) reply(frameType string, payload any) {
	frame, err := broadcast.NewFrame(frameType, payload)
	if err != nil {
		s.logger.Error("Failed to encode frame", "type", frameType, "error", err)
		return
	}
	s.sender.SendTo(s.id, frame)
}

func (s *session) sendError(message string) {
	s.sender.SendTo(s.id, broadcast.ErrorFrame(message))
}
