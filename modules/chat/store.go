package chat

import (
	"errors"
	"strings"
	"sync"
	"time"

	domain "github.com/example/realtime-chat-demo/domain/chat"
	"github.com/google/uuid"
)

// Default room, always present and impossible to duplicate or delete.
const (
	DefaultRoomID   = "global"
	DefaultRoomName = "Global"
)

// maxHistorySize is the number of messages retained per room.
const maxHistorySize = 100

// Validation errors surfaced to the originating connection.
var (
	ErrRoomNameEmpty = errors.New("room name cannot be empty")
	ErrRoomExists    = errors.New("room name already exists")
	ErrMessageEmpty  = errors.New("message cannot be empty")
)

// RoomStore is the room directory: thread-safe storage for rooms and
// their bounded message histories. Room names are unique
// case-insensitively and rooms are never deleted.
type RoomStore struct {
	mu        sync.RWMutex
	rooms     map[string]*domain.Room
	histories map[string]*history
	order     []string // room ids in creation order, default room first
}

// NewRoomStore creates a store seeded with the default room.
func NewRoomStore() *RoomStore {
	s := &RoomStore{
		rooms:     make(map[string]*domain.Room),
		histories: make(map[string]*history),
	}
	s.add(&domain.Room{ID: DefaultRoomID, Name: DefaultRoomName, CreatedAt: time.Now()})
	return s
}

func (s *RoomStore) add(room *domain.Room) {
	s.rooms[room.ID] = room
	s.histories[room.ID] = newHistory(maxHistorySize)
	s.order = append(s.order, room.ID)
}

// CreateRoom creates a room with a unique (case-insensitive) name.
func (s *RoomStore) CreateRoom(name string) (*domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRoomNameEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lower := strings.ToLower(name)
	for _, room := range s.rooms {
		if strings.ToLower(room.Name) == lower {
			return nil, ErrRoomExists
		}
	}

	room := &domain.Room{
		ID:        uuid.New().String()[:8],
		Name:      name,
		CreatedAt: time.Now(),
	}
	s.add(room)
	return room, nil
}

// Room returns a room by id.
func (s *RoomStore) Room(roomID string) (*domain.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	return room, ok
}

// ListRooms returns all rooms in creation order, default room first.
func (s *RoomStore) ListRooms() []domain.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]domain.Room, 0, len(s.order))
	for _, id := range s.order {
		rooms = append(rooms, *s.rooms[id])
	}
	return rooms
}

// Append pushes a message into a room's ring, evicting the oldest entry
// once the room holds maxHistorySize messages. Unknown rooms are ignored.
// The store keeps its own copy; the caller's message never aliases the
// stored one, so the stored reaction map mutates only under the store
// lock.
func (s *RoomStore) Append(roomID string, msg *domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.histories[roomID]; ok {
		stored := *msg
		stored.Reactions = copyReactions(msg.Reactions)
		h.append(&stored)
	}
}

// History returns up to limit retained messages, most recent last. The
// returned messages are snapshots: reaction maps are deep-copied so a
// concurrent toggle never mutates what the caller is serializing.
func (s *RoomStore) History(roomID string, limit int) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.histories[roomID]
	if !ok {
		return nil
	}
	stored := h.recent(limit)
	out := make([]domain.Message, 0, len(stored))
	for _, msg := range stored {
		snapshot := *msg
		snapshot.Reactions = copyReactions(msg.Reactions)
		out = append(out, snapshot)
	}
	return out
}

// HistoryLen returns the number of messages retained for a room.
func (s *RoomStore) HistoryLen(roomID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if h, ok := s.histories[roomID]; ok {
		return h.len()
	}
	return 0
}
