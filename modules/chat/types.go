package chat

import (
	"context"

	domain "github.com/example/realtime-chat-demo/domain/chat"
	"github.com/go-monolith/mono"
)

// Service names registered in the service container.
const (
	ServiceCreateRoom = "create-room"
	ServiceListRooms  = "list-rooms"
	ServiceGetHistory = "get-history"
)

// CreateRoomRequest is the request for creating a room.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// CreateRoomResponse is the response for creating a room. Validation
// failures travel in the Error field rather than as transport errors so
// callers can map them to client-facing notices.
type CreateRoomResponse struct {
	Room  *domain.Room `json:"room,omitempty"`
	Error string       `json:"error,omitempty"`
}

// ListRoomsRequest is the request for listing rooms.
type ListRoomsRequest struct{}

// ListRoomsResponse is the response for listing rooms.
type ListRoomsResponse struct {
	Rooms []domain.Room `json:"rooms"`
}

// GetHistoryRequest is the request for a room's message history.
type GetHistoryRequest struct {
	RoomID string `json:"room_id"`
	Limit  int    `json:"limit"`
}

// GetHistoryResponse is the response for a room's message history.
type GetHistoryResponse struct {
	Found    bool             `json:"found"`
	Messages []domain.Message `json:"messages"`
}

func (m *Module) createRoomService(_ context.Context, req CreateRoomRequest, _ *mono.Msg) (CreateRoomResponse, error) {
	room, err := m.CreateRoom(req.Name)
	if err != nil {
		return CreateRoomResponse{Error: err.Error()}, nil
	}
	return CreateRoomResponse{Room: room}, nil
}

func (m *Module) listRoomsService(_ context.Context, _ ListRoomsRequest, _ *mono.Msg) (ListRoomsResponse, error) {
	return ListRoomsResponse{Rooms: m.ListRooms()}, nil
}

func (m *Module) getHistoryService(_ context.Context, req GetHistoryRequest, _ *mono.Msg) (GetHistoryResponse, error) {
	if _, ok := m.Room(req.RoomID); !ok {
		return GetHistoryResponse{Found: false}, nil
	}
	return GetHistoryResponse{
		Found:    true,
		Messages: m.History(req.RoomID, req.Limit),
	}, nil
}
