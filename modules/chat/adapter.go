package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domain "github.com/example/realtime-chat-demo/domain/chat"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ErrRoomNotFound is returned by the port when a history request names an
// unknown room.
var ErrRoomNotFound = errors.New("room not found")

// ChatPort is the interface other modules use to reach the room
// directory through the service container.
type ChatPort interface {
	CreateRoom(ctx context.Context, name string) (*domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	GetHistory(ctx context.Context, roomID string, limit int) ([]domain.Message, error)
}

// ChatAdapter implements ChatPort using request-reply services.
type ChatAdapter struct {
	container mono.ServiceContainer
}

// NewChatAdapter creates a new ChatAdapter.
func NewChatAdapter(container mono.ServiceContainer) ChatPort {
	if container == nil {
		panic("chat adapter requires non-nil ServiceContainer")
	}
	return &ChatAdapter{container: container}
}

// CreateRoom creates a room. Validation failures come back as plain
// errors carrying the store's message.
func (a *ChatAdapter) CreateRoom(ctx context.Context, name string) (*domain.Room, error) {
	req := CreateRoomRequest{Name: name}
	var resp CreateRoomResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceCreateRoom,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}
	return resp.Room, nil
}

// ListRooms returns all rooms in creation order.
func (a *ChatAdapter) ListRooms(ctx context.Context) ([]domain.Room, error) {
	req := ListRoomsRequest{}
	var resp ListRoomsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceListRooms,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return resp.Rooms, nil
}

// GetHistory returns a room's retained messages, most recent last.
func (a *ChatAdapter) GetHistory(ctx context.Context, roomID string, limit int) ([]domain.Message, error) {
	req := GetHistoryRequest{RoomID: roomID, Limit: limit}
	var resp GetHistoryResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceGetHistory,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	if !resp.Found {
		return nil, ErrRoomNotFound
	}
	return resp.Messages, nil
}
