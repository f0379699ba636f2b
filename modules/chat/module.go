package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domain "github.com/example/realtime-chat-demo/domain/chat"
	"github.com/example/realtime-chat-demo/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// anonymousSender is used when the sending connection never identified.
// The registry and the routing path are deliberately decoupled, so an
// unidentified sender degrades instead of failing.
const anonymousSender = "Anonymous"

// NameResolver resolves a connection id to its display name.
type NameResolver interface {
	Lookup(connID string) (string, bool)
}

// Module owns the room directory and implements message routing and
// reaction toggling on top of it.
type Module struct {
	store    *RoomStore
	names    NameResolver
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
)

// NewModule creates a new chat module. The store is seeded with the
// default room immediately so routing works before Start.
func NewModule(names NameResolver, logger types.Logger) *Module {
	return &Module{
		store:  NewRoomStore(),
		names:  names,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "chat"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.RoomCreatedV1.ToBase(),
		events.MessagePostedV1.ToBase(),
		events.ReactionsUpdatedV1.ToBase(),
	}
}

// RegisterServices registers the request-reply services consumed by the
// gateway's REST surface.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCreateRoom, json.Unmarshal, json.Marshal, m.createRoomService,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCreateRoom, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListRooms, json.Unmarshal, json.Marshal, m.listRoomsService,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListRooms, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGetHistory, json.Unmarshal, json.Marshal, m.getHistoryService,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetHistory, err)
	}

	m.logger.Info("Registered chat services",
		"services", []string{ServiceCreateRoom, ServiceListRooms, ServiceGetHistory})
	return nil
}

// Start initializes the chat module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Chat module started", "defaultRoom", DefaultRoomID)
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Chat module stopped")
	return nil
}

// Store returns the room directory.
func (m *Module) Store() *RoomStore {
	return m.store
}

// CreateRoom creates a room and broadcasts the updated room list.
func (m *Module) CreateRoom(name string) (*domain.Room, error) {
	room, err := m.store.CreateRoom(name)
	if err != nil {
		return nil, err
	}

	m.publishRoomCreated(room)
	m.logger.Info("Room created", "roomID", room.ID, "name", room.Name)
	return room, nil
}

// Room returns a room by id.
func (m *Module) Room(roomID string) (*domain.Room, bool) {
	return m.store.Room(roomID)
}

// ListRooms returns all rooms in creation order.
func (m *Module) ListRooms() []domain.Room {
	return m.store.ListRooms()
}

// History returns up to limit retained messages for a room, most recent
// last.
func (m *Module) History(roomID string, limit int) []domain.Message {
	return m.store.History(roomID, limit)
}

// Send validates and routes a public message into a room. A blank
// message is a validation error; an unknown room is a silent drop
// (room lifecycle and message lifecycle have independent callers and
// must not fail each other), in which case both returns are nil.
func (m *Module) Send(connID, roomID, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrMessageEmpty
	}

	if _, ok := m.store.Room(roomID); !ok {
		m.logger.Debug("Dropped message to unknown room", "roomID", roomID, "connID", connID)
		return nil, nil
	}

	msg := &domain.Message{
		ID:        uuid.New().String(),
		RoomID:    roomID,
		SenderID:  connID,
		Sender:    m.senderName(connID),
		Content:   text,
		Timestamp: time.Now(),
		Reactions: make(map[string][]string),
	}
	m.store.Append(roomID, msg)

	m.publishMessage(msg)
	m.logger.Debug("Message routed", "roomID", roomID, "messageID", msg.ID)
	return msg, nil
}

// SendPrivate validates and constructs a private message addressed to a
// single recipient. Private messages never touch room history, and no
// existence check is made on the recipient; delivery to a departed peer
// is the transport's silent no-op.
func (m *Module) SendPrivate(connID, recipientID, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrMessageEmpty
	}

	msg := &domain.Message{
		ID:          uuid.New().String(),
		SenderID:    connID,
		Sender:      m.senderName(connID),
		Content:     text,
		Timestamp:   time.Now(),
		IsPrivate:   true,
		RecipientID: recipientID,
		Reactions:   make(map[string][]string),
	}
	m.logger.Debug("Private message routed", "from", connID, "to", recipientID)
	return msg, nil
}

// ToggleReaction toggles a reaction and broadcasts the updated map. The
// bool is false when the room or message cannot be found.
func (m *Module) ToggleReaction(connID, roomID, messageID, emoji string) (map[string][]string, bool) {
	reactions, ok := m.store.ToggleReaction(roomID, messageID, connID, emoji)
	if !ok {
		return nil, false
	}

	m.publishReactions(roomID, messageID, reactions)
	return reactions, true
}

func (m *Module) senderName(connID string) string {
	if m.names != nil {
		if name, ok := m.names.Lookup(connID); ok {
			return name
		}
	}
	return anonymousSender
}

func (m *Module) publishRoomCreated(room *domain.Room) {
	if m.eventBus == nil {
		return
	}
	event := events.RoomCreatedEvent{
		Room:      *room,
		Rooms:     m.store.ListRooms(),
		Timestamp: time.Now(),
	}
	if err := events.RoomCreatedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish RoomCreated event", "error", err)
	}
}

func (m *Module) publishMessage(msg *domain.Message) {
	if m.eventBus == nil {
		return
	}
	event := events.MessagePostedEvent{
		RoomID:  msg.RoomID,
		Message: *msg,
	}
	if err := events.MessagePostedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish MessagePosted event", "error", err)
	}
}

func (m *Module) publishReactions(roomID, messageID string, reactions map[string][]string) {
	if m.eventBus == nil {
		return
	}
	event := events.ReactionsUpdatedEvent{
		RoomID:    roomID,
		MessageID: messageID,
		Reactions: reactions,
	}
	if err := events.ReactionsUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish ReactionsUpdated event", "error", err)
	}
}
