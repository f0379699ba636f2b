package broadcast

import (
	"context"
	"fmt"

	"github.com/example/realtime-chat-demo/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Module consumes chat and presence events and fans them out to
// WebSocket clients through the hub.
type Module struct {
	hub       *Hub
	cancelHub context.CancelFunc
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new broadcast module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		hub:    NewHub(logger),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "broadcast"
}

// Hub returns the WebSocket hub for the gateway to use.
func (m *Module) Hub() *Hub {
	return m.hub
}

// Start runs the hub loop.
func (m *Module) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHub = cancel
	go m.hub.Run(ctx)
	m.logger.Info("Broadcast module started")
	return nil
}

// Stop shuts down the hub and closes remaining connections.
func (m *Module) Stop(_ context.Context) error {
	if m.cancelHub != nil {
		m.cancelHub()
		m.hub.Wait()
	}
	m.logger.Info("Broadcast module stopped")
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

// RegisterEventConsumers subscribes to every chat and presence event.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.PresenceChangedV1, m.handlePresenceChanged, m,
	); err != nil {
		return fmt.Errorf("failed to register PresenceChanged consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.RoomCreatedV1, m.handleRoomCreated, m,
	); err != nil {
		return fmt.Errorf("failed to register RoomCreated consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.MessagePostedV1, m.handleMessagePosted, m,
	); err != nil {
		return fmt.Errorf("failed to register MessagePosted consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.ReactionsUpdatedV1, m.handleReactionsUpdated, m,
	); err != nil {
		return fmt.Errorf("failed to register ReactionsUpdated consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.TypingChangedV1, m.handleTypingChanged, m,
	); err != nil {
		return fmt.Errorf("failed to register TypingChanged consumer: %w", err)
	}

	m.logger.Info("Registered broadcast event consumers")
	return nil
}

// handlePresenceChanged announces the change to everyone, then sends the
// full presence list so clients never need to reconcile deltas.
func (m *Module) handlePresenceChanged(_ context.Context, event events.PresenceChangedEvent, _ *mono.Msg) error {
	noticeType := FrameUserJoined
	if event.Action == events.PresenceLeft {
		noticeType = FrameUserLeft
	}

	if notice, err := NewFrame(noticeType, event.User); err == nil {
		m.hub.Broadcast("", notice)
	}

	frame, err := NewFrame(FrameUserList, event.Users)
	if err != nil {
		m.logger.Error("Failed to encode presence list", "error", err)
		return nil
	}
	m.hub.Broadcast("", frame)
	return nil
}

func (m *Module) handleRoomCreated(_ context.Context, event events.RoomCreatedEvent, _ *mono.Msg) error {
	frame, err := NewFrame(FrameRoomList, event.Rooms)
	if err != nil {
		m.logger.Error("Failed to encode room list", "error", err)
		return nil
	}
	m.hub.Broadcast("", frame)
	return nil
}

func (m *Module) handleMessagePosted(_ context.Context, event events.MessagePostedEvent, _ *mono.Msg) error {
	frame, err := NewFrame(FrameMessage, event.Message)
	if err != nil {
		m.logger.Error("Failed to encode message", "error", err)
		return nil
	}
	m.hub.Broadcast(event.RoomID, frame)
	return nil
}

func (m *Module) handleReactionsUpdated(_ context.Context, event events.ReactionsUpdatedEvent, _ *mono.Msg) error {
	frame, err := NewFrame(FrameReactionsUpdated, event)
	if err != nil {
		m.logger.Error("Failed to encode reactions", "error", err)
		return nil
	}
	m.hub.Broadcast(event.RoomID, frame)
	return nil
}

func (m *Module) handleTypingChanged(_ context.Context, event events.TypingChangedEvent, _ *mono.Msg) error {
	frame, err := NewFrame(FrameTypingUsers, event.Usernames)
	if err != nil {
		m.logger.Error("Failed to encode typing list", "error", err)
		return nil
	}
	m.hub.Broadcast(event.RoomID, frame)
	return nil
}
