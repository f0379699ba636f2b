package presence

import (
	"context"
	"time"

	domain "github.com/example/realtime-chat-demo/domain/chat"
	"github.com/example/realtime-chat-demo/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Module owns the presence registry and the typing tracker. Every
// registry mutation publishes a PresenceChanged event and every tracker
// call publishes a TypingChanged event; the broadcast module turns those
// into WebSocket frames.
type Module struct {
	registry *Registry
	typing   *TypingTracker
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventBusAwareModule = (*Module)(nil)
	_ mono.EventEmitterModule  = (*Module)(nil)
)

// NewModule creates a new presence module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		registry: NewRegistry(),
		typing:   NewTypingTracker(),
		logger:   logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "presence"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.PresenceChangedV1.ToBase(),
		events.TypingChangedV1.ToBase(),
	}
}

// Start initializes the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Presence module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Presence module stopped")
	return nil
}

// Join registers a connection's display name and broadcasts the updated
// presence list.
func (m *Module) Join(connID, displayName string) error {
	if err := m.registry.Join(connID, displayName); err != nil {
		return err
	}
	name, _ := m.registry.Lookup(connID)
	m.publishPresence(events.PresenceJoined, domain.User{ID: connID, Username: name})
	m.logger.Info("User identified", "connID", connID, "username", name)
	return nil
}

// Leave unregisters a connection. It is a no-op for connections that
// never identified. The returned name is the one the connection held.
func (m *Module) Leave(connID string) (string, bool) {
	name, known := m.registry.Remove(connID)
	if !known {
		return "", false
	}
	m.publishPresence(events.PresenceLeft, domain.User{ID: connID, Username: name})
	m.logger.Info("User left", "connID", connID, "username", name)
	return name, true
}

// Lookup returns the display name registered for a connection.
func (m *Module) Lookup(connID string) (string, bool) {
	return m.registry.Lookup(connID)
}

// List returns all identified connections in join order.
func (m *Module) List() []domain.User {
	return m.registry.List()
}

// SetTyping records or clears a typing signal and broadcasts the room's
// updated typing list.
func (m *Module) SetTyping(roomID, connID, username string, isTyping bool) {
	names := m.typing.Set(roomID, connID, username, isTyping)
	m.publishTyping(roomID, names)
}

// ClearTyping removes a connection from every room's typing set and
// broadcasts the updated list for each room that changed. Used on
// disconnect, which is the only path touching several rooms at once.
func (m *Module) ClearTyping(connID string) {
	for roomID, names := range m.typing.RemoveAll(connID) {
		m.publishTyping(roomID, names)
	}
}

// TypingNames returns the display names typing in a room.
func (m *Module) TypingNames(roomID string) []string {
	return m.typing.Names(roomID)
}

func (m *Module) publishPresence(action string, user domain.User) {
	if m.eventBus == nil {
		return
	}
	event := events.PresenceChangedEvent{
		Action:    action,
		User:      user,
		Users:     m.registry.List(),
		Timestamp: time.Now(),
	}
	if err := events.PresenceChangedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish PresenceChanged event", "error", err)
	}
}

func (m *Module) publishTyping(roomID string, names []string) {
	if m.eventBus == nil {
		return
	}
	event := events.TypingChangedEvent{
		RoomID:    roomID,
		Usernames: names,
	}
	if err := events.TypingChangedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish TypingChanged event", "error", err)
	}
}
