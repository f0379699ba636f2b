package broadcast

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/contrib/websocket"
)

// Conn is the subset of *websocket.Conn the hub needs. Sends through it
// are fire-and-forget; a write error never propagates to the caller.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

var _ Conn = (*websocket.Conn)(nil)

// Client represents a connected WebSocket client. RoomID is the single
// room the client is currently subscribed to, if any. writeMu serializes
// writes to Conn: the run loop and direct senders share the socket, and
// the websocket library supports only one concurrent writer.
type Client struct {
	ID     string
	RoomID string
	Conn   Conn

	writeMu sync.Mutex
}

// Hub manages WebSocket connections, their room subscriptions, and frame
// delivery. Room-scoped and process-wide fan-out go through the run
// loop's broadcast channel; direct frames are written synchronously.
type Hub struct {
	clients   map[string]*Client         // clientID -> Client
	rooms     map[string]map[string]bool // roomID -> set of clientIDs
	broadcast chan *outbound
	done      chan struct{}
	logger    types.Logger
	mu        sync.RWMutex
}

type outbound struct {
	roomID string // empty means every connection
	frame  Frame
}

// NewHub creates a new Hub.
func NewHub(logger types.Logger) *Hub {
	return &Hub{
		clients:   make(map[string]*Client),
		rooms:     make(map[string]map[string]bool),
		broadcast: make(chan *outbound, 256),
		done:      make(chan struct{}),
		logger:    logger,
	}
}

// Run starts the hub's main loop. It accepts a context for graceful
// shutdown.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Hub shutting down")
			h.closeAllClients()
			close(h.done)
			return
		case msg := <-h.broadcast:
			h.handleBroadcast(msg)
		}
	}
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

// Register adds a client to the hub. Registration is synchronous so the
// client is addressable by SendTo as soon as this returns.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	if client.RoomID != "" {
		if h.rooms[client.RoomID] == nil {
			h.rooms[client.RoomID] = make(map[string]bool)
		}
		h.rooms[client.RoomID][client.ID] = true
	}
	h.mu.Unlock()
	h.logger.Debug("Client registered", "clientID", client.ID)
}

// Unregister removes a client and its room subscription. Safe to call
// for unknown clients.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok {
		return
	}
	delete(h.clients, clientID)
	h.leaveRoomLocked(client)
	h.logger.Debug("Client unregistered", "clientID", clientID)
}

// JoinRoom subscribes a client to a room, leaving its previous room
// first. A client is in at most one room set at any time.
func (h *Hub) JoinRoom(clientID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok {
		return
	}

	h.leaveRoomLocked(client)
	client.RoomID = roomID
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[string]bool)
	}
	h.rooms[roomID][clientID] = true
	h.logger.Debug("Client joined room", "clientID", clientID, "roomID", roomID)
}

func (h *Hub) leaveRoomLocked(client *Client) {
	if client.RoomID == "" {
		return
	}
	if members := h.rooms[client.RoomID]; members != nil {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, client.RoomID)
		}
	}
	client.RoomID = ""
}

// Broadcast queues a frame for every subscriber of a room; an empty
// roomID targets every connection. Never blocks the caller's path: when
// the queue is full the frame is dropped.
func (h *Hub) Broadcast(roomID string, frame Frame) {
	select {
	case h.broadcast <- &outbound{roomID: roomID, frame: frame}:
	default:
		h.logger.Warn("Broadcast queue full, dropping frame", "roomID", roomID, "type", frame.Type)
	}
}

// SendTo writes a frame to a single client. Unknown clients and write
// failures are silent no-ops; the peer may have just disconnected.
func (h *Hub) SendTo(clientID string, frame Frame) {
	h.mu.RLock()
	client, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.write(client, frame)
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomClientCount returns the number of clients subscribed to a room.
func (h *Hub) RoomClientCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) handleBroadcast(msg *outbound) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.roomID == "" {
		for _, client := range h.clients {
			h.write(client, msg.frame)
		}
		return
	}
	for clientID := range h.rooms[msg.roomID] {
		if client, ok := h.clients[clientID]; ok {
			h.write(client, msg.frame)
		}
	}
}

func (h *Hub) write(client *Client, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("Failed to marshal frame", "type", frame.Type, "error", err)
		return
	}
	client.writeMu.Lock()
	err = client.Conn.WriteMessage(websocket.TextMessage, data)
	client.writeMu.Unlock()
	if err != nil {
		h.logger.Debug("Dropped frame to client", "clientID", client.ID, "error", err)
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		_ = client.Conn.Close()
	}
	h.clients = make(map[string]*Client)
	h.rooms = make(map[string]map[string]bool)
}
