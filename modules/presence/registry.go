package presence

import (
	"errors"
	"strings"
	"sync"

	domain "github.com/example/realtime-chat-demo/domain/chat"
)

// ErrNameEmpty is returned when a display name is blank after trimming.
var ErrNameEmpty = errors.New("display name cannot be empty")

// Registry is the source of truth for which connections are identified
// and under what display name. Snapshots are returned in join order so
// presence broadcasts are deterministic. Display names are not unique;
// two connections may share one.
type Registry struct {
	mu    sync.RWMutex
	names map[string]string // connID -> display name
	order []string          // connIDs in join order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		names: make(map[string]string),
	}
}

// Join registers a connection under a display name. Re-joining an already
// registered connection overwrites the name in place, keeping its position
// in join order.
func (r *Registry) Join(connID, displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return ErrNameEmpty
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, known := r.names[connID]; !known {
		r.order = append(r.order, connID)
	}
	r.names[connID] = displayName
	return nil
}

// Remove unregisters a connection, returning the display name it held.
func (r *Registry) Remove(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, known := r.names[connID]
	if !known {
		return "", false
	}
	delete(r.names, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return name, true
}

// Lookup returns the display name registered for a connection.
func (r *Registry) Lookup(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, known := r.names[connID]
	return name, known
}

// List returns all identified connections in join order.
func (r *Registry) List() []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, domain.User{ID: id, Username: r.names[id]})
	}
	return users
}
