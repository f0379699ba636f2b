package presence

import "sync"

type typingEntry struct {
	connID   string
	username string
}

// TypingTracker holds, per room, the set of connections currently
// signaling "typing". It is a pure reflector of the last signal received
// per connection per room; idle timeouts are the caller's concern.
type TypingTracker struct {
	mu    sync.RWMutex
	rooms map[string][]typingEntry // roomID -> entries in signal order
}

// NewTypingTracker creates an empty tracker.
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{
		rooms: make(map[string][]typingEntry),
	}
}

// Set records or clears the typing signal for a connection in a room and
// returns the room's updated display-name list.
func (t *TypingTracker) Set(roomID, connID, username string, isTyping bool) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.rooms[roomID]
	idx := -1
	for i, e := range entries {
		if e.connID == connID {
			idx = i
			break
		}
	}

	switch {
	case isTyping && idx == -1:
		entries = append(entries, typingEntry{connID: connID, username: username})
	case isTyping && idx >= 0:
		entries[idx].username = username
	case !isTyping && idx >= 0:
		entries = append(entries[:idx], entries[idx+1:]...)
	}

	if len(entries) == 0 {
		delete(t.rooms, roomID)
	} else {
		t.rooms[roomID] = entries
	}
	return namesOf(entries)
}

// Names returns the display names typing in a room, in signal order.
func (t *TypingTracker) Names(roomID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return namesOf(t.rooms[roomID])
}

// RemoveAll clears a connection's typing signal in every room. It returns
// the updated name list for each room that actually changed, so disconnect
// handling can broadcast exactly the affected rooms.
func (t *TypingTracker) RemoveAll(connID string) map[string][]string {
	t.mu.Lock()
	defer t.mu.Unlock()

	changed := make(map[string][]string)
	for roomID, entries := range t.rooms {
		for i, e := range entries {
			if e.connID != connID {
				continue
			}
			entries = append(entries[:i], entries[i+1:]...)
			if len(entries) == 0 {
				delete(t.rooms, roomID)
			} else {
				t.rooms[roomID] = entries
			}
			changed[roomID] = namesOf(entries)
			break
		}
	}
	return changed
}

func namesOf(entries []typingEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.username)
	}
	return names
}
