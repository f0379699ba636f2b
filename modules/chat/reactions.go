package chat

// ToggleReaction toggles connID's reaction on a stored message: absent
// adds, present removes, and an emoji whose reactor set becomes empty is
// deleted from the map entirely. The second return is false when the room
// or the message cannot be found (evicted and never-stored messages are
// indistinguishable, so both fail silently). On success it returns a copy
// of the message's full updated reaction map.
func (s *RoomStore) ToggleReaction(roomID, messageID, connID, emoji string) (map[string][]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.histories[roomID]
	if !ok {
		return nil, false
	}
	msg := h.find(messageID)
	if msg == nil {
		return nil, false
	}

	if msg.Reactions == nil {
		msg.Reactions = make(map[string][]string)
	}

	reactors := msg.Reactions[emoji]
	idx := -1
	for i, id := range reactors {
		if id == connID {
			idx = i
			break
		}
	}
	if idx == -1 {
		msg.Reactions[emoji] = append(reactors, connID)
	} else {
		reactors = append(reactors[:idx], reactors[idx+1:]...)
		if len(reactors) == 0 {
			delete(msg.Reactions, emoji)
		} else {
			msg.Reactions[emoji] = reactors
		}
	}

	return copyReactions(msg.Reactions), true
}

func copyReactions(reactions map[string][]string) map[string][]string {
	out := make(map[string][]string, len(reactions))
	for emoji, ids := range reactions {
		out[emoji] = append([]string(nil), ids...)
	}
	return out
}
