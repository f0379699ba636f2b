package chat

import domain "github.com/example/realtime-chat-demo/domain/chat"

// history is a fixed-capacity FIFO ring over a room's messages. Once full,
// appending evicts the oldest entry. Entries are pointers so reaction
// toggles mutate the stored message in place.
type history struct {
	buf   []*domain.Message
	head  int // index of the oldest entry
	count int
}

func newHistory(capacity int) *history {
	return &history{buf: make([]*domain.Message, capacity)}
}

func (h *history) append(msg *domain.Message) {
	if h.count < len(h.buf) {
		h.buf[(h.head+h.count)%len(h.buf)] = msg
		h.count++
		return
	}
	h.buf[h.head] = msg
	h.head = (h.head + 1) % len(h.buf)
}

// recent returns up to limit messages, oldest first, most recent last.
// limit <= 0 means everything retained.
func (h *history) recent(limit int) []*domain.Message {
	if limit <= 0 || limit > h.count {
		limit = h.count
	}
	out := make([]*domain.Message, 0, limit)
	for i := h.count - limit; i < h.count; i++ {
		out = append(out, h.buf[(h.head+i)%len(h.buf)])
	}
	return out
}

// find returns the retained message with the given id, or nil if it was
// never stored or has been evicted.
func (h *history) find(messageID string) *domain.Message {
	for i := 0; i < h.count; i++ {
		if msg := h.buf[(h.head+i)%len(h.buf)]; msg.ID == messageID {
			return msg
		}
	}
	return nil
}

func (h *history) len() int {
	return h.count
}
