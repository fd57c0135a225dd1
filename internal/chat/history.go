package chat

import "sync"

// History is the in-memory message list for one conversation. The selected
// index is derived from the message list on read, never stored, so it can
// not drift from the history it describes.
type History struct {
	mu       sync.RWMutex
	messages []Message
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds a message to the end of the history.
func (h *History) Append(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
}

// Messages returns a copy of the message list in order.
func (h *History) Messages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of messages.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// SelectedIndex returns the index of the most recent assistant message that
// carries source excerpts, or -1 when no message qualifies. This is the
// auto-select rule for the sources panel in the display layer.
func (h *History) SelectedIndex() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return SelectedIn(h.messages)
}

// SelectedIn applies the auto-select rule to an ordered message list.
func SelectedIn(messages []Message) int {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleAssistant && len(messages[i].Sources) > 0 {
			return i
		}
	}
	return -1
}

// Selected returns the auto-selected message, if any.
func (h *History) Selected() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for i := len(h.messages) - 1; i >= 0; i-- {
		if h.messages[i].Role == RoleAssistant && len(h.messages[i].Sources) > 0 {
			return h.messages[i], true
		}
	}
	return Message{}, false
}
