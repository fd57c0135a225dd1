// Package chat holds conversation state: messages, per-conversation history,
// and the persistent store behind them.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SourceRef points at the corpus excerpt an assistant message was built from.
type SourceRef struct {
	Document string  `json:"document"`
	Section  string  `json:"section,omitempty"`
	Snippet  string  `json:"snippet"` // rendered HTML excerpt
	Score    float64 `json:"score,omitempty"`
}

// Message is one chat turn. Text is the raw input; HTML is the rendered
// markup the display layer injects. HTML is not re-escaped here; callers
// relying on sanitization must handle it at the rendering boundary.
type Message struct {
	ID        string      `json:"id"`
	Role      Role        `json:"role"`
	Text      string      `json:"text"`
	HTML      string      `json:"html"`
	Sources   []SourceRef `json:"sources,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewMessage constructs a message with a fresh ID and timestamp.
func NewMessage(role Role, text, html string, sources []SourceRef) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		HTML:      html,
		Sources:   sources,
		CreatedAt: time.Now().UTC(),
	}
}
