// Package responses defines the typed JSON payloads of the HTTP API.
package responses

import (
	"time"

	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/chat"
)

// AskResponse is returned by POST /api/ask.
type AskResponse struct {
	ConversationID string       `json:"conversation_id"`
	Message        chat.Message `json:"message"`
	SelectedIndex  int          `json:"selected_index"`
}

// HistoryResponse is returned by GET /api/history/{id}.
type HistoryResponse struct {
	ConversationID string         `json:"conversation_id"`
	Messages       []chat.Message `json:"messages"`
	SelectedIndex  int            `json:"selected_index"`
}

// SuggestionsResponse is returned by GET /api/suggestions.
type SuggestionsResponse struct {
	Questions []string `json:"questions"`
}

// SourcesResponse is returned by GET /api/sources.
type SourcesResponse struct {
	Documents   int      `json:"documents"`
	Chunks      int      `json:"chunks"`
	Directories []string `json:"directories,omitempty"`
}

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime_seconds"`
	Documents int       `json:"documents"`
	Chunks    int       `json:"chunks"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationsResponse is returned by GET /api/conversations.
type ConversationsResponse struct {
	Conversations []chat.ConversationInfo `json:"conversations"`
}
