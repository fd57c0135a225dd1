// Package handlers implements the HTTP API of the chat service.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/chat"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/corpus"
	apperrors "github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/errors"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/events"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/logfields"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/metrics"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/server/responses"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/suggestions"
)

// Handlers carries the dependencies of the API endpoints.
type Handlers struct {
	store        chat.Store
	corpus       *corpus.Corpus
	rotator      *suggestions.Rotator
	publisher    *events.Publisher
	recorder     metrics.Recorder
	errorAdapter *apperrors.HTTPErrorAdapter
	logger       *slog.Logger
	version      string
	startTime    time.Time
}

// New constructs the handler set. publisher may be nil when event
// publishing is disabled; recorder may be nil.
func New(store chat.Store, c *corpus.Corpus, rotator *suggestions.Rotator, publisher *events.Publisher, recorder metrics.Recorder, logger *slog.Logger, version string) *Handlers {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Handlers{
		store:        store,
		corpus:       c,
		rotator:      rotator,
		publisher:    publisher,
		recorder:     recorder,
		errorAdapter: apperrors.NewHTTPErrorAdapter(logger),
		logger:       logger,
		version:      version,
		startTime:    time.Now(),
	}
}

// Register attaches all API routes to mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/ask", h.HandleAsk)
	mux.HandleFunc("/api/history/", h.HandleHistory)
	mux.HandleFunc("/api/suggestions", h.HandleSuggestions)
	mux.HandleFunc("/api/sources", h.HandleSources)
	mux.HandleFunc("/api/conversations", h.HandleConversations)
	mux.HandleFunc("/api/status", h.HandleStatus)
}

// HandleHistory serves GET /api/history/{conversation_id}.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/history/")
	if id == "" || strings.Contains(id, "/") {
		h.errorAdapter.WriteErrorResponse(w, r, apperrors.ValidationError("conversation id is required"))
		return
	}

	messages, err := h.store.Messages(r.Context(), id)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, responses.HistoryResponse{
		ConversationID: id,
		Messages:       messages,
		SelectedIndex:  chat.SelectedIn(messages),
	})
}

// HandleSuggestions serves GET /api/suggestions.
func (h *Handlers) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var questions []string
	if h.rotator != nil {
		questions = h.rotator.Current()
	}
	h.writeJSON(w, http.StatusOK, responses.SuggestionsResponse{Questions: questions})
}

// HandleSources serves GET /api/sources.
func (h *Handlers) HandleSources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	docs, chunks := h.corpus.Stats()
	h.writeJSON(w, http.StatusOK, responses.SourcesResponse{
		Documents:   docs,
		Chunks:      chunks,
		Directories: h.corpus.Directories(),
	})
}

// HandleConversations serves GET /api/conversations.
func (h *Handlers) HandleConversations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	conversations, err := h.store.Conversations(r.Context())
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, responses.ConversationsResponse{Conversations: conversations})
}

// HandleStatus serves GET /api/status.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	docs, chunks := h.corpus.Stats()
	h.writeJSON(w, http.StatusOK, responses.StatusResponse{
		Status:    "ok",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Documents: docs,
		Chunks:    chunks,
		Timestamp: time.Now().UTC(),
	})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", logfields.Error(err))
	}
}
