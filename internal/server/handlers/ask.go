package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/chat"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/corpus"
	apperrors "github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/errors"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/events"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/logfields"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/markup"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/metrics"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/server/responses"
)

const (
	maxQuestionLength = 2000
	maxTitleLength    = 60
	maxSnippetLength  = 280
)

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Question       string `json:"question"`
}

// HandleAsk serves POST /api/ask: it records the question, retrieves
// matching excerpts, composes an answer, and records both chat turns.
func (h *Handlers) HandleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	started := time.Now()

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.recorder.IncAskOutcome(metrics.OutcomeInvalid)
		h.errorAdapter.WriteErrorResponse(w, r, apperrors.WrapError(err, apperrors.CategoryValidation, "invalid request body"))
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		h.recorder.IncAskOutcome(metrics.OutcomeInvalid)
		h.errorAdapter.WriteErrorResponse(w, r, apperrors.ValidationError("question must not be empty"))
		return
	}
	if utf8.RuneCountInString(question) > maxQuestionLength {
		h.recorder.IncAskOutcome(metrics.OutcomeInvalid)
		h.errorAdapter.WriteErrorResponse(w, r, apperrors.ValidationError("question is too long"))
		return
	}

	ctx := r.Context()
	conversationID := req.ConversationID
	if conversationID == "" {
		id, err := h.store.CreateConversation(ctx, truncate(question, maxTitleLength))
		if err != nil {
			h.recorder.IncAskOutcome(metrics.OutcomeError)
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		conversationID = id
	}

	userMsg := chat.NewMessage(chat.RoleUser, question, markup.Convert(question), nil)
	if err := h.store.AppendMessage(ctx, conversationID, userMsg); err != nil {
		h.recorder.IncAskOutcome(metrics.OutcomeError)
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.publishEvent(events.ChatEvent{
		Type:           events.EventQuestionAsked,
		ConversationID: conversationID,
		MessageID:      userMsg.ID,
		Query:          question,
		Timestamp:      userMsg.CreatedAt,
	})

	retrievalStart := time.Now()
	hits := h.corpus.Search(question, 0)
	h.recorder.ObserveRetrievalDuration(time.Since(retrievalStart))

	renderStart := time.Now()
	answerText := composeAnswer(hits)
	answerHTML := markup.Convert(answerText)
	sources := sourceRefs(hits)
	h.recorder.ObserveRenderDuration(time.Since(renderStart))

	assistantMsg := chat.NewMessage(chat.RoleAssistant, answerText, answerHTML, sources)
	if err := h.store.AppendMessage(ctx, conversationID, assistantMsg); err != nil {
		h.recorder.IncAskOutcome(metrics.OutcomeError)
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.publishEvent(events.ChatEvent{
		Type:           events.EventAnswerServed,
		ConversationID: conversationID,
		MessageID:      assistantMsg.ID,
		Excerpts:       len(hits),
		Timestamp:      assistantMsg.CreatedAt,
	})

	messages, err := h.store.Messages(ctx, conversationID)
	if err != nil {
		h.recorder.IncAskOutcome(metrics.OutcomeError)
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	h.recorder.ObserveExcerptsReturned(len(hits))
	if len(hits) == 0 {
		h.recorder.IncAskOutcome(metrics.OutcomeNoExcerpts)
	} else {
		h.recorder.IncAskOutcome(metrics.OutcomeSuccess)
	}
	h.recorder.ObserveAskDuration(time.Since(started))

	h.logger.Info("answered question",
		logfields.ConversationID(conversationID),
		logfields.MessageID(assistantMsg.ID),
		logfields.Excerpts(len(hits)),
		logfields.DurationMS(float64(time.Since(started).Milliseconds())))

	h.writeJSON(w, http.StatusOK, responses.AskResponse{
		ConversationID: conversationID,
		Message:        assistantMsg,
		SelectedIndex:  chat.SelectedIn(messages),
	})
}

// composeAnswer builds the assistant reply in the same markup subset the
// converter accepts, so the rendered HTML carries the list and emphasis
// structure through to the display layer.
func composeAnswer(hits []corpus.Excerpt) string {
	if len(hits) == 0 {
		return "I could not find anything about that in the loaded documents. " +
			"Try rephrasing the question or adding more sources."
	}

	var b strings.Builder
	b.WriteString("Here is what your documents say:\n\n")
	for _, hit := range hits {
		label := hit.Document
		if hit.Section != "" {
			label = fmt.Sprintf("%s, %s", hit.Document, hit.Section)
		}
		b.WriteString(fmt.Sprintf("- **%s**: %s\n", label, truncate(flatten(hit.Text), maxSnippetLength)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func sourceRefs(hits []corpus.Excerpt) []chat.SourceRef {
	if len(hits) == 0 {
		return nil
	}
	refs := make([]chat.SourceRef, 0, len(hits))
	for _, hit := range hits {
		refs = append(refs, chat.SourceRef{
			Document: hit.Document,
			Section:  hit.Section,
			Snippet:  markup.Convert(hit.Text),
			Score:    hit.Score,
		})
	}
	return refs
}

func (h *Handlers) publishEvent(event events.ChatEvent) {
	if err := h.publisher.Publish(event); err != nil {
		h.logger.Warn("failed to publish chat event",
			logfields.ConversationID(event.ConversationID),
			logfields.Error(err))
	}
}

// flatten collapses newlines so an excerpt fits on one list item line.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
