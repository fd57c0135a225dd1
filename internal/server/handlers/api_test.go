package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/chat"
	appcfg "github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/config"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/corpus"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/server/responses"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/suggestions"
)

func newTestHandlers(t *testing.T, docContent string) *Handlers {
	t.Helper()

	store, err := chat.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	dir := t.TempDir()
	if docContent != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.md"), []byte(docContent), 0o644))
	}
	c := corpus.New(appcfg.CorpusConfig{
		Directories:  []string{dir},
		ChunkSize:    400,
		ChunkOverlap: 50,
		TopK:         4,
	}, nil)
	require.NoError(t, c.Reindex(context.Background()))

	rotator, err := suggestions.NewRotator(appcfg.SuggestionsConfig{
		Questions:      []string{"How do I install?", "Where are the logs?"},
		Visible:        2,
		RotateInterval: "1h",
	}, nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(store, c, rotator, nil, nil, logger, "test")
}

func askJSON(t *testing.T, h *Handlers, body string) (*httptest.ResponseRecorder, responses.AskResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.HandleAsk(rec, req)

	var resp responses.AskResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	}
	return rec, resp
}

func TestHandleAsk_AnswersFromCorpus(t *testing.T) {
	h := newTestHandlers(t, "# Building\n\nRun make install to build the project from source.\n")

	rec, resp := askJSON(t, h, `{"question": "how do I build the project"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, resp.ConversationID)
	require.Equal(t, chat.RoleAssistant, resp.Message.Role)
	require.NotEmpty(t, resp.Message.Sources)
	require.Equal(t, "guide.md", resp.Message.Sources[0].Document)
	require.Contains(t, resp.Message.HTML, "<ul>")
	require.Contains(t, resp.Message.HTML, "<strong>guide.md")
	// assistant message with sources is index 1 (after the user turn)
	require.Equal(t, 1, resp.SelectedIndex)
}

func TestHandleAsk_ContinuesConversation(t *testing.T) {
	h := newTestHandlers(t, "# Building\n\nRun make install to build the project.\n")

	_, first := askJSON(t, h, `{"question": "how do I build the project"}`)
	rec, second := askJSON(t, h, `{"conversation_id": "`+first.ConversationID+`", "question": "how do I build it again"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, first.ConversationID, second.ConversationID)
	// two full turns recorded; latest sourced assistant message is index 3
	require.Equal(t, 3, second.SelectedIndex)
}

func TestHandleAsk_NoExcerpts(t *testing.T) {
	h := newTestHandlers(t, "# Building\n\nRun make install.\n")

	rec, resp := askJSON(t, h, `{"question": "xylophone zeppelin quartz"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, resp.Message.Sources)
	require.Contains(t, resp.Message.Text, "could not find")
	require.Equal(t, -1, resp.SelectedIndex)
}

func TestHandleAsk_RejectsEmptyQuestion(t *testing.T) {
	h := newTestHandlers(t, "")

	rec, _ := askJSON(t, h, `{"question": "   "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAsk_RejectsBadJSON(t *testing.T) {
	h := newTestHandlers(t, "")

	rec, _ := askJSON(t, h, `{"question": `)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAsk_RejectsWrongMethod(t *testing.T) {
	h := newTestHandlers(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/ask", nil)
	rec := httptest.NewRecorder()
	h.HandleAsk(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHistory_ReturnsStoredTurns(t *testing.T) {
	h := newTestHandlers(t, "# Building\n\nRun make install to build the project.\n")

	_, asked := askJSON(t, h, `{"question": "how do I build the project"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/history/"+asked.ConversationID, nil)
	rec := httptest.NewRecorder()
	h.HandleHistory(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp responses.HistoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Messages, 2)
	require.Equal(t, chat.RoleUser, resp.Messages[0].Role)
	require.Equal(t, chat.RoleAssistant, resp.Messages[1].Role)
	require.Equal(t, 1, resp.SelectedIndex)
}

func TestHandleHistory_RequiresID(t *testing.T) {
	h := newTestHandlers(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/history/", nil)
	rec := httptest.NewRecorder()
	h.HandleHistory(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSuggestions_ReturnsVisibleWindow(t *testing.T) {
	h := newTestHandlers(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/suggestions", nil)
	rec := httptest.NewRecorder()
	h.HandleSuggestions(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp responses.SuggestionsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, []string{"How do I install?", "Where are the logs?"}, resp.Questions)
}

func TestHandleSources_ReportsIndex(t *testing.T) {
	h := newTestHandlers(t, "# Building\n\nRun make install.\n")

	req := httptest.NewRequest(http.MethodGet, "/api/sources", nil)
	rec := httptest.NewRecorder()
	h.HandleSources(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp responses.SourcesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 1, resp.Documents)
	require.Greater(t, resp.Chunks, 0)
}

func TestHandleConversations_ListsCreated(t *testing.T) {
	h := newTestHandlers(t, "# Building\n\nRun make install to build the project.\n")

	_, _ = askJSON(t, h, `{"question": "how do I build the project"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	rec := httptest.NewRecorder()
	h.HandleConversations(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp responses.ConversationsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Conversations, 1)
	require.Equal(t, "how do I build the project", resp.Conversations[0].Title)
}

func TestHandleStatus_ReportsVersionAndCounts(t *testing.T) {
	h := newTestHandlers(t, "# Building\n\nRun make install.\n")

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	h.HandleStatus(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp responses.StatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, "test", resp.Version)
	require.Equal(t, 1, resp.Documents)
}

func TestComposeAnswer_UsesListMarkup(t *testing.T) {
	answer := composeAnswer([]corpus.Excerpt{
		{Document: "INSTALL.md", Section: "Building", Text: "run make\ninstall"},
		{Document: "FAQ.md", Text: "ask on the mailing list"},
	})
	require.Contains(t, answer, "- **INSTALL.md, Building**: run make install")
	require.Contains(t, answer, "- **FAQ.md**: ask on the mailing list")
	require.False(t, strings.HasSuffix(answer, "\n"))
}
