package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	convID, err := store.CreateConversation(ctx, "install questions")
	require.NoError(t, err)
	require.NotEmpty(t, convID)

	user := NewMessage(RoleUser, "how do I install?", "<p>how do I install?</p>", nil)
	assistant := NewMessage(RoleAssistant, "- run make", "<ul><li>run make</li></ul>", []SourceRef{
		{Document: "INSTALL.md", Section: "Building", Snippet: "<p>run make</p>", Score: 0.8},
	})
	require.NoError(t, store.AppendMessage(ctx, convID, user))
	require.NoError(t, store.AppendMessage(ctx, convID, assistant))

	msgs, err := store.Messages(ctx, convID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, RoleUser, msgs[0].Role)
	require.Equal(t, RoleAssistant, msgs[1].Role)
	require.Len(t, msgs[1].Sources, 1)
	require.Equal(t, "INSTALL.md", msgs[1].Sources[0].Document)
	require.Equal(t, "<ul><li>run make</li></ul>", msgs[1].HTML)
}

func TestSQLiteStore_MessagesPreserveOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	convID, err := store.CreateConversation(ctx, "ordering")
	require.NoError(t, err)

	texts := []string{"one", "two", "three", "four"}
	for _, txt := range texts {
		require.NoError(t, store.AppendMessage(ctx, convID, NewMessage(RoleUser, txt, "", nil)))
	}

	msgs, err := store.Messages(ctx, convID)
	require.NoError(t, err)
	require.Len(t, msgs, len(texts))
	for i, txt := range texts {
		require.Equal(t, txt, msgs[i].Text)
	}
}

func TestSQLiteStore_Conversations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateConversation(ctx, "first")
	require.NoError(t, err)
	require.NoError(t, store.AppendMessage(ctx, first, NewMessage(RoleUser, "hi", "", nil)))

	_, err = store.CreateConversation(ctx, "second")
	require.NoError(t, err)

	infos, err := store.Conversations(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	for _, info := range infos {
		if info.ID == first {
			require.Equal(t, 1, info.Messages)
			require.Equal(t, "first", info.Title)
		}
	}
}

func TestSQLiteStore_EmptyConversation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	convID, err := store.CreateConversation(ctx, "empty")
	require.NoError(t, err)

	msgs, err := store.Messages(ctx, convID)
	require.NoError(t, err)
	require.Empty(t, msgs)
}
