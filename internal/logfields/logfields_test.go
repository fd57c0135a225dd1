package logfields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		wantKey string
		wantVal string
		attr    interface{ String() string }
	}{
		{"ConversationID", KeyConversationID, "c1", ConversationID("c1")},
		{"MessageID", KeyMessageID, "m1", MessageID("m1")},
		{"Query", KeyQuery, "what is x", Query("what is x")},
		{"Document", KeyDocument, "guide.md", Document("guide.md")},
		{"Source", KeySource, "docs", Source("docs")},
		{"Path", KeyPath, "/api/ask", Path("/api/ask")},
		{"Method", KeyMethod, "POST", Method("POST")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Contains(t, tc.attr.String(), tc.wantKey+"="+tc.wantVal)
		})
	}
}

func TestErrorHelper(t *testing.T) {
	require.Contains(t, Error(errors.New("boom")).String(), "boom")
	require.Contains(t, Error(nil).String(), KeyError)
}
