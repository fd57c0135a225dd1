package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyConversationID = "conversation_id"
	KeyMessageID      = "message_id"
	KeyQuery          = "query"
	KeyDocument       = "document"
	KeySource         = "source"
	KeyExcerpts       = "excerpts"
	KeyCount          = "count"
	KeyPath           = "path"
	KeyMethod         = "method"
	KeyStatus         = "status"
	KeyRemoteAddr     = "remote_addr"
	KeyUserAgent      = "user_agent"
	KeyDurationMS     = "duration_ms"
	KeyError          = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func ConversationID(id string) slog.Attr { return slog.String(KeyConversationID, id) }
func MessageID(id string) slog.Attr      { return slog.String(KeyMessageID, id) }
func Query(q string) slog.Attr           { return slog.String(KeyQuery, q) }
func Document(d string) slog.Attr        { return slog.String(KeyDocument, d) }
func Source(s string) slog.Attr          { return slog.String(KeySource, s) }
func Excerpts(n int) slog.Attr           { return slog.Int(KeyExcerpts, n) }
func Count(n int) slog.Attr              { return slog.Int(KeyCount, n) }
func Path(p string) slog.Attr            { return slog.String(KeyPath, p) }
func Method(m string) slog.Attr          { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr          { return slog.Int(KeyStatus, code) }
func RemoteAddr(a string) slog.Attr      { return slog.String(KeyRemoteAddr, a) }
func UserAgent(ua string) slog.Attr      { return slog.String(KeyUserAgent, ua) }
func DurationMS(ms float64) slog.Attr    { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
