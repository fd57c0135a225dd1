package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists conversations and their messages.
type Store interface {
	CreateConversation(ctx context.Context, title string) (string, error)
	AppendMessage(ctx context.Context, conversationID string, msg Message) error
	Messages(ctx context.Context, conversationID string) ([]Message, error)
	Conversations(ctx context.Context) ([]ConversationInfo, error)
	Close() error
}

// ConversationInfo summarizes one stored conversation.
type ConversationInfo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Messages  int       `json:"messages"`
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based chat store.
// Use ":memory:" for in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES conversations(id),
		role TEXT NOT NULL,
		text TEXT NOT NULL,
		html TEXT NOT NULL,
		sources TEXT,
		created_at INTEGER NOT NULL,
		seq INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateConversation inserts a new conversation and returns its ID.
func (s *SQLiteStore) CreateConversation(ctx context.Context, title string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO conversations (id, title, created_at) VALUES (?, ?, ?)",
		id, title, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("insert conversation: %w", err)
	}
	return id, nil
}

// AppendMessage stores a message at the end of a conversation.
func (s *SQLiteStore) AppendMessage(ctx context.Context, conversationID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sourcesJSON []byte
	if len(msg.Sources) > 0 {
		var err error
		sourcesJSON, err = json.Marshal(msg.Sources)
		if err != nil {
			return fmt.Errorf("marshal sources: %w", err)
		}
	}

	var seq int
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), -1) + 1 FROM messages WHERE conversation_id = ?",
		conversationID,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO messages (id, conversation_id, role, text, html, sources, created_at, seq) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		msg.ID, conversationID, string(msg.Role), msg.Text, msg.HTML, sourcesJSON, msg.CreatedAt.Unix(), seq,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// Messages retrieves all messages of a conversation in append order.
func (s *SQLiteStore) Messages(ctx context.Context, conversationID string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, role, text, html, sources, created_at FROM messages WHERE conversation_id = ? ORDER BY seq",
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		var role string
		var sourcesJSON []byte
		var createdUnix int64

		if err := rows.Scan(&m.ID, &role, &m.Text, &m.HTML, &sourcesJSON, &createdUnix); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = Role(role)
		m.CreatedAt = time.Unix(createdUnix, 0).UTC()
		if len(sourcesJSON) > 0 {
			if err := json.Unmarshal(sourcesJSON, &m.Sources); err != nil {
				return nil, fmt.Errorf("unmarshal sources: %w", err)
			}
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return messages, nil
}

// Conversations lists stored conversations, newest first.
func (s *SQLiteStore) Conversations(ctx context.Context) ([]ConversationInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title, c.created_at, COUNT(m.id)
		FROM conversations c
		LEFT JOIN messages m ON m.conversation_id = c.id
		GROUP BY c.id
		ORDER BY c.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var infos []ConversationInfo
	for rows.Next() {
		var info ConversationInfo
		var createdUnix int64
		if err := rows.Scan(&info.ID, &info.Title, &createdUnix, &info.Messages); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		info.CreatedAt = time.Unix(createdUnix, 0).UTC()
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return infos, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
