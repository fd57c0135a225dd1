// Package events publishes chat lifecycle events to NATS JetStream when
// event publishing is enabled. A nil Publisher is a no-op, so callers can
// hold one unconditionally.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	appcfg "github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/config"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/logfields"
)

// EventType enumerates chat event kinds.
type EventType string

const (
	EventQuestionAsked EventType = "question_asked"
	EventAnswerServed  EventType = "answer_served"
)

// ChatEvent is the payload published per chat turn.
type ChatEvent struct {
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id"`
	MessageID      string    `json:"message_id"`
	Query          string    `json:"query,omitempty"`
	Excerpts       int       `json:"excerpts,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Publisher manages the NATS connection for chat events.
type Publisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewPublisher connects to NATS and prepares a JetStream context. Returns
// (nil, nil) when events are disabled.
func NewPublisher(cfg appcfg.EventsConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	conn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	// Publishing to a subject no stream covers would get no PubAck, so the
	// stream is created (or updated) up front.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.Subject},
	}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ensure stream %q: %w", cfg.Stream, err)
	}

	slog.Info("Chat event publisher initialized",
		slog.String("url", cfg.NATSURL),
		slog.String("stream", cfg.Stream),
		slog.String("subject", cfg.Subject))

	return &Publisher{conn: conn, js: js, subject: cfg.Subject}, nil
}

// Publish sends one chat event. Safe on a nil receiver.
func (p *Publisher) Publish(event ChatEvent) error {
	if p == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	slog.Debug("Published chat event",
		slog.String("type", string(event.Type)),
		logfields.ConversationID(event.ConversationID),
		logfields.MessageID(event.MessageID))
	return nil
}

// Close drains the NATS connection so buffered events flush before the
// connection drops. Safe on a nil receiver.
func (p *Publisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
