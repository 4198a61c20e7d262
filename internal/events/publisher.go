package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects published by the service.
const (
	SubjectUserRegistered = "users.registered"
	SubjectPostCreated    = "posts.created"
	SubjectPostDeleted    = "posts.deleted"
	SubjectCommentCreated = "comments.created"
	SubjectCommentDeleted = "comments.deleted"
)

// Event is the envelope written to every subject.
type Event struct {
	Subject    string      `json:"subject"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// Publisher emits domain events. Publishing is best effort: failures are
// logged by the implementation and never fail the request.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{})
}

// Noop discards every event.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, string, interface{}) {}

// NATSPublisher publishes JSON events to a NATS connection.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// Connect dials url and returns a publisher. An empty url yields Noop.
func Connect(url string, logger *slog.Logger) (Publisher, func(), error) {
	if url == "" {
		return Noop{}, func() {}, nil
	}
	conn, err := nats.Connect(url, nats.Name("postboard"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, nil, fmt.Errorf("connect nats: %w", err)
	}
	return NewNATSPublisher(conn, logger), conn.Close, nil
}

// NewNATSPublisher wraps an established connection.
func NewNATSPublisher(conn *nats.Conn, logger *slog.Logger) *NATSPublisher {
	return &NATSPublisher{conn: conn, logger: logger}
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) {
	payload, err := json.Marshal(Event{Subject: subject, OccurredAt: time.Now().UTC(), Data: data})
	if err != nil {
		p.logger.ErrorContext(ctx, "encode event", slog.String("subject", subject), slog.String("error", err.Error()))
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.WarnContext(ctx, "publish event", slog.String("subject", subject), slog.String("error", err.Error()))
	}
}
