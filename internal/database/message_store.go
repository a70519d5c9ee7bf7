package database

import (
	"context"
	"fmt"
	"time"

	"github.com/brightmind-app/brightmind/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// messageRecord is the persisted shape of a message. The record id is
// projected to its key part before it crosses into the domain, so clients
// always see a plain string id.
type messageRecord struct {
	ID        string    `json:"id,omitempty"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r messageRecord) toDomain() domain.Message {
	return domain.Message{
		ID:        r.ID,
		Sender:    r.Sender,
		Receiver:  r.Receiver,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}

// SurrealMessageStore persists chat messages in SurrealDB. Messages are
// append-only: no update or delete path exists.
type SurrealMessageStore struct {
	db     *surrealdb.DB
	ns     string
	dbName string
}

var _ domain.MessageRepository = (*SurrealMessageStore)(nil)

// NewSurrealMessageStore creates a new SurrealMessageStore.
func NewSurrealMessageStore(db *surrealdb.DB, ns, dbName string) *SurrealMessageStore {
	return &SurrealMessageStore{db: db, ns: ns, dbName: dbName}
}

// Append validates and persists one message, assigning the id and the server
// timestamp, and returns the stored record.
func (s *SurrealMessageStore) Append(ctx context.Context, sender, receiver, content string) (*domain.Message, error) {
	if sender == "" || receiver == "" || content == "" {
		return nil, fmt.Errorf("%w: sender, receiver and content are required", domain.ErrValidation)
	}

	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return nil, fmt.Errorf("failed to set database scope: %w", err)
	}

	query := `
		CREATE message CONTENT {
			sender: $sender,
			receiver: $receiver,
			content: $content,
			createdAt: time::now()
		} RETURN record::id(id) AS id, sender, receiver, content, createdAt
	`
	params := map[string]any{
		"sender":   sender,
		"receiver": receiver,
		"content":  content,
	}

	created, err := QueryOne[messageRecord](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("message was not created or could not be fetched")
	}

	msg := created.toDomain()
	return &msg, nil
}

// History returns the full conversation between a and b, oldest first.
// The pair is unordered: History(a, b) and History(b, a) are identical.
func (s *SurrealMessageStore) History(ctx context.Context, a, b string) ([]domain.Message, error) {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return nil, fmt.Errorf("failed to set database scope: %w", err)
	}

	query := `
		SELECT record::id(id) AS id, sender, receiver, content, createdAt FROM message
		WHERE (sender = $a AND receiver = $b) OR (sender = $b AND receiver = $a)
		ORDER BY createdAt ASC
	`
	params := map[string]any{"a": a, "b": b}

	records, err := Query[messageRecord](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	messages := make([]domain.Message, len(records))
	for i, r := range records {
		messages[i] = r.toDomain()
	}
	return messages, nil
}
