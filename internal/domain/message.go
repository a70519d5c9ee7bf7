package domain

import (
	"context"
	"time"
)

// Message is one chat utterance between two identities. Messages are
// immutable once stored; there is no update or delete path.
type Message struct {
	ID        string    `json:"id,omitempty"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageRepository is the persistence contract for the messaging core.
type MessageRepository interface {
	// Append validates that sender, receiver and content are non-empty,
	// assigns the id and server timestamp, and persists the record.
	// Returns ErrValidation when a required field is missing.
	Append(ctx context.Context, sender, receiver, content string) (*Message, error)
	// History returns every message where the unordered pair
	// {sender, receiver} equals {a, b}, sorted by createdAt ascending.
	// An empty conversation yields an empty slice, not an error.
	History(ctx context.Context, a, b string) ([]Message, error)
}
