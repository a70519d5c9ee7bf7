package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightmind-app/brightmind/internal/chat"
	"github.com/brightmind-app/brightmind/internal/domain"
	"github.com/brightmind-app/brightmind/internal/handlers"
)

// memMessageStore keeps messages in order of arrival.
type memMessageStore struct {
	messages []domain.Message
}

func (m *memMessageStore) Append(ctx context.Context, sender, receiver, content string) (*domain.Message, error) {
	if sender == "" || receiver == "" || content == "" {
		return nil, fmt.Errorf("sender, receiver and content are required: %w", domain.ErrValidation)
	}
	msg := domain.Message{
		ID:        fmt.Sprintf("msg%d", len(m.messages)+1),
		Sender:    sender,
		Receiver:  receiver,
		Content:   content,
		CreatedAt: time.Now(),
	}
	m.messages = append(m.messages, msg)
	return &msg, nil
}

func (m *memMessageStore) History(ctx context.Context, a, b string) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.messages {
		if (msg.Sender == a && msg.Receiver == b) || (msg.Sender == b && msg.Receiver == a) {
			out = append(out, msg)
		}
	}
	return out, nil
}

// recordingBroadcaster captures dispatcher fan-out per room.
type recordingBroadcaster struct {
	sends map[string][][]byte
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{sends: make(map[string][][]byte)}
}

func (r *recordingBroadcaster) SendToUser(userID string, payload []byte) {
	r.sends[userID] = append(r.sends[userID], payload)
}

func newChatHandler(users *mockUserStore) (*handlers.ChatHandler, *memMessageStore, *recordingBroadcaster) {
	store := &memMessageStore{}
	rooms := newRecordingBroadcaster()
	dispatcher := chat.NewDispatcher(store, rooms)
	return handlers.NewChatHandler(users, store, dispatcher), store, rooms
}

func TestChatHandler_Users(t *testing.T) {
	users := newMockUserStore()
	alice := users.seedUser(t, "Alice", "alice@example.com", "supersecret")
	users.seedUser(t, "Bob", "bob@example.com", "supersecret")
	h, _, _ := newChatHandler(users)

	c, rec := doJSON(newTestEcho(), http.MethodGet, "/api/chat/users", "")
	asUser(c, alice)

	require.NoError(t, h.Users(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var directory []handlers.UserSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &directory))
	require.Len(t, directory, 2)
	for _, entry := range directory {
		assert.NotEmpty(t, entry.ID)
		assert.NotEmpty(t, entry.Email)
	}
}

func TestChatHandler_History(t *testing.T) {
	users := newMockUserStore()
	alice := users.seedUser(t, "Alice", "alice@example.com", "supersecret")
	bob := users.seedUser(t, "Bob", "bob@example.com", "supersecret")

	t.Run("empty conversation is an empty array, not an error", func(t *testing.T) {
		h, _, _ := newChatHandler(users)
		c, rec := doJSON(newTestEcho(), http.MethodGet, "/api/chat/messages/u2", "")
		c.SetParamNames("counterpartId")
		c.SetParamValues("u2")
		asUser(c, alice)

		require.NoError(t, h.History(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("returns both directions in order", func(t *testing.T) {
		h, store, _ := newChatHandler(users)
		_, err := store.Append(context.Background(), alice.ID.String(), bob.ID.String(), "hi bob")
		require.NoError(t, err)
		_, err = store.Append(context.Background(), bob.ID.String(), alice.ID.String(), "hi alice")
		require.NoError(t, err)
		// A third conversation must not leak in.
		_, err = store.Append(context.Background(), bob.ID.String(), "user:carol", "psst")
		require.NoError(t, err)

		c, rec := doJSON(newTestEcho(), http.MethodGet, "/api/chat/messages/u2", "")
		c.SetParamNames("counterpartId")
		c.SetParamValues("u2")
		asUser(c, alice)

		require.NoError(t, h.History(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var messages []domain.Message
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
		require.Len(t, messages, 2)
		assert.Equal(t, "hi bob", messages[0].Content)
		assert.Equal(t, "hi alice", messages[1].Content)
	})

	t.Run("caretaker type targets the caretaker identity space", func(t *testing.T) {
		h, store, _ := newChatHandler(users)
		_, err := store.Append(context.Background(), alice.ID.String(), "caretaker:cx1", "hello doctor")
		require.NoError(t, err)

		c, rec := doJSON(newTestEcho(), http.MethodGet, "/api/chat/messages/cx1?type=caretaker", "")
		c.SetParamNames("counterpartId")
		c.SetParamValues("cx1")
		asUser(c, alice)

		require.NoError(t, h.History(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var messages []domain.Message
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
		require.Len(t, messages, 1)
		assert.Equal(t, "caretaker:cx1", messages[0].Receiver)
	})

	t.Run("unknown type is a 400", func(t *testing.T) {
		h, _, _ := newChatHandler(users)
		c, rec := doJSON(newTestEcho(), http.MethodGet, "/api/chat/messages/u2?type=robot", "")
		c.SetParamNames("counterpartId")
		c.SetParamValues("u2")
		asUser(c, alice)

		require.NoError(t, h.History(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChatHandler_Send(t *testing.T) {
	users := newMockUserStore()
	alice := users.seedUser(t, "Alice", "alice@example.com", "supersecret")
	bob := users.seedUser(t, "Bob", "bob@example.com", "supersecret")

	t.Run("persists and broadcasts to both parties", func(t *testing.T) {
		h, store, rooms := newChatHandler(users)
		body := fmt.Sprintf(`{"receiver":%q,"content":"hello"}`, bob.ID.String())
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/chat/messages", body)
		asUser(c, alice)

		require.NoError(t, h.Send(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		require.Len(t, store.messages, 1)
		assert.Equal(t, alice.ID.String(), store.messages[0].Sender)
		assert.Equal(t, bob.ID.String(), store.messages[0].Receiver)

		assert.Len(t, rooms.sends[bob.ID.String()], 1)
		assert.Len(t, rooms.sends[alice.ID.String()], 1)

		var created domain.Message
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "hello", created.Content)
		assert.NotEmpty(t, created.ID)
	})

	t.Run("numeric receiver is normalized into the user space", func(t *testing.T) {
		h, store, _ := newChatHandler(users)
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/chat/messages",
			`{"receiver":12345,"content":"hello"}`)
		asUser(c, alice)

		require.NoError(t, h.Send(c))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Len(t, store.messages, 1)
		assert.Equal(t, "user:12345", store.messages[0].Receiver)
	})

	t.Run("missing content is a 400 and nothing is stored", func(t *testing.T) {
		h, store, rooms := newChatHandler(users)
		body := fmt.Sprintf(`{"receiver":%q}`, bob.ID.String())
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/chat/messages", body)
		asUser(c, alice)

		require.NoError(t, h.Send(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, store.messages)
		assert.Empty(t, rooms.sends)
	})

	t.Run("unauthenticated send is a 401", func(t *testing.T) {
		h, store, _ := newChatHandler(users)
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/chat/messages",
			`{"receiver":"user:u2","content":"hello"}`)

		require.NoError(t, h.Send(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, store.messages)
	})
}
