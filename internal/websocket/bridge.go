package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/brightmind-app/brightmind/internal/domain"
	"github.com/brightmind-app/brightmind/internal/middleware"
	"github.com/brightmind-app/brightmind/internal/pubsub"
)

// incomingFrame is one raw payload read from an authenticated connection.
type incomingFrame struct {
	userID  string
	payload []byte
}

// directMessage targets every live connection of one user.
type directMessage struct {
	userID  string
	payload []byte
}

// Bridge owns all live websocket connections and routes frames between them
// and the pub/sub bus. Rooms are implicit: the clients map key IS the room
// name, always the canonical string form of the user id, so numeric and
// string representations of the same identity can never land in different
// rooms.
type Bridge struct {
	publisher pubsub.Publisher

	// incomingTopic is where raw client frames are published for the
	// dispatcher to pick up.
	incomingTopic string

	// clients maps a user's canonical id to their active connections.
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	direct     chan *directMessage
	incoming   chan *incomingFrame

	mu sync.RWMutex
}

// NewBridge initializes a Bridge publishing client frames to incomingTopic.
func NewBridge(pub pubsub.Publisher, incomingTopic string) *Bridge {
	return &Bridge{
		publisher:     pub,
		incomingTopic: incomingTopic,
		clients:       make(map[string][]*Client),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		direct:        make(chan *directMessage),
		incoming:      make(chan *incomingFrame, 256),
	}
}

// Run starts the bridge loop managing client lifecycle and message routing.
// It must run in its own goroutine for the lifetime of the process.
func (b *Bridge) Run() {
	slog.Info("WebSocket bridge started")
	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client.UserID] = append(b.clients[client.UserID], client)
			b.mu.Unlock()
			slog.Info("Client registered", "user_id", client.UserID, "client_id", client.ID)

		case client := <-b.unregister:
			b.mu.Lock()
			if clients, ok := b.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						b.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						break
					}
				}
				if len(b.clients[client.UserID]) == 0 {
					delete(b.clients, client.UserID)
				}
				close(client.send)
				slog.Info("Client unregistered", "user_id", client.UserID, "client_id", client.ID)
			}
			b.mu.Unlock()

		case msg := <-b.direct:
			b.mu.RLock()
			for _, client := range b.clients[msg.userID] {
				select {
				case client.send <- msg.payload:
				default:
					// Slow consumer; drop rather than stall the bridge.
					slog.Warn("Client send channel full, dropping message", "user_id", client.UserID, "client_id", client.ID)
				}
			}
			b.mu.RUnlock()

		case frame := <-b.incoming:
			msg := pubsub.Message{
				Topic:   b.incomingTopic,
				UserID:  frame.userID,
				Payload: frame.payload,
			}
			if err := b.publisher.Publish(context.Background(), msg); err != nil {
				slog.Error("Failed to publish incoming frame", "user_id", frame.userID, "error", err)
			}
		}
	}
}

// SendToUser delivers a payload to every live connection of the given user.
// Unknown users (nobody connected) are a silent no-op: the live channel is
// best-effort on top of history.
func (b *Bridge) SendToUser(userID string, payload []byte) {
	b.direct <- &directMessage{userID: userID, payload: payload}
}

// ConnectedClients reports how many connections a user currently holds.
func (b *Bridge) ConnectedClients(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[userID])
}

// Handler returns the echo handler upgrading an authenticated request to a
// websocket connection. The auth middleware has already verified the bearer
// token and placed the user in context; an unauthenticated request never
// reaches the upgrade.
func (b *Bridge) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get(middleware.UserContextKey).(*domain.User)
		if !ok || user == nil || user.ID == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
		}

		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Origin is enforced by the CORS layer.
		})
		if err != nil {
			slog.Error("Failed to upgrade connection to WebSocket", "error", err)
			return err
		}

		client := &Client{
			ID:     uuid.NewString(),
			UserID: user.ID.String(),
			conn:   conn,
			send:   make(chan []byte, 256),
			bridge: b,
		}
		b.register <- client

		go client.writePump()
		go client.readPump()

		return nil
	}
}
