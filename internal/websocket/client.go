package websocket

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

// Client represents a single live websocket connection. A user may hold any
// number of clients at once (multiple tabs, multiple devices); they all share
// the room named by the user's canonical id.
type Client struct {
	// ID uniquely identifies this connection for logging.
	ID string
	// UserID is the canonical id of the authenticated user.
	UserID string

	conn   *websocket.Conn
	send   chan []byte
	bridge *Bridge
}

// readPump pumps frames from the connection into the bridge's incoming
// channel until the client disconnects.
func (c *Client) readPump() {
	defer func() {
		c.bridge.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "Client disconnected")
	}()

	for {
		_, payload, err := c.conn.Read(context.Background())
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				slog.Info("WebSocket closed by client", "user_id", c.UserID, "client_id", c.ID)
			} else if err != io.EOF {
				slog.Error("WebSocket read error", "user_id", c.UserID, "client_id", c.ID, "error", err)
			}
			return
		}

		c.bridge.incoming <- &incomingFrame{userID: c.UserID, payload: payload}
	}
}

// writePump drains the client's send channel onto the connection. It exits
// when the bridge closes the channel on unregister.
func (c *Client) writePump() {
	defer func() {
		c.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")
	}()

	for payload := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := c.conn.Write(ctx, websocket.MessageText, payload)
		cancel()
		if err != nil {
			slog.Error("WebSocket write error", "user_id", c.UserID, "client_id", c.ID, "error", err)
			return
		}
	}
}
