package chat

import (
	"encoding/json"

	"github.com/brightmind-app/brightmind/internal/domain"
)

// Topics used on the pub/sub bus.
const (
	// TopicMessageSend carries raw send_message payloads from the websocket
	// bridge to the dispatcher.
	TopicMessageSend = "chat.message.send"
)

// Event names on the websocket wire.
const (
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
	EventError          = "error"
)

// Envelope is the framing for every websocket event in either direction.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// SendMessagePayload is the client's send request. Receiver is typed as any
// because clients send ids both as strings and as raw numbers; Canonical
// normalizes it before use. The text may arrive under either "message" or
// "content" depending on the client flow.
type SendMessagePayload struct {
	Receiver any    `json:"receiver"`
	Message  string `json:"message"`
	Content  string `json:"content"`
}

// Text returns the message body regardless of which field carried it.
func (p SendMessagePayload) Text() string {
	if p.Content != "" {
		return p.Content
	}
	return p.Message
}

// ErrorPayload is the body of an error event sent back to the issuing client.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewReceiveEvent frames a persisted message as a receive_message event.
func NewReceiveEvent(msg domain.Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: EventReceiveMessage, Data: data})
}

// NewErrorEvent frames an error event. It never fails: the payload is two
// plain strings.
func NewErrorEvent(code, message string) []byte {
	data, _ := json.Marshal(ErrorPayload{Code: code, Message: message})
	out, _ := json.Marshal(Envelope{Event: EventError, Data: data})
	return out
}
