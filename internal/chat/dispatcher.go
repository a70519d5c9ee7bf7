package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/brightmind-app/brightmind/internal/domain"
	"github.com/brightmind-app/brightmind/internal/pubsub"
)

// Broadcaster delivers a payload to every live connection of one user.
// The websocket bridge implements it; tests substitute their own.
type Broadcaster interface {
	SendToUser(userID string, payload []byte)
}

// Dispatcher is the single send contract behind both transports. The REST
// handler calls Send directly; the websocket path reaches it through the
// pub/sub bus via Run. Either way a send request moves through the same
// states: received, persisted, broadcast.
type Dispatcher struct {
	store domain.MessageRepository
	rooms Broadcaster
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(store domain.MessageRepository, rooms Broadcaster) *Dispatcher {
	return &Dispatcher{store: store, rooms: rooms}
}

// Send persists one message and, on success, broadcasts the stored record to
// the receiver's room and the sender's room (so the sender's other devices
// observe the canonical server copy). Broadcasts happen in persistence order
// for a single dispatcher instance.
func (d *Dispatcher) Send(ctx context.Context, sender, receiver, content string) (*domain.Message, error) {
	msg, err := d.store.Append(ctx, sender, receiver, content)
	if err != nil {
		return nil, err
	}

	payload, err := NewReceiveEvent(*msg)
	if err != nil {
		// The message is stored; only the live fan-out is lost. History
		// remains the source of truth.
		slog.Error("Failed to encode broadcast", "message_id", msg.ID, "error", err)
		return msg, nil
	}

	d.rooms.SendToUser(msg.Receiver, payload)
	if msg.Sender != msg.Receiver {
		d.rooms.SendToUser(msg.Sender, payload)
	}
	return msg, nil
}

// Run subscribes the dispatcher to the websocket send topic. The bus feeds
// each payload to handleIncoming sequentially, so socket sends are persisted
// and broadcast one at a time.
func (d *Dispatcher) Run(ctx context.Context, sub pubsub.Subscriber) error {
	return sub.Subscribe(ctx, TopicMessageSend, d.handleIncoming)
}

// handleIncoming processes one raw payload published by the bridge for an
// authenticated user. Failures are reported back to the issuing client as an
// error event rather than silence.
func (d *Dispatcher) handleIncoming(ctx context.Context, msg pubsub.Message) error {
	sender := Canonical(msg.UserID)
	if sender == "" {
		slog.Warn("Dropping send request without sender identity")
		return nil
	}

	payload, ok := decodeSendPayload(msg.Payload)
	if !ok {
		d.rooms.SendToUser(sender, NewErrorEvent("bad_request", "unrecognized event payload"))
		return nil
	}

	receiver := WithSpace("user", Canonical(payload.Receiver))
	if _, err := d.Send(ctx, sender, receiver, payload.Text()); err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			d.rooms.SendToUser(sender, NewErrorEvent("validation_error", err.Error()))
		default:
			slog.Error("Failed to dispatch message", "sender", sender, "error", err)
			d.rooms.SendToUser(sender, NewErrorEvent("store_error", "message could not be delivered"))
		}
	}
	return nil
}

// decodeSendPayload accepts both the enveloped form
// {"event":"send_message","data":{...}} and a bare {"receiver":...,"message":...}
// object, which older clients still emit.
func decodeSendPayload(raw []byte) (SendMessagePayload, bool) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Event != "" {
		if env.Event != EventSendMessage {
			return SendMessagePayload{}, false
		}
		var p SendMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return SendMessagePayload{}, false
		}
		return p, true
	}

	var p SendMessagePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return SendMessagePayload{}, false
	}
	if p.Receiver == nil && p.Text() == "" {
		return SendMessagePayload{}, false
	}
	return p, true
}
