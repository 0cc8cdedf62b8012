package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliasadad-hash/Journeyman/internal/metrics"
	"github.com/aliasadad-hash/Journeyman/internal/models"
)

// MessageStore is the slice of the persistent store the router needs
// for chat messages.
type MessageStore interface {
	Insert(ctx context.Context, m *models.Message) error
	// SetReaction installs reactorID's reaction, replacing any prior
	// reaction by the same reactor, and returns the updated message.
	SetReaction(ctx context.Context, messageID string, r models.Reaction) (*models.Message, error)
	ClearReaction(ctx context.Context, messageID, reactorID string) error
	// MarkConversationRead flips read=false messages addressed to
	// readerID in the conversation and returns how many changed.
	MarkConversationRead(ctx context.Context, conversationID, readerID string, at time.Time) (int64, error)
}

type NotificationStore interface {
	Insert(ctx context.Context, n *models.Notification) error
}

// EventSink receives a fire-and-forget copy of every durable domain
// event for downstream consumers.
type EventSink interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Router decides persistence and live delivery for domain events.
// The rule everywhere: durable write first, then a single live
// delivery attempt, no retry. An offline recipient observes the event
// later through the store alone.
type Router struct {
	hub           *Hub
	messages      MessageStore
	notifications NotificationStore
	events        EventSink
	log           *zap.SugaredLogger
}

func NewRouter(hub *Hub, messages MessageStore, notifications NotificationStore, events EventSink, log *zap.SugaredLogger) *Router {
	return &Router{
		hub:           hub,
		messages:      messages,
		notifications: notifications,
		events:        events,
		log:           log,
	}
}

func (r *Router) Hub() *Hub { return r.hub }

// SendMessage persists m, then attempts live delivery to the recipient
// and echoes message_sent to the sender's own connection. A store
// failure aborts the whole operation; a delivery failure does not.
func (r *Router) SendMessage(ctx context.Context, m *models.Message) error {
	if err := r.messages.Insert(ctx, m); err != nil {
		return fmt.Errorf("persist message: %w", err)
	}
	r.deliver(m.RecipientID, EventNewMessage, MessageEvent{Type: EventNewMessage, Message: m})
	r.deliver(m.SenderID, EventMessageSent, MessageEvent{Type: EventMessageSent, Message: m})
	r.publish("message.created", m)
	return nil
}

// Typing forwards a typing signal if the recipient is connected.
// Never persisted; an offline recipient simply misses it.
func (r *Router) Typing(fromID, toID string, isTyping bool) {
	r.deliver(toID, EventTyping, TypingEvent{Type: EventTyping, UserID: fromID, IsTyping: isTyping})
}

// AddReaction stores reactorID's reaction on the message (replacing
// any prior one by the same reactor) and notifies the message sender
// if they are someone else and connected.
func (r *Router) AddReaction(ctx context.Context, messageID, reactorID, emoji string) (*models.Message, error) {
	msg, err := r.messages.SetReaction(ctx, messageID, models.Reaction{
		UserID:    reactorID,
		Emoji:     emoji,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("persist reaction: %w", err)
	}
	if msg.SenderID != reactorID {
		r.deliver(msg.SenderID, EventReaction, ReactionEvent{
			Type:      EventReaction,
			MessageID: messageID,
			UserID:    reactorID,
			Emoji:     emoji,
		})
	}
	return msg, nil
}

func (r *Router) RemoveReaction(ctx context.Context, messageID, reactorID string) error {
	if err := r.messages.ClearReaction(ctx, messageID, reactorID); err != nil {
		return fmt.Errorf("remove reaction: %w", err)
	}
	return nil
}

// MarkRead marks the reader's unread messages in the conversation as
// read and sends a read receipt to the other participant. Re-marking
// an already-read conversation is a no-op on the store but still
// produces a receipt, which keeps the two read paths (HTTP and
// websocket) safe to race.
func (r *Router) MarkRead(ctx context.Context, conversationID, readerID, otherID string) (int64, time.Time, error) {
	at := time.Now().UTC()
	n, err := r.messages.MarkConversationRead(ctx, conversationID, readerID, at)
	if err != nil {
		return 0, at, fmt.Errorf("mark read: %w", err)
	}
	r.deliver(otherID, EventReadReceipt, ReadReceiptEvent{
		Type:           EventReadReceipt,
		ConversationID: conversationID,
		ReadBy:         readerID,
		ReadAt:         at,
	})
	return n, at, nil
}

// Notify persists a notification for its recipient and attempts live
// delivery.
func (r *Router) Notify(ctx context.Context, n *models.Notification) error {
	if err := r.notifications.Insert(ctx, n); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}
	r.deliver(n.UserID, EventNotification, NotificationEvent{Type: EventNotification, Notification: n})
	r.publish("notification.created", n)
	return nil
}

func (r *Router) deliver(userID, eventType string, payload any) {
	if r.hub.Deliver(userID, payload) {
		metrics.EventsDelivered.WithLabelValues(eventType).Inc()
	} else {
		metrics.EventsDropped.WithLabelValues(eventType).Inc()
	}
}

func (r *Router) publish(key string, record any) {
	if r.events == nil {
		return
	}
	b, err := json.Marshal(record)
	if err != nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.events.Publish(ctx, key, b); err != nil {
			r.log.Debugw("event publish failed", "key", key, "err", err)
		}
	}()
}
