package realtime

import (
	"time"

	"github.com/aliasadad-hash/Journeyman/internal/models"
)

// Event type tags pushed over a live connection.
const (
	EventNewMessage   = "new_message"
	EventMessageSent  = "message_sent"
	EventTyping       = "typing"
	EventReaction     = "reaction"
	EventReadReceipt  = "read_receipt"
	EventStatusUpdate = "status_update"
	EventNotification = "notification"
)

type MessageEvent struct {
	Type    string          `json:"type"`
	Message *models.Message `json:"message"`
}

// TypingEvent is live-only: it is never persisted, and is silently
// dropped when the recipient has no connection.
type TypingEvent struct {
	Type     string `json:"type"`
	UserID   string `json:"user_id"`
	IsTyping bool   `json:"is_typing"`
}

type ReactionEvent struct {
	Type      string `json:"type"`
	MessageID string `json:"message_id"`
	UserID    string `json:"user_id"`
	Emoji     string `json:"emoji"`
}

type ReadReceiptEvent struct {
	Type           string    `json:"type"`
	ConversationID string    `json:"conversation_id"`
	ReadBy         string    `json:"read_by"`
	ReadAt         time.Time `json:"read_at"`
}

type StatusUpdateEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	Online    bool      `json:"online"`
	Timestamp time.Time `json:"timestamp"`
}

type NotificationEvent struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification"`
}
