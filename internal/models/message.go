package models

import "time"

const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVideo = "video"
	MessageTypeGif   = "gif"
	MessageTypeVoice = "voice"
)

// Reaction is one reactor's emoji on a message. A message holds at
// most one reaction per reactor; setting a new emoji replaces the old.
type Reaction struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	Emoji     string    `bson:"emoji" json:"emoji"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// GifData carries the Giphy attachment of a gif message.
type GifData struct {
	ID         string `bson:"id,omitempty" json:"id,omitempty"`
	URL        string `bson:"url,omitempty" json:"url,omitempty"`
	PreviewURL string `bson:"preview_url,omitempty" json:"preview_url,omitempty"`
}

type Message struct {
	MessageID      string     `bson:"message_id" json:"message_id"`
	ConversationID string     `bson:"conversation_id" json:"conversation_id"`
	SenderID       string     `bson:"sender_id" json:"sender_id"`
	RecipientID    string     `bson:"recipient_id" json:"recipient_id"`
	Content        string     `bson:"content" json:"content"`
	MessageType    string     `bson:"message_type" json:"message_type"`
	MediaURL       string     `bson:"media_url,omitempty" json:"media_url,omitempty"`
	GifData        *GifData   `bson:"gif_data,omitempty" json:"gif_data,omitempty"`
	Reactions      []Reaction `bson:"reactions" json:"reactions"`
	Read           bool       `bson:"read" json:"read"`
	ReadAt         *time.Time `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
}

// NewMessage builds an unread message with a fresh id and the
// conversation id derived from the participant pair.
func NewMessage(conversationID, senderID, recipientID, content, messageType string) *Message {
	if messageType == "" {
		messageType = MessageTypeText
	}
	return &Message{
		MessageID:      NewID("msg"),
		ConversationID: conversationID,
		SenderID:       senderID,
		RecipientID:    recipientID,
		Content:        content,
		MessageType:    messageType,
		Reactions:      []Reaction{},
		CreatedAt:      time.Now().UTC(),
	}
}

// ValidReactionEmoji reports whether emoji is one of the supported
// reaction emojis.
func ValidReactionEmoji(emoji string) bool {
	switch emoji {
	case "❤️", "😂", "😮", "😢", "😡", "👍", "👏", "🔥", "💯", "🎉":
		return true
	}
	return false
}
