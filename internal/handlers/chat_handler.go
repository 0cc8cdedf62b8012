package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/aliasadad-hash/Journeyman/internal/auth"
	"github.com/aliasadad-hash/Journeyman/internal/models"
	"github.com/aliasadad-hash/Journeyman/internal/realtime"
	"github.com/aliasadad-hash/Journeyman/internal/repository"
)

type ChatHandler struct {
	messages *repository.MessageRepo
	matches  *repository.MatchRepo
	users    *repository.UserRepo
	router   *realtime.Router
	log      *zap.SugaredLogger
}

func NewChatHandler(messages *repository.MessageRepo, matches *repository.MatchRepo,
	users *repository.UserRepo, router *realtime.Router, log *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{messages: messages, matches: matches, users: users, router: router, log: log}
}

type conversationSummary struct {
	ConversationID string          `json:"conversation_id"`
	OtherUserID    string          `json:"other_user_id"`
	OtherUser      *models.User    `json:"other_user,omitempty"`
	LastMessage    *models.Message `json:"last_message"`
	UnreadCount    int             `json:"unread_count"`
}

// Conversations folds the caller's recent messages into one entry per
// conversation, newest first, with unread counts.
func (h *ChatHandler) Conversations(c *fiber.Ctx) error {
	userID := auth.UserID(c)

	recent, err := h.messages.RecentForUser(c.Context(), userID, 200)
	if err != nil {
		return fail(c, err)
	}

	byConv := map[string]*conversationSummary{}
	var order []string
	for _, msg := range recent {
		summary, ok := byConv[msg.ConversationID]
		if !ok {
			otherID := msg.RecipientID
			if msg.SenderID != userID {
				otherID = msg.SenderID
			}
			summary = &conversationSummary{
				ConversationID: msg.ConversationID,
				OtherUserID:    otherID,
				LastMessage:    msg,
			}
			byConv[msg.ConversationID] = summary
			order = append(order, msg.ConversationID)
		}
		if msg.RecipientID == userID && !msg.Read {
			summary.UnreadCount++
		}
	}

	var otherIDs []string
	for _, convID := range order {
		otherIDs = append(otherIDs, byConv[convID].OtherUserID)
	}
	others, err := h.users.FindManyByIDs(c.Context(), otherIDs)
	if err != nil {
		return fail(c, err)
	}
	userMap := map[string]*models.User{}
	for _, u := range others {
		userMap[u.UserID] = u
	}

	out := make([]*conversationSummary, 0, len(order))
	for _, convID := range order {
		summary := byConv[convID]
		summary.OtherUser = userMap[summary.OtherUserID]
		out = append(out, summary)
	}
	return c.JSON(fiber.Map{"conversations": out})
}

// History returns the conversation with a user in chronological order
// and marks the caller's unread messages as read.
func (h *ChatHandler) History(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	otherID := c.Params("user_id")
	convID := realtime.ConversationID(userID, otherID)

	msgs, err := h.messages.History(c.Context(), convID, 100)
	if err != nil {
		return fail(c, err)
	}
	if _, _, err := h.router.MarkRead(c.Context(), convID, userID, otherID); err != nil {
		h.log.Warnw("mark read on history fetch failed", "conversation_id", convID, "err", err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

type sendMessageRequest struct {
	Content     string          `json:"content"`
	MessageType string          `json:"message_type"`
	MediaURL    string          `json:"media_url"`
	GifData     *models.GifData `json:"gif_data"`
}

// Send persists and delivers a text message. Requires a mutual match.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	otherID := c.Params("user_id")

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Content == "" {
		return badRequest(c, "content required")
	}

	matched, err := h.matches.AreMatched(c.Context(), userID, otherID)
	if err != nil {
		return fail(c, err)
	}
	if !matched {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "you can only message matched users"})
	}

	msgType := req.MessageType
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	msg := models.NewMessage(realtime.ConversationID(userID, otherID), userID, otherID, req.Content, msgType)
	msg.MediaURL = req.MediaURL

	if err := h.router.SendMessage(c.Context(), msg); err != nil {
		return fail(c, err)
	}

	me, err := h.users.FindByID(c.Context(), userID)
	if err == nil {
		preview := truncateRunes(req.Content, 50)
		h.notify(c, models.NewNotification(otherID, models.NotifNewMessage,
			"New Message", me.Name+": "+preview,
			map[string]any{"sender_id": userID, "conversation_id": msg.ConversationID}))
	}

	return c.JSON(msg)
}

// SendMedia persists and delivers a photo, video, GIF, or voice
// message.
func (h *ChatHandler) SendMedia(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	otherID := c.Params("user_id")

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	msgType := req.MessageType
	if msgType == "" {
		msgType = models.MessageTypeText
	}

	msg := models.NewMessage(realtime.ConversationID(userID, otherID), userID, otherID, req.Content, msgType)
	msg.MediaURL = req.MediaURL
	msg.GifData = req.GifData

	if err := h.router.SendMessage(c.Context(), msg); err != nil {
		return fail(c, err)
	}

	me, err := h.users.FindByID(c.Context(), userID)
	if err == nil {
		h.notify(c, models.NewNotification(otherID, models.NotifNewMessage,
			"New Message", me.Name+" sent you a "+mediaNoun(msgType),
			map[string]any{
				"sender_id":       userID,
				"conversation_id": msg.ConversationID,
			}))
	}

	return c.JSON(msg)
}

// MarkRead flips all unread messages from a user and pushes them a
// read receipt.
func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	otherID := c.Params("user_id")
	convID := realtime.ConversationID(userID, otherID)

	n, _, err := h.router.MarkRead(c.Context(), convID, userID, otherID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"marked_read": n})
}

// Typing forwards a live typing indicator. Nothing is stored; if the
// other user is offline the signal is dropped.
func (h *ChatHandler) Typing(c *fiber.Ctx) error {
	isTyping := c.QueryBool("is_typing", true)
	h.router.Typing(auth.UserID(c), c.Params("user_id"), isTyping)
	return c.JSON(fiber.Map{"sent": true})
}

type reactionRequest struct {
	Emoji string `json:"emoji"`
}

// AddReaction sets the caller's reaction on a message, replacing any
// prior reaction they placed on it.
func (h *ChatHandler) AddReaction(c *fiber.Ctx) error {
	var req reactionRequest
	if err := c.BodyParser(&req); err != nil || req.Emoji == "" {
		return badRequest(c, "emoji required")
	}
	if !models.ValidReactionEmoji(req.Emoji) {
		return badRequest(c, "invalid reaction emoji")
	}

	if _, err := h.router.AddReaction(c.Context(), c.Params("message_id"), auth.UserID(c), req.Emoji); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reaction added", "emoji": req.Emoji})
}

func (h *ChatHandler) RemoveReaction(c *fiber.Ctx) error {
	err := h.router.RemoveReaction(c.Context(), c.Params("message_id"), auth.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reaction removed"})
}

func (h *ChatHandler) notify(c *fiber.Ctx, n *models.Notification) {
	if err := h.router.Notify(c.Context(), n); err != nil {
		h.log.Warnw("notification failed", "type", n.Type, "user_id", n.UserID, "err", err)
	}
}

// truncateRunes cuts s to at most n runes, never splitting a
// multi-byte character.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func mediaNoun(msgType string) string {
	switch msgType {
	case models.MessageTypeImage:
		return "photo"
	case models.MessageTypeVideo:
		return "video"
	case models.MessageTypeGif:
		return "GIF"
	case models.MessageTypeVoice:
		return "voice message"
	default:
		return "message"
	}
}
