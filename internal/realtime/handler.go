package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/aliasadad-hash/Journeyman/internal/models"
)

const opTimeout = 5 * time.Second

// inboundEvent is the envelope a client sends over its connection.
// Which fields matter depends on Type.
type inboundEvent struct {
	Type           string          `json:"type"`
	RecipientID    string          `json:"recipient_id"`
	Content        string          `json:"content"`
	MessageType    string          `json:"message_type"`
	MediaURL       string          `json:"media_url"`
	GifData        *models.GifData `json:"gif_data"`
	IsTyping       *bool           `json:"is_typing"`
	MessageID      string          `json:"message_id"`
	Emoji          string          `json:"emoji"`
	ConversationID string          `json:"conversation_id"`
	SenderID       string          `json:"sender_id"`
}

// WSServer handles one websocket connection per user at /ws/:user_id.
//
// Connection lifecycle: the handshake has already been accepted when
// the handler runs (CONNECTING); Register moves the user to CONNECTED;
// every way out (client close, transport error, or a dead channel
// detected during delivery) funnels through the same unregister path,
// so the offline broadcast and the store mirror always fire exactly
// once per connection.
type WSServer struct {
	hub    *Hub
	router *Router
	log    *zap.SugaredLogger
}

func NewWSServer(hub *Hub, router *Router, log *zap.SugaredLogger) *WSServer {
	return &WSServer{hub: hub, router: router, log: log}
}

func (s *WSServer) Handler() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		userID := conn.Params("user_id")
		if userID == "" {
			_ = conn.Close()
			return
		}

		c := NewClient(userID, conn)
		go c.writePump()
		s.hub.Register(userID, c)
		defer s.hub.dropClient(userID, c)

		s.readLoop(conn, c)
	}
}

// readLoop processes inbound events strictly in arrival order. One
// event at a time per connection; other users' connections run their
// own loops concurrently.
func (s *WSServer) readLoop(conn *websocket.Conn, c *Client) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if !c.allowInbound() {
			continue
		}
		var ev inboundEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}
		s.dispatch(c.userID, &ev)
	}
}

func (s *WSServer) dispatch(userID string, ev *inboundEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	switch ev.Type {
	case "message":
		if ev.RecipientID == "" {
			return
		}
		m := models.NewMessage(
			ConversationID(userID, ev.RecipientID),
			userID,
			ev.RecipientID,
			ev.Content,
			ev.MessageType,
		)
		m.MediaURL = ev.MediaURL
		m.GifData = ev.GifData
		if err := s.router.SendMessage(ctx, m); err != nil {
			s.log.Errorw("ws message persist failed", "user_id", userID, "err", err)
		}

	case "typing":
		if ev.RecipientID == "" {
			return
		}
		isTyping := true
		if ev.IsTyping != nil {
			isTyping = *ev.IsTyping
		}
		s.router.Typing(userID, ev.RecipientID, isTyping)

	case "reaction":
		if ev.MessageID == "" || ev.Emoji == "" {
			return
		}
		if _, err := s.router.AddReaction(ctx, ev.MessageID, userID, ev.Emoji); err != nil {
			s.log.Errorw("ws reaction failed", "user_id", userID, "err", err)
		}

	case "read":
		if ev.ConversationID == "" || ev.SenderID == "" {
			return
		}
		if _, _, err := s.router.MarkRead(ctx, ev.ConversationID, userID, ev.SenderID); err != nil {
			s.log.Errorw("ws mark read failed", "user_id", userID, "err", err)
		}
	}
}
