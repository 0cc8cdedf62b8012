package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliasadad-hash/Journeyman/internal/models"
)

type memMessageStore struct {
	mu        sync.Mutex
	msgs      map[string]*models.Message
	insertErr error
}

func newMemMessageStore() *memMessageStore {
	return &memMessageStore{msgs: map[string]*models.Message{}}
}

func (s *memMessageStore) Insert(_ context.Context, m *models.Message) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs[m.MessageID] = m
	return nil
}

func (s *memMessageStore) SetReaction(_ context.Context, messageID string, r models.Reaction) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.msgs[messageID]
	if !ok {
		return nil, errors.New("message not found")
	}
	kept := m.Reactions[:0]
	for _, existing := range m.Reactions {
		if existing.UserID != r.UserID {
			kept = append(kept, existing)
		}
	}
	m.Reactions = append(kept, r)
	return m, nil
}

func (s *memMessageStore) ClearReaction(_ context.Context, messageID, reactorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.msgs[messageID]
	if !ok {
		return errors.New("message not found")
	}
	kept := m.Reactions[:0]
	for _, existing := range m.Reactions {
		if existing.UserID != reactorID {
			kept = append(kept, existing)
		}
	}
	m.Reactions = kept
	return nil
}

func (s *memMessageStore) MarkConversationRead(_ context.Context, conversationID, readerID string, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, m := range s.msgs {
		if m.ConversationID == conversationID && m.RecipientID == readerID && !m.Read {
			m.Read = true
			t := at
			m.ReadAt = &t
			n++
		}
	}
	return n, nil
}

func (s *memMessageStore) get(id string) *models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msgs[id]
}

func (s *memMessageStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}

type memNotificationStore struct {
	mu     sync.Mutex
	notifs []*models.Notification
}

func (s *memNotificationStore) Insert(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifs = append(s.notifs, n)
	return nil
}

func testRouter(msgs *memMessageStore) (*Router, *Hub) {
	h := testHub()
	r := NewRouter(h, msgs, &memNotificationStore{}, nil, zap.NewNop().Sugar())
	return r, h
}

func TestSendMessageDeliversToConnectedRecipient(t *testing.T) {
	msgs := newMemMessageStore()
	r, h := testRouter(msgs)

	a := NewClient("user_a", nil)
	b := NewClient("user_b", nil)
	h.Register("user_a", a)
	h.Register("user_b", b)
	drain(a)
	drain(b)

	m := models.NewMessage(ConversationID("user_a", "user_b"), "user_a", "user_b", "hey there", "")
	if err := r.SendMessage(context.Background(), m); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	ev, ok := recv(t, b).(MessageEvent)
	if !ok || ev.Type != EventNewMessage {
		t.Fatalf("recipient expected one new_message, got %+v", ev)
	}
	if n := drain(b); n != 0 {
		t.Fatalf("recipient got %d extra events", n)
	}

	echo, ok := recv(t, a).(MessageEvent)
	if !ok || echo.Type != EventMessageSent {
		t.Fatalf("sender expected message_sent echo, got %+v", echo)
	}

	stored := msgs.get(m.MessageID)
	if stored == nil || stored.Read {
		t.Fatalf("store should hold one unread message, got %+v", stored)
	}
	if msgs.count() != 1 {
		t.Fatalf("expected exactly one stored message, got %d", msgs.count())
	}
}

func TestMarkReadUpdatesStoreAndNotifiesSender(t *testing.T) {
	msgs := newMemMessageStore()
	r, h := testRouter(msgs)

	a := NewClient("user_a", nil)
	b := NewClient("user_b", nil)
	h.Register("user_a", a)
	h.Register("user_b", b)

	conv := ConversationID("user_a", "user_b")
	m := models.NewMessage(conv, "user_a", "user_b", "hello", "")
	if err := r.SendMessage(context.Background(), m); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	drain(a)
	drain(b)

	n, at, err := r.MarkRead(context.Background(), conv, "user_b", "user_a")
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one message marked read, got %d", n)
	}

	stored := msgs.get(m.MessageID)
	if !stored.Read || stored.ReadAt == nil || !stored.ReadAt.Equal(at) {
		t.Fatalf("stored message not marked read: %+v", stored)
	}

	rcpt, ok := recv(t, a).(ReadReceiptEvent)
	if !ok || rcpt.ConversationID != conv || rcpt.ReadBy != "user_b" {
		t.Fatalf("sender expected one read_receipt, got %+v", rcpt)
	}
	if extra := drain(a); extra != 0 {
		t.Fatalf("sender got %d extra events", extra)
	}

	// re-marking is a no-op on the store
	n2, _, err := r.MarkRead(context.Background(), conv, "user_b", "user_a")
	if err != nil {
		t.Fatalf("second MarkRead failed: %v", err)
	}
	if n2 != 0 {
		t.Fatalf("second MarkRead should change nothing, got %d", n2)
	}
}

func TestSendMessageOfflineRecipientPersistsOnly(t *testing.T) {
	msgs := newMemMessageStore()
	r, h := testRouter(msgs)

	a := NewClient("user_a", nil)
	h.Register("user_a", a)
	drain(a)

	m := models.NewMessage(ConversationID("user_a", "user_b"), "user_a", "user_b", "see you soon", "")
	if err := r.SendMessage(context.Background(), m); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	stored := msgs.get(m.MessageID)
	if stored == nil || stored.Read {
		t.Fatalf("offline recipient's message should be stored unread, got %+v", stored)
	}
	// sender still gets the echo
	echo, ok := recv(t, a).(MessageEvent)
	if !ok || echo.Type != EventMessageSent {
		t.Fatalf("sender expected message_sent echo, got %+v", echo)
	}
}

func TestTypingToOfflineRecipientIsDropped(t *testing.T) {
	msgs := newMemMessageStore()
	r, _ := testRouter(msgs)

	r.Typing("user_a", "user_b", true)

	if msgs.count() != 0 {
		t.Fatalf("typing must never write to the store")
	}
}

func TestReactionReplacesPriorReactionBySameUser(t *testing.T) {
	msgs := newMemMessageStore()
	r, h := testRouter(msgs)

	a := NewClient("user_a", nil)
	h.Register("user_a", a)

	conv := ConversationID("user_a", "user_b")
	m := models.NewMessage(conv, "user_a", "user_b", "hello", "")
	if err := r.SendMessage(context.Background(), m); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	drain(a)

	if _, err := r.AddReaction(context.Background(), m.MessageID, "user_b", "🔥"); err != nil {
		t.Fatalf("AddReaction failed: %v", err)
	}
	if _, err := r.AddReaction(context.Background(), m.MessageID, "user_b", "❤️"); err != nil {
		t.Fatalf("second AddReaction failed: %v", err)
	}

	stored := msgs.get(m.MessageID)
	if len(stored.Reactions) != 1 {
		t.Fatalf("expected one reaction entry after replacement, got %d", len(stored.Reactions))
	}
	if stored.Reactions[0].UserID != "user_b" || stored.Reactions[0].Emoji != "❤️" {
		t.Fatalf("expected last-write reaction, got %+v", stored.Reactions[0])
	}

	// sender was notified for each add
	for i := 0; i < 2; i++ {
		ev, ok := recv(t, a).(ReactionEvent)
		if !ok || ev.MessageID != m.MessageID || ev.UserID != "user_b" {
			t.Fatalf("sender expected reaction event, got %+v", ev)
		}
	}

	// second reactor, then remove only the first reactor's entry
	if _, err := r.AddReaction(context.Background(), m.MessageID, "user_c", "👍"); err != nil {
		t.Fatalf("AddReaction by second reactor failed: %v", err)
	}
	if err := r.RemoveReaction(context.Background(), m.MessageID, "user_b"); err != nil {
		t.Fatalf("RemoveReaction failed: %v", err)
	}
	stored = msgs.get(m.MessageID)
	if len(stored.Reactions) != 1 || stored.Reactions[0].UserID != "user_c" {
		t.Fatalf("remove should delete only user_b's entry, got %+v", stored.Reactions)
	}
}

func TestReactionBySenderNotEchoedBack(t *testing.T) {
	msgs := newMemMessageStore()
	r, h := testRouter(msgs)

	a := NewClient("user_a", nil)
	h.Register("user_a", a)

	m := models.NewMessage(ConversationID("user_a", "user_b"), "user_a", "user_b", "hi", "")
	if err := r.SendMessage(context.Background(), m); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	drain(a)

	if _, err := r.AddReaction(context.Background(), m.MessageID, "user_a", "😂"); err != nil {
		t.Fatalf("AddReaction failed: %v", err)
	}
	if n := drain(a); n != 0 {
		t.Fatalf("sender reacting to own message should not be notified, got %d events", n)
	}
}

func TestStoreFailureAbortsDelivery(t *testing.T) {
	msgs := newMemMessageStore()
	msgs.insertErr = errors.New("store down")
	r, h := testRouter(msgs)

	b := NewClient("user_b", nil)
	h.Register("user_b", b)
	drain(b)

	m := models.NewMessage(ConversationID("user_a", "user_b"), "user_a", "user_b", "lost", "")
	if err := r.SendMessage(context.Background(), m); err == nil {
		t.Fatalf("expected store failure to propagate")
	}
	if n := drain(b); n != 0 {
		t.Fatalf("no delivery may happen when the durable write failed, got %d events", n)
	}
}
