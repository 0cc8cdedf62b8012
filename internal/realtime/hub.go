package realtime

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliasadad-hash/Journeyman/internal/metrics"
)

const mirrorTimeout = 5 * time.Second

// PresenceState is the in-memory, authoritative answer for one user.
// The store's online/last_active fields are a best-effort mirror and
// may lag behind it.
type PresenceState struct {
	Online   bool      `json:"online"`
	LastSeen time.Time `json:"last_seen"`
}

// PresenceMirror receives best-effort copies of presence transitions.
// Errors are logged and never fail the transition itself.
type PresenceMirror interface {
	SetPresence(ctx context.Context, userID string, online bool, at time.Time) error
}

// Hub is the connection registry: the single source of truth for which
// users are reachable right now. At most one live Client per user; a
// new registration for the same user replaces the old connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	status  map[string]PresenceState

	mirrors []PresenceMirror
	log     *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger, mirrors ...PresenceMirror) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		status:  make(map[string]PresenceState),
		mirrors: mirrors,
		log:     log,
	}
}

// Register installs c as the live connection for userID, replacing any
// previous one, and broadcasts the online transition to everyone else.
func (h *Hub) Register(userID string, c *Client) {
	now := time.Now().UTC()
	h.mu.Lock()
	old := h.clients[userID]
	h.clients[userID] = c
	h.status[userID] = PresenceState{Online: true, LastSeen: now}
	h.mu.Unlock()

	if old != nil && old != c {
		old.close()
	} else {
		metrics.ActiveConnections.Inc()
	}

	h.broadcastStatus(userID, true, now)
	h.mirror(userID, true, now)
}

// Unregister removes userID's live connection if present. Calling it
// for an absent user is a no-op; there is no second broadcast.
func (h *Hub) Unregister(userID string) {
	now := time.Now().UTC()
	h.mu.Lock()
	c, ok := h.clients[userID]
	delete(h.clients, userID)
	h.status[userID] = PresenceState{Online: false, LastSeen: now}
	h.mu.Unlock()

	if !ok {
		return
	}
	c.close()
	metrics.ActiveConnections.Dec()

	h.broadcastStatus(userID, false, now)
	h.mirror(userID, false, now)
}

// dropClient unregisters userID only if c is still its live
// connection. Used by the connection's own teardown and by failed
// deliveries, so a connection that was already replaced cannot evict
// its successor.
func (h *Hub) dropClient(userID string, c *Client) {
	now := time.Now().UTC()
	h.mu.Lock()
	cur, ok := h.clients[userID]
	if !ok || cur != c {
		h.mu.Unlock()
		c.close()
		return
	}
	delete(h.clients, userID)
	h.status[userID] = PresenceState{Online: false, LastSeen: now}
	h.mu.Unlock()

	c.close()
	metrics.ActiveConnections.Dec()

	h.broadcastStatus(userID, false, now)
	h.mirror(userID, false, now)
}

// IsOnline is an O(1) membership check against the live map.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	_, ok := h.clients[userID]
	h.mu.RUnlock()
	return ok
}

// Presence returns the last known state for userID. The bool reports
// whether the hub has ever seen this user.
func (h *Hub) Presence(userID string) (PresenceState, bool) {
	h.mu.RLock()
	s, ok := h.status[userID]
	h.mu.RUnlock()
	return s, ok
}

// Deliver pushes payload to userID's live connection. It returns false
// when the user is not present or the channel is dead; a dead channel
// degrades into an implicit unregister rather than an error.
func (h *Hub) Deliver(userID string, payload any) bool {
	h.mu.RLock()
	c := h.clients[userID]
	h.mu.RUnlock()
	if c == nil {
		return false
	}
	if err := c.enqueue(payload); err != nil {
		h.log.Infow("live delivery failed, dropping connection", "user_id", userID, "err", err)
		h.dropClient(userID, c)
		return false
	}
	return true
}

// broadcastStatus fans a status_update out to every live connection
// except the user whose state changed. Each target is delivered
// independently; one dead channel never blocks the rest.
func (h *Hub) broadcastStatus(userID string, online bool, at time.Time) {
	ev := StatusUpdateEvent{
		Type:      EventStatusUpdate,
		UserID:    userID,
		Online:    online,
		Timestamp: at,
	}

	h.mu.RLock()
	targets := make(map[string]*Client, len(h.clients))
	for uid, c := range h.clients {
		if uid != userID {
			targets[uid] = c
		}
	}
	h.mu.RUnlock()

	for uid, c := range targets {
		if err := c.enqueue(ev); err != nil {
			h.dropClient(uid, c)
		}
	}
}

// mirror copies the transition to the store(s) asynchronously.
// Failure here is non-fatal: registration never depends on it.
func (h *Hub) mirror(userID string, online bool, at time.Time) {
	if len(h.mirrors) == 0 {
		return
	}
	mirrors := h.mirrors
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		for _, m := range mirrors {
			if err := m.SetPresence(ctx, userID, online, at); err != nil {
				h.log.Debugw("presence mirror write failed", "user_id", userID, "err", err)
			}
		}
	}()
}
