package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMirror keeps a best-effort copy of presence state in Redis under
// <prefix>:presence:<user_id>. The in-process registry stays
// authoritative; these keys only serve dashboards and other instances.
type RedisMirror struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type record struct {
	Status   string `json:"status"`
	LastSeen int64  `json:"last_seen"`
}

func NewRedisMirror(client *redis.Client, prefix string, ttl time.Duration) *RedisMirror {
	return &RedisMirror{client: client, prefix: prefix, ttl: ttl}
}

func (m *RedisMirror) key(userID string) string {
	return fmt.Sprintf("%s:presence:%s", m.prefix, userID)
}

func (m *RedisMirror) SetPresence(ctx context.Context, userID string, online bool, at time.Time) error {
	status := "offline"
	ttl := time.Duration(0)
	if online {
		status = "online"
		ttl = m.ttl
	}
	b, _ := json.Marshal(record{Status: status, LastSeen: at.Unix()})
	return m.client.Set(ctx, m.key(userID), b, ttl).Err()
}

// Get reports the mirrored status for a user. Missing keys read as
// offline with a zero last-seen.
func (m *RedisMirror) Get(ctx context.Context, userID string) (online bool, lastSeen time.Time, err error) {
	b, err := m.client.Get(ctx, m.key(userID)).Bytes()
	if err == redis.Nil {
		return false, time.Time{}, nil
	}
	if err != nil {
		return false, time.Time{}, err
	}
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return false, time.Time{}, err
	}
	return rec.Status == "online", time.Unix(rec.LastSeen, 0), nil
}
