package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testHub(mirrors ...PresenceMirror) *Hub {
	return NewHub(zap.NewNop().Sugar(), mirrors...)
}

// drain empties a client's pending events and returns how many there were.
func drain(c *Client) int {
	n := 0
	for {
		select {
		case <-c.send:
			n++
		default:
			return n
		}
	}
}

// recv pulls one pending event or fails the test.
func recv(t *testing.T, c *Client) any {
	t.Helper()
	select {
	case v := <-c.send:
		return v
	default:
		t.Fatalf("expected a pending event, got none")
		return nil
	}
}

func TestRegisterReplacesPriorConnection(t *testing.T) {
	h := testHub()
	first := NewClient("user_a", nil)
	second := NewClient("user_a", nil)

	h.Register("user_a", first)
	h.Register("user_a", second)

	if !h.IsOnline("user_a") {
		t.Fatalf("user_a should be online after re-register")
	}

	drain(first)
	drain(second)

	if !h.Deliver("user_a", "payload") {
		t.Fatalf("deliver to online user failed")
	}
	if got := drain(second); got != 1 {
		t.Fatalf("replacement connection should receive the event, got %d", got)
	}
	if got := drain(first); got != 0 {
		t.Fatalf("replaced connection should receive nothing, got %d", got)
	}

	select {
	case <-first.done:
	default:
		t.Fatalf("replaced connection should be closed")
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	h := testHub()

	// never registered
	h.Unregister("ghost")
	if h.IsOnline("ghost") {
		t.Fatalf("ghost should not be online")
	}

	c := NewClient("user_a", nil)
	h.Register("user_a", c)
	h.Unregister("user_a")
	h.Unregister("user_a")

	if h.IsOnline("user_a") {
		t.Fatalf("user_a should be offline")
	}
	st, ok := h.Presence("user_a")
	if !ok || st.Online {
		t.Fatalf("presence should record offline state, got %+v ok=%v", st, ok)
	}
}

func TestDeliverToAbsentUserReturnsFalse(t *testing.T) {
	h := testHub()
	if h.Deliver("nobody", "x") {
		t.Fatalf("deliver to absent user should return false")
	}
}

func TestDeliverToDeadChannelUnregisters(t *testing.T) {
	h := testHub()
	c := NewClient("user_a", nil)
	h.Register("user_a", c)
	c.close()

	if h.Deliver("user_a", "x") {
		t.Fatalf("deliver on closed channel should report false")
	}
	if h.IsOnline("user_a") {
		t.Fatalf("failed delivery should degrade into unregister")
	}
}

func TestDisconnectBroadcastsToOthersOnly(t *testing.T) {
	h := testHub()
	a := NewClient("user_a", nil)
	b := NewClient("user_b", nil)
	c := NewClient("user_c", nil)
	h.Register("user_a", a)
	h.Register("user_b", b)
	h.Register("user_c", c)

	drain(a)
	drain(b)
	drain(c)

	h.Unregister("user_a")

	for _, cl := range []*Client{b, c} {
		ev, ok := recv(t, cl).(StatusUpdateEvent)
		if !ok {
			t.Fatalf("expected StatusUpdateEvent, got %T", ev)
		}
		if ev.UserID != "user_a" || ev.Online {
			t.Fatalf("unexpected status event %+v", ev)
		}
		if n := drain(cl); n != 0 {
			t.Fatalf("expected exactly one broadcast, got %d extra", n)
		}
	}
	if n := drain(a); n != 0 {
		t.Fatalf("disconnected user must not receive its own broadcast, got %d", n)
	}
}

func TestConnectBroadcastsOnlineStatus(t *testing.T) {
	h := testHub()
	a := NewClient("user_a", nil)
	h.Register("user_a", a)
	drain(a)

	b := NewClient("user_b", nil)
	h.Register("user_b", b)

	ev, ok := recv(t, a).(StatusUpdateEvent)
	if !ok || ev.UserID != "user_b" || !ev.Online {
		t.Fatalf("expected online status_update for user_b, got %+v", ev)
	}
	if n := drain(b); n != 0 {
		t.Fatalf("connecting user must not receive its own broadcast, got %d", n)
	}
}

type recordingMirror struct {
	mu    sync.Mutex
	calls []string
}

func (m *recordingMirror) SetPresence(_ context.Context, userID string, online bool, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := "offline"
	if online {
		state = "online"
	}
	m.calls = append(m.calls, userID+":"+state)
	return nil
}

func (m *recordingMirror) snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func TestPresenceMirroredBestEffort(t *testing.T) {
	mirror := &recordingMirror{}
	h := testHub(mirror)

	c := NewClient("user_a", nil)
	h.Register("user_a", c)
	h.Unregister("user_a")

	deadline := time.Now().Add(2 * time.Second)
	for {
		calls := mirror.snapshot()
		if len(calls) >= 2 {
			if calls[0] != "user_a:online" || calls[1] != "user_a:offline" {
				t.Fatalf("unexpected mirror calls %v", calls)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("mirror writes never arrived, got %v", calls)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
