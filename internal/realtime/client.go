package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/time/rate"
)

const (
	sendBufferSize = 256
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 * 1024
	inboundRPS     = 20
)

var (
	errClientClosed   = errors.New("client closed")
	errSendBufferFull = errors.New("send buffer full")
)

// Client is one live connection for one user. The write pump owns all
// writes to the underlying socket; everything else only enqueues.
type Client struct {
	userID    string
	conn      *websocket.Conn
	send      chan any
	done      chan struct{}
	limiter   *rate.Limiter
	closeOnce sync.Once
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		userID:  userID,
		conn:    conn,
		send:    make(chan any, sendBufferSize),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(rate.Limit(inboundRPS), inboundRPS),
	}
}

// allowInbound applies the per-connection inbound rate limit. Events
// over the limit are dropped, not queued.
func (c *Client) allowInbound() bool {
	return c.limiter.Allow()
}

// enqueue hands a payload to the write pump without blocking. A full
// buffer is treated the same as a closed client: the connection is not
// keeping up and gets torn down by the caller.
func (c *Client) enqueue(payload any) error {
	select {
	case <-c.done:
		return errClientClosed
	default:
	}
	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return errClientClosed
	default:
		return errSendBufferFull
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(time.Second))
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			b, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				// Closing the socket makes the read loop fail, which
				// funnels into the one unregister path.
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(time.Second)); err != nil {
				c.close()
				return
			}
		}
	}
}
