package websocket

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is the live channel handle for one user connection. A superseded
// client (replaced in the hub by a newer registration) keeps its pumps until
// its own socket dies; sends to it fail safely via the closed flag.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 256),
	}
}

func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// IsOpen reports whether the channel can still accept messages.
func (c *Client) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// enqueue hands a frame to the write pump. Returns false when the channel is
// closed or its buffer is full; the caller treats that as a failed push.
func (c *Client) enqueue(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// shutdown marks the channel closed and releases the write pump. Idempotent.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// Run services the connection until it dies, then deregisters. Blocks in the
// caller's goroutine (the fiber websocket handler), matching how the upgrade
// middleware expects the connection to be consumed.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump drains inbound frames to keep control messages (pong, close)
// flowing. The notification channel is push-only, so payloads are discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.shutdown()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("WebSocket", "Unexpected close", map[string]interface{}{
					"user_id": c.userID,
					"error":   err.Error(),
				})
			}
			return
		}
	}
}

// writePump writes one frame per queued notification. No batching: each
// notification is a discrete message to the peer.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
