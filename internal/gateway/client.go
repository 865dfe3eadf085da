package gateway

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 30 * time.Second

	// Maximum inbound message size in bytes
	maxMessageSize = 1024

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client represents one live websocket connection
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
}

// NewClient creates a client for an upgraded connection
func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// trySend queues a message without blocking; slow clients drop messages
func (c *Client) trySend(data []byte, logger *slog.Logger) {
	select {
	case c.send <- data:
	default:
		logger.Warn("send buffer full, message dropped",
			slog.String("conn_id", c.ID))
	}
}

// writePump pushes queued messages and keepalive pings to the peer
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads inbound frames and hands them to the dispatcher. When
// the read loop ends the connection is treated as disconnected.
func (c *Client) readPump(g *Gateway) {
	defer func() {
		g.handleDisconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				g.logger.Warn("unexpected websocket close",
					slog.String("conn_id", c.ID),
					slog.String("error", err.Error()),
				)
			}
			return
		}
		g.Dispatch(c, message)
	}
}
