package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	readLimit    = 64 * 1024
	outboxSize   = 256
)

// Client is one websocket connection to a board room.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	ClientID    string
	UserID      string
	DisplayName string
	BoardID     string

	mu     sync.Mutex
	outbox chan *Message
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, displayName, boardID, clientID string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		ClientID:    clientID,
		UserID:      userID,
		DisplayName: displayName,
		BoardID:     boardID,
		outbox:      make(chan *Message, outboxSize),
	}
}

// Serve pumps messages both ways until the connection drops or ctx ends.
// The client leaves its room on return.
func (c *Client) Serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writeLoop(ctx)
	c.readLoop(ctx)
}

func (c *Client) readLoop(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(readLimit)
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if !isHangup(err) && ctx.Err() == nil {
				slog.Debug("read failed", "error", err, "user", c.UserID)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "user", c.UserID)
			c.Send(newMessage(TypeError, ErrorPayload{Message: "invalid message"}))
			continue
		}

		// Identity always comes from the connection.
		msg.UserID = c.UserID
		msg.ClientID = c.ClientID
		msg.BoardID = c.BoardID
		c.hub.handleMessage(ctx, c, &msg)
	}
}

func isHangup(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}

func (c *Client) writeLoop(ctx context.Context) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.outbox:
			if !ok {
				c.conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if err := c.write(ctx, msg); err != nil {
				slog.Debug("write failed", "error", err, "user", c.UserID, "type", msg.Type)
				c.conn.Close(websocket.StatusInternalError, "write failed")
				return
			}
		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) write(ctx context.Context, msg *Message) error {
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(wctx, c.conn, msg)
}

// Send queues msg for delivery. Messages to a closed client, or one that
// has fallen outboxSize messages behind, are dropped.
func (c *Client) Send(msg *Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.outbox <- msg:
	default:
		slog.Warn("client outbox full, dropping message", "user", c.UserID, "type", msg.Type)
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.outbox)
	}
}
