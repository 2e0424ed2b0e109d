package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait is the deadline for a single outbound write
	writeWait = 10 * time.Second
	// pongWait is how long a connection may stay silent
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds inbound frames
	maxMessageSize = 4096
	// sendBuffer is the per-client outbound queue size
	sendBuffer = 64
)

// Client is one websocket connection with its read/write pumps
type Client struct {
	id          string
	conn        *websocket.Conn
	send        chan []byte
	gateway     *Gateway
	logger      *slog.Logger
	connectedAt time.Time
}

func newClient(conn *websocket.Conn, gateway *Gateway, logger *slog.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		id:          id,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		gateway:     gateway,
		logger:      logger.With(slog.String("conn_id", id)),
		connectedAt: time.Now(),
	}
}

// ID returns the connection identifier
func (c *Client) ID() string {
	return c.id
}

// Send queues an event for this connection only, dropping on a full buffer
func (c *Client) Send(event EventType, payload any) {
	env, err := NewEnvelope(event, payload)
	if err != nil {
		c.logger.Error("failed to encode event",
			slog.String("event", string(event)),
			slog.String("error", err.Error()),
		)
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("message dropped - client buffer full",
			slog.String("event", string(event)))
	}
}

// SendError reports a client-input error to this connection only
func (c *Client) SendError(code, message string) {
	c.Send(EventError, ErrorPayload{Code: code, Message: message})
}

// readPump reads inbound envelopes and dispatches them until the
// connection drops
func (c *Client) readPump() {
	defer func() {
		c.gateway.disconnect(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("unexpected close", slog.String("error", err.Error()))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.SendError(CodeInvalidRequest, "malformed message")
			continue
		}

		c.gateway.dispatch(c, env)
	}
}

// writePump drains the send queue and keeps the connection alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
