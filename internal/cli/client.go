package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mverkerk/rpsbattle/internal/ws"
)

// Client is a websocket client for the battle server
type Client struct {
	conn *websocket.Conn
}

// Dial connects to the server's websocket endpoint
func Dial(serverURL string) (*Client, error) {
	url := strings.TrimSuffix(serverURL, "/") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	return &Client{conn: conn}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Send writes one event envelope
func (c *Client) Send(event ws.EventType, payload any) error {
	env, err := ws.NewEnvelope(event, payload)
	if err != nil {
		return err
	}
	return c.conn.WriteJSON(env)
}

// Read blocks until the next event envelope arrives
func (c *Client) Read() (ws.Envelope, error) {
	var env ws.Envelope
	if err := c.conn.ReadJSON(&env); err != nil {
		return ws.Envelope{}, err
	}
	return env, nil
}

// ReadUntil reads events until one of the given types (or error) arrives
func (c *Client) ReadUntil(timeout time.Duration, events ...ws.EventType) (ws.Envelope, error) {
	deadline := time.Now().Add(timeout)
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return ws.Envelope{}, err
	}
	defer func() { _ = c.conn.SetReadDeadline(time.Time{}) }()

	for {
		env, err := c.Read()
		if err != nil {
			return ws.Envelope{}, err
		}
		if env.Event == ws.EventError {
			var ep ws.ErrorPayload
			_ = json.Unmarshal(env.Payload, &ep)
			return env, fmt.Errorf("%s (%s)", ep.Message, ep.Code)
		}
		for _, want := range events {
			if env.Event == want {
				return env, nil
			}
		}
	}
}

// CheckHealth performs a plain HTTP health check against the server
func CheckHealth(serverURL string) error {
	url := strings.TrimSuffix(serverURL, "/") + "/api/v1/health"
	url = strings.Replace(url, "ws://", "http://", 1)
	url = strings.Replace(url, "wss://", "https://", 1)

	httpClient := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpClient.Get(url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
