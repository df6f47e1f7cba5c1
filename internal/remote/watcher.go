package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
)

// Event is a change notification pushed by the store over WebSocket.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ChangedPayload is the payload of a "changed" event.
type ChangedPayload struct {
	Resource string `json:"resource"`
}

// EventChanged is emitted after any successful mutation of a resource.
const EventChanged = "changed"

// Watch connects to the store's change feed and invokes onEvent for every
// notification until the context is cancelled or the connection drops.
// Callers typically feed "changed" events into catalog.Cache.Reload.
func (c *Client) Watch(ctx context.Context, onEvent func(Event)) error {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/ws"

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("watch %s: %w", wsURL, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Unblock ReadJSON when the caller gives up.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("watch: %w", err)
		}
		onEvent(ev)
	}
}
