package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/salutem-pos/api/internal/remote"
)

func TestClient_WatchDeliversEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		msg, _ := json.Marshal(remote.Event{
			Type:    remote.EventChanged,
			Payload: json.RawMessage(`{"resource":"sandwiches"}`),
		})
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			t.Errorf("write: %v", err)
		}
		// Hold the connection open until the client cancels.
		conn.ReadMessage()
	}))
	t.Cleanup(srv.Close)

	c := remote.New(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan remote.Event, 1)
	errc := make(chan error, 1)
	go func() {
		errc <- c.Watch(ctx, func(ev remote.Event) {
			events <- ev
		})
	}()

	select {
	case ev := <-events:
		if ev.Type != remote.EventChanged {
			t.Errorf("event type: got %q, want %q", ev.Type, remote.EventChanged)
		}
		var payload remote.ChangedPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.Resource != "sandwiches" {
			t.Errorf("resource: got %q, want %q", payload.Resource, "sandwiches")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event within 2s")
	}

	cancel()
	select {
	case err := <-errc:
		if err == nil {
			t.Error("watch: got nil after cancel, want error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return after cancel")
	}
}
