package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, buffer int) *Client {
	return &Client{
		hub:  hub,
		id:   uuid.New(),
		send: make(chan []byte, buffer),
	}
}

func TestHubRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub, 256)

	hub.register <- client

	// Give hub time to process
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if !hub.clients[client] {
		t.Fatal("client not registered")
	}
}

func TestHubUnregistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub, 256)

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.clients[client] {
		t.Fatal("client still registered after unregister")
	}

	// Send channel should be closed
	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("expected closed send channel")
		}
	default:
		t.Fatal("send channel not closed")
	}
}

func TestNotifyChangedReachesAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client1 := mockClient(hub, 256)
	client2 := mockClient(hub, 256)

	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	hub.NotifyChanged("sandwiches")

	for i, client := range []*Client{client1, client2} {
		select {
		case msg := <-client.send:
			var received Event
			if err := json.Unmarshal(msg, &received); err != nil {
				t.Fatalf("client %d: unmarshal message: %v", i+1, err)
			}
			if received.Type != EventChanged {
				t.Errorf("client %d: type: got %q, want %q", i+1, received.Type, EventChanged)
			}
			var payload changedPayload
			if err := json.Unmarshal(received.Payload, &payload); err != nil {
				t.Fatalf("client %d: unmarshal payload: %v", i+1, err)
			}
			if payload.Resource != "sandwiches" {
				t.Errorf("client %d: resource: got %q, want sandwiches", i+1, payload.Resource)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client %d did not receive event", i+1)
		}
	}
}

func TestSlowClientEvicted(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Buffer of 1: the second event cannot be delivered.
	slow := mockClient(hub, 1)

	hub.register <- slow
	time.Sleep(10 * time.Millisecond)

	hub.NotifyChanged("ingredients")
	hub.NotifyChanged("drinks")
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.clients[slow] {
		t.Fatal("slow client not evicted after full send buffer")
	}
}
