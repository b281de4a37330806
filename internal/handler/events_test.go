package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialFeed(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, h *EventsHandler, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.clientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", h.clientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFeedDeliversCreatedListings(t *testing.T) {
	h := NewEventsHandler(nil, nil)
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	conn := dialFeed(t, srv)
	defer conn.Close()
	waitForClients(t, h, 1)

	h.Publish("crops", map[string]string{"id": "crop-new", "name": "Mango"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event ListingEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if event.Catalog != "crops" {
		t.Fatalf("catalog = %q, want crops", event.Catalog)
	}
	listing, ok := event.Listing.(map[string]interface{})
	if !ok || listing["id"] != "crop-new" {
		t.Fatalf("unexpected listing payload: %#v", event.Listing)
	}
}

func TestPublishNeverBlocksOnStalledClient(t *testing.T) {
	h := NewEventsHandler(nil, nil)
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	// This client connects and never reads
	conn := dialFeed(t, srv)
	defer conn.Close()
	waitForClients(t, h, 1)

	// Publishing well past the per-client backlog must return promptly;
	// the submission path calls Publish inline and cannot afford to wait.
	// Payloads are large so socket buffers fill and the writer stalls.
	payload := strings.Repeat("x", 1<<16)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 512; i++ {
			h.Publish("crops", map[string]string{"data": payload})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Publish blocked behind a stalled client")
	}

	// The client that fell behind is unregistered
	waitForClients(t, h, 0)
}
