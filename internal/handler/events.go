package handler

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// feedSendBuffer is the per-client backlog; a client that falls
	// further behind than this is dropped rather than slowing the feed
	feedSendBuffer = 16
	feedWriteWait  = 5 * time.Second
)

// EventsHandler pushes newly created listings to connected WebSocket
// clients so marketplace views refresh without polling.
//
// Publish runs on the submission request path, so it must never block:
// each client gets a buffered send channel drained by its own writer
// goroutine, and a client whose buffer is full is disconnected.
type EventsHandler struct {
	logger         *slog.Logger
	allowedOrigins []string

	mu      sync.Mutex
	clients map[*feedClient]struct{}
}

type feedClient struct {
	conn *websocket.Conn
	send chan ListingEvent
}

// NewEventsHandler creates a new listing-feed handler
func NewEventsHandler(logger *slog.Logger, allowedOrigins []string) *EventsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &EventsHandler{
		logger:         logger,
		allowedOrigins: allowedOrigins,
		clients:        map[*feedClient]struct{}{},
	}
}

// ListingEvent is the wire form of a feed message
type ListingEvent struct {
	Catalog string      `json:"catalog"` // "crops" or "products"
	Listing interface{} `json:"listing"`
}

// upgrader is initialized per-request to use the instance's allowed origins
func (h *EventsHandler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Allow requests with no origin (e.g., non-browser clients)
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP handles GET /ws/listings
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := h.getUpgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &feedClient{conn: ws, send: make(chan ListingEvent, feedSendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("listing feed client connected", slog.Int("clients", count))

	go h.writeLoop(c)
	go h.readLoop(c)
}

// Publish queues a created listing for every connected client without
// blocking; clients that cannot keep up are dropped.
// Implements service.ListingListener.
func (h *EventsHandler) Publish(catalog string, listing interface{}) {
	event := ListingEvent{Catalog: catalog, Listing: listing}

	var stalled int
	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			delete(h.clients, c)
			close(c.send)
			stalled++
		}
	}
	h.mu.Unlock()

	if stalled > 0 {
		h.logger.Debug("dropped stalled feed clients", slog.Int("count", stalled))
	}
}

// writeLoop drains the client's queue onto the socket. Each write
// carries a deadline so a dead peer cannot park the goroutine.
func (h *EventsHandler) writeLoop(c *feedClient) {
	defer c.conn.Close()
	for event := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
		if err := c.conn.WriteJSON(event); err != nil {
			h.logger.Debug("feed write failed", slog.String("error", err.Error()))
			h.drop(c)
			return
		}
	}
}

// readLoop blocks until the client goes away; the feed is write-only
func (h *EventsHandler) readLoop(c *feedClient) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c)
			return
		}
	}
}

// drop unregisters a client exactly once; closing the send channel
// ends its writeLoop, which closes the socket
func (h *EventsHandler) drop(c *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Close disconnects all clients
func (h *EventsHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *EventsHandler) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
