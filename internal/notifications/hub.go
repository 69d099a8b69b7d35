package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/namgiho96/giho-blog/internal/middleware"
	"github.com/namgiho96/giho-blog/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	defaultMaxConnsPerPost = 500
	defaultMaxTotalConns   = 10000
)

var (
	ErrPostLimit   = errors.New("post subscriber limit reached")
	ErrServerLimit = errors.New("server connection limit reached")
	ErrShutdown    = errors.New("hub is shutting down")
)

// Hub maps post slug -> subscribed clients.
type Hub struct {
	mu         sync.RWMutex
	conns      map[string]map[*Client]struct{}
	totalConns int
	closed     bool

	maxPerPost int
	maxTotal   int

	notifier *Notifier
}

// NewHub creates a Hub. With an enabled notifier, Publish goes through Redis and
// StartWiring delivers what arrives; otherwise Publish broadcasts in-process.
func NewHub(notifier *Notifier) *Hub {
	return &Hub{
		conns:      make(map[string]map[*Client]struct{}),
		maxPerPost: defaultMaxConnsPerPost,
		maxTotal:   defaultMaxTotalConns,
		notifier:   notifier,
	}
}

// SetLimits overrides the connection limits. Non-positive values keep the current limit.
func (h *Hub) SetLimits(perPost, total int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if perPost > 0 {
		h.maxPerPost = perPost
	}
	if total > 0 {
		h.maxTotal = total
	}
}

// Register subscribes conn to slug. Returns an error if limits are exceeded.
func (h *Hub) Register(slug string, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrShutdown
	}
	if h.totalConns >= h.maxTotal {
		return nil, ErrServerLimit
	}

	m, ok := h.conns[slug]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[slug] = m
	}
	if len(m) >= h.maxPerPost {
		return nil, ErrPostLimit
	}

	client := newClient(h, conn, slug)
	m[client] = struct{}{}
	h.totalConns++
	observability.WebSocketConnectionsTotal.Inc()
	return client, nil
}

// Unregister removes the client and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.conns[client.Slug]
	if !ok {
		return
	}
	if _, exists := m[client]; !exists {
		return
	}
	delete(m, client)
	if len(m) == 0 {
		delete(h.conns, client.Slug)
	}
	h.totalConns--
	observability.WebSocketConnectionsTotal.Dec()
	close(client.Send)
}

// Subscribers returns the number of clients watching slug.
func (h *Hub) Subscribers(slug string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[slug])
}

// Broadcast sends message to every subscriber of slug.
func (h *Hub) Broadcast(slug string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[slug] {
		c.TrySend(message)
	}
}

// Publish delivers an event to the post's subscribers on every instance.
func (h *Hub) Publish(ctx context.Context, event Event) error {
	if h.notifier.Enabled() {
		return h.notifier.Publish(ctx, event)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.Broadcast(event.Slug, payload)
	return nil
}

// StartWiring forwards events arriving on Redis post channels to local subscribers.
func (h *Hub) StartWiring(ctx context.Context) error {
	return h.notifier.StartPatternSubscriber(ctx, func(channel, payload string) {
		slug, ok := SlugFromChannel(channel)
		if !ok {
			middleware.Logger.Warn("invalid interaction channel", "channel", channel)
			return
		}
		h.Broadcast(slug, []byte(payload))
	})
}

// Shutdown rejects new subscribers and closes every send channel. Each client's
// WritePump then sends the going-away close frame and closes its socket.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	// WritePump owns every write on the connection: it sees the closed channel,
	// sends the going-away frame and closes the socket.
	for _, clients := range h.conns {
		for client := range clients {
			close(client.Send)
			observability.WebSocketConnectionsTotal.Dec()
		}
	}
	h.conns = make(map[string]map[*Client]struct{})
	h.totalConns = 0
	return nil
}
