package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event represents a real-time event to be sent to clients.
// Signal events carry no payload; the client reacts by refetching its state.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Client represents a single live connection bound to one user.
// The SSE handler drains Send and writes each frame to the wire.
type Client struct {
	ID     string
	UserID uint
	Send   chan []byte
}

// NewClient creates a client for the given user with a fresh binding key.
func NewClient(userID uint) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Send:   make(chan []byte, 16),
	}
}

// Hub is the in-memory connection registry: user ID -> set of live clients.
// It holds no durable state and starts empty on every process restart;
// clients re-register on reconnect.
type Hub struct {
	clients map[uint]map[*Client]bool
	mu      sync.RWMutex
	bridge  *Bridge
}

// GlobalHub is the singleton instance of our Hub.
var GlobalHub = NewHub()

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint]map[*Client]bool),
	}
}

// SetBridge attaches a pub/sub bridge so deliveries reach clients registered
// on other processes. Must be called before the hub starts taking traffic.
func (h *Hub) SetBridge(b *Bridge) {
	h.bridge = b
	go b.listen(h)
}

// Register binds a client to its user. A user may hold any number of
// simultaneously registered clients (multi-device); registering the same
// client twice is a no-op.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.UserID]; !ok {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true

	logrus.WithFields(logrus.Fields{
		"user_id":   client.UserID,
		"client_id": client.ID,
	}).Debug("client registered")
}

// Unregister removes a client binding when its connection closes.
// Idempotent: unregistering a client that was never registered, or that has
// already been removed, does nothing.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.Send) // Close the channel to signal the SSE handler to stop.
	if len(clients) == 0 {
		delete(h.clients, client.UserID)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   client.UserID,
		"client_id": client.ID,
	}).Debug("client unregistered")
}

// Deliver sends the named event to every client currently registered for the
// user. If no client is registered the event is silently dropped: there is no
// queueing for offline users, they recover state on their next fetch.
func (h *Hub) Deliver(userID uint, eventType string, payload interface{}) {
	event := Event{Type: eventType, Payload: payload}

	if h.bridge != nil {
		h.bridge.Publish(userID, event)
	}
	h.deliverLocal(userID, event)
}

// deliverLocal fans the event out to clients registered in this process only.
func (h *Hub) deliverLocal(userID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clients[userID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Error("failed to encode event")
		return
	}

	for client := range clients {
		// Use a non-blocking send to prevent a slow client from blocking the hub.
		select {
		case client.Send <- messageBytes:
		default:
			// Client channel is full, maybe they are disconnected or slow.
			// The unsubscribe logic will handle cleaning this up eventually.
		}
	}
}
