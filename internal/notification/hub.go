// internal/notification/hub.go

package notifications

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// WSEvent is the envelope pushed over the notification feed socket.
type WSEvent struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Hub maintains the active notification feed connections. One connection per
// user; a new connection replaces the old one.
type Hub struct {
	clients    map[int64]*Client
	clientsMux sync.RWMutex

	register   chan *Client
	unregister chan *Client

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Run() {
	defer h.cleanup()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if oldClient, exists := h.clients[client.userID]; exists {
		oldClient.close()
	}

	h.clients[client.userID] = client

	log.Printf("User %d connected to notification feed. Total clients: %d", client.userID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if current, exists := h.clients[client.userID]; exists && current == client {
		client.close()
		delete(h.clients, client.userID)

		log.Printf("User %d disconnected from notification feed. Total clients: %d", client.userID, len(h.clients))
	}
}

// SendToUser pushes a notification over the user's live feed connection.
// Offline users are skipped; the push channel covers them.
func (h *Hub) SendToUser(userID int64, notification *Notification) {
	h.clientsMux.RLock()
	client, exists := h.clients[userID]
	h.clientsMux.RUnlock()

	if !exists {
		return
	}

	event := WSEvent{
		Type:      "notification",
		Data:      mustMarshalJSON(notification),
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	select {
	case client.send <- data:
	default:
		go func() { h.unregister <- client }()
	}
}

func (h *Hub) IsUserOnline(userID int64) bool {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	_, exists := h.clients[userID]
	return exists
}

func (h *Hub) GetActiveConnections() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

func (h *Hub) cleanup() {
	h.clientsMux.Lock()
	for _, client := range h.clients {
		client.close()
	}
	h.clients = make(map[int64]*Client)
	h.clientsMux.Unlock()

	h.wg.Wait()

	close(h.register)
	close(h.unregister)
}

func (h *Hub) Shutdown() {
	h.cancel()
	h.wg.Wait()
}

func mustMarshalJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling: %v", err)
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(data)
}
