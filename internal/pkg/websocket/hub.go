package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/disa/mapa/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

// Event types pushed to dashboards
const (
	EventPersonnelCreated   = "personnel.created"
	EventPersonnelUpdated   = "personnel.updated"
	EventPersonnelDeleted   = "personnel.deleted"
	EventPersonnelImported  = "personnel.imported"
	EventInstitutionCreated = "institution.created"
	EventInstitutionUpdated = "institution.updated"
	EventInstitutionDeleted = "institution.deleted"
	EventLookupChanged      = "lookup.changed"
)

// Event tells connected dashboards that data changed and should be reloaded
type Event struct {
	Type      string      `json:"type"`
	ID        int64       `json:"id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts events to them
type Hub struct {
	clients map[*Client]bool

	// Channel for events published by the services
	broadcast chan *Event

	register   chan *Client
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	listenersMu sync.RWMutex
	listeners   []chan *Event

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	metrics.SetWebsocketClients(len(h.clients))

	h.logger.Info().
		Str("operator", client.username).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops client; h.mu must be held for writing
func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	metrics.SetWebsocketClients(len(h.clients))

	h.logger.Info().
		Str("operator", client.username).
		Str("addr", client.remoteAddr()).
		Msg("Client unregistered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.removeLocked(client)
	}
}

// broadcastEvent notifies listeners, then every client. Clients whose buffer is full are
// dropped; they reconnect and reload.
func (h *Hub) broadcastEvent(event *Event) {
	h.notifyListeners(event)

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Str("type", event.Type).
		Int("clientCount", len(h.clients)).
		Msg("Event broadcasted")
}

func (h *Hub) notifyListeners(event *Event) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.listeners {
		select {
		case listener <- event:
		default:
			h.logger.Warn().Msg("Skipped slow event listener")
		}
	}
}

// Publish queues an event for broadcast without blocking the caller. Events are dropped when
// the queue is full.
func (h *Hub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case h.broadcast <- &event:
		metrics.EventPublished(event.Type)
	default:
		h.logger.Warn().Str("type", event.Type).Msg("Event queue full, dropping event")
	}
}

// ClientsCount returns the number of connected clients
func (h *Hub) ClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// AddListener registers a channel that receives every broadcast event
func (h *Hub) AddListener(listener chan *Event) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, listener)
}

// RemoveListener removes a listener from the hub
func (h *Hub) RemoveListener(listener chan *Event) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.listeners {
		if l == listener {
			h.listeners[i] = h.listeners[len(h.listeners)-1]
			h.listeners = h.listeners[:len(h.listeners)-1]
			break
		}
	}
}
