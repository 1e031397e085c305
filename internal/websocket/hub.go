// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/flickpulse/internal/metrics"
	"github.com/tomtom215/flickpulse/internal/models"
)

// Message types for feed and control traffic.
const (
	MessageTypeInteraction = "interaction"
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
)

// Message is the envelope sent to feed clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts interaction events
// to them. It implements the event router's Broadcaster interface and runs
// as a supervised service.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     zerolog.Logger
}

// NewHub creates a hub.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With().Str("component", "websocket-hub").Logger(),
	}
}

// BroadcastInteraction queues an interaction for delivery to all connected
// clients. Non-blocking; with no hub capacity left the event is dropped,
// the feed is best effort.
func (h *Hub) BroadcastInteraction(rec *models.InteractionRecord) {
	msg := Message{Type: MessageTypeInteraction, Data: rec}
	select {
	case h.broadcast <- msg:
	default:
		metrics.WSErrors.WithLabelValues("broadcast_overflow").Inc()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// String implements fmt.Stringer for supervisor logging.
func (h *Hub) String() string {
	return "websocket-hub"
}

// Serve implements suture.Service. Lifecycle events take priority over
// broadcasts so client state is consistent before fan-out; on shutdown all
// clients are closed and ctx.Err() is returned.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		// Lifecycle first, non-blocking.
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.register:
			h.addClient(client)
			continue
		case client := <-h.unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	h.logger.Info().Int("total_clients", total).Msg("feed client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	h.logger.Info().Int("total_clients", total).Msg("feed client disconnected")
}

// fanOut delivers a message to every client in id order. A client whose
// send queue is full is dropped; a stalled reader must not stall the feed.
func (h *Hub) fanOut(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		select {
		case client.send <- msg:
			metrics.WSMessagesSent.Inc()
		default:
			metrics.WSErrors.WithLabelValues("client_overflow").Inc()
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	closed := len(h.clients)
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()

	metrics.WSConnections.Set(0)

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	h.logger.Info().
		Str("reason", reason).
		Int("clients_closed", closed).
		Msg("websocket hub stopped")
}
