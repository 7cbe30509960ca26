// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

// Package websocket pushes fleet snapshots to dashboard subscribers.
// The hub owns the client set; the broadcaster drives the periodic
// full-snapshot tick.
package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/harborwatch/internal/logging"
	"github.com/tomtom215/harborwatch/internal/metrics"
	"github.com/tomtom215/harborwatch/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// SnapshotFunc produces the current full-fleet frame. The hub calls it
// once per client registration so every subscriber sees the fleet
// immediately, before the first broadcast tick.
type SnapshotFunc func() models.SubscriberMessage

// Hub maintains the set of active subscribers and fans frames out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan models.SubscriberMessage
	Register   chan *Client
	Unregister chan *Client
	snapshot   SnapshotFunc
	mu         sync.RWMutex
}

// NewHub creates a hub. snapshot may be nil, in which case newly
// registered clients wait for the first broadcast tick.
func NewHub(snapshot SnapshotFunc) *Hub {
	return &Hub{
		broadcast:  make(chan models.SubscriberMessage, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		snapshot:   snapshot,
	}
}

// RunWithContext runs the hub event loop until ctx is canceled. Designed
// for suture supervision: on cancellation every client is closed and the
// context error is returned.
//
// DETERMINISM: Uses priority-based selection to ensure predictable
// behavior when multiple channels are ready simultaneously:
// - Priority 1: Context cancellation (shutdown)
// - Priority 2: Client lifecycle events (Register/Unregister)
// - Priority 3: Broadcast frames
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Priority 1: Check for shutdown (non-blocking)
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: Handle client lifecycle events (non-blocking check)
		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		// Priority 3: Handle broadcast frames or wait for any event
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case frame := <-h.broadcast:
			h.broadcastToClients(frame)
		}
	}
}

// addClient registers a subscriber and immediately hands it the current
// fleet snapshot.
func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client connected")

	if h.snapshot != nil {
		// A fresh client with a full send buffer is already broken.
		if client.trySend(h.snapshot()) {
			metrics.WSMessagesSent.Inc()
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.closeSend()
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

// Broadcast enqueues a frame for delivery to every subscriber. Dropped
// with a warning if the hub is saturated; the next tick carries a fresh
// full snapshot anyway.
func (h *Hub) Broadcast(frame models.SubscriberMessage) {
	select {
	case h.broadcast <- frame:
	default:
		logging.Warn().Str("type", frame.Type).Msg("broadcast channel full, dropping frame")
	}
}

// broadcastToClients fans one frame out to all clients in a deterministic
// order. Clients whose send buffer is full are dropped: a subscriber that
// cannot drain full snapshots has no use for a growing backlog of them.
// DETERMINISM: clients are sorted by their monotonic ID so delivery order
// is reproducible in tests.
func (h *Hub) broadcastToClients(frame models.SubscriberMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		if client.trySend(frame) {
			metrics.WSMessagesSent.Inc()
		} else {
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		client.closeSend()
		delete(h.clients, client)
		logging.Warn().Uint64("client_id", client.id).Msg("dropping slow websocket client")
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

// closeAllClients closes every subscriber in ID order during shutdown.
func (h *Hub) closeAllClients() {
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
		client.closeSend()
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logger := logging.WithComponent("websocket-hub")
	logger.Info().
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

// getShutdownReason maps the context error to a log label. Cancellation
// is expected behavior, not an error.
func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// GetClientCount returns the number of connected subscribers.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
