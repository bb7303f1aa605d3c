// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/danielhkuo/campus-pulse/models"
)

// Message is the wire envelope for every push frame. Type is "initial",
// "checkIns", or "events"; the initial frame carries both domain payloads
// inline instead of Data.
type Message struct {
	Type     string           `json:"type"`
	Data     interface{}      `json:"data,omitempty"`
	CheckIns []models.CheckIn `json:"checkIns,omitempty"`
	Events   []models.Event   `json:"events,omitempty"`
}

// Snapshots supplies the full-state payloads the hub pushes. The hub never
// touches the database itself; the router wires these to the stores.
type Snapshots struct {
	CheckIns func(ctx context.Context) ([]models.CheckIn, error)
	Events   func(ctx context.Context) ([]models.Event, error)
}

// Hub tracks connected clients and fans broadcast frames out to them. All
// registry access goes through the mutex; there is no free-running goroutine
// to shut down beyond the per-client pumps.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint64]*client
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint64]*client)}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(c.send)
		return
	}
	h.clients[c.id] = c
	slog.Debug("websocket client registered", "clientId", c.id, "total", len(h.clients))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	slog.Debug("websocket client unregistered", "clientId", c.id, "total", len(h.clients))
}

// BroadcastCheckIns pushes a full check-in snapshot to every client.
func (h *Hub) BroadcastCheckIns(checkIns []models.CheckIn) {
	h.broadcast(Message{Type: "checkIns", Data: checkIns})
}

// BroadcastEvents pushes a full event snapshot to every client.
func (h *Hub) BroadcastEvents(events []models.Event) {
	h.broadcast(Message{Type: "events", Data: events})
}

func (h *Hub) broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshaling broadcast frame", "type", msg.Type, "error", err)
		return
	}

	h.mu.RLock()
	// Slow clients are collected under the read lock and dropped after, so
	// one stalled connection cannot hold up the rest.
	var stalled []*client
	for _, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stalled {
		slog.Warn("dropping slow websocket client", "clientId", c.id)
		h.unregister(c)
		c.conn.Close()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects further registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[uint64]*client)
	h.mu.Unlock()

	for _, c := range clients {
		close(c.send)
		c.conn.Close()
	}
}
