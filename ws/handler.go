// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/campus-pulse/auth"
)

// Handler upgrades authenticated requests to websocket connections. Browsers
// cannot set headers on the upgrade request, so the token rides in the
// ?token= query parameter instead of the Authorization header.
type Handler struct {
	hub       *Hub
	jwtSecret string
	snapshots Snapshots
	upgrader  websocket.Upgrader
}

func NewHandler(hub *Hub, jwtSecret string, snapshots Snapshots) *Handler {
	return &Handler{
		hub:       hub,
		jwtSecret: jwtSecret,
		snapshots: snapshots,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Token auth is the access control; origin checks add nothing
			// for a token-bearing client.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	userID, err := auth.ParseToken(token, h.jwtSecret)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(h.hub, conn, userID)
	h.hub.register(c)

	if err := h.sendInitial(c); err != nil {
		slog.Error("sending initial snapshot", "clientId", c.id, "error", err)
		h.hub.unregister(c)
		conn.Close()
		return
	}

	slog.Info("websocket client connected", "clientId", c.id, "userId", userID)

	go c.writePump()
	go c.readPump()
}

// sendInitial writes the full-state frame directly on the connection before
// the pumps start, so the client always sees current state first.
func (h *Handler) sendInitial(c *client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	checkIns, err := h.snapshots.CheckIns(ctx)
	if err != nil {
		return err
	}
	events, err := h.snapshots.Events(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(Message{
		Type:     "initial",
		CheckIns: checkIns,
		Events:   events,
	})
	if err != nil {
		return err
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}
