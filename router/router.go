// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package router wires stores, handlers, and the websocket hub onto a
// net/http ServeMux.
package router

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/danielhkuo/campus-pulse/cliparse"
	"github.com/danielhkuo/campus-pulse/handlers"
	"github.com/danielhkuo/campus-pulse/middleware"
	"github.com/danielhkuo/campus-pulse/models"
	"github.com/danielhkuo/campus-pulse/store"
	"github.com/danielhkuo/campus-pulse/ws"
)

// NewRouter builds the full route table. Everything except /health and /ws
// sits behind bearer-token auth; /ws authenticates via its token query
// parameter because browsers cannot set headers on an upgrade request.
func NewRouter(db *sql.DB, cfg cliparse.Config, hub *ws.Hub) *http.ServeMux {
	presence := store.NewPresence(db)
	events := store.NewEvents(db)
	feedbacks := store.NewFeedbacks(db)

	checkInHandler := handlers.NewCheckInHandler(presence, hub)
	eventHandler := handlers.NewEventHandler(events, hub)
	feedbackHandler := handlers.NewFeedbackHandler(feedbacks)

	wsHandler := ws.NewHandler(hub, cfg.JWTSecret, ws.Snapshots{
		CheckIns: func(ctx context.Context) ([]models.CheckIn, error) {
			return presence.ListActive(ctx, "", "")
		},
		Events: events.List,
	})

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.SuccessMessage(w, http.StatusOK, "ok")
	})

	mux.Handle("GET /ws", wsHandler)

	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(cfg.JWTSecret, h))
	}

	mux.HandleFunc("GET /checkins", protected(checkInHandler.List))
	mux.HandleFunc("POST /checkins", protected(checkInHandler.Report))
	mux.HandleFunc("GET /checkins/me", protected(checkInHandler.Me))
	mux.HandleFunc("PATCH /checkins/{id}/status", protected(checkInHandler.UpdateStatus))
	mux.HandleFunc("DELETE /checkins/{id}", protected(checkInHandler.Delete))

	mux.HandleFunc("GET /events", protected(eventHandler.List))
	mux.HandleFunc("POST /events", protected(eventHandler.Create))
	mux.HandleFunc("POST /events/{id}/attend", protected(eventHandler.Attend))
	mux.HandleFunc("DELETE /events/{id}/attend", protected(eventHandler.Unattend))
	mux.HandleFunc("POST /events/{id}/poll/{optionId}/vote", protected(eventHandler.Vote))
	mux.HandleFunc("DELETE /events/{id}", protected(eventHandler.Remove))

	mux.HandleFunc("GET /feedback", protected(feedbackHandler.List))
	mux.HandleFunc("POST /feedback", protected(feedbackHandler.Create))
	mux.HandleFunc("POST /feedback/{id}/upvote", protected(feedbackHandler.ToggleUpvote))
	mux.HandleFunc("POST /feedback/{id}/comments", protected(feedbackHandler.AddComment))

	return mux
}
