// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/campus-pulse/middleware"
	"github.com/danielhkuo/campus-pulse/models"
	"github.com/danielhkuo/campus-pulse/store"
	"github.com/danielhkuo/campus-pulse/ws"
)

// EventHandler serves the event and poll endpoints.
type EventHandler struct {
	events *store.Events
	hub    *ws.Hub
}

func NewEventHandler(events *store.Events, hub *ws.Hub) *EventHandler {
	return &EventHandler{events: events, hub: hub}
}

// List handles GET /events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		slog.Error("listing events", "error", err)
		middleware.Error(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	middleware.Success(w, http.StatusOK, events)
}

// Create handles POST /events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req models.CreateEventRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := h.events.Create(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, "creating event", err)
		return
	}

	h.broadcast(r.Context())
	middleware.Success(w, http.StatusCreated, event)
}

// Attend handles POST /events/{id}/attend.
func (h *EventHandler) Attend(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	eventID := r.PathValue("id")

	if err := h.events.Attend(r.Context(), eventID, userID); err != nil {
		h.writeError(w, "attending event", err)
		return
	}

	h.broadcast(r.Context())
	middleware.SuccessMessage(w, http.StatusOK, "Attending")
}

// Unattend handles DELETE /events/{id}/attend.
func (h *EventHandler) Unattend(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	eventID := r.PathValue("id")

	if err := h.events.Unattend(r.Context(), eventID, userID); err != nil {
		h.writeError(w, "leaving event", err)
		return
	}

	h.broadcast(r.Context())
	middleware.SuccessMessage(w, http.StatusOK, "No longer attending")
}

// Vote handles POST /events/{id}/poll/{optionId}/vote.
func (h *EventHandler) Vote(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	eventID := r.PathValue("id")
	optionID := r.PathValue("optionId")

	if err := h.events.Vote(r.Context(), eventID, optionID, userID); err != nil {
		h.writeError(w, "recording vote", err)
		return
	}

	h.broadcast(r.Context())
	middleware.SuccessMessage(w, http.StatusOK, "Vote recorded")
}

// Remove handles DELETE /events/{id}.
func (h *EventHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	eventID := r.PathValue("id")

	if err := h.events.Remove(r.Context(), eventID, userID); err != nil {
		h.writeError(w, "deleting event", err)
		return
	}

	h.broadcast(r.Context())
	middleware.SuccessMessage(w, http.StatusOK, "Event deleted")
}

// writeError maps store sentinels onto status codes. Anything unmapped is
// logged and hidden behind a generic 500.
func (h *EventHandler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		middleware.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNoPoll):
		middleware.Error(w, http.StatusBadRequest, "Event has no poll")
	case errors.Is(err, store.ErrNotFound):
		middleware.Error(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, store.ErrUnknownOption):
		middleware.Error(w, http.StatusNotFound, "Poll option not found")
	case errors.Is(err, store.ErrForbidden):
		middleware.Error(w, http.StatusForbidden, "Only the creator can do that")
	case errors.Is(err, store.ErrCreatorCannotLeave):
		middleware.Error(w, http.StatusForbidden, "Creator cannot leave their own event")
	case errors.Is(err, store.ErrAlreadyAttending):
		middleware.Error(w, http.StatusConflict, "Already attending")
	case errors.Is(err, store.ErrPollLocked):
		middleware.Error(w, http.StatusConflict, "Poll is closed")
	default:
		slog.Error(op, "error", err)
		middleware.Error(w, http.StatusInternalServerError, "Something went wrong")
	}
}

func (h *EventHandler) broadcast(ctx context.Context) {
	events, err := h.events.List(ctx)
	if err != nil {
		slog.Error("building event broadcast", "error", err)
		return
	}
	h.hub.BroadcastEvents(events)
}
