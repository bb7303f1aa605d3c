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

// CheckInHandler serves the presence endpoints and pushes a fresh snapshot
// to the hub after every mutation.
type CheckInHandler struct {
	presence *store.Presence
	hub      *ws.Hub
}

func NewCheckInHandler(presence *store.Presence, hub *ws.Hub) *CheckInHandler {
	return &CheckInHandler{presence: presence, hub: hub}
}

// List handles GET /checkins. An optional ?cohort= narrows the list.
func (h *CheckInHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	cohort := r.URL.Query().Get("cohort")

	checkIns, err := h.presence.ListActive(r.Context(), userID, cohort)
	if err != nil {
		slog.Error("listing check-ins", "error", err)
		middleware.Error(w, http.StatusInternalServerError, "Failed to fetch check-ins")
		return
	}

	middleware.Success(w, http.StatusOK, checkIns)
}

// Report handles POST /checkins. Any existing check-in by the caller is
// replaced wholesale.
func (h *CheckInHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req models.ReportCheckInRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	checkIn, err := h.presence.Report(r.Context(), userID, req.PlaceName, req.Coordinates, req.StatusTag)
	if errors.Is(err, store.ErrValidation) {
		middleware.Error(w, http.StatusBadRequest, "placeName is required")
		return
	}
	if err != nil {
		slog.Error("reporting check-in", "userId", userID, "error", err)
		middleware.Error(w, http.StatusInternalServerError, "Failed to check in")
		return
	}

	h.broadcast(r.Context())
	middleware.Success(w, http.StatusCreated, checkIn)
}

// UpdateStatus handles PATCH /checkins/{id}/status. A missing or
// foreign record is a 404; the client treats it as a signal to re-report.
func (h *CheckInHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	checkInID := r.PathValue("id")

	var req models.UpdateStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ok, err := h.presence.UpdateStatus(r.Context(), checkInID, userID, req.StatusTag)
	if err != nil {
		slog.Error("updating check-in status", "checkInId", checkInID, "error", err)
		middleware.Error(w, http.StatusInternalServerError, "Failed to update status")
		return
	}
	if !ok {
		middleware.Error(w, http.StatusNotFound, "Check-in not found")
		return
	}

	h.broadcast(r.Context())
	middleware.SuccessMessage(w, http.StatusOK, "Status updated")
}

// Delete handles DELETE /checkins/{id}.
func (h *CheckInHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	checkInID := r.PathValue("id")

	err := h.presence.Delete(r.Context(), checkInID, userID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.Error(w, http.StatusNotFound, "Check-in not found")
		return
	}
	if errors.Is(err, store.ErrForbidden) {
		middleware.Error(w, http.StatusForbidden, "Not your check-in")
		return
	}
	if err != nil {
		slog.Error("deleting check-in", "checkInId", checkInID, "error", err)
		middleware.Error(w, http.StatusInternalServerError, "Failed to delete check-in")
		return
	}

	h.broadcast(r.Context())
	middleware.SuccessMessage(w, http.StatusOK, "Checked out")
}

// Me handles GET /checkins/me. Data is null when the caller has no live
// check-in; that is a normal response, not a 404.
func (h *CheckInHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	checkIn, err := h.presence.ActiveForUser(r.Context(), userID)
	if err != nil {
		slog.Error("fetching own check-in", "userId", userID, "error", err)
		middleware.Error(w, http.StatusInternalServerError, "Failed to fetch check-in")
		return
	}

	middleware.Success(w, http.StatusOK, checkIn)
}

// broadcast pushes the shared check-in snapshot. The empty requesting user
// keeps ghost-tagged records out of the fanout payload.
func (h *CheckInHandler) broadcast(ctx context.Context) {
	checkIns, err := h.presence.ListActive(ctx, "", "")
	if err != nil {
		slog.Error("building check-in broadcast", "error", err)
		return
	}
	h.hub.BroadcastCheckIns(checkIns)
}
