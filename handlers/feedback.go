// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/campus-pulse/middleware"
	"github.com/danielhkuo/campus-pulse/models"
	"github.com/danielhkuo/campus-pulse/store"
)

// FeedbackHandler serves the feedback board endpoints. Feedback is not part
// of the push protocol; clients pick changes up on their next poll.
type FeedbackHandler struct {
	feedbacks *store.Feedbacks
}

func NewFeedbackHandler(feedbacks *store.Feedbacks) *FeedbackHandler {
	return &FeedbackHandler{feedbacks: feedbacks}
}

// List handles GET /feedback.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.feedbacks.List(r.Context())
	if err != nil {
		slog.Error("listing feedback", "error", err)
		middleware.Error(w, http.StatusInternalServerError, "Failed to fetch feedback")
		return
	}
	middleware.Success(w, http.StatusOK, feedbacks)
}

// Create handles POST /feedback.
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req models.CreateFeedbackRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	feedback, err := h.feedbacks.Create(r.Context(), userID, req)
	if errors.Is(err, store.ErrValidation) {
		middleware.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("creating feedback", "error", err)
		middleware.Error(w, http.StatusInternalServerError, "Failed to create feedback")
		return
	}

	middleware.Success(w, http.StatusCreated, feedback)
}

// ToggleUpvote handles POST /feedback/{id}/upvote.
func (h *FeedbackHandler) ToggleUpvote(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	feedbackID := r.PathValue("id")

	upvoted, err := h.feedbacks.ToggleUpvote(r.Context(), feedbackID, userID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.Error(w, http.StatusNotFound, "Feedback not found")
		return
	}
	if err != nil {
		slog.Error("toggling upvote", "feedbackId", feedbackID, "error", err)
		middleware.Error(w, http.StatusInternalServerError, "Failed to toggle upvote")
		return
	}

	middleware.Success(w, http.StatusOK, map[string]bool{"upvoted": upvoted})
}

// AddComment handles POST /feedback/{id}/comments.
func (h *FeedbackHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	feedbackID := r.PathValue("id")

	var req models.AddCommentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.feedbacks.AddComment(r.Context(), feedbackID, userID, req.Content)
	if errors.Is(err, store.ErrValidation) {
		middleware.Error(w, http.StatusBadRequest, "content is required")
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		middleware.Error(w, http.StatusNotFound, "Feedback not found")
		return
	}
	if err != nil {
		slog.Error("adding comment", "feedbackId", feedbackID, "error", err)
		middleware.Error(w, http.StatusInternalServerError, "Failed to add comment")
		return
	}

	middleware.Success(w, http.StatusCreated, comment)
}
