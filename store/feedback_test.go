// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/danielhkuo/campus-pulse/models"
	"github.com/danielhkuo/campus-pulse/testutil"
)

func setupFeedbacks(t *testing.T) (*Feedbacks, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, db, "author", "Alice", "")
	testutil.CreateTestUser(t, db, "fan", "Bob", "")
	return NewFeedbacks(db), context.Background()
}

func TestCreateFeedbackValidation(t *testing.T) {
	feedbacks, ctx := setupFeedbacks(t)

	tests := []struct {
		name string
		req  models.CreateFeedbackRequest
	}{
		{"missing title", models.CreateFeedbackRequest{Description: "x", Category: models.FeedbackBug}},
		{"unknown category", models.CreateFeedbackRequest{Title: "x", Category: "rant"}},
		{"missing category", models.CreateFeedbackRequest{Title: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := feedbacks.Create(ctx, "author", tt.req)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestFeedbackStartsPending(t *testing.T) {
	feedbacks, ctx := setupFeedbacks(t)

	fb, err := feedbacks.Create(ctx, "author", models.CreateFeedbackRequest{
		Title:       "Map is upside down",
		Description: "North is at the bottom on my phone.",
		Category:    models.FeedbackBug,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if fb.Status != models.FeedbackPending {
		t.Errorf("status = %q, want %q", fb.Status, models.FeedbackPending)
	}
	if fb.Creator.ID != "author" {
		t.Errorf("creator = %q, want author", fb.Creator.ID)
	}
}

func TestToggleUpvote(t *testing.T) {
	feedbacks, ctx := setupFeedbacks(t)
	fb, err := feedbacks.Create(ctx, "author", models.CreateFeedbackRequest{
		Title: "Dark mode", Category: models.FeedbackFeature,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	upvoted, err := feedbacks.ToggleUpvote(ctx, fb.ID, "fan")
	if err != nil {
		t.Fatalf("ToggleUpvote: %v", err)
	}
	if !upvoted {
		t.Error("first toggle should add the upvote")
	}

	upvoted, err = feedbacks.ToggleUpvote(ctx, fb.ID, "fan")
	if err != nil {
		t.Fatalf("ToggleUpvote: %v", err)
	}
	if upvoted {
		t.Error("second toggle should remove the upvote")
	}

	if _, err := feedbacks.ToggleUpvote(ctx, "no-such-feedback", "fan"); !errors.Is(err, ErrNotFound) {
		t.Errorf("toggling missing feedback: err = %v, want ErrNotFound", err)
	}
}

func TestCommentsKeepPostingOrder(t *testing.T) {
	feedbacks, ctx := setupFeedbacks(t)
	fb, err := feedbacks.Create(ctx, "author", models.CreateFeedbackRequest{
		Title: "Slow map", Description: "Pins take seconds to load.", Category: models.FeedbackImprovement,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, content := range []string{"Same here", "Fixed for me after update", "Still slow"} {
		if _, err := feedbacks.AddComment(ctx, fb.ID, "fan", content); err != nil {
			t.Fatalf("AddComment(%q): %v", content, err)
		}
	}
	if _, err := feedbacks.AddComment(ctx, fb.ID, "fan", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("empty comment: err = %v, want ErrValidation", err)
	}

	list, err := feedbacks.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d feedbacks, want 1", len(list))
	}
	comments := list[0].Comments
	if len(comments) != 3 {
		t.Fatalf("got %d comments, want 3", len(comments))
	}
	if comments[0].Content != "Same here" || comments[2].Content != "Still slow" {
		t.Errorf("comments out of posting order: %+v", comments)
	}
}

func TestSetStatus(t *testing.T) {
	feedbacks, ctx := setupFeedbacks(t)
	fb, err := feedbacks.Create(ctx, "author", models.CreateFeedbackRequest{
		Title: "Broken link", Description: "404 on the events tab.", Category: models.FeedbackBug,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := feedbacks.SetStatus(ctx, fb.ID, "shipped"); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown status: err = %v, want ErrValidation", err)
	}
	if err := feedbacks.SetStatus(ctx, "no-such-feedback", models.FeedbackCompleted); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing feedback: err = %v, want ErrNotFound", err)
	}
	if err := feedbacks.SetStatus(ctx, fb.ID, models.FeedbackInProgress); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	list, err := feedbacks.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list[0].Status != models.FeedbackInProgress {
		t.Errorf("status = %q, want %q", list[0].Status, models.FeedbackInProgress)
	}
}
