// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/campus-pulse/models"
)

// Feedbacks owns feedback posts, their upvote sets, and comment threads.
type Feedbacks struct {
	db *sql.DB
}

func NewFeedbacks(db *sql.DB) *Feedbacks {
	return &Feedbacks{db: db}
}

var feedbackCategories = map[string]bool{
	models.FeedbackBug:         true,
	models.FeedbackFeature:     true,
	models.FeedbackImprovement: true,
	models.FeedbackOther:       true,
}

var feedbackStatuses = map[string]bool{
	models.FeedbackPending:    true,
	models.FeedbackInProgress: true,
	models.FeedbackCompleted:  true,
	models.FeedbackRejected:   true,
}

// Create inserts a new feedback post in pending status.
func (s *Feedbacks) Create(ctx context.Context, creatorID string, req models.CreateFeedbackRequest) (models.Feedback, error) {
	if req.Title == "" {
		return models.Feedback{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !feedbackCategories[req.Category] {
		return models.Feedback{}, fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (id, title, description, category, status, creator_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, req.Title, nullable(req.Description), req.Category, models.FeedbackPending, creatorID, now)
	if err != nil {
		return models.Feedback{}, err
	}

	creator, err := NewUsers(s.db).Get(ctx, creatorID)
	if err != nil {
		return models.Feedback{}, err
	}

	return models.Feedback{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      models.FeedbackPending,
		Creator:     creator,
		UpvoterIDs:  []string{},
		Comments:    []models.FeedbackComment{},
		CreatedAt:   now,
	}, nil
}

// List returns all feedback with upvoter ids and comment threads, newest
// post first, comments oldest first within each post.
func (s *Feedbacks) List(ctx context.Context) ([]models.Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.title, f.description, f.category, f.status, f.created_at,
		       u.id, u.display_name, u.avatar_url, u.cohort
		FROM feedback f
		JOIN app_user u ON f.creator_id = u.id
		ORDER BY f.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feedbacks := []models.Feedback{}
	index := map[string]int{}
	for rows.Next() {
		var fb models.Feedback
		var description, avatar, cohort sql.NullString
		err := rows.Scan(
			&fb.ID, &fb.Title, &description, &fb.Category, &fb.Status, &fb.CreatedAt,
			&fb.Creator.ID, &fb.Creator.DisplayName, &avatar, &cohort,
		)
		if err != nil {
			return nil, err
		}
		fb.Description = description.String
		fb.Creator.AvatarURL = avatar.String
		fb.Creator.Cohort = cohort.String
		fb.UpvoterIDs = []string{}
		fb.Comments = []models.FeedbackComment{}
		index[fb.ID] = len(feedbacks)
		feedbacks = append(feedbacks, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(feedbacks) == 0 {
		return feedbacks, nil
	}

	upRows, err := s.db.QueryContext(ctx, `
		SELECT feedback_id, user_id FROM feedback_upvote ORDER BY user_id
	`)
	if err != nil {
		return nil, err
	}
	defer upRows.Close()

	for upRows.Next() {
		var feedbackID, userID string
		if err := upRows.Scan(&feedbackID, &userID); err != nil {
			return nil, err
		}
		if i, ok := index[feedbackID]; ok {
			feedbacks[i].UpvoterIDs = append(feedbacks[i].UpvoterIDs, userID)
		}
	}
	if err := upRows.Err(); err != nil {
		return nil, err
	}

	commentRows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.feedback_id, c.content, c.created_at,
		       u.id, u.display_name, u.avatar_url, u.cohort
		FROM feedback_comment c
		JOIN app_user u ON c.user_id = u.id
		ORDER BY c.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer commentRows.Close()

	for commentRows.Next() {
		var cm models.FeedbackComment
		var avatar, cohort sql.NullString
		err := commentRows.Scan(
			&cm.ID, &cm.FeedbackID, &cm.Content, &cm.CreatedAt,
			&cm.User.ID, &cm.User.DisplayName, &avatar, &cohort,
		)
		if err != nil {
			return nil, err
		}
		cm.User.AvatarURL = avatar.String
		cm.User.Cohort = cohort.String
		if i, ok := index[cm.FeedbackID]; ok {
			feedbacks[i].Comments = append(feedbacks[i].Comments, cm)
		}
	}
	return feedbacks, commentRows.Err()
}

// ToggleUpvote flips the user's upvote on a feedback post. Reports whether
// the upvote is present after the call.
func (s *Feedbacks) ToggleUpvote(ctx context.Context, feedbackID, userID string) (bool, error) {
	if err := s.exists(ctx, feedbackID); err != nil {
		return false, err
	}
	return toggleMembership(ctx, s.db, "feedback_upvote", "feedback_id", feedbackID, userID)
}

// AddComment appends a comment to a feedback post's thread.
func (s *Feedbacks) AddComment(ctx context.Context, feedbackID, userID, content string) (models.FeedbackComment, error) {
	if content == "" {
		return models.FeedbackComment{}, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if err := s.exists(ctx, feedbackID); err != nil {
		return models.FeedbackComment{}, err
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback_comment (id, feedback_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, feedbackID, userID, content, now)
	if err != nil {
		return models.FeedbackComment{}, err
	}

	user, err := NewUsers(s.db).Get(ctx, userID)
	if err != nil {
		return models.FeedbackComment{}, err
	}

	return models.FeedbackComment{
		ID:         id,
		FeedbackID: feedbackID,
		User:       user,
		Content:    content,
		CreatedAt:  now,
	}, nil
}

// SetStatus moves a feedback post through its lifecycle. Not exposed over
// HTTP; status changes are a moderation concern.
func (s *Feedbacks) SetStatus(ctx context.Context, feedbackID, status string) error {
	if !feedbackStatuses[status] {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE feedback SET status = $1 WHERE id = $2
	`, status, feedbackID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Feedbacks) exists(ctx context.Context, feedbackID string) error {
	var found bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM feedback WHERE id = $1)
	`, feedbackID).Scan(&found)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
