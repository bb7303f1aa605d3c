// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/danielhkuo/campus-pulse/models"
)

// Client is a typed HTTP client for the API. Safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// do runs one request and unmarshals the envelope's data field into out
// (out may be nil for message-only endpoints).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	if !env.Success {
		return fmt.Errorf("%s %s: %d: %s", method, path, resp.StatusCode, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// CheckIns fetches active check-ins, optionally scoped to a cohort.
func (c *Client) CheckIns(ctx context.Context, cohort string) ([]models.CheckIn, error) {
	path := "/checkins"
	if cohort != "" {
		path += "?cohort=" + url.QueryEscape(cohort)
	}
	var checkIns []models.CheckIn
	err := c.do(ctx, http.MethodGet, path, nil, &checkIns)
	return checkIns, err
}

// Report creates or replaces the caller's check-in.
func (c *Client) Report(ctx context.Context, req models.ReportCheckInRequest) (models.CheckIn, error) {
	var checkIn models.CheckIn
	err := c.do(ctx, http.MethodPost, "/checkins", req, &checkIn)
	return checkIn, err
}

// UpdateStatus changes the status tag on an existing check-in.
func (c *Client) UpdateStatus(ctx context.Context, checkInID, statusTag string) error {
	return c.do(ctx, http.MethodPatch, "/checkins/"+checkInID+"/status",
		models.UpdateStatusRequest{StatusTag: statusTag}, nil)
}

// DeleteCheckIn removes the caller's check-in.
func (c *Client) DeleteCheckIn(ctx context.Context, checkInID string) error {
	return c.do(ctx, http.MethodDelete, "/checkins/"+checkInID, nil, nil)
}

// MyCheckIn returns the caller's live check-in, or nil.
func (c *Client) MyCheckIn(ctx context.Context) (*models.CheckIn, error) {
	var checkIn *models.CheckIn
	err := c.do(ctx, http.MethodGet, "/checkins/me", nil, &checkIn)
	return checkIn, err
}

// Events fetches all events.
func (c *Client) Events(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := c.do(ctx, http.MethodGet, "/events", nil, &events)
	return events, err
}

// CreateEvent creates an event with a fixed date or a poll.
func (c *Client) CreateEvent(ctx context.Context, req models.CreateEventRequest) (models.Event, error) {
	var event models.Event
	err := c.do(ctx, http.MethodPost, "/events", req, &event)
	return event, err
}

// Attend joins an event.
func (c *Client) Attend(ctx context.Context, eventID string) error {
	return c.do(ctx, http.MethodPost, "/events/"+eventID+"/attend", nil, nil)
}

// Unattend leaves an event.
func (c *Client) Unattend(ctx context.Context, eventID string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+eventID+"/attend", nil, nil)
}

// Vote casts or moves the caller's vote in an event's poll.
func (c *Client) Vote(ctx context.Context, eventID, optionID string) error {
	return c.do(ctx, http.MethodPost, "/events/"+eventID+"/poll/"+optionID+"/vote", nil, nil)
}

// DeleteEvent removes an event the caller created.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+eventID, nil, nil)
}

// Feedbacks fetches the feedback board.
func (c *Client) Feedbacks(ctx context.Context) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	err := c.do(ctx, http.MethodGet, "/feedback", nil, &feedbacks)
	return feedbacks, err
}

// CreateFeedback posts to the feedback board.
func (c *Client) CreateFeedback(ctx context.Context, req models.CreateFeedbackRequest) (models.Feedback, error) {
	var feedback models.Feedback
	err := c.do(ctx, http.MethodPost, "/feedback", req, &feedback)
	return feedback, err
}

// ToggleUpvote flips the caller's upvote on a feedback post.
func (c *Client) ToggleUpvote(ctx context.Context, feedbackID string) (bool, error) {
	var result struct {
		Upvoted bool `json:"upvoted"`
	}
	err := c.do(ctx, http.MethodPost, "/feedback/"+feedbackID+"/upvote", nil, &result)
	return result.Upvoted, err
}

// AddComment appends a comment to a feedback post.
func (c *Client) AddComment(ctx context.Context, feedbackID, content string) (models.FeedbackComment, error) {
	var comment models.FeedbackComment
	err := c.do(ctx, http.MethodPost, "/feedback/"+feedbackID+"/comments",
		models.AddCommentRequest{Content: content}, &comment)
	return comment, err
}
