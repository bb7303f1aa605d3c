// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/campus-pulse/models"
	"github.com/danielhkuo/campus-pulse/store"
	"github.com/danielhkuo/campus-pulse/testutil"
	"github.com/danielhkuo/campus-pulse/ws"
)

func setupEventHandler(t *testing.T) (*EventHandler, *store.Events) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, db, "creator", "Alice", "2027")
	testutil.CreateTestUser(t, db, "guest", "Bob", "2028")
	events := store.NewEvents(db)
	return NewEventHandler(events, ws.NewHub()), events
}

func seedPollEvent(t *testing.T, events *store.Events) models.Event {
	t.Helper()
	event, err := events.Create(context.Background(), "creator", models.CreateEventRequest{
		Title: "Study Session",
		Poll: &models.CreatePollRequest{
			Kind: models.PollKindDate,
			Options: []models.CreatePollOption{
				{Label: "Friday"},
				{Label: "Saturday"},
			},
		},
	})
	if err != nil {
		t.Fatalf("seeding event: %v", err)
	}
	return event
}

func TestCreateEventEndpoint(t *testing.T) {
	handler, _ := setupEventHandler(t)
	date := time.Now().UTC().Add(48 * time.Hour)

	tests := []struct {
		name       string
		body       models.CreateEventRequest
		wantStatus int
	}{
		{
			"fixed date event",
			models.CreateEventRequest{Title: "Picnic", Date: &date},
			http.StatusCreated,
		},
		{
			"poll event",
			models.CreateEventRequest{
				Title: "Movie Night",
				Poll: &models.CreatePollRequest{
					Kind:    models.PollKindDate,
					Options: []models.CreatePollOption{{Label: "Fri"}, {Label: "Sat"}},
				},
			},
			http.StatusCreated,
		},
		{
			"date and poll together",
			models.CreateEventRequest{
				Title: "Confused",
				Date:  &date,
				Poll: &models.CreatePollRequest{
					Kind:    models.PollKindDate,
					Options: []models.CreatePollOption{{Label: "Fri"}, {Label: "Sat"}},
				},
			},
			http.StatusBadRequest,
		},
		{
			"no title",
			models.CreateEventRequest{Date: &date},
			http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(testutil.MakeRequest(t, "POST", "/events", tt.body), "creator")
			rec := httptest.NewRecorder()
			handler.Create(rec, req)
			testutil.AssertStatus(t, rec, tt.wantStatus)
		})
	}
}

func TestAttendEndpoint(t *testing.T) {
	handler, events := setupEventHandler(t)
	event := seedPollEvent(t, events)

	attend := func(userID string) *httptest.ResponseRecorder {
		req := asUser(testutil.MakeRequest(t, "POST", "/events/"+event.ID+"/attend", nil), userID)
		req.SetPathValue("id", event.ID)
		rec := httptest.NewRecorder()
		handler.Attend(rec, req)
		return rec
	}

	testutil.AssertStatus(t, attend("guest"), http.StatusOK)
	testutil.AssertStatus(t, attend("guest"), http.StatusConflict)

	missing := asUser(testutil.MakeRequest(t, "POST", "/events/nope/attend", nil), "guest")
	missing.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	handler.Attend(rec, missing)
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestUnattendEndpoint(t *testing.T) {
	handler, events := setupEventHandler(t)
	event := seedPollEvent(t, events)
	if err := events.Attend(context.Background(), event.ID, "guest"); err != nil {
		t.Fatalf("seeding attendance: %v", err)
	}

	tests := []struct {
		name       string
		userID     string
		wantStatus int
	}{
		{"creator blocked", "creator", http.StatusForbidden},
		{"guest leaves", "guest", http.StatusOK},
		{"leaving again is fine", "guest", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(testutil.MakeRequest(t, "DELETE", "/events/"+event.ID+"/attend", nil), tt.userID)
			req.SetPathValue("id", event.ID)
			rec := httptest.NewRecorder()
			handler.Unattend(rec, req)
			testutil.AssertStatus(t, rec, tt.wantStatus)
		})
	}
}

func TestVoteEndpoint(t *testing.T) {
	handler, events := setupEventHandler(t)
	event := seedPollEvent(t, events)
	options := event.Poll.Options

	vote := func(userID, eventID, optionID string) *httptest.ResponseRecorder {
		req := asUser(testutil.MakeRequest(t, "POST", "/events/"+eventID+"/poll/"+optionID+"/vote", nil), userID)
		req.SetPathValue("id", eventID)
		req.SetPathValue("optionId", optionID)
		rec := httptest.NewRecorder()
		handler.Vote(rec, req)
		return rec
	}

	testutil.AssertStatus(t, vote("guest", event.ID, options[0].ID), http.StatusOK)
	// Moving the vote is a normal 200, not a conflict.
	testutil.AssertStatus(t, vote("guest", event.ID, options[1].ID), http.StatusOK)
	testutil.AssertStatus(t, vote("guest", event.ID, "no-such-option"), http.StatusNotFound)
	testutil.AssertStatus(t, vote("guest", "no-such-event", options[0].ID), http.StatusNotFound)

	got, err := events.Get(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n := len(got.Poll.Options[0].VoterIDs); n != 0 {
		t.Errorf("first option has %d voters after the move, want 0", n)
	}
	if n := len(got.Poll.Options[1].VoterIDs); n != 1 {
		t.Errorf("second option has %d voters, want 1", n)
	}
}

func TestRemoveEventEndpoint(t *testing.T) {
	handler, events := setupEventHandler(t)
	event := seedPollEvent(t, events)

	remove := func(userID string) *httptest.ResponseRecorder {
		req := asUser(testutil.MakeRequest(t, "DELETE", "/events/"+event.ID, nil), userID)
		req.SetPathValue("id", event.ID)
		rec := httptest.NewRecorder()
		handler.Remove(rec, req)
		return rec
	}

	testutil.AssertStatus(t, remove("guest"), http.StatusForbidden)
	testutil.AssertStatus(t, remove("creator"), http.StatusOK)
	testutil.AssertStatus(t, remove("creator"), http.StatusNotFound)
}

func TestListEventsEndpoint(t *testing.T) {
	handler, events := setupEventHandler(t)
	seedPollEvent(t, events)

	req := asUser(testutil.MakeRequest(t, "GET", "/events", nil), "guest")
	rec := httptest.NewRecorder()
	handler.List(rec, req)
	testutil.AssertStatus(t, rec, http.StatusOK)

	resp := testutil.DecodeResponse(t, rec)
	raw, _ := json.Marshal(resp.Data)
	var list []models.Event
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("decoding events: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d events, want 1", len(list))
	}
	if list[0].Poll == nil || len(list[0].Poll.Options) != 2 {
		t.Errorf("poll missing from listed event: %+v", list[0])
	}
	if list[0].Creator.DisplayName != "Alice" {
		t.Errorf("creator not joined into response: %+v", list[0].Creator)
	}
}
